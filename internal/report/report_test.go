package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/codalotl/filediff/internal/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparison() Comparison {
	original := diff.Lines{"alpha", "beta", "gamma"}
	revised := diff.Lines{"alpha", "BETA", "gamma", "delta"}
	return Comparison{
		OriginalName: "a.txt",
		RevisedName:  "b.txt",
		Original:     original,
		Revised:      revised,
		Patch:        diff.Diff(original, revised),
	}
}

func TestRenderText(t *testing.T) {
	exp := "The resources [a.txt] and [b.txt] are different:\n" +
		"\t[original] -> [position: 1, size: 1, lines: [beta]]\n" +
		"\t[revised]  -> [position: 1, size: 1, lines: [BETA]]\n" +
		"\t[original] -> [position: 3, size: 0, lines: []]\n" +
		"\t[revised]  -> [position: 3, size: 1, lines: [delta]]"
	assert.Equal(t, exp, RenderText(sampleComparison(), false))
}

func TestRenderText_Color(t *testing.T) {
	rendered := RenderText(sampleComparison(), true)
	assert.Contains(t, rendered, "\x1b[")
	assert.Contains(t, rendered, "[position: 1, size: 1, lines: [BETA]]")
}

func TestRenderUnified(t *testing.T) {
	exp := "--- a.txt\n" +
		"+++ b.txt\n" +
		"@@ -1,3 +1,4 @@\n" +
		" alpha\n" +
		"-beta\n" +
		"+BETA\n" +
		" gamma\n" +
		"+delta"
	assert.Equal(t, exp, RenderUnified(sampleComparison(), false, 3))
}

func TestRenderUnified_NoContext(t *testing.T) {
	exp := "--- a.txt\n" +
		"+++ b.txt\n" +
		"@@ -2,1 +2,1 @@\n" +
		"-beta\n" +
		"+BETA\n" +
		"@@ -3,0 +4,1 @@\n" +
		"+delta"
	assert.Equal(t, exp, RenderUnified(sampleComparison(), false, 0))
}

func TestRenderUnified_SeparateHunks(t *testing.T) {
	original := diff.SplitLines("1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")
	revised := diff.SplitLines("1\nX\n3\n4\n5\n6\n7\n8\nY\n10\n")
	c := Comparison{OriginalName: "f", RevisedName: "f", Original: original, Revised: revised, Patch: diff.Diff(original, revised)}

	exp := "--- f\n" +
		"+++ f\n" +
		"@@ -1,3 +1,3 @@\n" +
		" 1\n" +
		"-2\n" +
		"+X\n" +
		" 3\n" +
		"@@ -8,3 +8,3 @@\n" +
		" 8\n" +
		"-9\n" +
		"+Y\n" +
		" 10"
	assert.Equal(t, exp, RenderUnified(c, false, 1))
}

func TestRenderUnified_Color(t *testing.T) {
	rendered := RenderUnified(sampleComparison(), true, 3)
	assert.Contains(t, rendered, "\x1b[31m-beta\x1b[0m")
	assert.Contains(t, rendered, "\x1b[32m+BETA\x1b[0m")
	assert.Contains(t, rendered, "\x1b[35m@@ -1,3 +1,4 @@\x1b[0m")
}

func TestRenderPretty(t *testing.T) {
	exp := "a.txt -> b.txt:\n" +
		" alpha\n" +
		"-beta\n" +
		"+BETA\n" +
		" gamma\n" +
		"+delta"
	assert.Equal(t, exp, RenderPretty(sampleComparison(), false, 1))
}

func TestRenderPretty_Color(t *testing.T) {
	original := diff.Lines{"hello world"}
	revised := diff.Lines{"hello there"}
	c := Comparison{OriginalName: "a.go", RevisedName: "a.go", Original: original, Revised: revised, Patch: diff.Diff(original, revised)}

	// Methodology: if the Println looks good, grab actual from the assert.Equal failure and paste into exp.
	rendered := RenderPretty(c, true, 3)
	exp := "\x1b[1;36ma.go:\x1b[0m\n" +
		"\x1b[30m\x1b[48;5;224m-hello \x1b[0m\x1b[30m\x1b[48;5;217mworld\x1b[0m\x1b[30m\x1b[48;5;224m\x1b[0m\n" +
		"\x1b[30m\x1b[48;5;194m+hello \x1b[0m\x1b[30m\x1b[48;5;114mthere\x1b[0m\x1b[30m\x1b[48;5;194m\x1b[0m"
	assert.Equal(t, exp, rendered)
}

func TestRenderPretty_Header(t *testing.T) {
	d := diff.Diff(diff.Lines{"old"}, diff.Lines{"new"})

	cases := []struct {
		from, to string
		want     string
	}{
		{"", "", "-old"},
		{"", "b", "add b:"},
		{"a", "", "delete a:"},
		{"a", "a", "a:"},
		{"a", "b", "a -> b:"},
	}
	for _, tc := range cases {
		rendered := RenderPretty(Comparison{OriginalName: tc.from, RevisedName: tc.to, Original: diff.Lines{"old"}, Revised: diff.Lines{"new"}, Patch: d}, false, 3)
		first, _, _ := strings.Cut(rendered, "\n")
		assert.Equal(t, tc.want, first)
	}
}

func TestRenderSideBySide(t *testing.T) {
	exp := "a.txt -> b.txt:\n" +
		"alpha        alpha\n" +
		"beta       | BETA\n" +
		"gamma        gamma\n" +
		"           > delta"
	assert.Equal(t, exp, RenderSideBySide(sampleComparison(), false, 3, 23))
}

func TestRenderSideBySide_DeleteAndSeparator(t *testing.T) {
	original := diff.Lines{"a", "gone", "b", "c", "d", "e"}
	revised := diff.Lines{"a", "b", "c", "d", "E"}
	c := Comparison{Original: original, Revised: revised, Patch: diff.Diff(original, revised)}

	exp := "gone       <\n" +
		"-----------------------\n" +
		"e          | E"
	assert.Equal(t, exp, RenderSideBySide(c, false, 0, 10))
}

func TestTruncateAndFit(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefghijkl", 5))
	assert.Equal(t, "界界…", truncate("界界界", 5))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "    x", truncate("\tx", 5))

	assert.Equal(t, "ab   ", fit("ab", 5))
	assert.Equal(t, "界界…", fit("界界界", 5))
	assert.Equal(t, 5, textWidth(fit("界", 5)))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("UNIFIED")
	require.NoError(t, err)
	assert.Equal(t, FormatUnified, f)

	f, err = ParseFormat("side-by-side")
	require.NoError(t, err)
	assert.Equal(t, FormatSideBySide, f)

	_, err = ParseFormat("html")
	require.Error(t, err)
}

func TestReporter(t *testing.T) {
	r, err := New(FormatUnified, DefaultOptions)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Report(&buf, sampleComparison()))
	assert.True(t, strings.HasPrefix(buf.String(), "--- a.txt\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "+delta\n"))

	// Identical inputs report nothing.
	buf.Reset()
	same := diff.Lines{"x"}
	require.NoError(t, r.Report(&buf, Comparison{OriginalName: "a", RevisedName: "b", Original: same, Revised: same, Patch: diff.Diff(same, same)}))
	assert.Empty(t, buf.String())

	_, err = New(Format("nope"), DefaultOptions)
	require.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReporter_WriteError(t *testing.T) {
	r, err := New(FormatText, DefaultOptions)
	require.NoError(t, err)
	require.Error(t, r.Report(failingWriter{}, sampleComparison()))
}

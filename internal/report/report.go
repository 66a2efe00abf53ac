// Package report renders patches for humans.
//
// A Reporter writes one Comparison (two named line sequences and the Patch between them) to an io.Writer. Four formats are available:
//   - FormatText: one block per delta showing the original and revised chunks ("[original] -> [position: 1, size: 1, lines: [beta]]").
//   - FormatUnified: a unified diff with "@@" hunk headers and context lines.
//   - FormatPretty: like unified, without hunk headers, with intra-line highlighting of changed spans.
//   - FormatSideBySide: original and revised lines in two columns, sized to a terminal width.
//
// Comparisons with an empty Patch render as nothing.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/codalotl/filediff/internal/diff"
)

// Comparison is the input to a Reporter.
type Comparison struct {
	OriginalName string
	RevisedName  string
	Original     diff.Lines
	Revised      diff.Lines
	Patch        diff.Patch
}

// Reporter renders a Comparison to w.
type Reporter interface {
	Report(w io.Writer, c Comparison) error
}

// Format names a report format.
type Format string

const (
	FormatText       Format = "text"
	FormatUnified    Format = "unified"
	FormatPretty     Format = "pretty"
	FormatSideBySide Format = "side-by-side"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatUnified, FormatPretty, FormatSideBySide}

// ParseFormat parses s (case-insensitive) into a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown report format %q (want one of %s)", s, strings.Join(names, ", "))
}

// Options tune rendering.
type Options struct {
	Color   bool // Emit ANSI colors.
	Context int  // Unchanged lines shown around each change (unified, pretty, side-by-side). Negative is treated as 0.
	Width   int  // Total width for side-by-side. Values below minSideBySideWidth are raised to it.
}

// DefaultOptions are used by callers that have no preferences.
var DefaultOptions = Options{Context: 3, Width: 120}

// New returns a Reporter for format.
func New(format Format, opts Options) (Reporter, error) {
	if opts.Context < 0 {
		opts.Context = 0
	}
	var render func(Comparison) string
	switch format {
	case FormatText:
		render = func(c Comparison) string { return RenderText(c, opts.Color) }
	case FormatUnified:
		render = func(c Comparison) string { return RenderUnified(c, opts.Color, opts.Context) }
	case FormatPretty:
		render = func(c Comparison) string { return RenderPretty(c, opts.Color, opts.Context) }
	case FormatSideBySide:
		render = func(c Comparison) string { return RenderSideBySide(c, opts.Color, opts.Context, opts.Width) }
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
	return &reporter{render: render}, nil
}

type reporter struct {
	render func(Comparison) string
}

func (r *reporter) Report(w io.Writer, c Comparison) error {
	if c.Patch.Empty() {
		return nil
	}
	out := r.render(c)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// hunk is a group of deltas close enough to share context, along with the line ranges (end exclusive) it covers on each side.
type hunk struct {
	deltas    []diff.Delta
	origStart int
	origEnd   int
	revStart  int
	revEnd    int
}

// groupDeltas groups deltas separated by at most 2*contextSize matched lines, and widens each group by contextSize lines of context on each side (bounded by the sequence).
func groupDeltas(deltas []diff.Delta, originalLen int, contextSize int) []hunk {
	var hunks []hunk
	for i := 0; i < len(deltas); {
		j := i
		for j+1 < len(deltas) && deltas[j+1].Original.Position-deltas[j].Original.End() <= 2*contextSize {
			j++
		}
		first, last := deltas[i], deltas[j]

		origStart := max(0, first.Original.Position-contextSize)
		origEnd := min(originalLen, last.Original.End()+contextSize)
		hunks = append(hunks, hunk{
			deltas:    deltas[i : j+1],
			origStart: origStart,
			origEnd:   origEnd,
			revStart:  first.Revised.Position - (first.Original.Position - origStart),
			revEnd:    last.Revised.End() + (origEnd - last.Original.End()),
		})
		i = j + 1
	}
	return hunks
}

// lineKind is the role of a rendered line within a hunk.
type lineKind byte

const (
	lineContext lineKind = ' '
	lineDelete  lineKind = '-'
	lineInsert  lineKind = '+'
)

type hunkLine struct {
	kind lineKind
	text string
}

// lines flattens h into context/delete/insert lines. original supplies the context.
func (h hunk) lines(original diff.Lines) []hunkLine {
	var out []hunkLine
	pos := h.origStart
	for _, d := range h.deltas {
		for _, l := range original[pos:d.Original.Position] {
			out = append(out, hunkLine{kind: lineContext, text: l})
		}
		for _, l := range d.Original.Lines {
			out = append(out, hunkLine{kind: lineDelete, text: l})
		}
		for _, l := range d.Revised.Lines {
			out = append(out, hunkLine{kind: lineInsert, text: l})
		}
		pos = d.Original.End()
	}
	for _, l := range original[pos:h.origEnd] {
		out = append(out, hunkLine{kind: lineContext, text: l})
	}
	return out
}

// header returns the single header line naming the compared sources, or "" if both names are empty.
func header(from, to string) string {
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return fmt.Sprintf("add %s:", to)
	case to == "":
		return fmt.Sprintf("delete %s:", from)
	case from == to:
		return fmt.Sprintf("%s:", from)
	default:
		return fmt.Sprintf("%s -> %s:", from, to)
	}
}

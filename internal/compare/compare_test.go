package compare

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/codalotl/filediff/internal/diff"
	"github.com/codalotl/filediff/internal/report"
	"github.com/codalotl/filediff/internal/source"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves lines keyed by Ref.String(). Unknown refs are not found.
type fakeProvider struct {
	files map[string]diff.Lines
	calls atomic.Int32
}

func (p *fakeProvider) Lines(ctx context.Context, ref source.Ref) (diff.Lines, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, ok := p.files[ref.String()]
	if !ok {
		return nil, &source.NotFoundError{Ref: ref.String()}
	}
	return lines, nil
}

type failingReporter struct{}

func (failingReporter) Report(io.Writer, report.Comparison) error {
	return errors.New("terminal went away")
}

func newLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func textReporter(t *testing.T) report.Reporter {
	t.Helper()
	r, err := report.New(report.FormatText, report.DefaultOptions)
	require.NoError(t, err)
	return r
}

func messages(hook *test.Hook, level logrus.Level) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestRun_ReportsInPairOrder(t *testing.T) {
	provider := &fakeProvider{files: map[string]diff.Lines{
		"/a1": {"x", "y"},
		"/b1": {"x", "Y"},
		"/a2": {"same"},
		"/b2": {"same"},
		"/a3": {"1"},
		"/b3": {"1", "2"},
	}}
	cfg := DefaultConfig()
	cfg.Originals = []string{"/a1", "/a2", "/a3"}
	cfg.Reviseds = []string{"/b1", "/b2", "/b3"}
	cfg.Concurrency = 3

	logger, hook := newLogger()
	var out bytes.Buffer
	outcome, err := New(cfg, provider, textReporter(t), &out, logger).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.DiffFound)
	require.Len(t, outcome.Results, 3)
	assert.Equal(t, "/a2", outcome.Results[1].Pair.Original.String())
	assert.True(t, outcome.Results[1].Patch.Empty())
	assert.Equal(t, 1, outcome.Results[2].Patch.ChangedLines())

	exp := "The resources [/a1] and [/b1] are different:\n" +
		"\t[original] -> [position: 1, size: 1, lines: [y]]\n" +
		"\t[revised]  -> [position: 1, size: 1, lines: [Y]]\n" +
		"The resources [/a3] and [/b3] are different:\n" +
		"\t[original] -> [position: 1, size: 0, lines: []]\n" +
		"\t[revised]  -> [position: 1, size: 1, lines: [2]]\n"
	assert.Equal(t, exp, out.String())

	assert.Equal(t, []string{"The resources: [/a2] and [/b2] are identical"}, messages(hook, logrus.DebugLevel))
	assert.Len(t, messages(hook, logrus.WarnLevel), 2)
}

func TestRun_Identical(t *testing.T) {
	provider := &fakeProvider{files: map[string]diff.Lines{"/a": {"x"}, "/b": {"x"}}}
	cfg := DefaultConfig()
	cfg.Originals, cfg.Reviseds = []string{"/a"}, []string{"/b"}

	logger, _ := newLogger()
	var out bytes.Buffer
	outcome, err := New(cfg, provider, textReporter(t), &out, logger).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.DiffFound)
	assert.Empty(t, out.String())
	assert.NoError(t, Decide(outcome.DiffFound, true))
}

func TestRun_NotFoundAborts(t *testing.T) {
	provider := &fakeProvider{files: map[string]diff.Lines{"/a": {"x"}, "/b": {"y"}}}
	cfg := DefaultConfig()
	cfg.Originals = []string{"/a", "/missing"}
	cfg.Reviseds = []string{"/b", "/b"}

	logger, _ := newLogger()
	var out bytes.Buffer
	outcome, err := New(cfg, provider, textReporter(t), &out, logger).Run(context.Background())
	require.Error(t, err)
	assert.True(t, source.IsNotFound(err))
	assert.Equal(t, "/missing doesn't exist", err.Error())
	assert.Empty(t, outcome.Results)
	assert.Empty(t, out.String())
}

func TestRun_Mismatch(t *testing.T) {
	provider := &fakeProvider{}
	cfg := DefaultConfig()
	cfg.Originals = []string{"/a", "/b"}
	cfg.Reviseds = []string{"/c"}

	logger, _ := newLogger()
	_, err := New(cfg, provider, textReporter(t), io.Discard, logger).Run(context.Background())

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Originals)
	assert.Equal(t, 1, mismatch.Reviseds)
	assert.Zero(t, provider.calls.Load())
}

func TestRun_Skip(t *testing.T) {
	provider := &fakeProvider{}
	cfg := DefaultConfig()
	cfg.Skip = true
	cfg.Originals = []string{"/a"} // mismatch ignored when skipping

	logger, hook := newLogger()
	outcome, err := New(cfg, provider, textReporter(t), io.Discard, logger).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Outcome{}, outcome)
	assert.Zero(t, provider.calls.Load())
	require.Len(t, messages(hook, logrus.InfoLevel), 1)
	assert.Contains(t, messages(hook, logrus.InfoLevel)[0], "Skipping diff")
}

func TestRun_ReporterFailureDoesNotMaskDiff(t *testing.T) {
	provider := &fakeProvider{files: map[string]diff.Lines{"/a": {"x"}, "/b": {"y"}}}
	cfg := DefaultConfig()
	cfg.Originals, cfg.Reviseds = []string{"/a"}, []string{"/b"}

	logger, hook := newLogger()
	outcome, err := New(cfg, provider, failingReporter{}, io.Discard, logger).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.DiffFound)
	assert.Equal(t, []string{"failed to report differences"}, messages(hook, logrus.ErrorLevel))

	var abort *AbortError
	require.ErrorAs(t, Decide(outcome.DiffFound, true), &abort)
}

func TestRun_Canceled(t *testing.T) {
	provider := &fakeProvider{files: map[string]diff.Lines{"/a": {"x"}, "/b": {"y"}}}
	cfg := DefaultConfig()
	cfg.Originals, cfg.Reviseds = []string{"/a"}, []string{"/b"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger, _ := newLogger()
	_, err := New(cfg, provider, textReporter(t), io.Discard, logger).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_FileSets(t *testing.T) {
	base := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(base, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("orig/a.txt", "one\n\ntwo\n")
	write("orig/sub/b.txt", "same\n")
	write("orig/skip.log", "ignored\n")
	write("rev/a.txt", "one\ntwo\nthree\n")
	write("rev/sub/b.txt", "same\n")

	cfg := DefaultConfig()
	cfg.BaseDir = base
	cfg.FileSets = []source.FileSet{
		{Directory: "orig", Excludes: []string{"*.log"}},
		{Directory: "does-not-exist"},
	}
	cfg.RevisedDir = "rev"

	logger, hook := newLogger()
	var out bytes.Buffer
	provider := source.New(cfg.SourceOptions())
	outcome, err := New(cfg, provider, textReporter(t), &out, logger).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, outcome.Results, 2)
	assert.True(t, outcome.DiffFound)
	assert.Equal(t, filepath.Join(base, "orig", "a.txt"), outcome.Results[0].Pair.Original.Path)
	assert.Equal(t, filepath.Join(base, "rev", "a.txt"), outcome.Results[0].Pair.Revised.Path)

	// The blank line is filtered, so only the trailing insertion differs.
	assert.Equal(t, diff.Patch{Deltas: []diff.Delta{{
		Kind:     diff.KindInsert,
		Original: diff.Chunk{Position: 2},
		Revised:  diff.Chunk{Position: 2, Lines: diff.Lines{"three"}},
	}}}, outcome.Results[0].Patch)
	assert.True(t, outcome.Results[1].Patch.Empty())
	assert.Equal(t, 1, strings.Count(out.String(), "are different"))

	warnings := messages(hook, logrus.WarnLevel)
	require.NotEmpty(t, warnings)
	assert.Equal(t, "Directory does not exist: "+filepath.Join(base, "does-not-exist"), warnings[0])
}

func TestResolvePairs(t *testing.T) {
	pairs, err := ResolvePairs(Config{
		Originals: []string{"a.txt", "https://example.com/x"},
		Reviseds:  []string{"file:///tmp/b.txt", "/abs/y"},
		BaseDir:   "/work",
	})
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, filepath.Join("/work", "a.txt"), pairs[0].Original.Path)
	assert.Equal(t, source.RefFile, pairs[0].Revised.Kind)
	assert.Equal(t, source.RefHTTP, pairs[1].Original.Kind)

	_, err = ResolvePairs(Config{Originals: []string{"ftp://x"}, Reviseds: []string{"y"}})
	assert.True(t, source.IsUnsupported(err))

	_, err = ResolvePairs(Config{Originals: []string{"x"}})
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "original and revised files must match [originals: 1] [revised: 0]", err.Error())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.ReadTimeout = -1
	cfg.Concurrency = -2
	cfg.FileSets = []source.FileSet{{Directory: "x"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read timeout")
	assert.Contains(t, err.Error(), "concurrency")
	assert.Contains(t, err.Error(), "revised directory")
}

func TestDefaultConcurrency(t *testing.T) {
	n := DefaultConcurrency()
	assert.GreaterOrEqual(t, n, minConcurrency)
	assert.LessOrEqual(t, n, maxConcurrency)
}

func TestDecide(t *testing.T) {
	assert.NoError(t, Decide(false, false))
	assert.NoError(t, Decide(false, true))
	assert.NoError(t, Decide(true, false))

	err := Decide(true, true)
	require.ErrorIs(t, err, ErrDiffsFound)
	assert.Equal(t, "diffs found! See above", err.Error())
}

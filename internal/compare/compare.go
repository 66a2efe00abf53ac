// Package compare runs a set of comparisons: it resolves the configured inputs into pairs, fetches and diffs them in parallel, reports differences in order, and turns
// the result into a pass/fail signal.
package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/codalotl/filediff/internal/diff"
	"github.com/codalotl/filediff/internal/report"
	"github.com/codalotl/filediff/internal/source"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Result is the outcome of comparing one Pair.
type Result struct {
	Pair     Pair
	Original diff.Lines
	Revised  diff.Lines
	Patch    diff.Patch
}

// Outcome is the outcome of a whole run.
type Outcome struct {
	Results   []Result
	DiffFound bool // true if any Result has a non-empty Patch
}

// Comparer runs the comparisons described by a Config.
type Comparer struct {
	cfg      Config
	provider source.Provider
	reporter report.Reporter
	out      io.Writer
	log      logrus.FieldLogger
}

// New returns a Comparer. Differences are rendered by reporter to out.
func New(cfg Config, provider source.Provider, reporter report.Reporter, out io.Writer, logger logrus.FieldLogger) *Comparer {
	return &Comparer{cfg: cfg, provider: provider, reporter: reporter, out: out, log: logger}
}

// Run compares every pair. Pairs are fetched and diffed concurrently, but results are reported in pair order once all have completed.
//
// The first fetch failure (ex: a missing file) cancels the remaining work, and its error is returned with a zero Outcome. A failure to report is logged and never
// changes the Outcome. Finding differences is not an error; see Decide.
func (c *Comparer) Run(ctx context.Context) (Outcome, error) {
	if c.cfg.Skip {
		c.log.Info("Skipping diff because skip is set")
		return Outcome{}, nil
	}
	if err := c.cfg.Validate(); err != nil {
		return Outcome{}, err
	}

	pairs, err := resolvePairs(c.cfg, func(dir string) {
		c.log.Warnf("Directory does not exist: %s", dir)
	})
	if err != nil {
		return Outcome{}, err
	}

	results, err := c.diffAll(ctx, pairs)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Results: results}
	for _, r := range results {
		entry := c.log.WithFields(logrus.Fields{"original": r.Pair.Original.String(), "revised": r.Pair.Revised.String()})
		if r.Patch.Empty() {
			entry.Debugf("The resources: [%s] and [%s] are identical", r.Pair.Original, r.Pair.Revised)
			continue
		}
		outcome.DiffFound = true
		entry.WithField("deltas", len(r.Patch.Deltas)).Warn("differences found")

		err := c.reporter.Report(c.out, report.Comparison{
			OriginalName: r.Pair.Original.String(),
			RevisedName:  r.Pair.Revised.String(),
			Original:     r.Original,
			Revised:      r.Revised,
			Patch:        r.Patch,
		})
		if err != nil {
			entry.WithError(err).Error("failed to report differences")
		}
	}

	return outcome, nil
}

func (c *Comparer) diffAll(ctx context.Context, pairs []Pair) ([]Result, error) {
	results := make([]Result, len(pairs))
	if len(pairs) == 0 {
		return results, nil
	}

	limit := c.cfg.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency()
	}
	sem := semaphore.NewWeighted(int64(limit))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, pair := range pairs {
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				return fmt.Errorf("acquire semaphore: %w", err)
			}
			defer sem.Release(1)

			original, err := c.provider.Lines(groupCtx, pair.Original)
			if err != nil {
				return err
			}
			revised, err := c.provider.Lines(groupCtx, pair.Revised)
			if err != nil {
				return err
			}
			results[i] = Result{Pair: pair, Original: original, Revised: revised, Patch: diff.Diff(original, revised)}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

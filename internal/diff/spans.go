package diff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an intra-line operation from an original line to a revised line.
type Op int

// Operations from original text to revised text.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

// Span is a segment within a line. It never contains '\n'.
//
// Operations:
//   - OpEqual: OldText == NewText
//   - OpInsert: OldText == "" && NewText != ""
//   - OpDelete: OldText != "" && NewText == ""
//   - OpReplace: OldText != "" && NewText != ""
type Span struct {
	Op      Op
	OldText string // Segment of the original line; empty for inserts.
	NewText string // Segment of the revised line; empty for deletes.
}

// LineSpans is one line of a delta, broken into spans.
//
// Invariants:
//   - concat(Spans.OldText) == OldText
//   - concat(Spans.NewText) == NewText
type LineSpans struct {
	Op      Op     // OpEqual, OpInsert, OpDelete, or OpReplace.
	OldText string // Entire original line; empty for inserts.
	NewText string // Entire revised line; empty for deletes.
	Spans   []Span // nil when Op == OpEqual.
}

// maxSandwichedEqualLen is the longest equal span that is folded into its non-equal neighbors. Short equal fragments between edits ("a", " ", "ing") read as noise.
const maxSandwichedEqualLen = 8

// Spans breaks a delta into lines with intra-line spans. Original and revised lines are paired positionally: line i of the original chunk with line i of the revised
// chunk. Leftover lines on either side are pure deletes or inserts.
func Spans(d Delta) []LineSpans {
	orig, rev := d.Original.Lines, d.Revised.Lines
	n := min(len(orig), len(rev))

	out := make([]LineSpans, 0, max(len(orig), len(rev)))
	dmp := diffmatchpatch.New()

	for i := 0; i < n; i++ {
		if orig[i] == rev[i] {
			out = append(out, LineSpans{Op: OpEqual, OldText: orig[i], NewText: rev[i]})
			continue
		}
		spans := diffsToSpans(dmp.DiffCleanupSemanticLossless(dmp.DiffMain(orig[i], rev[i], false)))
		out = append(out, LineSpans{Op: OpReplace, OldText: orig[i], NewText: rev[i], Spans: spans})
	}
	for _, line := range orig[n:] {
		var spans []Span
		if line != "" {
			spans = []Span{{Op: OpDelete, OldText: line}}
		}
		out = append(out, LineSpans{Op: OpDelete, OldText: line, Spans: spans})
	}
	for _, line := range rev[n:] {
		var spans []Span
		if line != "" {
			spans = []Span{{Op: OpInsert, NewText: line}}
		}
		out = append(out, LineSpans{Op: OpInsert, NewText: line, Spans: spans})
	}
	return out
}

// diffsToSpans converts diffmatchpatch diffs to spans. Runs of non-equal diffs collapse into one span, and short equal spans sandwiched between non-equal spans are
// absorbed into them.
func diffsToSpans(diffs []diffmatchpatch.Diff) []Span {
	var spans []Span
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var s Span
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			s = Span{Op: OpEqual, OldText: d.Text, NewText: d.Text}
		case diffmatchpatch.DiffDelete:
			s = Span{Op: OpDelete, OldText: d.Text}
		case diffmatchpatch.DiffInsert:
			s = Span{Op: OpInsert, NewText: d.Text}
		}
		spans = appendCoalesced(spans, s)
	}

	for {
		changed := false
		var merged []Span
		for i := 0; i < len(spans); i++ {
			if i+2 < len(spans) && spans[i].Op != OpEqual && spans[i+1].Op == OpEqual && spans[i+2].Op != OpEqual && len(spans[i+1].OldText) <= maxSandwichedEqualLen {
				merged = appendCoalesced(merged, combineSpans(combineSpans(spans[i], spans[i+1]), spans[i+2]))
				i += 2
				changed = true
				continue
			}
			merged = appendCoalesced(merged, spans[i])
		}
		spans = merged
		if !changed {
			return spans
		}
	}
}

// appendCoalesced appends s to spans, merging it into the last span when both are equal or both are non-equal.
func appendCoalesced(spans []Span, s Span) []Span {
	if len(spans) == 0 {
		return append(spans, s)
	}
	last := spans[len(spans)-1]
	if (last.Op == OpEqual) == (s.Op == OpEqual) {
		spans[len(spans)-1] = combineSpans(last, s)
		return spans
	}
	return append(spans, s)
}

// combineSpans concatenates two adjacent spans and derives the Op from the combined texts.
func combineSpans(a, b Span) Span {
	s := Span{OldText: a.OldText + b.OldText, NewText: a.NewText + b.NewText}
	switch {
	case a.Op == OpEqual && b.Op == OpEqual:
		s.Op = OpEqual
	case s.OldText != "" && s.NewText != "":
		s.Op = OpReplace
	case s.OldText != "":
		s.Op = OpDelete
	default:
		s.Op = OpInsert
	}
	return s
}

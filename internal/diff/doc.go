// Package diff computes line-based edit scripts between an "original" and a "revised" sequence of lines.
//
// Representation: A Patch holds an ordered slice of deltas. Each Delta describes one maximal contiguous divergence between the two sequences and carries a Chunk for each
// side. A Chunk is a Position (0-based index into its sequence) plus the Lines it covers, so its range is [Position, Position+len(Lines)). Each delta has a Kind:
//   - KindInsert: the original chunk is empty (lines present only in the revised sequence)
//   - KindDelete: the revised chunk is empty (lines present only in the original sequence)
//   - KindChange: both chunks are non-empty
//
// Invariants:
//   - Deltas are ordered by ascending Original.Position and never overlap.
//   - Two consecutive deltas are separated by at least one matched line on both sides (unmatched runs are maximal).
//   - Applying the deltas in order to the original reproduces the revised sequence (see Apply).
//   - The total number of lines covered by deltas is minimal.
//
// Getting a patch: Use Diff:
//
//	p := diff.Diff(diff.SplitLines(oldText), diff.SplitLines(newText))
//	for _, d := range p.Deltas {
//		fmt.Println(d.Kind, d.Original, d.Revised)
//	}
//
// Line equality is exact string equality. Normalization (ex: dropping blank lines) is the caller's job and must happen before the sequences are built.
//
// For CHANGE deltas, Spans pairs original and revised lines positionally and computes intra-line segments, which renderers use for highlighting.
package diff

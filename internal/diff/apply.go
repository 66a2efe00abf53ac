package diff

import (
	"errors"
	"fmt"
)

// ErrPatchMismatch is returned by Apply when a delta does not fit the sequence it is applied to.
var ErrPatchMismatch = errors.New("patch does not match original")

// Apply applies p's deltas in ascending order to original and returns the resulting sequence. original is not modified.
//
// An error wrapping ErrPatchMismatch is returned if a delta is out of order, out of bounds, or if its original chunk's lines differ from original at that position.
func Apply(original Lines, p Patch) (Lines, error) {
	out := make(Lines, 0, len(original))
	pos := 0
	for i, d := range p.Deltas {
		if d.Original.Position < pos || d.Original.End() > len(original) {
			return nil, fmt.Errorf("delta[%d]: original range [%d, %d) out of order or bounds: %w", i, d.Original.Position, d.Original.End(), ErrPatchMismatch)
		}
		for k, line := range d.Original.Lines {
			if original[d.Original.Position+k] != line {
				return nil, fmt.Errorf("delta[%d]: line %d differs: %w", i, d.Original.Position+k, ErrPatchMismatch)
			}
		}
		out = append(out, original[pos:d.Original.Position]...)
		out = append(out, d.Revised.Lines...)
		pos = d.Original.End()
	}
	out = append(out, original[pos:]...)
	return out, nil
}

package diff

import "fmt"

// validate checks the Patch invariants against sequences of the given lengths and returns an error on the first violation.
func (p Patch) validate(originalLen, revisedLen int) error {
	prevOrigEnd, prevRevEnd := 0, 0
	for i, d := range p.Deltas {
		origSize, revSize := d.Original.Size(), d.Revised.Size()
		if origSize == 0 && revSize == 0 {
			return fmt.Errorf("delta[%d]: both chunks are empty", i)
		}
		if want := kindFor(origSize, revSize); d.Kind != want {
			return fmt.Errorf("delta[%d]: kind %s does not match chunk sizes (want %s)", i, d.Kind, want)
		}
		if d.Original.Position < 0 || d.Revised.Position < 0 {
			return fmt.Errorf("delta[%d]: negative position", i)
		}

		gapOrig := d.Original.Position - prevOrigEnd
		gapRev := d.Revised.Position - prevRevEnd
		if gapOrig < 0 || gapRev < 0 {
			return fmt.Errorf("delta[%d]: overlaps or precedes the previous delta", i)
		}
		if gapOrig != gapRev {
			return fmt.Errorf("delta[%d]: matched run before delta differs in length (original %d, revised %d)", i, gapOrig, gapRev)
		}
		if i > 0 && gapOrig == 0 {
			return fmt.Errorf("delta[%d]: adjacent to the previous delta; unmatched runs must be maximal", i)
		}

		prevOrigEnd, prevRevEnd = d.Original.End(), d.Revised.End()
	}

	if prevOrigEnd > originalLen || prevRevEnd > revisedLen {
		return fmt.Errorf("patch: deltas extend past the end of the sequences")
	}
	if originalLen-prevOrigEnd != revisedLen-prevRevEnd {
		return fmt.Errorf("patch: trailing matched run differs in length (original %d, revised %d)", originalLen-prevOrigEnd, revisedLen-prevRevEnd)
	}
	return nil
}

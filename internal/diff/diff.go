package diff

import (
	"fmt"
	"strings"
)

// Lines is an ordered sequence of text lines. Lines never contain the line separator.
type Lines []string

// SplitLines splits text into Lines on '\n'. A trailing '\r' is stripped from each line, and a final '\n' does not produce an extra empty line. SplitLines("") returns
// nil.
func SplitLines(text string) Lines {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, defaultEOL)
	parts := strings.Split(text, defaultEOL)
	out := make(Lines, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSuffix(p, "\r")
	}
	return out
}

// Kind classifies a Delta.
type Kind int

// Kinds of deltas.
const (
	KindChange Kind = iota
	KindInsert
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindChange:
		return "CHANGE"
	case KindInsert:
		return "INSERT"
	case KindDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Chunk is one side of a Delta: a contiguous range of a sequence starting at Position. An empty chunk still has a Position, which is where the other side's lines
// are inserted (or where they were removed from).
type Chunk struct {
	Position int      // 0-based index of the first line of the chunk.
	Lines    []string // Lines covered by the chunk; nil for an empty chunk.
}

// Size returns the number of lines in c.
func (c Chunk) Size() int {
	return len(c.Lines)
}

// End returns the exclusive end index of c.
func (c Chunk) End() int {
	return c.Position + len(c.Lines)
}

// String renders c as "[position: P, size: N, lines: [a, b]]".
func (c Chunk) String() string {
	return fmt.Sprintf("[position: %d, size: %d, lines: [%s]]", c.Position, len(c.Lines), strings.Join(c.Lines, ", "))
}

// Delta is one maximal contiguous divergence between the original and revised sequences.
type Delta struct {
	Kind     Kind
	Original Chunk
	Revised  Chunk
}

func (d Delta) String() string {
	return fmt.Sprintf("%s %s -> %s", d.Kind, d.Original, d.Revised)
}

// Patch is an ordered list of deltas transforming an original sequence into a revised one. The zero value is an empty patch.
type Patch struct {
	Deltas []Delta
}

// Empty reports whether p has no deltas, i.e. whether the sequences it was computed from are identical.
func (p Patch) Empty() bool {
	return len(p.Deltas) == 0
}

// ChangedLines returns the total number of lines covered by p's deltas, counting both sides.
func (p Patch) ChangedLines() int {
	n := 0
	for _, d := range p.Deltas {
		n += d.Original.Size() + d.Revised.Size()
	}
	return n
}

// kindFor returns the Kind implied by the sizes of a delta's chunks.
func kindFor(originalSize, revisedSize int) Kind {
	switch {
	case originalSize == 0:
		return KindInsert
	case revisedSize == 0:
		return KindDelete
	default:
		return KindChange
	}
}

// defaultEOL is the line separator.
const defaultEOL = "\n"

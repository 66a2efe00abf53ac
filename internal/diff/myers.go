package diff

import "fmt"

// Diff computes the minimal Patch transforming original into revised. If the sequences are identical, the Patch is empty. Diff never fails and is safe for concurrent
// use; it does not retain or modify its inputs beyond referencing their lines from the returned chunks.
//
// Algorithm: Myers' O(ND) greedy forward search, run after matching the common prefix and suffix. Ties between equally long scripts are broken deterministically:
// snakes consume matching lines as early as possible, and when a diagonal can be reached by either a deletion or an insertion with equal progress, the deletion
// is taken. As a result, within a delta the original's lines are always consumed before the revised lines are emitted.
//
// Cost: O((N+M)·D) time and O(D²) space, where D is the size of the minimal edit script.
func Diff(original, revised Lines) Patch {
	ops := editScript(original, revised)
	p := patchFromScript(original, revised, ops)

	if err := p.validate(len(original), len(revised)); err != nil {
		panic(fmt.Errorf("Diff: validate failed with %v", err))
	}

	return p
}

// editOp is one step of an edit script.
type editOp uint8

const (
	editMatch editOp = iota
	editDelete
	editInsert
)

// editScript returns the minimal edit script from a to b, as a sequence of matches, deletions (consume a line of a) and insertions (consume a line of b).
func editScript(a, b []string) []editOp {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]editOp, 0, len(a)+len(b)-prefix-suffix)
	for i := 0; i < prefix; i++ {
		ops = append(ops, editMatch)
	}
	ops = append(ops, myers(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for i := 0; i < suffix; i++ {
		ops = append(ops, editMatch)
	}
	return ops
}

// myers returns the shortest edit script from a to b.
func myers(a, b []string) []editOp {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	return backtrack(shortestEdit(a, b), len(a), len(b))
}

// shortestEdit runs the forward search and returns a trace: trace[d] holds the furthest-reaching x for every diagonal k in [-d, d] after round d, indexed by k+d.
// The last entry is the round in which (len(a), len(b)) was reached.
//
// algorithm: http://www.xmailserver.org/diff2.pdf
func shortestEdit(a, b []string) [][]int {
	n, m := len(a), len(b)
	max := n + m
	offset := max
	v := make([]int, 2*max+2)

	var trace [][]int
	for d := 0; d <= max; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1] // down: insertion
			} else {
				x = v[offset+k-1] + 1 // right: deletion
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return append(trace, snapshot(v, offset, d))
			}
		}
		trace = append(trace, snapshot(v, offset, d))
	}

	// Unreachable: (n, m) is always reached by round n+m.
	return trace
}

// snapshot copies the diagonals [-d, d] of v.
func snapshot(v []int, offset, d int) []int {
	out := make([]int, 2*d+1)
	copy(out, v[offset-d:offset+d+1])
	return out
}

// backtrack walks trace from (n, m) back to (0, 0), reconstructing the edit script in forward order. It must make the same down/right choices shortestEdit made.
func backtrack(trace [][]int, n, m int) []editOp {
	at := func(d, k int) int {
		return trace[d][k+d]
	}

	var reversed []editOp
	x, y := n, m
	for d := len(trace) - 1; d > 0; d-- {
		k := x - y
		down := k == -d || (k != d && at(d-1, k-1) < at(d-1, k+1))

		var prevK int
		if down {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := at(d-1, prevK)
		prevY := prevX - prevK

		// The snake starts right after the edit made in round d.
		startX := prevX
		if !down {
			startX++
		}
		for x > startX {
			reversed = append(reversed, editMatch)
			x--
			y--
		}
		if down {
			reversed = append(reversed, editInsert)
		} else {
			reversed = append(reversed, editDelete)
		}
		x, y = prevX, prevY
	}
	// Round 0 is a single snake from (0, 0).
	for x > 0 {
		reversed = append(reversed, editMatch)
		x--
	}

	ops := make([]editOp, len(reversed))
	for i, op := range reversed {
		ops[len(reversed)-1-i] = op
	}
	return ops
}

// patchFromScript groups maximal runs of non-matching ops into deltas.
func patchFromScript(a, b []string, ops []editOp) Patch {
	var p Patch
	i, j := 0, 0
	startI, startJ := -1, -1

	flush := func() {
		if startI < 0 {
			return
		}
		orig := Chunk{Position: startI, Lines: subLines(a, startI, i)}
		rev := Chunk{Position: startJ, Lines: subLines(b, startJ, j)}
		p.Deltas = append(p.Deltas, Delta{Kind: kindFor(orig.Size(), rev.Size()), Original: orig, Revised: rev})
		startI, startJ = -1, -1
	}

	for _, op := range ops {
		switch op {
		case editMatch:
			flush()
			i++
			j++
		case editDelete:
			if startI < 0 {
				startI, startJ = i, j
			}
			i++
		case editInsert:
			if startI < 0 {
				startI, startJ = i, j
			}
			j++
		}
	}
	flush()

	return p
}

// subLines returns s[start:end] with its capacity clipped, or nil if the range is empty.
func subLines(s []string, start, end int) []string {
	if start == end {
		return nil
	}
	return s[start:end:end]
}

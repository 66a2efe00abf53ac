package report

import (
	"fmt"
	"strings"
)

// RenderUnified returns a unified diff of c with contextSize lines of context. Hunks separated by at most 2*contextSize unchanged lines are merged. If color, the
// diff will include ANSI color markers.
func RenderUnified(c Comparison, color bool, contextSize int) string {
	// Colors (ANSI). Applied only if color==true.
	const (
		reset    = "\x1b[0m"
		red      = "\x1b[31m"
		green    = "\x1b[32m"
		magenta  = "\x1b[35m"
		cyanBold = "\x1b[1;36m"
	)

	colorize := func(s, code string) string {
		if !color {
			return s
		}
		return code + s + reset
	}

	out := []string{
		colorize("--- "+c.OriginalName, cyanBold),
		colorize("+++ "+c.RevisedName, cyanBold),
	}

	for _, h := range groupDeltas(c.Patch.Deltas, len(c.Original), contextSize) {
		header := fmt.Sprintf("@@ -%s +%s @@", unifiedRange(h.origStart, h.origEnd), unifiedRange(h.revStart, h.revEnd))
		out = append(out, colorize(header, magenta))
		for _, l := range h.lines(c.Original) {
			line := string(l.kind) + l.text
			switch l.kind {
			case lineInsert:
				out = append(out, colorize(line, green))
			case lineDelete:
				out = append(out, colorize(line, red))
			default:
				out = append(out, line)
			}
		}
	}

	return strings.Join(out, "\n")
}

// unifiedRange formats the 0-based, end-exclusive range [start, end) as a unified diff "start,count". An empty range names the line before it, per diff(1).
func unifiedRange(start, end int) string {
	if end == start {
		return fmt.Sprintf("%d,0", start)
	}
	return fmt.Sprintf("%d,%d", start+1, end-start)
}

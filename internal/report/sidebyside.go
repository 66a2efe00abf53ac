package report

import (
	"strings"
)

// minSideBySideWidth is the narrowest total width RenderSideBySide will lay out.
const minSideBySideWidth = 23

// RenderSideBySide renders c in two columns: original lines on the left, revised lines on the right, separated by a marker column:
//   - " " unchanged context
//   - "|" a changed line (original and revised paired positionally within a delta)
//   - "<" a line only in the original
//   - ">" a line only in the revised
//
// width is the total width of a row; each column gets (width-3)/2 cells. Lines too long for their column are truncated with an ellipsis. Groups of changes are separated
// by a dashed line. If color, changed original text is red and changed revised text is green.
func RenderSideBySide(c Comparison, color bool, contextSize, width int) string {
	const (
		reset    = "\x1b[0m"
		red      = "\x1b[31m"
		green    = "\x1b[32m"
		cyanBold = "\x1b[1;36m"
	)
	colorize := func(s, code string) string {
		if !color || s == "" {
			return s
		}
		return code + s + reset
	}

	width = max(width, minSideBySideWidth)
	col := (width - 3) / 2

	var out []string
	if h := header(c.OriginalName, c.RevisedName); h != "" {
		out = append(out, colorize(h, cyanBold))
	}

	row := func(left, right string, marker byte) {
		l := fit(left, col)
		r := truncate(right, col)
		switch marker {
		case '|':
			l, r = colorize(l, red), colorize(r, green)
		case '<':
			l = colorize(l, red)
		case '>':
			r = colorize(r, green)
		}
		out = append(out, strings.TrimRight(l+" "+string(marker)+" "+r, " "))
	}

	for i, h := range groupDeltas(c.Patch.Deltas, len(c.Original), contextSize) {
		if i > 0 {
			out = append(out, strings.Repeat("-", 2*col+3))
		}
		pos := h.origStart
		for _, d := range h.deltas {
			for _, l := range c.Original[pos:d.Original.Position] {
				row(l, l, ' ')
			}
			orig, rev := d.Original.Lines, d.Revised.Lines
			for k := 0; k < max(len(orig), len(rev)); k++ {
				switch {
				case k < len(orig) && k < len(rev):
					row(orig[k], rev[k], '|')
				case k < len(orig):
					row(orig[k], "", '<')
				default:
					row("", rev[k], '>')
				}
			}
			pos = d.Original.End()
		}
		for _, l := range c.Original[pos:h.origEnd] {
			row(l, l, ' ')
		}
	}

	return strings.Join(out, "\n")
}

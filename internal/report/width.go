package report

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// widthCondition measures text for monospace terminals in a non-East Asian locale.
var widthCondition = func() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	return cond
}()

const tabWidth = 4

const ellipsis = "…"

// textWidth returns how many terminal cells s occupies.
func textWidth(s string) int {
	return widthCondition.StringWidth(s)
}

// truncate returns s with tabs expanded, cut at grapheme cluster boundaries so it fits in width cells. If s had to be cut, its last cell is an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	if textWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	iter := graphemes.FromString(s)
	for iter.Next() {
		g := iter.Value()
		w := textWidth(g)
		if used+w > width-1 {
			break
		}
		b.WriteString(g)
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// fit truncates s to width cells and pads it with spaces to exactly width cells.
func fit(s string, width int) string {
	t := truncate(s, width)
	if pad := width - textWidth(t); pad > 0 {
		t += strings.Repeat(" ", pad)
	}
	return t
}

package report

import (
	"strings"

	fcolor "github.com/fatih/color"
)

// RenderText renders c as a header naming both sources followed by one "[original] -> <chunk>" / "[revised]  -> <chunk>" pair per delta, each indented by a tab.
// If color, the header is yellow and the markers red/green.
func RenderText(c Comparison, color bool) string {
	warn := fcolor.New(fcolor.FgYellow, fcolor.Bold)
	orig := fcolor.New(fcolor.FgRed)
	rev := fcolor.New(fcolor.FgGreen)
	for _, col := range []*fcolor.Color{warn, orig, rev} {
		if color {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	var b strings.Builder
	b.WriteString(warn.Sprintf("The resources [%s] and [%s] are different:", c.OriginalName, c.RevisedName))
	for _, d := range c.Patch.Deltas {
		b.WriteString("\n\t")
		b.WriteString(orig.Sprint("[original] -> "))
		b.WriteString(d.Original.String())
		b.WriteString("\n\t")
		b.WriteString(rev.Sprint("[revised]  -> "))
		b.WriteString(d.Revised.String())
	}
	return b.String()
}

package report

import (
	"strings"

	"github.com/codalotl/filediff/internal/diff"
)

// RenderPretty returns a human-oriented rendering of c without unified-diff hunk headers. Each line is prefixed like a unified diff: " " for context, "-" for deletions,
// and "+" for insertions; within a changed delta, original and revised lines are paired positionally and shown as a "-" line followed by a "+" line.
//
// If both names are empty, no header is printed. Otherwise a single header line is emitted in one of these forms:
//   - "add <to>:" when only the revised name is set
//   - "delete <from>:" when only the original name is set
//   - "<name>:" when both are equal
//   - "<from> -> <to>:" otherwise
//
// If color, the output contains ANSI 256-color escape sequences for line backgrounds, and intra-line additions/deletions are highlighted with a darker background.
// It is intended for terminals; it is not a machine-readable diff. For that, use RenderUnified.
func RenderPretty(c Comparison, color bool, contextSize int) string {
	pal := prettyPalette{
		reset:     "\x1b[0m",
		blackFG:   "\x1b[30m",
		pinkLine:  "\x1b[48;5;224m", // light pink for deleted lines
		pinkSpan:  "\x1b[48;5;217m", // slightly darker pink for deleted spans
		greenLine: "\x1b[48;5;194m", // light green for added lines
		greenSpan: "\x1b[48;5;114m", // slightly darker green for added spans
		cyanBold:  "\x1b[1;36m",
	}
	if !color {
		pal = prettyPalette{}
	}

	var out []string
	if h := header(c.OriginalName, c.RevisedName); h != "" {
		out = append(out, pal.cyanBold+h+pal.reset)
	}

	contextLines := func(lines []string) {
		for _, l := range lines {
			out = append(out, pal.blackFG+" "+l+pal.reset)
		}
	}

	for _, h := range groupDeltas(c.Patch.Deltas, len(c.Original), contextSize) {
		pos := h.origStart
		for _, d := range h.deltas {
			contextLines(c.Original[pos:d.Original.Position])
			for _, ln := range diff.Spans(d) {
				switch ln.Op {
				case diff.OpEqual:
					contextLines([]string{ln.OldText})
				case diff.OpDelete:
					out = append(out, pal.deleted(ln))
				case diff.OpInsert:
					out = append(out, pal.inserted(ln))
				case diff.OpReplace:
					out = append(out, pal.deleted(ln), pal.inserted(ln))
				}
			}
			pos = d.Original.End()
		}
		contextLines(c.Original[pos:h.origEnd])
	}

	return strings.Join(out, "\n")
}

// prettyPalette holds the escape codes used by RenderPretty. The zero value renders without color.
type prettyPalette struct {
	reset     string
	blackFG   string
	pinkLine  string
	pinkSpan  string
	greenLine string
	greenSpan string
	cyanBold  string
}

func (p prettyPalette) deleted(ln diff.LineSpans) string {
	var b strings.Builder
	b.WriteString(p.blackFG + p.pinkLine + "-")
	for _, sp := range ln.Spans {
		switch sp.Op {
		case diff.OpEqual:
			b.WriteString(sp.OldText)
		case diff.OpDelete, diff.OpReplace:
			p.emphasize(&b, sp.OldText, p.pinkSpan, p.pinkLine)
		}
	}
	b.WriteString(p.reset)
	return b.String()
}

func (p prettyPalette) inserted(ln diff.LineSpans) string {
	var b strings.Builder
	b.WriteString(p.blackFG + p.greenLine + "+")
	for _, sp := range ln.Spans {
		switch sp.Op {
		case diff.OpEqual:
			b.WriteString(sp.NewText)
		case diff.OpInsert, diff.OpReplace:
			p.emphasize(&b, sp.NewText, p.greenSpan, p.greenLine)
		}
	}
	b.WriteString(p.reset)
	return b.String()
}

// emphasize writes text with spanBg, then restores the line's base background.
func (p prettyPalette) emphasize(b *strings.Builder, text, spanBg, lineBg string) {
	b.WriteString(p.reset + p.blackFG + spanBg)
	b.WriteString(text)
	b.WriteString(p.reset + p.blackFG + lineBg)
}

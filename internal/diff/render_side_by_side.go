package diff

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	minSideBySideWidth = 20
	sideBySideTabWidth = 4
)

// RenderSideBySide returns d as two columns, old on the left and new on the right, in the style of sdiff. The gutter between the columns marks each row:
//   - " " for context
//   - "|" for a replaced line
//   - "<" for a deleted line
//   - ">" for an inserted line
//
// width is the total width in terminal cells (East Asian wide characters count as two); it is raised to a usable minimum. Tabs are expanded and content that does not
// fit is truncated with "…". Groups of changes are introduced by their unified "@@" header. If color, deleted and inserted content is colored.
func (d Diff) RenderSideBySide(color bool, fromFilename string, toFilename string, width int, contextSize int) string {
	p := newPalette(color)
	width = max(width, minSideBySideWidth)
	column := (width - 3) / 2

	cell := func(s string) string {
		s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", sideBySideTabWidth))
		return runewidth.FillRight(runewidth.Truncate(s, column, "…"), column)
	}
	line := func(left, gutter, right string) string {
		return strings.TrimRight(left+" "+gutter+" "+right, " ")
	}

	var out []string
	if fromFilename != "" || toFilename != "" {
		out = append(out, p.header.Sprint(line(cell(fromFilename), "|", cell(toFilename))))
	}

	for _, g := range d.groups(contextSize) {
		out = append(out, p.hunk.Sprint(g.header()))
		for i := 0; i < len(g.rows); i++ {
			r := g.rows[i]
			switch {
			case r.kind == rowContext:
				out = append(out, line(cell(r.text), " ", cell(r.text)))
			case r.pair && i+1 < len(g.rows):
				next := g.rows[i+1]
				out = append(out, line(p.del.Sprint(cell(r.text)), "|", p.ins.Sprint(cell(next.text))))
				i++
			case r.kind == rowDelete:
				out = append(out, line(p.del.Sprint(cell(r.text)), "<", ""))
			default:
				out = append(out, line(cell(""), ">", p.ins.Sprint(cell(r.text))))
			}
		}
	}
	return strings.Join(out, "\n")
}

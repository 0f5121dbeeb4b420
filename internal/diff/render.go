package diff

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// rowKind is the role of a rendered line.
type rowKind int

const (
	rowContext rowKind = iota
	rowDelete
	rowInsert
)

// row is one rendered line of a diff. Replaced lines produce a rowDelete immediately followed by its rowInsert; both point at the same DiffLine.
type row struct {
	kind  rowKind
	text  string    // line content without EOL
	noEOL bool      // the line is the last of its text and has no final newline
	line  *DiffLine // nil for lines of OpEqual hunks and for equal lines
	pair  bool      // rowDelete half of a replaced line

	oldBefore int // old lines before this row
	newBefore int // new lines before this row
}

func (r row) hasOld() bool { return r.kind != rowInsert }
func (r row) hasNew() bool { return r.kind != rowDelete }

// group is a run of rows around one or more changes, shown together.
type group struct {
	rows []row
}

// header returns the unified "@@ -a,b +c,d @@" ranges of g.
func (g group) header() string {
	oldCount, newCount := 0, 0
	for _, r := range g.rows {
		if r.hasOld() {
			oldCount++
		}
		if r.hasNew() {
			newCount++
		}
	}
	oldStart := g.rows[0].oldBefore
	if oldCount > 0 {
		oldStart++
	}
	newStart := g.rows[0].newBefore
	if newCount > 0 {
		newStart++
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
}

// rows flattens d into rendered lines. Context lines show the old text.
func (d Diff) rows() []row {
	var rows []row
	oldBefore, newBefore := 0, 0
	add := func(r row) {
		r.oldBefore = oldBefore
		r.newBefore = newBefore
		if r.hasOld() {
			oldBefore++
		}
		if r.hasNew() {
			newBefore++
		}
		rows = append(rows, r)
	}
	textRow := func(kind rowKind, text string, ln *DiffLine, pair bool) row {
		core, hasEOL := trimEOL(text, defaultEOL)
		return row{kind: kind, text: core, noEOL: !hasEOL, line: ln, pair: pair}
	}

	for hi := range d.Hunks {
		h := &d.Hunks[hi]
		if h.Op == OpEqual {
			for _, ln := range splitPreserveEOL(h.OldText, defaultEOL) {
				add(textRow(rowContext, ln, nil, false))
			}
			continue
		}
		for li := range h.Lines {
			ln := &h.Lines[li]
			switch ln.Op {
			case OpEqual:
				add(textRow(rowContext, ln.OldText, nil, false))
			case OpDelete:
				add(textRow(rowDelete, ln.OldText, ln, false))
			case OpInsert:
				add(textRow(rowInsert, ln.NewText, ln, false))
			case OpReplace:
				add(textRow(rowDelete, ln.OldText, ln, true))
				add(textRow(rowInsert, ln.NewText, ln, false))
			}
		}
	}
	return rows
}

// groups selects the changed rows of d with contextSize rows of context on each side. Changes separated by at most 2*contextSize context rows share a group.
func (d Diff) groups(contextSize int) []group {
	contextSize = max(contextSize, 0)
	rows := d.rows()

	var groups []group
	start, end := -1, -1 // current window, half-open
	for i, r := range rows {
		if r.kind == rowContext {
			continue
		}
		lo := max(i-contextSize, 0)
		hi := min(i+1+contextSize, len(rows))
		if start >= 0 && lo <= end {
			end = hi
			continue
		}
		if start >= 0 {
			groups = append(groups, group{rows: rows[start:end]})
		}
		start, end = lo, hi
	}
	if start >= 0 {
		groups = append(groups, group{rows: rows[start:end]})
	}
	return groups
}

// palette holds the styles of a rendering. Disabled palettes render plain text.
type palette struct {
	header  *color.Color
	hunk    *color.Color
	del     *color.Color
	ins     *color.Color
	delLine *color.Color // background of a deleted line in pretty output
	insLine *color.Color
	delSpan *color.Color // changed segment within a deleted line
	insSpan *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header:  color.New(color.FgCyan, color.Bold),
		hunk:    color.New(color.FgMagenta),
		del:     color.New(color.FgRed),
		ins:     color.New(color.FgGreen),
		delLine: color.New(color.FgBlack, color.BgRed),
		insLine: color.New(color.FgBlack, color.BgGreen),
		delSpan: color.New(color.FgBlack, color.BgHiRed, color.Bold),
		insSpan: color.New(color.FgBlack, color.BgHiGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.header, p.hunk, p.del, p.ins, p.delLine, p.insLine, p.delSpan, p.insSpan} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

const noNewlineMarker = `\ No newline at end of file`

// RenderUnifiedDiff returns a unified diff. If color, the diff will include ANSI color markers.
//
// Old and new file headers are always emitted. Changes separated by at most 2*contextSize unchanged lines share an @@ hunk. A line without a final newline is followed by
// the conventional "\ No newline at end of file" marker. If d has no changes, only the file headers are returned.
func (d Diff) RenderUnifiedDiff(color bool, fromFilename string, toFilename string, contextSize int) string {
	p := newPalette(color)

	out := []string{
		p.header.Sprint("--- " + fromFilename),
		p.header.Sprint("+++ " + toFilename),
	}
	for _, g := range d.groups(contextSize) {
		out = append(out, p.hunk.Sprint(g.header()))
		for _, r := range g.rows {
			switch r.kind {
			case rowContext:
				out = append(out, " "+r.text)
			case rowDelete:
				out = append(out, p.del.Sprint("-"+r.text))
			case rowInsert:
				out = append(out, p.ins.Sprint("+"+r.text))
			}
			if r.noEOL {
				out = append(out, noNewlineMarker)
			}
		}
	}
	return strings.Join(out, "\n")
}

// RenderPretty returns a human-oriented, colorized rendering of d without unified-diff hunk headers. Each line is prefixed like a unified diff: " " for context,
// "-" for deletions, and "+" for insertions; replacements are shown as a "-" line followed by a "+" line. Within changed lines, intra-line additions and deletions
// are highlighted.
//
// If fromFilename and toFilename are both empty, no header is printed. Otherwise a single header line is emitted in one of these forms:
//   - "add <to>:" when only toFilename is set
//   - "delete <from>:" when only fromFilename is set
//   - "<name>:" when both are equal
//   - "<from> -> <to>:" otherwise
//
// contextSize controls how many unchanged lines are shown before and after each group of changes. Groups are separated by a "…" line.
//
// The output contains ANSI escape sequences and is intended for terminals; it is not a machine-readable diff. For a traditional unified diff, use RenderUnifiedDiff.
func (d Diff) RenderPretty(fromFilename string, toFilename string, contextSize int) string {
	return d.renderPretty(newPalette(true), fromFilename, toFilename, contextSize)
}

// RenderPrettyNoColor is RenderPretty without ANSI escape sequences.
func (d Diff) RenderPrettyNoColor(fromFilename string, toFilename string, contextSize int) string {
	return d.renderPretty(newPalette(false), fromFilename, toFilename, contextSize)
}

func (d Diff) renderPretty(p palette, fromFilename string, toFilename string, contextSize int) string {
	var out []string

	if !(fromFilename == "" && toFilename == "") {
		var header string
		switch {
		case fromFilename == "":
			header = fmt.Sprintf("add %s:", toFilename)
		case toFilename == "":
			header = fmt.Sprintf("delete %s:", fromFilename)
		case fromFilename == toFilename:
			header = fmt.Sprintf("%s:", fromFilename)
		default:
			header = fmt.Sprintf("%s -> %s:", fromFilename, toFilename)
		}
		out = append(out, p.header.Sprint(header))
	}

	for gi, g := range d.groups(contextSize) {
		if gi > 0 {
			out = append(out, "…")
		}
		for _, r := range g.rows {
			switch r.kind {
			case rowContext:
				out = append(out, " "+r.text)
			case rowDelete:
				out = append(out, p.delLine.Sprint("-")+highlight(r, p.delLine, p.delSpan))
			case rowInsert:
				out = append(out, p.insLine.Sprint("+")+highlight(r, p.insLine, p.insSpan))
			}
		}
	}

	return strings.Join(out, defaultEOL)
}

// highlight renders the content of a changed row, emphasizing its changed spans.
func highlight(r row, base, emphasis *color.Color) string {
	if r.line == nil || len(r.line.Spans) == 0 {
		return base.Sprint(r.text)
	}
	var b strings.Builder
	for _, sp := range r.line.Spans {
		text := sp.NewText
		if r.kind == rowDelete {
			text = sp.OldText
		}
		if text == "" {
			continue
		}
		if sp.Op == OpEqual {
			b.WriteString(base.Sprint(text))
		} else {
			b.WriteString(emphasis.Sprint(text))
		}
	}
	return b.String()
}

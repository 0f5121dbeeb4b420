package diff

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/codalotl/linediff/internal/linediff"
)

// DiffText diffs oldText to newText, returning a Diff.
//
// Lines are aligned with linediff.Compute using opts. Within a non-equal hunk, old and new lines are paired in order; paired lines get spans computed from character
// changes when opts.ShouldComputeCharChanges is set, and a single replace span otherwise. If opts.ShouldIgnoreTrimWhitespace is set, lines that differ only in leading
// or trailing spaces and tabs end up in OpEqual hunks.
func DiffText(oldText, newText string, opts linediff.Options) Diff {
	lineOpts := opts
	lineOpts.ShouldComputeCharChanges = false // spans are computed per paired line below
	res := linediff.Compute(strings.Split(oldText, defaultEOL), strings.Split(newText, defaultEOL), lineOpts)

	b := &hunkBuilder{
		opts:     opts,
		oldLines: splitPreserveEOL(oldText, defaultEOL),
		newLines: splitPreserveEOL(newText, defaultEOL),
	}

	// Line numbers index the "\n"-split lines; a final empty element past the last "\n" has no text.
	oldPos, newPos := 0, 0
	for _, c := range res.Changes {
		oldFrom, oldTo := lineRange(c.OriginalStartLineNumber, c.OriginalEndLineNumber)
		newFrom, newTo := lineRange(c.ModifiedStartLineNumber, c.ModifiedEndLineNumber)
		b.addEqual(oldPos, oldFrom, newPos, newFrom)
		b.addChange(oldFrom, oldTo, newFrom, newTo)
		oldPos, newPos = oldTo, newTo
	}
	b.addEqual(oldPos, len(b.oldLines), newPos, len(b.newLines))
	b.flush()

	diff := Diff{
		OldText:              oldText,
		NewText:              newText,
		Hunks:                b.hunks,
		IgnoreTrimWhitespace: opts.ShouldIgnoreTrimWhitespace,
		QuitEarly:            res.QuitEarly,
	}

	if err := diff.validate(); err != nil {
		panic(fmt.Errorf("DiffText: validate failed with %v", err))
	}

	return diff
}

// lineRange converts one side of a LineChange to a half-open 0-based line range.
func lineRange(start, end int) (int, int) {
	if end == 0 {
		return start, start
	}
	return start - 1, end
}

// hunkBuilder accumulates hunks from alternating equal and changed line ranges.
type hunkBuilder struct {
	opts     linediff.Options
	oldLines []string
	newLines []string
	hunks    []DiffHunk

	// Pending non-equal lines, flushed as one hunk.
	dels []string
	ins  []string
}

func linesIn(lines []string, from, to int) []string {
	from = min(from, len(lines))
	to = min(max(to, from), len(lines))
	return lines[from:to]
}

func (b *hunkBuilder) addEqual(oldFrom, oldTo, newFrom, newTo int) {
	old := linesIn(b.oldLines, oldFrom, oldTo)
	nw := linesIn(b.newLines, newFrom, newTo)

	// Lines the engine matched can still differ byte-wise (ex: a missing final newline). Those, and everything after them, join the pending change.
	k := 0
	for k < len(old) && k < len(nw) && linesMatch(old[k:k+1], nw[k:k+1], b.opts.ShouldIgnoreTrimWhitespace) {
		k++
	}
	if k > 0 {
		b.flush()
		oldText := strings.Join(old[:k], "")
		newText := strings.Join(nw[:k], "")
		if n := len(b.hunks); n > 0 && b.hunks[n-1].Op == OpEqual {
			b.hunks[n-1].OldText += oldText
			b.hunks[n-1].NewText += newText
		} else {
			b.hunks = append(b.hunks, DiffHunk{Op: OpEqual, OldText: oldText, NewText: newText})
		}
	}
	b.dels = append(b.dels, old[k:]...)
	b.ins = append(b.ins, nw[k:]...)
}

func (b *hunkBuilder) addChange(oldFrom, oldTo, newFrom, newTo int) {
	b.dels = append(b.dels, linesIn(b.oldLines, oldFrom, oldTo)...)
	b.ins = append(b.ins, linesIn(b.newLines, newFrom, newTo)...)
}

func (b *hunkBuilder) flush() {
	if len(b.dels) == 0 && len(b.ins) == 0 {
		return
	}
	var op Op
	switch {
	case len(b.dels) > 0 && len(b.ins) > 0:
		op = OpReplace
	case len(b.dels) > 0:
		op = OpDelete
	default:
		op = OpInsert
	}
	b.hunks = append(b.hunks, DiffHunk{
		Op:      op,
		OldText: strings.Join(b.dels, ""),
		NewText: strings.Join(b.ins, ""),
		Lines:   b.buildDiffLines(b.dels, b.ins),
	})
	b.dels = nil
	b.ins = nil
}

// linesMatch reports whether old and nw are the same lines, or, if ignoreTrimWhitespace, the same lines up to leading/trailing spaces and tabs.
func linesMatch(old, nw []string, ignoreTrimWhitespace bool) bool {
	if len(old) != len(nw) {
		return false
	}
	for i := range old {
		if old[i] == nw[i] {
			continue
		}
		if !ignoreTrimWhitespace {
			return false
		}
		oldCore, oldEOL := trimEOL(old[i], defaultEOL)
		newCore, newEOL := trimEOL(nw[i], defaultEOL)
		if oldEOL != newEOL || trimBlank(oldCore) != trimBlank(newCore) {
			return false
		}
	}
	return true
}

func trimBlank(s string) string {
	return strings.Trim(s, " \t")
}

// buildDiffLines constructs DiffLine entries and inline spans.
func (b *hunkBuilder) buildDiffLines(deleteLines, insertLines []string) []DiffLine {
	// Pair up replacements for min(len(delete), len(insert)); leftovers are pure deletes/inserts.
	n := min(len(deleteLines), len(insertLines))
	var lines []DiffLine

	for i := 0; i < n; i++ {
		oldLine := deleteLines[i]
		newLine := insertLines[i]
		if oldLine == newLine {
			lines = append(lines, DiffLine{Op: OpEqual, OldText: oldLine, NewText: newLine})
			continue
		}
		oldCore, _ := trimEOL(oldLine, defaultEOL)
		newCore, _ := trimEOL(newLine, defaultEOL)
		lines = append(lines, DiffLine{Op: OpReplace, OldText: oldLine, NewText: newLine, Spans: b.lineSpans(oldCore, newCore)})
	}
	for _, oldLine := range deleteLines[n:] {
		oldCore, _ := trimEOL(oldLine, defaultEOL)
		lines = append(lines, DiffLine{Op: OpDelete, OldText: oldLine, Spans: wholeLineSpans(oldCore, "")})
	}
	for _, newLine := range insertLines[n:] {
		newCore, _ := trimEOL(newLine, defaultEOL)
		lines = append(lines, DiffLine{Op: OpInsert, NewText: newLine, Spans: wholeLineSpans("", newCore)})
	}
	return lines
}

// lineSpans diffs two line cores (no EOL) into spans.
func (b *hunkBuilder) lineSpans(oldCore, newCore string) []DiffSpan {
	if !b.opts.ShouldComputeCharChanges || oldCore == "" || newCore == "" {
		return wholeLineSpans(oldCore, newCore)
	}

	res := linediff.Compute([]string{oldCore}, []string{newCore}, linediff.Options{
		ShouldComputeCharChanges:     true,
		ShouldPostProcessCharChanges: b.opts.ShouldPostProcessCharChanges,
		ShouldMakePrettyDiff:         b.opts.ShouldMakePrettyDiff,
		MaxComputationTime:           b.opts.MaxComputationTime,
		Clock:                        b.opts.Clock,
	})

	oldCols := newColumnMap(oldCore)
	newCols := newColumnMap(newCore)
	var regions []spanRegion
	for _, lc := range res.Changes {
		if lc.CharChanges == nil {
			// Out of time for character changes.
			return wholeLineSpans(oldCore, newCore)
		}
		for _, cc := range lc.CharChanges {
			regions = append(regions, spanRegion{
				oldStart: oldCols.start(cc.OriginalStartColumn),
				oldEnd:   oldCols.end(cc.OriginalEndColumn),
				newStart: newCols.start(cc.ModifiedStartColumn),
				newEnd:   newCols.end(cc.ModifiedEndColumn),
			})
		}
	}
	return spansFromRegions(oldCore, newCore, regions)
}

// wholeLineSpans is a single span replacing oldCore with newCore, or nil if both are empty.
func wholeLineSpans(oldCore, newCore string) []DiffSpan {
	op, ok := changeOp(oldCore, newCore)
	if !ok {
		return nil
	}
	return []DiffSpan{{Op: op, OldText: oldCore, NewText: newCore}}
}

// changeOp is the non-equal Op for replacing oldText with newText. ok is false if both are empty.
func changeOp(oldText, newText string) (Op, bool) {
	switch {
	case oldText != "" && newText != "":
		return OpReplace, true
	case oldText != "":
		return OpDelete, true
	case newText != "":
		return OpInsert, true
	default:
		return OpEqual, false
	}
}

// spanRegion is a changed byte range in each of two line cores.
type spanRegion struct {
	oldStart, oldEnd int
	newStart, newEnd int
}

// spansFromRegions splits the cores into alternating equal and changed spans. Regions must be ordered; overlapping or out-of-range bounds are clamped.
func spansFromRegions(oldCore, newCore string, regions []spanRegion) []DiffSpan {
	var spans []DiffSpan
	add := func(oldText, newText string, equal bool) {
		if oldText == "" && newText == "" {
			return
		}
		if equal && oldText == newText {
			if n := len(spans); n > 0 && spans[n-1].Op == OpEqual {
				spans[n-1].OldText += oldText
				spans[n-1].NewText += newText
				return
			}
			spans = append(spans, DiffSpan{Op: OpEqual, OldText: oldText, NewText: newText})
			return
		}
		if n := len(spans); n > 0 && spans[n-1].Op != OpEqual {
			oldText = spans[n-1].OldText + oldText
			newText = spans[n-1].NewText + newText
			spans = spans[:n-1]
		}
		op, _ := changeOp(oldText, newText)
		spans = append(spans, DiffSpan{Op: op, OldText: oldText, NewText: newText})
	}

	oldPos, newPos := 0, 0
	for _, r := range regions {
		oldStart := min(max(r.oldStart, oldPos), len(oldCore))
		oldEnd := min(max(r.oldEnd, oldStart), len(oldCore))
		newStart := min(max(r.newStart, newPos), len(newCore))
		newEnd := min(max(r.newEnd, newStart), len(newCore))

		add(oldCore[oldPos:oldStart], newCore[newPos:newStart], true)
		add(oldCore[oldStart:oldEnd], newCore[newStart:newEnd], false)
		oldPos, newPos = oldEnd, newEnd
	}
	add(oldCore[oldPos:], newCore[newPos:], true)
	return spans
}

// columnMap converts 1-based UTF-16 columns of a string to byte offsets. A column inside a surrogate pair rounds down for starts and up for ends, so a rune is never
// split.
type columnMap struct {
	down []int // byte offset of the rune containing each code unit; one extra entry for the end
	up   []int // like down, but the second unit of a pair maps past its rune
}

func newColumnMap(s string) columnMap {
	var m columnMap
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		units := max(utf16.RuneLen(r), 1)
		for u := 0; u < units; u++ {
			m.down = append(m.down, i)
			if u == 0 {
				m.up = append(m.up, i)
			} else {
				m.up = append(m.up, i+size)
			}
		}
		i += size
	}
	m.down = append(m.down, len(s))
	m.up = append(m.up, len(s))
	return m
}

func (m columnMap) start(column int) int {
	return m.down[min(max(column-1, 0), len(m.down)-1)]
}

func (m columnMap) end(column int) int {
	return m.up[min(max(column-1, 0), len(m.up)-1)]
}

// splitPreserveEOL splits text by eol and preserves the eol on each line, except possibly the last.
func splitPreserveEOL(text, eol string) []string {
	if text == "" {
		return nil
	}
	if eol == "" {
		eol = defaultEOL
	}
	var lines []string
	for {
		idx := strings.Index(text, eol)
		if idx == -1 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+len(eol)])
		text = text[idx+len(eol):]
		if text == "" {
			break
		}
	}
	return lines
}

// trimEOL removes a trailing eol from a line if present.
func trimEOL(line, eol string) (string, bool) {
	if eol != "" && strings.HasSuffix(line, eol) {
		return line[:len(line)-len(eol)], true
	}
	return line, false
}

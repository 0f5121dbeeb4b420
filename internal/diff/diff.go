package diff

// Op is an operation from old text to new text.
type Op int

// Operations from old text to new text.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Diff is a diff from old text to new text.
//
// As an illustration: two separate functions are edited in the middle of a file. This produces:
//   - Hunks[0] is OpEqual (the prefix of the file).
//   - Hunks[1] is the first change, a group of contiguous changed lines. OpReplace.
//   - Hunks[2] is OpEqual (the lines between the edits).
//   - Hunks[3] is the second change. If code was strictly inserted, OpInsert.
//   - Hunks[last] is OpEqual (the suffix of the file).
//
// Invariants:
//   - concat(Hunks.OldText) == OldText
//   - concat(Hunks.NewText) == NewText
type Diff struct {
	OldText string     // Entire original text.
	NewText string     // Entire revised text.
	Hunks   []DiffHunk // Ordered hunks that cover the whole diff and reconstruct OldText/NewText.

	// IgnoreTrimWhitespace is set when lines differing only in leading/trailing spaces and tabs were treated as equal. OpEqual hunks may then have OldText != NewText.
	IgnoreTrimWhitespace bool

	// QuitEarly is set when the time budget ran out. The hunks are still valid but may be coarser than necessary.
	QuitEarly bool
}

// DiffHunk represents a contiguous group of lines. The \n character is part of the hunk and line (ex: if a hunk in the middle of some text is removed, OldText for that
// hunk is \n terminated).
//
// Operations:
//   - OpEqual: OldText == NewText (or equal ignoring trim whitespace, see Diff.IgnoreTrimWhitespace)
//   - OpInsert: OldText=="" && NewText!=""
//   - OpDelete: OldText!="" && NewText==""
//   - OpReplace: OldText != "" and NewText != ""
//
// Invariants:
//   - If OpEqual, Lines is nil. Otherwise,
//   - concat(Lines.OldText) == OldText
//   - concat(Lines.NewText) == NewText
type DiffHunk struct {
	Op      Op         // Operation for this hunk (OpEqual, OpInsert, OpDelete, or OpReplace).
	OldText string     // Concatenation of old lines in this hunk; empty for inserts.
	NewText string     // Concatenation of new lines in this hunk; empty for deletes.
	Lines   []DiffLine // Per-line diffs when Op != OpEqual; nil when OpEqual.
}

// DiffLine is a diff on a single line. Each line usually ends with (and includes) \n, unless it is the last line of a text without a final \n.
//
// Operations follow the pattern of DiffHunk.
//
// Invariants:
//   - If OpEqual, Spans is nil. Otherwise,
//   - concat(Spans.OldText) + \n? == OldText (\n? is an optional newline, since spans cannot contain \n, but lines usually do)
//   - concat(Spans.NewText) + \n? == NewText
type DiffLine struct {
	Op      Op         // Operation for this line (OpEqual, OpInsert, OpDelete, or OpReplace).
	OldText string     // Entire old line (including trailing newline if present); empty for inserts.
	NewText string     // Entire new line (including trailing newline if present); empty for deletes.
	Spans   []DiffSpan // Intra-line segments when Op != OpEqual; nil when OpEqual. Spans never contain newlines.
}

// DiffSpan is a diff within a line. It MUST NOT contain any \n.
//
// Operations follow the pattern of DiffHunk.
type DiffSpan struct {
	Op      Op     // Operation performed by this span (OpEqual, OpInsert, OpDelete, or OpReplace).
	OldText string // Substring from the old line; empty for inserts.
	NewText string // Substring from the new line; empty for deletes.
}

// Stats counts changed lines. A replaced line counts as one deletion and one insertion.
type Stats struct {
	Insertions int
	Deletions  int
}

// HasChanges reports whether d has any non-equal hunk.
func (d Diff) HasChanges() bool {
	for _, h := range d.Hunks {
		if h.Op != OpEqual {
			return true
		}
	}
	return false
}

// Stats returns the number of inserted and deleted lines in d.
func (d Diff) Stats() Stats {
	var s Stats
	for _, h := range d.Hunks {
		for _, ln := range h.Lines {
			switch ln.Op {
			case OpInsert:
				s.Insertions++
			case OpDelete:
				s.Deletions++
			case OpReplace:
				s.Insertions++
				s.Deletions++
			}
		}
	}
	return s
}

// defaultEOL is the EOL ('\n').
//
// This constant exists because the design may change to allow configurable EOLs (maybe Windows needs "\r\n"), and this provides a nice hook to find callsites.
const defaultEOL = "\n"

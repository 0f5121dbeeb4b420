package linediff

import "github.com/codalotl/linediff/internal/lcs"

// minimumMatchingCharacterLength is the shortest run of matching characters that keeps two char changes apart after post-processing.
const minimumMatchingCharacterLength = 3

// maxCharDiffLines is the exclusive bound on chunk length, per side, for computing char changes.
const maxCharDiffLines = 20

// Result is the outcome of Compute.
type Result struct {
	QuitEarly bool // QuitEarly is set when a time budget ran out; Changes is then coarser than optimal.
	Changes   []LineChange
}

// LineChange replaces original lines OriginalStartLineNumber..OriginalEndLineNumber with modified lines ModifiedStartLineNumber..ModifiedEndLineNumber (1-based, inclusive).
//
// A side with no lines has EndLineNumber 0 and StartLineNumber equal to the line after which the other side's lines are inserted (0 for the start of the text).
type LineChange struct {
	OriginalStartLineNumber int
	OriginalEndLineNumber   int
	ModifiedStartLineNumber int
	ModifiedEndLineNumber   int

	// CharChanges refine the change within its lines. nil when not computed.
	CharChanges []CharChange
}

// CharChange is a changed character region. Positions are 1-based; end columns are exclusive.
type CharChange struct {
	OriginalStartLineNumber int
	OriginalStartColumn     int
	OriginalEndLineNumber   int
	OriginalEndColumn       int
	ModifiedStartLineNumber int
	ModifiedStartColumn     int
	ModifiedEndLineNumber   int
	ModifiedEndColumn       int
}

func newCharChange(c lcs.Change, original, modified *CharSequence) CharChange {
	return CharChange{
		OriginalStartLineNumber: original.StartLineNumber(c.OriginalStart),
		OriginalStartColumn:     original.StartColumn(c.OriginalStart),
		OriginalEndLineNumber:   original.EndLineNumber(c.OriginalEnd() - 1),
		OriginalEndColumn:       original.EndColumn(c.OriginalEnd() - 1),
		ModifiedStartLineNumber: modified.StartLineNumber(c.ModifiedStart),
		ModifiedStartColumn:     modified.StartColumn(c.ModifiedStart),
		ModifiedEndLineNumber:   modified.EndLineNumber(c.ModifiedEnd() - 1),
		ModifiedEndColumn:       modified.EndColumn(c.ModifiedEnd() - 1),
	}
}

// postProcessCharChanges merges changes separated by fewer than minimumMatchingCharacterLength matching characters.
func postProcessCharChanges(changes []lcs.Change) []lcs.Change {
	if len(changes) <= 1 {
		return changes
	}

	result := []lcs.Change{changes[0]}
	prev := &result[0]
	for _, curr := range changes[1:] {
		// The two gaps are equal unless a budget cut the diff short.
		originalMatching := curr.OriginalStart - prev.OriginalEnd()
		modifiedMatching := curr.ModifiedStart - prev.ModifiedEnd()
		if min(originalMatching, modifiedMatching) < minimumMatchingCharacterLength {
			prev.OriginalLength = curr.OriginalEnd() - prev.OriginalStart
			prev.ModifiedLength = curr.ModifiedEnd() - prev.ModifiedStart
			continue
		}
		result = append(result, curr)
		prev = &result[len(result)-1]
	}
	return result
}

// lineChangeBuilder turns line-level lcs changes into LineChanges.
type lineChangeBuilder struct {
	original             *LineSequence
	modified             *LineSequence
	ignoreTrimWhitespace bool
	computeCharChanges   bool
	postProcess          bool
	continueCharDiff     budget
}

func (b *lineChangeBuilder) build(c lcs.Change) LineChange {
	var lc LineChange
	if c.OriginalLength == 0 {
		lc.OriginalStartLineNumber = b.original.StartLineNumber(c.OriginalStart) - 1
		lc.OriginalEndLineNumber = 0
	} else {
		lc.OriginalStartLineNumber = b.original.StartLineNumber(c.OriginalStart)
		lc.OriginalEndLineNumber = b.original.EndLineNumber(c.OriginalEnd() - 1)
	}
	if c.ModifiedLength == 0 {
		lc.ModifiedStartLineNumber = b.modified.StartLineNumber(c.ModifiedStart) - 1
		lc.ModifiedEndLineNumber = 0
	} else {
		lc.ModifiedStartLineNumber = b.modified.StartLineNumber(c.ModifiedStart)
		lc.ModifiedEndLineNumber = b.modified.EndLineNumber(c.ModifiedEnd() - 1)
	}

	if b.computeCharChanges &&
		c.OriginalLength > 0 && c.OriginalLength < maxCharDiffLines &&
		c.ModifiedLength > 0 && c.ModifiedLength < maxCharDiffLines &&
		b.continueCharDiff() {
		lc.CharChanges = b.charChanges(c)
	}
	return lc
}

func (b *lineChangeBuilder) charChanges(c lcs.Change) []CharChange {
	original := b.original.CharSequence(b.ignoreTrimWhitespace, c.OriginalStart, c.OriginalEnd()-1)
	modified := b.modified.CharSequence(b.ignoreTrimWhitespace, c.ModifiedStart, c.ModifiedEnd()-1)
	if original.Len() == 0 || modified.Len() == 0 {
		return nil
	}

	raw := lcs.Diff(original, modified, b.continueCharDiff.continueFunc(), true).Changes
	if b.postProcess {
		raw = postProcessCharChanges(raw)
	}
	charChanges := make([]CharChange, 0, len(raw))
	for _, rc := range raw {
		charChanges = append(charChanges, newCharChange(rc, original, modified))
	}
	return charChanges
}

package linediff

import (
	"github.com/codalotl/linediff/internal/lcs"
	"go.uber.org/zap"
)

// Compute diffs originalLines against modifiedLines. Lines must not contain "\n". An empty slice is treated like a single empty line.
func Compute(originalLines, modifiedLines []string, opts Options) Result {
	log := opts.logger()
	if len(originalLines) == 0 {
		originalLines = []string{""}
	}
	if len(modifiedLines) == 0 {
		modifiedLines = []string{""}
	}

	// Empty sides need no search. The change covers the whole text, so it carries no char changes.
	originalEmpty := len(originalLines) == 1 && originalLines[0] == ""
	modifiedEmpty := len(modifiedLines) == 1 && modifiedLines[0] == ""
	switch {
	case originalEmpty && modifiedEmpty:
		log.Debug("linediff: both sides empty")
		return Result{}
	case originalEmpty:
		log.Debug("linediff: empty original", zap.Int("modifiedLines", len(modifiedLines)))
		return Result{Changes: []LineChange{fastPathChange(1, 1, 1, len(modifiedLines))}}
	case modifiedEmpty:
		log.Debug("linediff: empty modified", zap.Int("originalLines", len(originalLines)))
		return Result{Changes: []LineChange{fastPathChange(1, len(originalLines), 1, 1)}}
	}

	c := &computer{
		opts:          opts,
		originalLines: originalLines,
		modifiedLines: modifiedLines,
		original:      NewLineSequence(originalLines),
		modified:      NewLineSequence(modifiedLines),
	}
	clock := opts.clock()
	continueLineDiff := newBudget(clock, opts.MaxComputationTime)
	c.builder = &lineChangeBuilder{
		original:             c.original,
		modified:             c.modified,
		ignoreTrimWhitespace: opts.ShouldIgnoreTrimWhitespace,
		computeCharChanges:   opts.ShouldComputeCharChanges,
		postProcess:          opts.ShouldPostProcessCharChanges,
		continueCharDiff:     charBudget(clock, opts.MaxComputationTime),
	}

	// Lines are always compared with trim whitespace ignored; that gives the best placement.
	lineResult := lcs.Diff(c.original, c.modified, continueLineDiff.continueFunc(), opts.ShouldMakePrettyDiff)
	if lineResult.QuitEarly {
		log.Debug("linediff: line diff quit early", zap.Duration("maxComputationTime", opts.MaxComputationTime))
	}

	var changes []LineChange
	if opts.ShouldIgnoreTrimWhitespace {
		changes = make([]LineChange, 0, len(lineResult.Changes))
		for _, rc := range lineResult.Changes {
			changes = append(changes, c.builder.build(rc))
		}
	} else {
		changes = c.withTrimWhitespaceChanges(lineResult.Changes)
	}

	log.Debug("linediff: computed diff",
		zap.Int("originalLines", len(originalLines)),
		zap.Int("modifiedLines", len(modifiedLines)),
		zap.Int("lineChanges", len(changes)),
		zap.Bool("quitEarly", lineResult.QuitEarly),
	)
	return Result{QuitEarly: lineResult.QuitEarly, Changes: changes}
}

func fastPathChange(originalStart, originalEnd, modifiedStart, modifiedEnd int) LineChange {
	return LineChange{
		OriginalStartLineNumber: originalStart,
		OriginalEndLineNumber:   originalEnd,
		ModifiedStartLineNumber: modifiedStart,
		ModifiedEndLineNumber:   modifiedEnd,
	}
}

type computer struct {
	opts          Options
	originalLines []string
	modifiedLines []string
	original      *LineSequence
	modified      *LineSequence
	builder       *lineChangeBuilder
}

// withTrimWhitespaceChanges converts raw line changes and adds a change for every matched line pair that differs in leading or trailing whitespace.
func (c *computer) withTrimWhitespaceChanges(raw []lcs.Change) []LineChange {
	var result []LineChange
	originalIndex := 0
	modifiedIndex := 0

	// Starting at -1 covers the lines before the first change.
	for i := -1; i < len(raw); i++ {
		originalStop := len(c.originalLines)
		modifiedStop := len(c.modifiedLines)
		if i+1 < len(raw) {
			originalStop = raw[i+1].OriginalStart
			modifiedStop = raw[i+1].ModifiedStart
		}

		for originalIndex < originalStop && modifiedIndex < modifiedStop {
			if c.originalLines[originalIndex] != c.modifiedLines[modifiedIndex] {
				result = c.appendTrimWhitespaceChanges(result, originalIndex, modifiedIndex)
			}
			originalIndex++
			modifiedIndex++
		}

		if i+1 < len(raw) {
			next := raw[i+1]
			result = append(result, c.builder.build(next))
			originalIndex += next.OriginalLength
			modifiedIndex += next.ModifiedLength
		}
	}
	return result
}

// appendTrimWhitespaceChanges adds changes for the differing leading and trailing whitespace of a matched line pair.
func (c *computer) appendTrimWhitespaceChanges(result []LineChange, originalIndex, modifiedIndex int) []LineChange {
	originalLine := c.original.units[originalIndex]
	modifiedLine := c.modified.units[modifiedIndex]
	originalLineNumber := originalIndex + 1
	modifiedLineNumber := modifiedIndex + 1

	// Leading whitespace: walk left from the first non-blank columns while the whitespace agrees.
	originalStartColumn := firstNonBlankColumn(originalLine)
	modifiedStartColumn := firstNonBlankColumn(modifiedLine)
	for originalStartColumn > 1 && modifiedStartColumn > 1 {
		if originalLine[originalStartColumn-2] != modifiedLine[modifiedStartColumn-2] {
			break
		}
		originalStartColumn--
		modifiedStartColumn--
	}
	if originalStartColumn > 1 || modifiedStartColumn > 1 {
		result = c.pushTrimWhitespaceChange(result, CharChange{
			OriginalStartLineNumber: originalLineNumber,
			OriginalStartColumn:     1,
			OriginalEndLineNumber:   originalLineNumber,
			OriginalEndColumn:       originalStartColumn,
			ModifiedStartLineNumber: modifiedLineNumber,
			ModifiedStartColumn:     1,
			ModifiedEndLineNumber:   modifiedLineNumber,
			ModifiedEndColumn:       modifiedStartColumn,
		})
	}

	// Trailing whitespace: walk right from the last non-blank columns while the whitespace agrees.
	originalEndColumn := lastNonBlankColumn(originalLine)
	modifiedEndColumn := lastNonBlankColumn(modifiedLine)
	originalMaxColumn := len(originalLine) + 1
	modifiedMaxColumn := len(modifiedLine) + 1
	for originalEndColumn < originalMaxColumn && modifiedEndColumn < modifiedMaxColumn {
		if originalLine[originalEndColumn-1] != modifiedLine[modifiedEndColumn-1] {
			break
		}
		originalEndColumn++
		modifiedEndColumn++
	}
	if originalEndColumn < originalMaxColumn || modifiedEndColumn < modifiedMaxColumn {
		result = c.pushTrimWhitespaceChange(result, CharChange{
			OriginalStartLineNumber: originalLineNumber,
			OriginalStartColumn:     originalEndColumn,
			OriginalEndLineNumber:   originalLineNumber,
			OriginalEndColumn:       originalMaxColumn,
			ModifiedStartLineNumber: modifiedLineNumber,
			ModifiedStartColumn:     modifiedEndColumn,
			ModifiedEndLineNumber:   modifiedLineNumber,
			ModifiedEndColumn:       modifiedMaxColumn,
		})
	}
	return result
}

// pushTrimWhitespaceChange appends a single-line whitespace change, folding it into the previous change when that one ends on the same or the preceding lines.
func (c *computer) pushTrimWhitespaceChange(result []LineChange, cc CharChange) []LineChange {
	originalLineNumber := cc.OriginalStartLineNumber
	modifiedLineNumber := cc.ModifiedStartLineNumber

	if len(result) > 0 {
		prev := &result[len(result)-1]
		// Inserts and deletes are never extended.
		if prev.OriginalEndLineNumber != 0 && prev.ModifiedEndLineNumber != 0 {
			sameLines := prev.OriginalEndLineNumber == originalLineNumber && prev.ModifiedEndLineNumber == modifiedLineNumber
			nextLines := prev.OriginalEndLineNumber+1 == originalLineNumber && prev.ModifiedEndLineNumber+1 == modifiedLineNumber
			if sameLines || nextLines {
				prev.OriginalEndLineNumber = originalLineNumber
				prev.ModifiedEndLineNumber = modifiedLineNumber
				if c.opts.ShouldComputeCharChanges && prev.CharChanges != nil {
					prev.CharChanges = append(prev.CharChanges, cc)
				}
				return result
			}
		}
	}

	lc := LineChange{
		OriginalStartLineNumber: originalLineNumber,
		OriginalEndLineNumber:   originalLineNumber,
		ModifiedStartLineNumber: modifiedLineNumber,
		ModifiedEndLineNumber:   modifiedLineNumber,
	}
	if c.opts.ShouldComputeCharChanges {
		lc.CharChanges = []CharChange{cc}
	}
	return append(result, lc)
}

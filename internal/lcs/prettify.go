package lcs

import "slices"

// Limits for the search for a better placement of the match between two nearby changes.
const (
	maxDisambiguationMatchLength = 5
	maxDisambiguationSpanLength  = 20

	// maxPrettifyPasses bounds the passes prettify makes while waiting for the changes to settle.
	maxPrettifyPasses = 64
)

// prettify shifts changes to intuitive boundaries and merges changes that end up touching. changes is modified in place.
//
// A single pass can leave changes that another pass would still move, because redistributing a match changes the neighbour seen by the next pair. Passes repeat until
// they produce changes seen before, so prettifying the result again returns it unchanged.
func (d *differ) prettify(changes []Change) []Change {
	seen := [][]Change{slices.Clone(changes)}
	for range maxPrettifyPasses {
		changes = d.prettifyPass(changes)
		for _, prev := range seen {
			if slices.Equal(prev, changes) {
				return changes
			}
		}
		seen = append(seen, slices.Clone(changes))
	}
	return changes
}

func (d *differ) prettifyPass(changes []Change) []Change {
	// Shift every change down as far as possible.
	for i := 0; i < len(changes); i++ {
		change := &changes[i]
		originalStop := len(d.original.keys)
		modifiedStop := len(d.modified.keys)
		if i < len(changes)-1 {
			originalStop = changes[i+1].OriginalStart
			modifiedStop = changes[i+1].ModifiedStart
		}
		checkOriginal := change.OriginalLength > 0
		checkModified := change.ModifiedLength > 0

		for change.OriginalEnd() < originalStop &&
			change.ModifiedEnd() < modifiedStop &&
			(!checkOriginal || d.originalElementsAreEqual(change.OriginalStart, change.OriginalEnd())) &&
			(!checkModified || d.modifiedElementsAreEqual(change.ModifiedStart, change.ModifiedEnd())) {

			startStrictEqual := d.elementsAreStrictEqual(change.OriginalStart, change.ModifiedStart)
			endStrictEqual := d.elementsAreStrictEqual(change.OriginalEnd(), change.ModifiedEnd())
			if endStrictEqual && !startStrictEqual {
				// Shifting would leave an equal but not identical pair unchanged.
				break
			}
			change.OriginalStart++
			change.ModifiedStart++
		}

		if i < len(changes)-1 {
			if merged, ok := changesOverlap(changes[i], changes[i+1]); ok {
				changes[i] = merged
				changes = slices.Delete(changes, i+1, i+2)
				i--
			}
		}
	}

	// Shift changes back up, preferring blank lines and sequence ends as boundaries.
	for i := len(changes) - 1; i >= 0; i-- {
		change := &changes[i]
		originalStop := 0
		modifiedStop := 0
		if i > 0 {
			originalStop = changes[i-1].OriginalEnd()
			modifiedStop = changes[i-1].ModifiedEnd()
		}
		checkOriginal := change.OriginalLength > 0
		checkModified := change.ModifiedLength > 0

		bestDelta := 0
		bestScore := d.boundaryScore(change.OriginalStart, change.OriginalLength, change.ModifiedStart, change.ModifiedLength)

		for delta := 1; ; delta++ {
			originalStart := change.OriginalStart - delta
			modifiedStart := change.ModifiedStart - delta
			if originalStart < originalStop || modifiedStart < modifiedStop {
				break
			}
			if checkOriginal && !d.originalElementsAreEqual(originalStart, originalStart+change.OriginalLength) {
				break
			}
			if checkModified && !d.modifiedElementsAreEqual(modifiedStart, modifiedStart+change.ModifiedLength) {
				break
			}

			score := d.boundaryScore(originalStart, change.OriginalLength, modifiedStart, change.ModifiedLength)
			if originalStart == originalStop && modifiedStart == modifiedStop {
				score += 5
			}
			if score > bestScore {
				bestScore = score
				bestDelta = delta
			}
		}

		change.OriginalStart -= bestDelta
		change.ModifiedStart -= bestDelta

		if i > 0 {
			if merged, ok := changesOverlap(changes[i-1], changes[i]); ok {
				// The merged change at i-1 is visited next.
				changes[i-1] = merged
				changes = slices.Delete(changes, i, i+1)
			}
		}
	}

	// Myers can pick any of several equally short scripts. When two changes are separated by a short match, prefer the placement of that match that covers the longest
	// lines.
	if d.hasStrings {
		for i := 1; i < len(changes); i++ {
			a := &changes[i-1]
			b := &changes[i]
			matchedLength := b.OriginalStart - a.OriginalEnd()
			aOriginalStart := a.OriginalStart
			bOriginalEnd := b.OriginalEnd()
			abOriginalLength := bOriginalEnd - aOriginalStart
			aModifiedStart := a.ModifiedStart
			bModifiedEnd := b.ModifiedEnd()
			abModifiedLength := bModifiedEnd - aModifiedStart

			if matchedLength >= maxDisambiguationMatchLength || abOriginalLength >= maxDisambiguationSpanLength || abModifiedLength >= maxDisambiguationSpanLength {
				continue
			}

			originalMatchStart, modifiedMatchStart, ok := d.findBetterContiguousSequence(aOriginalStart, abOriginalLength, aModifiedStart, abModifiedLength, matchedLength)
			if !ok || (originalMatchStart == a.OriginalEnd() && modifiedMatchStart == a.ModifiedEnd()) {
				continue
			}
			// Only move the match for strictly longer texts, and never so far that a or b is left empty.
			if d.contiguousSequenceScore(originalMatchStart, modifiedMatchStart, matchedLength) <= d.contiguousSequenceScore(a.OriginalEnd(), a.ModifiedEnd(), matchedLength) {
				continue
			}
			if originalMatchStart == a.OriginalStart && modifiedMatchStart == a.ModifiedStart {
				continue
			}
			if originalMatchStart+matchedLength == bOriginalEnd && modifiedMatchStart+matchedLength == bModifiedEnd {
				continue
			}
			a.OriginalLength = originalMatchStart - a.OriginalStart
			a.ModifiedLength = modifiedMatchStart - a.ModifiedStart
			b.OriginalStart = originalMatchStart + matchedLength
			b.ModifiedStart = modifiedMatchStart + matchedLength
			b.OriginalLength = bOriginalEnd - b.OriginalStart
			b.ModifiedLength = bModifiedEnd - b.ModifiedStart
		}
	}

	return changes
}

// findBetterContiguousSequence returns the start of the run of desiredLength equal elements inside the given window whose texts are longest in total.
func (d *differ) findBetterContiguousSequence(originalStart, originalLength, modifiedStart, modifiedLength, desiredLength int) (int, int, bool) {
	if originalLength < desiredLength || modifiedLength < desiredLength {
		return 0, 0, false
	}
	originalMax := originalStart + originalLength - desiredLength + 1
	modifiedMax := modifiedStart + modifiedLength - desiredLength + 1

	bestScore := 0
	bestOriginalStart := 0
	bestModifiedStart := 0
	for i := originalStart; i < originalMax; i++ {
		for j := modifiedStart; j < modifiedMax; j++ {
			score := d.contiguousSequenceScore(i, j, desiredLength)
			if score > 0 && score > bestScore {
				bestScore = score
				bestOriginalStart = i
				bestModifiedStart = j
			}
		}
	}
	if bestScore > 0 {
		return bestOriginalStart, bestModifiedStart, true
	}
	return 0, 0, false
}

// contiguousSequenceScore is the total text length of the length equal elements starting at (originalStart, modifiedStart), or 0 if they are not all equal.
func (d *differ) contiguousSequenceScore(originalStart, modifiedStart, length int) int {
	score := 0
	for l := 0; l < length; l++ {
		if !d.elementsAreEqual(originalStart+l, modifiedStart+l) {
			return 0
		}
		score += len(d.original.texts[originalStart+l])
	}
	return score
}

func (d *differ) originalIsBoundary(index int) bool {
	if index <= 0 || index >= len(d.original.keys)-1 {
		return true
	}
	return d.original.isBlank(index)
}

func (d *differ) originalRegionIsBoundary(originalStart, originalLength int) bool {
	if d.originalIsBoundary(originalStart) || d.originalIsBoundary(originalStart-1) {
		return true
	}
	if originalLength > 0 {
		originalEnd := originalStart + originalLength
		if d.originalIsBoundary(originalEnd-1) || d.originalIsBoundary(originalEnd) {
			return true
		}
	}
	return false
}

func (d *differ) modifiedIsBoundary(index int) bool {
	if index <= 0 || index >= len(d.modified.keys)-1 {
		return true
	}
	return d.modified.isBlank(index)
}

func (d *differ) modifiedRegionIsBoundary(modifiedStart, modifiedLength int) bool {
	if d.modifiedIsBoundary(modifiedStart) || d.modifiedIsBoundary(modifiedStart-1) {
		return true
	}
	if modifiedLength > 0 {
		modifiedEnd := modifiedStart + modifiedLength
		if d.modifiedIsBoundary(modifiedEnd-1) || d.modifiedIsBoundary(modifiedEnd) {
			return true
		}
	}
	return false
}

// boundaryScore scores a candidate placement: one point per side whose region starts or ends at a boundary.
func (d *differ) boundaryScore(originalStart, originalLength, modifiedStart, modifiedLength int) int {
	score := 0
	if d.originalRegionIsBoundary(originalStart, originalLength) {
		score++
	}
	if d.modifiedRegionIsBoundary(modifiedStart, modifiedLength) {
		score++
	}
	return score
}

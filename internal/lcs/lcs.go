package lcs

import "fmt"

// maxDifferencesHistory is the number of frontier snapshots kept per recursion-point search. Past it the search still finds a split point but can no longer walk the path
// back, so the caller recurses instead. It bounds worst-case memory independently of input size.
const maxDifferencesHistory = 1447

// ContinueFunc is polled once per search iteration with the furthest original index reached and the length of the longest match so far. Returning false stops the
// computation early.
type ContinueFunc func(furthestOriginalIndex, matchLengthOfLongest int) bool

// Result is the outcome of Diff.
type Result struct {
	QuitEarly bool     // QuitEarly is set when a ContinueFunc stopped the computation; Changes is then coarser than optimal.
	Changes   []Change // Ordered, non-overlapping changes.
}

// Diff computes the changes that transform original into modified. If pretty, the changes are passed through Prettify before returning.
//
// shouldContinue may be nil, meaning the computation always runs to completion.
func Diff(original, modified Sequence, shouldContinue ContinueFunc, pretty bool) Result {
	d := newDiffer(original, modified, shouldContinue)
	changes, quitEarly := d.computeRecursive(0, len(d.original.keys)-1, 0, len(d.modified.keys)-1)
	if pretty {
		changes = d.prettify(changes)
	}
	return Result{QuitEarly: quitEarly, Changes: changes}
}

// Prettify reshapes changes between original and modified (ex: the result of an unprettified Diff) into placements a human reader expects. See Diff.
func Prettify(original, modified Sequence, changes []Change) []Change {
	d := newDiffer(original, modified, nil)
	return d.prettify(append([]Change(nil), changes...))
}

// differ holds the state of one Diff call. It is never shared between calls.
type differ struct {
	original       elements
	modified       elements
	hasStrings     bool
	shouldContinue ContinueFunc

	// Frontier snapshots of the current recursion-point search. Each snapshot stores, at index 0, the position of the search's base diagonal within the snapshot.
	forwardHistory [][]int32
	reverseHistory [][]int32
}

func newDiffer(original, modified Sequence, shouldContinue ContinueFunc) *differ {
	in := interner{}
	d := &differ{
		original:       elementsOf(original, in),
		modified:       elementsOf(modified, in),
		shouldContinue: shouldContinue,
	}
	if (d.original.texts == nil) != (d.modified.texts == nil) {
		panic("lcs: original and modified must be the same kind of sequence")
	}
	d.hasStrings = d.original.texts != nil
	return d
}

func (d *differ) elementsAreEqual(originalIndex, modifiedIndex int) bool {
	return d.original.keys[originalIndex] == d.modified.keys[modifiedIndex]
}

// elementsAreStrictEqual reports whether the elements are equal and, if the sequences report exact values, identical.
func (d *differ) elementsAreStrictEqual(originalIndex, modifiedIndex int) bool {
	if !d.elementsAreEqual(originalIndex, modifiedIndex) {
		return false
	}
	o, oOK := d.original.strictElement(originalIndex)
	m, mOK := d.modified.strictElement(modifiedIndex)
	return oOK == mOK && o == m
}

func (d *differ) originalElementsAreEqual(index1, index2 int) bool {
	return d.original.keys[index1] == d.original.keys[index2]
}

func (d *differ) modifiedElementsAreEqual(index1, index2 int) bool {
	return d.modified.keys[index1] == d.modified.keys[index2]
}

// computeRecursive returns the changes for the inclusive ranges [originalStart, originalEnd] and [modifiedStart, modifiedEnd], and whether it quit early.
func (d *differ) computeRecursive(originalStart, originalEnd, modifiedStart, modifiedEnd int) ([]Change, bool) {
	for originalStart <= originalEnd && modifiedStart <= modifiedEnd && d.elementsAreEqual(originalStart, modifiedStart) {
		originalStart++
		modifiedStart++
	}
	for originalEnd >= originalStart && modifiedEnd >= modifiedStart && d.elementsAreEqual(originalEnd, modifiedEnd) {
		originalEnd--
		modifiedEnd--
	}

	// All insertions, all deletions, or identical.
	if originalStart > originalEnd || modifiedStart > modifiedEnd {
		switch {
		case modifiedStart <= modifiedEnd:
			assertf(originalStart == originalEnd+1, "originalStart %d should be one more than originalEnd %d", originalStart, originalEnd)
			return []Change{{OriginalStart: originalStart, ModifiedStart: modifiedStart, ModifiedLength: modifiedEnd - modifiedStart + 1}}, false
		case originalStart <= originalEnd:
			assertf(modifiedStart == modifiedEnd+1, "modifiedStart %d should be one more than modifiedEnd %d", modifiedStart, modifiedEnd)
			return []Change{{OriginalStart: originalStart, OriginalLength: originalEnd - originalStart + 1, ModifiedStart: modifiedStart}}, false
		default:
			assertf(originalStart == originalEnd+1 && modifiedStart == modifiedEnd+1, "identical ranges should be empty after trimming")
			return nil, false
		}
	}

	rp := d.computeRecursionPoint(originalStart, originalEnd, modifiedStart, modifiedEnd)
	if rp.done {
		return rp.changes, rp.quitEarly
	}

	if !rp.quitEarly {
		// Split at the recursion point. Both halves are inclusive, so the right half starts just past the point.
		left, quitEarly := d.computeRecursive(originalStart, rp.midOriginal, modifiedStart, rp.midModified)
		var right []Change
		if !quitEarly {
			right, quitEarly = d.computeRecursive(rp.midOriginal+1, originalEnd, rp.midModified+1, modifiedEnd)
		} else {
			// No time for the right half: treat all of it as changed.
			right = coarseChange(rp.midOriginal+1, originalEnd, rp.midModified+1, modifiedEnd)
		}
		return concatenateChanges(left, right), quitEarly
	}

	return coarseChange(originalStart, originalEnd, modifiedStart, modifiedEnd), true
}

// coarseChange returns one change covering the inclusive ranges, or nil if both are empty.
func coarseChange(originalStart, originalEnd, modifiedStart, modifiedEnd int) []Change {
	c := Change{
		OriginalStart:  originalStart,
		OriginalLength: originalEnd - originalStart + 1,
		ModifiedStart:  modifiedStart,
		ModifiedLength: modifiedEnd - modifiedStart + 1,
	}
	if c.OriginalLength <= 0 && c.ModifiedLength <= 0 {
		return nil
	}
	return []Change{c}
}

// recursionPoint is the outcome of computeRecursionPoint. If done, changes is the complete answer for the range; otherwise the caller splits at (midOriginal, midModified).
type recursionPoint struct {
	midOriginal int
	midModified int
	changes     []Change
	done        bool
	quitEarly   bool
}

// search holds the frontier geometry of one recursion-point search, as needed by walkTrace.
type search struct {
	forwardPoints []int32
	forwardBase   int // Diagonal through (originalStart, modifiedStart).
	forwardStart  int
	forwardEnd    int
	forwardOffset int // Relates modified index to original index and relative diagonal.

	reversePoints []int32
	reverseBase   int // Diagonal through (originalEnd, modifiedEnd).
	reverseStart  int
	reverseEnd    int
	reverseOffset int

	originalEnd int
	modifiedEnd int
	deltaIsEven bool
}

// computeRecursionPoint runs the bidirectional search over the inclusive ranges.
func (d *differ) computeRecursionPoint(originalStart, originalEnd, modifiedStart, modifiedEnd int) recursionPoint {
	// The search starts just outside the given boundary.
	originalStart--
	modifiedStart--

	d.forwardHistory = d.forwardHistory[:0]
	d.reverseHistory = d.reverseHistory[:0]

	// Each cell corresponds to a diagonal of the edit graph and holds the original index of the furthest reaching point found so far on that diagonal. The modified index
	// follows from the original index and the diagonal number.
	maxDifferences := (originalEnd - originalStart) + (modifiedEnd - modifiedStart)
	numDiagonals := maxDifferences + 1

	s := &search{
		forwardPoints: make([]int32, numDiagonals),
		reversePoints: make([]int32, numDiagonals),
		forwardBase:   modifiedEnd - modifiedStart,
		reverseBase:   originalEnd - originalStart,
		forwardOffset: originalStart - modifiedStart,
		reverseOffset: originalEnd - modifiedEnd,
		originalEnd:   originalEnd,
		modifiedEnd:   modifiedEnd,
	}

	// The first overlap happens in the forward direction when delta is odd and in the reverse direction when it is even.
	delta := s.reverseBase - s.forwardBase
	s.deltaIsEven = delta%2 == 0

	s.forwardPoints[s.forwardBase] = int32(originalStart)
	s.reversePoints[s.reverseBase] = int32(originalEnd)

	var originalIndex, modifiedIndex int

	// Iterate on the number of differences. On iteration n, only diagonals of n's parity (relative to the base diagonal) are extended.
	for numDifferences := 1; numDifferences <= maxDifferences/2+1; numDifferences++ {
		furthestOriginalIndex := 0
		furthestModifiedIndex := 0

		// Forward.
		s.forwardStart = clipDiagonalBound(s.forwardBase-numDifferences, numDifferences, s.forwardBase, numDiagonals)
		s.forwardEnd = clipDiagonalBound(s.forwardBase+numDifferences, numDifferences, s.forwardBase, numDiagonals)
		for diagonal := s.forwardStart; diagonal <= s.forwardEnd; diagonal += 2 {
			// Extend from whichever neighboring diagonal reached further from the start.
			if diagonal == s.forwardStart || (diagonal < s.forwardEnd && s.forwardPoints[diagonal-1] < s.forwardPoints[diagonal+1]) {
				originalIndex = int(s.forwardPoints[diagonal+1])
			} else {
				originalIndex = int(s.forwardPoints[diagonal-1]) + 1
			}
			modifiedIndex = originalIndex - (diagonal - s.forwardBase) - s.forwardOffset

			// Kept to detect a false overlap below.
			tempOriginalIndex := originalIndex

			for originalIndex < originalEnd && modifiedIndex < modifiedEnd && d.elementsAreEqual(originalIndex+1, modifiedIndex+1) {
				originalIndex++
				modifiedIndex++
			}
			s.forwardPoints[diagonal] = int32(originalIndex)

			if originalIndex+modifiedIndex > furthestOriginalIndex+furthestModifiedIndex {
				furthestOriginalIndex = originalIndex
				furthestModifiedIndex = modifiedIndex
			}

			// Reverse diagonals are only computed up to numDifferences-1 at this point.
			if !s.deltaIsEven && abs(diagonal-s.reverseBase) <= numDifferences-1 {
				if originalIndex >= int(s.reversePoints[diagonal]) {
					if tempOriginalIndex <= int(s.reversePoints[diagonal]) && numDifferences <= maxDifferencesHistory+1 {
						return recursionPoint{changes: d.walkTrace(s, originalIndex, modifiedIndex, false), done: true}
					}
					// False overlap, or not enough history for the trace.
					return recursionPoint{midOriginal: originalIndex, midModified: modifiedIndex}
				}
			}
		}

		matchLengthOfLongest := ((furthestOriginalIndex - originalStart) + (furthestModifiedIndex - modifiedStart) - numDifferences) / 2
		if d.shouldContinue != nil && !d.shouldContinue(furthestOriginalIndex, matchLengthOfLongest) {
			if matchLengthOfLongest > 0 && numDifferences <= maxDifferencesHistory+1 {
				// Enough history to walk back from the furthest forward point.
				changes := d.walkTrace(s, furthestOriginalIndex, furthestModifiedIndex, true)
				return recursionPoint{
					midOriginal: furthestOriginalIndex,
					midModified: furthestModifiedIndex,
					changes:     changes,
					done:        true,
					quitEarly:   true,
				}
			}
			return recursionPoint{
				midOriginal: furthestOriginalIndex,
				midModified: furthestModifiedIndex,
				changes:     coarseChange(originalStart+1, originalEnd, modifiedStart+1, modifiedEnd),
				done:        true,
				quitEarly:   true,
			}
		}

		// Reverse.
		s.reverseStart = clipDiagonalBound(s.reverseBase-numDifferences, numDifferences, s.reverseBase, numDiagonals)
		s.reverseEnd = clipDiagonalBound(s.reverseBase+numDifferences, numDifferences, s.reverseBase, numDiagonals)
		for diagonal := s.reverseStart; diagonal <= s.reverseEnd; diagonal += 2 {
			// Extend from whichever neighboring diagonal reached further from the end.
			if diagonal == s.reverseStart || (diagonal < s.reverseEnd && s.reversePoints[diagonal-1] >= s.reversePoints[diagonal+1]) {
				originalIndex = int(s.reversePoints[diagonal+1]) - 1
			} else {
				originalIndex = int(s.reversePoints[diagonal-1])
			}
			modifiedIndex = originalIndex - (diagonal - s.reverseBase) - s.reverseOffset

			tempOriginalIndex := originalIndex

			for originalIndex > originalStart && modifiedIndex > modifiedStart && d.elementsAreEqual(originalIndex, modifiedIndex) {
				originalIndex--
				modifiedIndex--
			}
			s.reversePoints[diagonal] = int32(originalIndex)

			if s.deltaIsEven && abs(diagonal-s.forwardBase) <= numDifferences {
				if originalIndex <= int(s.forwardPoints[diagonal]) {
					if tempOriginalIndex >= int(s.forwardPoints[diagonal]) && numDifferences <= maxDifferencesHistory+1 {
						return recursionPoint{changes: d.walkTrace(s, originalIndex, modifiedIndex, false), done: true}
					}
					return recursionPoint{midOriginal: originalIndex, midModified: modifiedIndex}
				}
			}
		}

		if numDifferences <= maxDifferencesHistory {
			d.forwardHistory = append(d.forwardHistory, snapshot(s.forwardPoints, s.forwardBase, s.forwardStart, s.forwardEnd))
			d.reverseHistory = append(d.reverseHistory, snapshot(s.reversePoints, s.reverseBase, s.reverseStart, s.reverseEnd))
		}
	}

	// Unreachable for well-formed ranges: the searches always meet. Walk whatever trace is in memory.
	return recursionPoint{changes: d.walkTrace(s, 0, 0, false), done: true}
}

// snapshot copies points[start..end] behind a header cell holding the position of base within the copy.
func snapshot(points []int32, base, start, end int) []int32 {
	temp := make([]int32, end-start+2)
	temp[0] = int32(base - start + 1)
	copy(temp[1:], points[start:end+1])
	return temp
}

// walkTrace converts the forward and reverse histories, which meet at (midOriginal, midModified), into changes. If quitEarly, everything after the meeting point is one
// change.
func (d *differ) walkTrace(s *search, midOriginal, midModified int, quitEarly bool) []Change {
	// Walk backward through the forward history.
	helper := newChangeHelper()
	points := s.forwardPoints
	base := s.forwardBase
	diagonalMin := s.forwardStart
	diagonalMax := s.forwardEnd
	diagonalRelative := (midOriginal - midModified) - s.forwardOffset
	lastOriginalIndex := minSafeSmallInteger
	historyIndex := len(d.forwardHistory) - 1

	for {
		diagonal := diagonalRelative + base
		if diagonal == diagonalMin || (diagonal < diagonalMax && points[diagonal-1] < points[diagonal+1]) {
			// Vertical: an insertion.
			originalIndex := int(points[diagonal+1])
			modifiedIndex := originalIndex - diagonalRelative - s.forwardOffset
			if originalIndex < lastOriginalIndex {
				helper.markNextChange()
			}
			lastOriginalIndex = originalIndex
			helper.addModifiedElement(originalIndex+1, modifiedIndex)
			diagonalRelative = (diagonal + 1) - base
		} else {
			// Horizontal: a deletion.
			originalIndex := int(points[diagonal-1]) + 1
			modifiedIndex := originalIndex - diagonalRelative - s.forwardOffset
			if originalIndex < lastOriginalIndex {
				helper.markNextChange()
			}
			lastOriginalIndex = originalIndex - 1
			helper.addOriginalElement(originalIndex, modifiedIndex+1)
			diagonalRelative = (diagonal - 1) - base
		}

		if historyIndex >= 0 {
			points = d.forwardHistory[historyIndex]
			base = int(points[0])
			diagonalMin = 1
			diagonalMax = len(points) - 1
		}
		historyIndex--
		if historyIndex < -1 {
			break
		}
	}

	// The forward walk records changes back to front.
	forwardChanges := helper.getReverseChanges()

	var reverseChanges []Change
	if quitEarly {
		// Everything after the meeting point is treated as changed.
		originalStartPoint := midOriginal + 1
		modifiedStartPoint := midModified + 1
		if len(forwardChanges) > 0 {
			last := forwardChanges[len(forwardChanges)-1]
			originalStartPoint = max(originalStartPoint, last.OriginalEnd())
			modifiedStartPoint = max(modifiedStartPoint, last.ModifiedEnd())
		}
		reverseChanges = coarseChange(originalStartPoint, s.originalEnd, modifiedStartPoint, s.modifiedEnd)
	} else {
		// Walk backward through the reverse history.
		helper = newChangeHelper()
		points = s.reversePoints
		base = s.reverseBase
		diagonalMin = s.reverseStart
		diagonalMax = s.reverseEnd
		diagonalRelative = (midOriginal - midModified) - s.reverseOffset
		lastOriginalIndex = maxSafeSmallInteger
		historyIndex = len(d.reverseHistory) - 1
		if !s.deltaIsEven {
			// The meeting happened in the forward wave, so the current reverse points are already the last snapshot.
			historyIndex--
		}

		for {
			diagonal := diagonalRelative + base
			if diagonal == diagonalMin || (diagonal < diagonalMax && points[diagonal-1] >= points[diagonal+1]) {
				// Horizontal: a deletion.
				originalIndex := int(points[diagonal+1]) - 1
				modifiedIndex := originalIndex - diagonalRelative - s.reverseOffset
				if originalIndex > lastOriginalIndex {
					helper.markNextChange()
				}
				lastOriginalIndex = originalIndex + 1
				helper.addOriginalElement(originalIndex+1, modifiedIndex+1)
				diagonalRelative = (diagonal + 1) - base
			} else {
				// Vertical: an insertion.
				originalIndex := int(points[diagonal-1])
				modifiedIndex := originalIndex - diagonalRelative - s.reverseOffset
				if originalIndex > lastOriginalIndex {
					helper.markNextChange()
				}
				lastOriginalIndex = originalIndex
				helper.addModifiedElement(originalIndex+1, modifiedIndex+1)
				diagonalRelative = (diagonal - 1) - base
			}

			if historyIndex >= 0 {
				points = d.reverseHistory[historyIndex]
				base = int(points[0])
				diagonalMin = 1
				diagonalMax = len(points) - 1
			}
			historyIndex--
			if historyIndex < -1 {
				break
			}
		}

		reverseChanges = helper.getChanges()
	}

	return concatenateChanges(forwardChanges, reverseChanges)
}

// clipDiagonalBound clips diagonal into [0, numDiagonals). Only diagonals of numDifferences' parity (relative to diagonalBaseIndex) are populated on a given iteration,
// so the bound is clipped to the nearest index of that parity.
func clipDiagonalBound(diagonal, numDifferences, diagonalBaseIndex, numDiagonals int) int {
	if diagonal >= 0 && diagonal < numDiagonals {
		return diagonal
	}

	diagonalsBelow := diagonalBaseIndex
	diagonalsAbove := numDiagonals - diagonalBaseIndex - 1
	diffEven := numDifferences%2 == 0

	if diagonal < 0 {
		lowerBoundEven := diagonalsBelow%2 == 0
		if diffEven == lowerBoundEven {
			return 0
		}
		return 1
	}

	upperBoundEven := diagonalsAbove%2 == 0
	if diffEven == upperBoundEven {
		return numDiagonals - 1
	}
	return numDiagonals - 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// assertf panics when an internal invariant does not hold. A failure is a bug in this package, not bad input.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("lcs: "+format, args...))
	}
}

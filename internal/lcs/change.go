package lcs

import "fmt"

// Change replaces OriginalLength elements of the original sequence, starting at OriginalStart, with ModifiedLength elements of the modified sequence, starting at ModifiedStart.
//
// OriginalLength == 0 is a pure insertion; ModifiedLength == 0 is a pure deletion.
type Change struct {
	OriginalStart  int
	OriginalLength int
	ModifiedStart  int
	ModifiedLength int
}

// OriginalEnd is the exclusive end of the original span.
func (c Change) OriginalEnd() int {
	return c.OriginalStart + c.OriginalLength
}

// ModifiedEnd is the exclusive end of the modified span.
func (c Change) ModifiedEnd() int {
	return c.ModifiedStart + c.ModifiedLength
}

func (c Change) String() string {
	return fmt.Sprintf("{orig %d+%d, mod %d+%d}", c.OriginalStart, c.OriginalLength, c.ModifiedStart, c.ModifiedLength)
}

// changesOverlap reports whether left and right touch or overlap on either side, and if so returns the change spanning both.
func changesOverlap(left, right Change) (Change, bool) {
	if left.OriginalStart > right.OriginalStart || left.ModifiedStart > right.ModifiedStart {
		panic(fmt.Sprintf("lcs: left change %v does not start at or before right change %v", left, right))
	}

	originalTouches := left.OriginalEnd() >= right.OriginalStart
	modifiedTouches := left.ModifiedEnd() >= right.ModifiedStart
	if !originalTouches && !modifiedTouches {
		return Change{}, false
	}

	merged := left
	if originalTouches {
		merged.OriginalLength = right.OriginalEnd() - left.OriginalStart
	}
	if modifiedTouches {
		merged.ModifiedLength = right.ModifiedEnd() - left.ModifiedStart
	}
	return merged, true
}

// concatenateChanges joins two ordered change lists, merging the last change of left with the first of right when the split point cut one change in two.
func concatenateChanges(left, right []Change) []Change {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}

	if merged, ok := changesOverlap(left[len(left)-1], right[0]); ok {
		result := make([]Change, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, merged)
		return append(result, right[1:]...)
	}

	result := make([]Change, 0, len(left)+len(right))
	result = append(result, left...)
	return append(result, right...)
}

// Sentinels for unset indices while aggregating changes.
const (
	maxSafeSmallInteger = 1 << 30
	minSafeSmallInteger = -(1 << 30)
)

// changeHelper aggregates single-element insert/delete events from a trace walk into contiguous changes.
type changeHelper struct {
	changes       []Change
	originalStart int
	modifiedStart int
	originalCount int
	modifiedCount int
}

func newChangeHelper() *changeHelper {
	return &changeHelper{originalStart: maxSafeSmallInteger, modifiedStart: maxSafeSmallInteger}
}

// markNextChange flushes the pending change, if any, and starts a new one.
func (h *changeHelper) markNextChange() {
	if h.originalCount > 0 || h.modifiedCount > 0 {
		h.changes = append(h.changes, Change{
			OriginalStart:  h.originalStart,
			OriginalLength: h.originalCount,
			ModifiedStart:  h.modifiedStart,
			ModifiedLength: h.modifiedCount,
		})
	}
	h.originalCount = 0
	h.modifiedCount = 0
	h.originalStart = maxSafeSmallInteger
	h.modifiedStart = maxSafeSmallInteger
}

// addOriginalElement records a deletion of the original element at originalIndex.
func (h *changeHelper) addOriginalElement(originalIndex, modifiedIndex int) {
	h.originalStart = min(h.originalStart, originalIndex)
	h.modifiedStart = min(h.modifiedStart, modifiedIndex)
	h.originalCount++
}

// addModifiedElement records an insertion of the modified element at modifiedIndex.
func (h *changeHelper) addModifiedElement(originalIndex, modifiedIndex int) {
	h.originalStart = min(h.originalStart, originalIndex)
	h.modifiedStart = min(h.modifiedStart, modifiedIndex)
	h.modifiedCount++
}

// getChanges returns the changes in the order they were recorded.
func (h *changeHelper) getChanges() []Change {
	if h.originalCount > 0 || h.modifiedCount > 0 {
		h.markNextChange()
	}
	return h.changes
}

// getReverseChanges returns the changes in the reverse of the order they were recorded.
func (h *changeHelper) getReverseChanges() []Change {
	changes := h.getChanges()
	for i, j := 0, len(changes)-1; i < j; i, j = i+1, j-1 {
		changes[i], changes[j] = changes[j], changes[i]
	}
	return changes
}

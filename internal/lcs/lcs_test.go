package lcs

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireCovering checks that changes are ordered, non-overlapping, and that applying them to original yields modified, with unchanged gaps matching element-for-element.
func requireCovering(t *testing.T, original, modified []string, changes []Change) {
	t.Helper()

	origPos, modPos := 0, 0
	var rebuilt []string
	for i, c := range changes {
		require.GreaterOrEqual(t, c.OriginalLength, 0, "change %d: %v", i, c)
		require.GreaterOrEqual(t, c.ModifiedLength, 0, "change %d: %v", i, c)
		require.GreaterOrEqual(t, c.OriginalStart, origPos, "change %d overlaps or is out of order: %v", i, c)
		require.GreaterOrEqual(t, c.ModifiedStart, modPos, "change %d overlaps or is out of order: %v", i, c)
		require.Equal(t, original[origPos:c.OriginalStart], modified[modPos:c.ModifiedStart], "unchanged gap before change %d: %v", i, c)

		rebuilt = append(rebuilt, original[origPos:c.OriginalStart]...)
		rebuilt = append(rebuilt, modified[c.ModifiedStart:c.ModifiedEnd()]...)
		origPos = c.OriginalEnd()
		modPos = c.ModifiedEnd()
	}
	require.LessOrEqual(t, origPos, len(original))
	require.LessOrEqual(t, modPos, len(modified))
	require.Equal(t, original[origPos:], modified[modPos:], "unchanged tail")
	rebuilt = append(rebuilt, original[origPos:]...)

	if len(modified) == 0 {
		require.Empty(t, rebuilt)
	} else {
		require.Equal(t, modified, rebuilt)
	}
}

func editLength(changes []Change) int {
	n := 0
	for _, c := range changes {
		n += c.OriginalLength + c.ModifiedLength
	}
	return n
}

// oracleEditLength is the number of inserted plus deleted elements in diffmatchpatch's diff. With no timeout diffmatchpatch skips its half-match heuristic, so its script is
// minimal too.
func oracleEditLength(original, modified []string) int {
	runes := map[string]rune{}
	toRunes := func(lines []string) []rune {
		rs := make([]rune, len(lines))
		for i, l := range lines {
			r, ok := runes[l]
			if !ok {
				r = rune(0x4E00 + len(runes))
				runes[l] = r
			}
			rs[i] = r
		}
		return rs
	}
	a := toRunes(original)
	b := toRunes(modified)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	n := 0
	for _, d := range dmp.DiffMainRunes(a, b, false) {
		if d.Type != diffmatchpatch.DiffEqual {
			n += len([]rune(d.Text))
		}
	}
	return n
}

func TestDiff_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		original []string
		modified []string
		want     []Change
	}{
		{
			name:     "identical",
			original: []string{"a", "b", "c"},
			modified: []string{"a", "b", "c"},
			want:     nil,
		},
		{
			name:     "both empty",
			original: nil,
			modified: nil,
			want:     nil,
		},
		{
			name:     "replace middle",
			original: []string{"a", "b", "c"},
			modified: []string{"a", "x", "c"},
			want:     []Change{{OriginalStart: 1, OriginalLength: 1, ModifiedStart: 1, ModifiedLength: 1}},
		},
		{
			name:     "all insertions",
			original: nil,
			modified: []string{"a", "b"},
			want:     []Change{{OriginalStart: 0, OriginalLength: 0, ModifiedStart: 0, ModifiedLength: 2}},
		},
		{
			name:     "all deletions",
			original: []string{"a", "b"},
			modified: nil,
			want:     []Change{{OriginalStart: 0, OriginalLength: 2, ModifiedStart: 0, ModifiedLength: 0}},
		},
		{
			name:     "insert in middle",
			original: []string{"a", "c"},
			modified: []string{"a", "b", "c"},
			want:     []Change{{OriginalStart: 1, OriginalLength: 0, ModifiedStart: 1, ModifiedLength: 1}},
		},
		{
			name:     "delete at start",
			original: []string{"x", "a", "b"},
			modified: []string{"a", "b"},
			want:     []Change{{OriginalStart: 0, OriginalLength: 1, ModifiedStart: 0, ModifiedLength: 0}},
		},
		{
			name:     "completely different",
			original: []string{"a", "b"},
			modified: []string{"c", "d", "e"},
			want:     []Change{{OriginalStart: 0, OriginalLength: 2, ModifiedStart: 0, ModifiedLength: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, pretty := range []bool{false, true} {
				res := Diff(Texts(tt.original), Texts(tt.modified), nil, pretty)
				assert.False(t, res.QuitEarly)
				if tt.want == nil {
					assert.Empty(t, res.Changes)
				} else {
					assert.Equal(t, tt.want, res.Changes, "pretty=%v", pretty)
				}
				requireCovering(t, tt.original, tt.modified, res.Changes)
			}
		})
	}
}

func TestDiff_Transposition(t *testing.T) {
	original := []string{"a", "b", "c", "d"}
	modified := []string{"a", "c", "b", "d"}

	for _, pretty := range []bool{false, true} {
		res := Diff(Texts(original), Texts(modified), nil, pretty)
		require.False(t, res.QuitEarly)
		require.Len(t, res.Changes, 2)
		require.Equal(t, 2, editLength(res.Changes))
		requireCovering(t, original, modified, res.Changes)
	}
}

func TestDiff_Identity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		x := randomLines(r, r.Intn(40), 4)
		res := Diff(Texts(x), Texts(x), nil, true)
		require.False(t, res.QuitEarly)
		require.Empty(t, res.Changes)
	}
}

func TestDiff_RandomMinimalAndCovering(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		original := randomLines(r, r.Intn(30), 1+r.Intn(5))
		modified := mutate(r, original, 1+r.Intn(5))

		want := oracleEditLength(original, modified)
		for _, pretty := range []bool{false, true} {
			res := Diff(Texts(original), Texts(modified), nil, pretty)
			require.False(t, res.QuitEarly)
			requireCovering(t, original, modified, res.Changes)
			require.Equal(t, want, editLength(res.Changes), "original=%q modified=%q pretty=%v", original, modified, pretty)
		}
	}
}

func TestDiff_Codes(t *testing.T) {
	original := "the quick brown fox"
	modified := "the quack brown box"

	res := Diff(codesOf(original), codesOf(modified), nil, true)
	require.False(t, res.QuitEarly)
	requireCovering(t, strings.Split(original, ""), strings.Split(modified, ""), res.Changes)
	require.Equal(t, []Change{
		{OriginalStart: 6, OriginalLength: 1, ModifiedStart: 6, ModifiedLength: 1},
		{OriginalStart: 16, OriginalLength: 1, ModifiedStart: 16, ModifiedLength: 1},
	}, res.Changes)
}

func TestDiff_BeyondHistoryLimit(t *testing.T) {
	// Every element differs, so the searches meet after far more than maxDifferencesHistory iterations and the problem must be split recursively.
	const n = 2000
	original := make([]string, n)
	modified := make([]string, n)
	for i := range original {
		original[i] = "a"
		modified[i] = "b"
	}

	res := Diff(Texts(original), Texts(modified), nil, false)
	require.False(t, res.QuitEarly)
	require.Equal(t, []Change{{OriginalStart: 0, OriginalLength: n, ModifiedStart: 0, ModifiedLength: n}}, res.Changes)
}

func TestDiff_QuitEarly(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		original := randomLines(r, 5+r.Intn(30), 3)
		modified := mutate(r, original, 3+r.Intn(5))

		calls := 0
		stop := func(furthestOriginalIndex, matchLengthOfLongest int) bool {
			calls++
			return false
		}
		res := Diff(Texts(original), Texts(modified), stop, true)
		requireCovering(t, original, modified, res.Changes)
		if calls > 0 {
			require.True(t, res.QuitEarly)
		} else {
			require.False(t, res.QuitEarly)
		}
	}
}

func TestDiff_MixedSequenceKindsPanics(t *testing.T) {
	require.Panics(t, func() {
		Diff(Texts{"a"}, Codes{'a'}, nil, false)
	})
}

func TestClipDiagonalBound(t *testing.T) {
	tests := []struct {
		diagonal, numDifferences, base, numDiagonals int
		want                                         int
	}{
		{diagonal: 2, numDifferences: 1, base: 2, numDiagonals: 5, want: 2},
		{diagonal: -1, numDifferences: 3, base: 2, numDiagonals: 5, want: 1},
		{diagonal: -1, numDifferences: 2, base: 2, numDiagonals: 5, want: 0},
		{diagonal: 5, numDifferences: 3, base: 2, numDiagonals: 5, want: 3},
		{diagonal: 5, numDifferences: 2, base: 2, numDiagonals: 5, want: 4},
		{diagonal: -2, numDifferences: 3, base: 1, numDiagonals: 4, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clipDiagonalBound(tt.diagonal, tt.numDifferences, tt.base, tt.numDiagonals), "%+v", tt)
	}
}

func TestConcatenateChanges(t *testing.T) {
	left := []Change{
		{OriginalStart: 0, OriginalLength: 1, ModifiedStart: 0, ModifiedLength: 1},
		{OriginalStart: 4, OriginalLength: 2, ModifiedStart: 4, ModifiedLength: 0},
	}
	right := []Change{
		{OriginalStart: 6, OriginalLength: 0, ModifiedStart: 4, ModifiedLength: 3},
		{OriginalStart: 9, OriginalLength: 1, ModifiedStart: 10, ModifiedLength: 1},
	}
	got := concatenateChanges(left, right)
	require.Equal(t, []Change{
		{OriginalStart: 0, OriginalLength: 1, ModifiedStart: 0, ModifiedLength: 1},
		{OriginalStart: 4, OriginalLength: 2, ModifiedStart: 4, ModifiedLength: 3},
		{OriginalStart: 9, OriginalLength: 1, ModifiedStart: 10, ModifiedLength: 1},
	}, got)

	disjoint := concatenateChanges(left[:1], right[1:])
	require.Len(t, disjoint, 2)

	require.Equal(t, left, concatenateChanges(left, nil))
	require.Equal(t, right, concatenateChanges(nil, right))

	require.Panics(t, func() {
		changesOverlap(right[1], left[0])
	})
}

func TestChangeHelper(t *testing.T) {
	h := newChangeHelper()
	h.addOriginalElement(5, 5)
	h.addOriginalElement(4, 5)
	h.addModifiedElement(4, 4)
	h.markNextChange()
	h.markNextChange() // nothing pending: no empty change
	h.addModifiedElement(1, 1)

	require.Equal(t, []Change{
		{OriginalStart: 1, OriginalLength: 0, ModifiedStart: 1, ModifiedLength: 1},
		{OriginalStart: 4, OriginalLength: 2, ModifiedStart: 4, ModifiedLength: 1},
	}, h.getReverseChanges())
}

func codesOf(s string) Codes {
	codes := make(Codes, 0, len(s))
	for _, r := range s {
		codes = append(codes, int32(r))
	}
	return codes
}

func randomLines(r *rand.Rand, n, alphabet int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = string(rune('a' + r.Intn(alphabet)))
	}
	return lines
}

// mutate applies up to edits random insertions, deletions, and replacements to lines.
func mutate(r *rand.Rand, lines []string, edits int) []string {
	out := append([]string(nil), lines...)
	for i := 0; i < edits; i++ {
		switch op := r.Intn(3); {
		case op == 0 || len(out) == 0:
			at := r.Intn(len(out) + 1)
			out = append(out[:at], append([]string{string(rune('a' + r.Intn(6)))}, out[at:]...)...)
		case op == 1:
			at := r.Intn(len(out))
			out = append(out[:at], out[at+1:]...)
		default:
			out[r.Intn(len(out))] = string(rune('a' + r.Intn(6)))
		}
	}
	return out
}

package linediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineSequence(t *testing.T) {
	s := NewLineSequence([]string{"  foo\t", "", " \t ", "😀 x  "})

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"foo", "", "", "😀 x"}, s.Texts())
	assert.Equal(t, " \t ", s.StrictElement(2))
	assert.Equal(t, []int{3, 1, 1, 1}, s.startColumns)
	// The emoji is two UTF-16 code units wide.
	assert.Equal(t, []int{6, 1, 1, 5}, s.endColumns)
	assert.Equal(t, 3, s.StartLineNumber(2))
	assert.Equal(t, 3, s.EndLineNumber(2))
}

func TestCharSequence_WithNewlines(t *testing.T) {
	cs := NewLineSequence([]string{"ab", "c"}).CharSequence(false, 0, 1)

	require.Equal(t, []int32{'a', 'b', '\n', 'c'}, cs.Codes())
	assert.Equal(t, []int{1, 1, 1, 2}, cs.lineNumbers)
	assert.Equal(t, []int{1, 2, 3, 1}, cs.columns)

	// The newline element ends at the start of the next line.
	assert.Equal(t, 1, cs.StartLineNumber(2))
	assert.Equal(t, 3, cs.StartColumn(2))
	assert.Equal(t, 2, cs.EndLineNumber(2))
	assert.Equal(t, 1, cs.EndColumn(2))

	assert.Equal(t, 2, cs.EndLineNumber(3))
	assert.Equal(t, 2, cs.EndColumn(3))

	// One past the end and one before the start.
	assert.Equal(t, 2, cs.StartLineNumber(4))
	assert.Equal(t, 2, cs.StartColumn(4))
	assert.Equal(t, 1, cs.EndLineNumber(-1))
	assert.Equal(t, 1, cs.EndColumn(-1))

	assert.Panics(t, func() { cs.StartLineNumber(5) })
	assert.Panics(t, func() { cs.EndColumn(-2) })
}

func TestCharSequence_IgnoreTrimWhitespace(t *testing.T) {
	cs := NewLineSequence([]string{"x", "  ab ", "c"}).CharSequence(true, 1, 2)

	require.Equal(t, []int32{'a', 'b', 'c'}, cs.Codes())
	assert.Equal(t, []int{2, 2, 3}, cs.lineNumbers)
	assert.Equal(t, []int{3, 4, 1}, cs.columns)
}

func TestCharSequence_BlankLines(t *testing.T) {
	cs := NewLineSequence([]string{"   ", ""}).CharSequence(true, 0, 1)
	assert.Equal(t, 0, cs.Len())

	cs = NewLineSequence([]string{"", ""}).CharSequence(false, 0, 1)
	require.Equal(t, []int32{'\n'}, cs.Codes())
	assert.Equal(t, 2, cs.EndLineNumber(0))
	assert.Equal(t, 1, cs.EndColumn(0))
}

func TestEncodeUnits(t *testing.T) {
	assert.Equal(t, []uint16{'a', 0xD83D, 0xDE00}, encodeUnits("a😀"))
	assert.Equal(t, []uint16{'a', 0xDCFF, 0xDCFE}, encodeUnits("a\xff\xfe"))
	assert.Equal(t, []uint16{0xFFFD}, encodeUnits("\uFFFD"))

	s := NewLineSequence([]string{" a\xff ", " a\xfe"})
	assert.Equal(t, []string{"a\xff", "a\xfe"}, s.Texts())
	assert.Equal(t, []int{2, 2}, s.startColumns)
	assert.Equal(t, []int{4, 4}, s.endColumns)
}

package linediff

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// LineSequence is the line-level view of one side of a diff. Lines compare equal when they are equal after trimming leading and trailing spaces and tabs.
type LineSequence struct {
	lines   []string
	units   [][]uint16 // UTF-16 code units of each line; see encodeUnits
	trimmed []string

	// 1-based UTF-16 columns of the first non-blank unit and one past the last. Both are 1 for a blank line.
	startColumns []int
	endColumns   []int
}

// NewLineSequence returns the line view of lines. lines must not contain "\n".
func NewLineSequence(lines []string) *LineSequence {
	s := &LineSequence{
		lines:        lines,
		units:        make([][]uint16, len(lines)),
		trimmed:      make([]string, len(lines)),
		startColumns: make([]int, len(lines)),
		endColumns:   make([]int, len(lines)),
	}
	for i, line := range lines {
		units := encodeUnits(line)
		s.units[i] = units
		s.startColumns[i] = firstNonBlankColumn(units)
		s.endColumns[i] = lastNonBlankColumn(units)
		s.trimmed[i] = strings.Trim(line, " \t")
	}
	return s
}

func (s *LineSequence) Len() int { return len(s.lines) }

// Texts returns the trimmed lines.
func (s *LineSequence) Texts() []string { return s.trimmed }

// StrictElement returns line i untrimmed.
func (s *LineSequence) StrictElement(i int) string { return s.lines[i] }

// StartLineNumber is the 1-based line number of element i.
func (s *LineSequence) StartLineNumber(i int) int { return i + 1 }

// EndLineNumber is the 1-based line number of element i.
func (s *LineSequence) EndLineNumber(i int) int { return i + 1 }

// CharSequence returns the characters of lines start through end (inclusive, 0-based).
//
// If ignoreTrimWhitespace, each line contributes only its non-blank middle. Otherwise each line contributes all of its characters and every line but the last is
// followed by a "\n" element, positioned one past the line's last column.
func (s *LineSequence) CharSequence(ignoreTrimWhitespace bool, start, end int) *CharSequence {
	cs := &CharSequence{}
	for i := start; i <= end; i++ {
		units := s.units[i]
		startColumn := 1
		endColumn := len(units) + 1
		if ignoreTrimWhitespace {
			startColumn = s.startColumns[i]
			endColumn = s.endColumns[i]
		}
		for col := startColumn; col < endColumn; col++ {
			cs.codes = append(cs.codes, int32(units[col-1]))
			cs.lineNumbers = append(cs.lineNumbers, i+1)
			cs.columns = append(cs.columns, col)
		}
		if !ignoreTrimWhitespace && i < end {
			cs.codes = append(cs.codes, '\n')
			cs.lineNumbers = append(cs.lineNumbers, i+1)
			cs.columns = append(cs.columns, len(units)+1)
		}
	}
	return cs
}

// encodeUnits returns the UTF-16 code units of line. Each byte of invalid UTF-8 becomes one unit in the low surrogate range (0xDC80-0xDCFF), so distinct bytes stay
// distinct and every invalid byte is one column wide.
func encodeUnits(line string) []uint16 {
	units := make([]uint16, 0, len(line))
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r == utf8.RuneError && size == 1 {
			units = append(units, 0xDC00|uint16(line[i]))
		} else {
			units = utf16.AppendRune(units, r)
		}
		i += size
	}
	return units
}

func isBlankUnit(u uint16) bool {
	return u == ' ' || u == '\t'
}

// firstNonBlankColumn returns the 1-based column of the first non-blank unit, or 1 if there is none.
func firstNonBlankColumn(units []uint16) int {
	for i, u := range units {
		if !isBlankUnit(u) {
			return i + 1
		}
	}
	return 1
}

// lastNonBlankColumn returns the 1-based column just past the last non-blank unit, or 1 if there is none.
func lastNonBlankColumn(units []uint16) int {
	for i := len(units) - 1; i >= 0; i-- {
		if !isBlankUnit(units[i]) {
			return i + 2
		}
	}
	return 1
}

// CharSequence is a run of UTF-16 code units drawn from one or more lines, each remembering where it came from.
type CharSequence struct {
	codes       []int32
	lineNumbers []int
	columns     []int
}

func (s *CharSequence) Len() int       { return len(s.codes) }
func (s *CharSequence) Codes() []int32 { return s.codes }

// StartLineNumber is the line on which element i starts. i may be Len(), meaning the position just past the last element.
func (s *CharSequence) StartLineNumber(i int) int {
	if i > 0 && i == len(s.lineNumbers) {
		return s.EndLineNumber(i - 1)
	}
	s.checkIndex(i)
	return s.lineNumbers[i]
}

// EndLineNumber is the line on which element i ends. i may be -1, meaning the position just before the first element. A "\n" element ends on the next line.
func (s *CharSequence) EndLineNumber(i int) int {
	if i == -1 {
		return s.StartLineNumber(i + 1)
	}
	s.checkIndex(i)
	if s.codes[i] == '\n' {
		return s.lineNumbers[i] + 1
	}
	return s.lineNumbers[i]
}

// StartColumn is the column at which element i starts. i may be Len().
func (s *CharSequence) StartColumn(i int) int {
	if i > 0 && i == len(s.columns) {
		return s.EndColumn(i - 1)
	}
	s.checkIndex(i)
	return s.columns[i]
}

// EndColumn is the exclusive column at which element i ends. i may be -1. A "\n" element ends at column 1 of the next line.
func (s *CharSequence) EndColumn(i int) int {
	if i == -1 {
		return s.StartColumn(i + 1)
	}
	s.checkIndex(i)
	if s.codes[i] == '\n' {
		return 1
	}
	return s.columns[i] + 1
}

func (s *CharSequence) checkIndex(i int) {
	if i < 0 || i >= len(s.codes) {
		panic(fmt.Sprintf("linediff: illegal index %d in char sequence of length %d", i, len(s.codes)))
	}
}

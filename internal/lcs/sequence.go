package lcs

import "strings"

// Sequence is an ordered run of elements to diff. A Sequence passed to Diff must also implement CodeSequence or TextSequence.
type Sequence interface {
	Len() int
}

// CodeSequence is a Sequence whose elements compare equal when their codes are equal.
type CodeSequence interface {
	Sequence
	Codes() []int32 // One code per element; len(Codes()) == Len().
}

// TextSequence is a Sequence whose elements compare equal when their texts are byte-identical.
type TextSequence interface {
	Sequence
	Texts() []string // One text per element; len(Texts()) == Len().
}

// StrictSequence reports the exact value of an element. It is consulted only when Prettify decides whether shifting a change would trade an identical boundary pair for a
// merely-equal one.
type StrictSequence interface {
	StrictElement(i int) string
}

// Codes is a CodeSequence over a plain slice of codes.
type Codes []int32

func (c Codes) Len() int       { return len(c) }
func (c Codes) Codes() []int32 { return c }

// Texts is a TextSequence over a plain slice of strings.
type Texts []string

func (t Texts) Len() int                   { return len(t) }
func (t Texts) Texts() []string            { return t }
func (t Texts) StrictElement(i int) string { return t[i] }

// elements is the comparable form of one side of a diff.
type elements struct {
	keys  []int32
	texts []string // nil for code sequences
	seq   Sequence
}

// interner assigns dense int32 keys to strings. One interner is shared by both sides of a diff so that equal keys mean equal strings.
type interner map[string]int32

func (in interner) keys(texts []string) []int32 {
	keys := make([]int32, len(texts))
	for i, s := range texts {
		k, ok := in[s]
		if !ok {
			k = int32(len(in))
			in[s] = k
		}
		keys[i] = k
	}
	return keys
}

func elementsOf(s Sequence, in interner) elements {
	switch s := s.(type) {
	case TextSequence:
		texts := s.Texts()
		return elements{keys: in.keys(texts), texts: texts, seq: s}
	case CodeSequence:
		return elements{keys: s.Codes(), seq: s}
	default:
		panic("lcs: sequence must implement CodeSequence or TextSequence")
	}
}

// strictElement returns the exact value of element i, if the sequence reports one.
func (e elements) strictElement(i int) (string, bool) {
	if s, ok := e.seq.(StrictSequence); ok {
		return s.StrictElement(i), true
	}
	return "", false
}

// isBlank reports whether element i is a whitespace-only text.
func (e elements) isBlank(i int) bool {
	return e.texts != nil && strings.TrimSpace(e.texts[i]) == ""
}

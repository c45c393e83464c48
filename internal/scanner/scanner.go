package scanner

import (
	"errors"
	"unicode/utf8"
)

// ErrEmpty is returned by New when there is nothing to scan.
var ErrEmpty = errors.New("empty input")

const (
	ClassWhitespace uint8 = 1 << iota
	ClassQuote
	ClassStructural
	ClassLegacyNumber
	ClassNumber
	ClassNumberStart
	ClassLiteralStart
)

// charClassifier maps ASCII codepoints to their class bits. Non-ASCII
// codepoints have no class.
var charClassifier = newCharClassifier()

func newCharClassifier() (c [utf8.RuneSelf]uint8) {
	c[' '] = ClassWhitespace
	c['\t'] = ClassWhitespace
	c['\n'] = ClassWhitespace
	c['\r'] = ClassWhitespace

	c['"'] = ClassQuote
	for _, r := range "{}[]:," {
		c[r] = ClassStructural
	}

	c['.'] = ClassLegacyNumber | ClassNumber
	for r := '1'; r <= '9'; r++ {
		c[r] = ClassLegacyNumber | ClassNumber | ClassNumberStart
	}
	c['0'] = ClassNumber | ClassNumberStart
	c['-'] = ClassNumber | ClassNumberStart
	c['+'] = ClassNumber
	c['e'] = ClassNumber
	c['E'] = ClassNumber

	c['t'] = ClassLiteralStart
	c['f'] = ClassLiteralStart
	c['n'] = ClassLiteralStart
	return c
}

// Class returns the class bits of r.
func Class(r rune) uint8 {
	if r < 0 || r >= utf8.RuneSelf {
		return 0
	}
	return charClassifier[r]
}

func IsWhitespace(r rune) bool { return Class(r)&ClassWhitespace != 0 }

// IsLegacyNumber reports whether r belongs to the narrow number grammar:
// digits 1 through 9 and the decimal point.
func IsLegacyNumber(r rune) bool { return Class(r)&ClassLegacyNumber != 0 }

// IsNumber reports whether r can appear inside a standard JSON number.
func IsNumber(r rune) bool { return Class(r)&ClassNumber != 0 }

// IsNumberStart reports whether r can open a standard JSON number.
func IsNumberStart(r rune) bool { return Class(r)&ClassNumberStart != 0 }

// Source is the input text materialized as codepoints.
type Source struct {
	runes []rune
}

// New materializes text. It fails with ErrEmpty when text has no characters.
func New(text string) (*Source, error) {
	if len(text) == 0 {
		return nil, ErrEmpty
	}
	buf := getRuneSlice(utf8.RuneCountInString(text))
	for _, r := range text {
		buf = append(buf, r)
	}
	return &Source{runes: buf}, nil
}

func (s *Source) Len() int {
	return len(s.runes)
}

func (s *Source) At(i int) rune {
	return s.runes[i]
}

// Slice returns the text of the half-open codepoint range [i, j).
func (s *Source) Slice(i, j int) string {
	return string(s.runes[i:j])
}

// Runes exposes the codepoints in [i, j) without copying.
func (s *Source) Runes(i, j int) []rune {
	return s.runes[i:j]
}

// HasPrefixAt reports whether the codepoints starting at i match want. short is
// true when the input ended before a mismatch could be found.
func (s *Source) HasPrefixAt(i int, want string) (match, short bool) {
	for _, r := range want {
		if i >= len(s.runes) {
			return false, true
		}
		if s.runes[i] != r {
			return false, false
		}
		i++
	}
	return true, false
}

// Release returns the codepoint buffer to the pool. The Source must not be used
// afterwards.
func (s *Source) Release() {
	putRuneSlice(s.runes)
	s.runes = nil
}

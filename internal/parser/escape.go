package parser

import (
	"errors"
	"strings"
)

var (
	errInvalidEscape  = errors.New("invalid escape character")
	errInvalidUnicode = errors.New("invalid unicode escape")
)

// unescape decodes the backslash sequences in a string body. On failure it
// returns the index of the offending backslash. \u escapes are decoded one
// codepoint at a time; surrogate halves are not paired.
func unescape(b []rune) (string, int, error) {
	if !containsEscape(b) {
		return string(b), 0, nil
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' {
			sb.WriteRune(b[i])
			continue
		}
		if i+1 >= len(b) {
			return "", i, errInvalidEscape
		}

		switch b[i+1] {
		case '"', '\\', '/':
			sb.WriteRune(b[i+1])
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			if i+6 > len(b) {
				return "", i, errInvalidUnicode
			}
			r, ok := hex4(b[i+2 : i+6])
			if !ok {
				return "", i, errInvalidUnicode
			}
			sb.WriteRune(r)
			i += 4
		default:
			return "", i, errInvalidEscape
		}
		i++
	}
	return sb.String(), 0, nil
}

func containsEscape(b []rune) bool {
	for _, c := range b {
		if c == '\\' {
			return true
		}
	}
	return false
}

func hex4(h []rune) (rune, bool) {
	var r rune
	for _, c := range h {
		switch {
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			c = c - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | c
	}
	return r, true
}

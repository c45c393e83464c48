package parser

import (
	"errors"
	"strconv"
)

const errorPrefix = "stackjson: "

// ErrorKind classifies a SyntaxError.
type ErrorKind uint8

const (
	// EndOfInputTooEarly: the input is empty or holds only whitespace.
	EndOfInputTooEarly ErrorKind = iota + 1
	// UnterminatedInput: a construct was still open when the input ended.
	UnterminatedInput
	// MultipleRootValues: more than one top-level value.
	MultipleRootValues
	// UnexpectedCharacter: a character matched no grammar rule.
	UnexpectedCharacter
	// StructuralViolation: an object or array grammar rule was broken.
	StructuralViolation
	// MaxDepthExceeded: nesting went past Options.MaxDepth.
	MaxDepthExceeded
)

var (
	ErrInvalidJSON         = errors.New("invalid JSON")
	ErrEndOfInputTooEarly  = errors.New("unexpected end of JSON input")
	ErrUnterminatedInput   = errors.New("unterminated JSON input")
	ErrMultipleRootValues  = errors.New("multiple root values")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrStructuralViolation = errors.New("structural violation")
	ErrMaxDepthExceeded    = errors.New("max depth exceeded")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case EndOfInputTooEarly:
		return ErrEndOfInputTooEarly
	case UnterminatedInput:
		return ErrUnterminatedInput
	case MultipleRootValues:
		return ErrMultipleRootValues
	case UnexpectedCharacter:
		return ErrUnexpectedCharacter
	case StructuralViolation:
		return ErrStructuralViolation
	case MaxDepthExceeded:
		return ErrMaxDepthExceeded
	}
	return nil
}

func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return "unknown error kind " + strconv.Itoa(int(k))
}

// SyntaxError describes why a parse failed. Offset is a zero-based codepoint
// index into the input.
type SyntaxError struct {
	Kind   ErrorKind
	Offset int
	// Char is the offending character for UnexpectedCharacter errors; zero
	// when a number at the end of the input could not be read.
	Char rune
	// Reason is a short description for structural, unterminated and depth
	// errors.
	Reason string
}

func (e *SyntaxError) Error() string {
	pos := strconv.Itoa(e.Offset)
	switch e.Kind {
	case EndOfInputTooEarly:
		return errorPrefix + "Unexpected end of JSON input"
	case UnterminatedInput:
		return errorPrefix + "Unexpected end of JSON input: " + e.Reason + " starting at position " + pos
	case MultipleRootValues:
		return errorPrefix + "Unexpected non-whitespace character after JSON at position " + pos
	case UnexpectedCharacter:
		if e.Char == 0 {
			return errorPrefix + "Unexpected number in JSON at position " + pos
		}
		return errorPrefix + "Unexpected token " + quoteChar(e.Char) + " in JSON at position " + pos
	}
	return errorPrefix + e.Reason + " at position " + pos
}

// Is matches ErrInvalidJSON, the sentinel of e's kind and, for unterminated
// input, ErrEndOfInputTooEarly.
func (e *SyntaxError) Is(target error) bool {
	switch target {
	case ErrInvalidJSON, e.Kind.sentinel():
		return true
	case ErrEndOfInputTooEarly:
		return e.Kind == UnterminatedInput
	}
	return false
}

func quoteChar(r rune) string {
	switch r {
	case '\'':
		return `'\''`
	case '"':
		return `'"'`
	}
	return strconv.QuoteRune(r)
}

func newUnexpected(offset int, c rune) *SyntaxError {
	return &SyntaxError{Kind: UnexpectedCharacter, Offset: offset, Char: c}
}

func newStructural(offset int, reason string) *SyntaxError {
	return &SyntaxError{Kind: StructuralViolation, Offset: offset, Reason: reason}
}

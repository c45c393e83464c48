// Package stackjson parses JSON text into a Value tree with an explicit,
// non-recursive state machine. Nesting is tracked on heap-allocated stacks,
// so deeply nested input cannot exhaust the goroutine stack.
//
// By default the parser accepts the narrow grammar it was designed around:
// numbers are built from the digits 1-9 and '.', and string contents are kept
// verbatim. WithStandardNumbers and WithDecodeEscapes widen it to ordinary
// JSON; Unmarshal always uses the wide grammar.
package stackjson

import (
	"errors"
	"io"
	"sync"

	"github.com/biggeezerdevelopment/stackjson/internal/parser"
)

type (
	Value       = parser.Value
	Kind        = parser.Kind
	SyntaxError = parser.SyntaxError
	ErrorKind   = parser.ErrorKind
)

const (
	KindNull    = parser.KindNull
	KindBoolean = parser.KindBoolean
	KindNumber  = parser.KindNumber
	KindString  = parser.KindString
	KindArray   = parser.KindArray
	KindObject  = parser.KindObject
)

const (
	EndOfInputTooEarly  = parser.EndOfInputTooEarly
	UnterminatedInput   = parser.UnterminatedInput
	MultipleRootValues  = parser.MultipleRootValues
	UnexpectedCharacter = parser.UnexpectedCharacter
	StructuralViolation = parser.StructuralViolation
	MaxDepthExceeded    = parser.MaxDepthExceeded
)

const DefaultMaxDepth = parser.DefaultMaxDepth

var (
	ErrInvalidJSON     = parser.ErrInvalidJSON
	ErrUnsupportedType = errors.New("unsupported type")

	ErrEndOfInputTooEarly  = parser.ErrEndOfInputTooEarly
	ErrUnterminatedInput   = parser.ErrUnterminatedInput
	ErrMultipleRootValues  = parser.ErrMultipleRootValues
	ErrUnexpectedCharacter = parser.ErrUnexpectedCharacter
	ErrStructuralViolation = parser.ErrStructuralViolation
	ErrMaxDepthExceeded    = parser.ErrMaxDepthExceeded
)

func NewNull() Value                     { return parser.NewNull() }
func NewBool(b bool) Value               { return parser.NewBool(b) }
func NewNumber(n float64) Value          { return parser.NewNumber(n) }
func NewString(s string) Value           { return parser.NewString(s) }
func NewArray(a ...Value) Value          { return parser.NewArray(a...) }
func NewObject(m map[string]Value) Value { return parser.NewObject(m) }

// Option adjusts the grammar accepted by Parse.
type Option func(*parser.Options)

// WithMaxDepth limits how many arrays and objects may be open at once. A
// negative depth removes the limit.
func WithMaxDepth(depth int) Option {
	return func(o *parser.Options) { o.MaxDepth = depth }
}

// WithStandardNumbers accepts signs, leading zeros and exponents in numbers.
func WithStandardNumbers() Option {
	return func(o *parser.Options) { o.StandardNumbers = true }
}

// WithDecodeEscapes interprets backslash escapes inside strings.
func WithDecodeEscapes() Option {
	return func(o *parser.Options) { o.DecodeEscapes = true }
}

var standardOptions = parser.Options{StandardNumbers: true, DecodeEscapes: true}

var parserPool = sync.Pool{
	New: func() interface{} {
		return parser.New(parser.Options{})
	},
}

func parseWith(text string, o parser.Options) (Value, error) {
	p := parserPool.Get().(*parser.Parser)
	defer parserPool.Put(p)

	p.Reset(o)
	return p.Parse(text)
}

// Parse converts text into a Value. Errors are *SyntaxError.
func Parse(text string, opts ...Option) (Value, error) {
	var o parser.Options
	for _, opt := range opts {
		opt(&o)
	}
	return parseWith(text, o)
}

func ParseBytes(data []byte, opts ...Option) (Value, error) {
	return Parse(string(data), opts...)
}

func Marshal(v interface{}) ([]byte, error) {
	e := newEncoder()
	defer e.release()

	return e.marshal(v)
}

// Unmarshal parses data with the standard JSON grammar and stores the result
// in the value pointed to by v.
func Unmarshal(data []byte, v interface{}) error {
	d := newDecoder(data)
	defer d.release()

	return d.unmarshal(v)
}

// Decoder reads one JSON document from an input stream.
type Decoder struct {
	r   io.Reader
	buf []byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 0, 4096),
	}
}

// Decode reads the rest of the stream and unmarshals it into v. It returns
// io.EOF once the stream is exhausted.
func (d *Decoder) Decode(v interface{}) error {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return io.EOF
	}
	d.buf = append(d.buf[:0], data...)

	dec := newDecoder(d.buf)
	defer dec.release()

	return dec.unmarshal(v)
}

type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the JSON encoding of v followed by a newline.
func (e *Encoder) Encode(v interface{}) error {
	enc := newEncoder()
	defer enc.release()

	data, err := enc.marshal(v)
	if err != nil {
		return err
	}

	_, err = e.w.Write(append(data, '\n'))
	return err
}

// Valid reports whether data is a single well-formed JSON document under the
// standard grammar.
func Valid(data []byte) bool {
	_, err := parseWith(string(data), standardOptions)
	return err == nil
}

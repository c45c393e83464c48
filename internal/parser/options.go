package parser

// DefaultMaxDepth bounds the number of simultaneously open arrays and objects
// when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000

// Options tunes the grammar accepted by a Parser. The zero value accepts the
// narrow grammar: numbers built from the digits 1-9 and '.', strings kept
// verbatim, DefaultMaxDepth nesting.
type Options struct {
	// MaxDepth limits nesting of arrays and objects. Zero means
	// DefaultMaxDepth; a negative value removes the limit.
	MaxDepth int
	// StandardNumbers accepts the full JSON number grammar: sign, leading
	// zero, fraction and exponent.
	StandardNumbers bool
	// DecodeEscapes interprets backslash escapes inside strings instead of
	// copying them through.
	DecodeEscapes bool
}

func (o Options) maxDepth() int {
	if o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

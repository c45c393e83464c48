package parser

import "math"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Value is a parsed JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	a    []Value
	o    map[string]Value
}

func NewNull() Value            { return Value{} }
func NewBool(b bool) Value      { return Value{kind: KindBoolean, b: b} }
func NewNumber(n float64) Value { return Value{kind: KindNumber, n: n} }
func NewString(s string) Value  { return Value{kind: KindString, s: s} }
func NewArray(a ...Value) Value { return Value{kind: KindArray, a: a} }

// NewObject wraps m without copying it. A nil map yields an empty object.
func NewObject(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindObject, o: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == KindNumber
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsArray returns the elements in source order. The slice is shared with v.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	if v.a == nil {
		return []Value{}, true
	}
	return v.a, true
}

// AsObject returns the members of an object. The map is shared with v.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.o, true
}

// Get looks up key in an object. ok is false for missing keys and for
// non-object values.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	m, ok := v.o[key]
	return m, ok
}

// Index returns the i-th array element. ok is false when i is out of range or
// v is not an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.a) {
		return Value{}, false
	}
	return v.a[i], true
}

// Len is the number of elements of an array, members of an object or
// codepoints of a string. Other kinds have length 0.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.a)
	case KindObject:
		return len(v.o)
	case KindString:
		return len([]rune(v.s))
	}
	return 0
}

// Equal reports deep equality. Objects compare regardless of key order.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.b == w.b
	case KindNumber:
		return v.n == w.n || (math.IsNaN(v.n) && math.IsNaN(w.n))
	case KindString:
		return v.s == w.s
	case KindArray:
		if len(v.a) != len(w.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equal(w.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.o) != len(w.o) {
			return false
		}
		for k, x := range v.o {
			y, ok := w.o[k]
			if !ok || !x.Equal(y) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v into the generic Go form used by encoding/json:
// map[string]any, []any, float64, string, bool or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.a))
		for i, e := range v.a {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.o))
		for k, e := range v.o {
			out[k] = e.Interface()
		}
		return out
	}
	return nil
}

// String renders v as compact JSON with object keys sorted.
func (v Value) String() string {
	return string(AppendValue(nil, v))
}

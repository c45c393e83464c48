package stackjson

import (
	"encoding/base64"
	"errors"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/biggeezerdevelopment/stackjson/internal/parser"
)

type encoder struct {
	buf []byte
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &encoder{
			buf: make([]byte, 0, 4096),
		}
	},
}

func newEncoder() *encoder {
	e := encoderPool.Get().(*encoder)
	e.buf = e.buf[:0]
	return e
}

func (e *encoder) release() {
	if cap(e.buf) > 64*1024 {
		e.buf = make([]byte, 0, 4096)
	}
	encoderPool.Put(e)
}

func (e *encoder) marshal(v interface{}) ([]byte, error) {
	if err := e.encode(reflect.ValueOf(v)); err != nil {
		return nil, err
	}

	result := make([]byte, len(e.buf))
	copy(result, e.buf)
	return result, nil
}

func (e *encoder) encode(v reflect.Value) error {
	if !v.IsValid() {
		e.buf = append(e.buf, "null"...)
		return nil
	}

	if v.Type() == valueType {
		e.buf = parser.AppendValue(e.buf, v.Interface().(Value))
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		e.buf = strconv.AppendBool(e.buf, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf = strconv.AppendInt(e.buf, v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.buf = strconv.AppendUint(e.buf, v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New("unsupported float value: " + strconv.FormatFloat(f, 'g', -1, 64))
		}
		e.buf = parser.AppendFloat(e.buf, f)
	case reflect.String:
		e.buf = parser.AppendQuoted(e.buf, v.String())
	case reflect.Slice:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			e.encodeBytes(v.Bytes())
			return nil
		}
		return e.encodeArray(v)
	case reflect.Array:
		return e.encodeArray(v)
	case reflect.Map:
		return e.encodeMap(v)
	case reflect.Struct:
		return e.encodeStruct(v)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.encode(v.Elem())
	default:
		return errors.Join(ErrUnsupportedType, errors.New("cannot marshal "+v.Type().String()))
	}
	return nil
}

func (e *encoder) encodeBytes(b []byte) {
	e.buf = append(e.buf, '"')
	e.buf = base64.StdEncoding.AppendEncode(e.buf, b)
	e.buf = append(e.buf, '"')
}

func (e *encoder) encodeArray(v reflect.Value) error {
	e.buf = append(e.buf, '[')

	n := v.Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		if err := e.encode(v.Index(i)); err != nil {
			return err
		}
	}

	e.buf = append(e.buf, ']')
	return nil
}

func (e *encoder) encodeMap(v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return errors.New("map key must be string")
	}
	if v.IsNil() {
		e.buf = append(e.buf, "null"...)
		return nil
	}

	// Sorted keys keep the output deterministic
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})

	e.buf = append(e.buf, '{')
	for i, key := range keys {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.buf = parser.AppendQuoted(e.buf, key.String())
		e.buf = append(e.buf, ':')
		if err := e.encode(v.MapIndex(key)); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) encodeStruct(v reflect.Value) error {
	e.buf = append(e.buf, '{')
	first := true
	for _, f := range cachedFields(v.Type()).list {
		field := v.Field(f.index)
		if f.omitEmpty && isEmptyValue(field) {
			continue
		}
		if !first {
			e.buf = append(e.buf, ',')
		}
		first = false

		e.buf = append(e.buf, f.key...)
		if err := e.encode(field); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

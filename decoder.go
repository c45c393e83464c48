package stackjson

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"sync"

	"github.com/biggeezerdevelopment/stackjson/internal/parser"
)

var valueType = reflect.TypeOf(Value{})

type decoder struct {
	parser *parser.Parser
	data   []byte
}

var decoderPool = sync.Pool{
	New: func() interface{} {
		return &decoder{
			parser: parser.New(standardOptions),
		}
	},
}

func newDecoder(data []byte) *decoder {
	d := decoderPool.Get().(*decoder)
	d.data = data
	return d
}

func (d *decoder) release() {
	d.data = nil
	decoderPool.Put(d)
}

func (d *decoder) unmarshal(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("unmarshal requires non-nil pointer")
	}

	// Parse into a Value tree, then decode into the target
	parsed, err := d.parser.Parse(string(d.data))
	if err != nil {
		return err
	}

	return d.decode(parsed, rv.Elem())
}

func (d *decoder) decode(src Value, dst reflect.Value) error {
	if dst.Type() == valueType {
		dst.Set(reflect.ValueOf(src))
		return nil
	}

	if src.IsNull() {
		switch dst.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			dst.Set(reflect.Zero(dst.Type()))
		}
		return nil
	}

	// Handle pointer types
	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return d.decode(src, dst.Elem())
	}

	// Handle interface{} type
	if dst.Kind() == reflect.Interface && dst.Type().NumMethod() == 0 {
		dst.Set(reflect.ValueOf(src.Interface()))
		return nil
	}

	switch src.Kind() {
	case KindBoolean:
		b, _ := src.AsBool()
		return d.decodeBool(b, dst)
	case KindNumber:
		n, _ := src.AsNumber()
		return d.decodeNumber(n, dst)
	case KindString:
		s, _ := src.AsString()
		return d.decodeString(s, dst)
	case KindArray:
		a, _ := src.AsArray()
		return d.decodeArray(a, dst)
	case KindObject:
		o, _ := src.AsObject()
		return d.decodeObject(o, dst)
	default:
		return errors.New("unexpected value kind")
	}
}

func mismatch(kind string, dst reflect.Value) error {
	return errors.New("cannot unmarshal " + kind + " into " + dst.Type().String())
}

func (d *decoder) decodeBool(src bool, dst reflect.Value) error {
	if dst.Kind() == reflect.Bool {
		dst.SetBool(src)
		return nil
	}
	return mismatch("bool", dst)
}

func (d *decoder) decodeNumber(src float64, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		if dst.OverflowFloat(src) {
			return errors.New("number " + strconv.FormatFloat(src, 'g', -1, 64) + " overflows " + dst.Type().String())
		}
		dst.SetFloat(src)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if src != math.Trunc(src) || src < math.MinInt64 || src >= math.MaxInt64 || dst.OverflowInt(int64(src)) {
			return mismatch("number "+strconv.FormatFloat(src, 'g', -1, 64), dst)
		}
		dst.SetInt(int64(src))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if src != math.Trunc(src) || src < 0 || src >= math.MaxUint64 || dst.OverflowUint(uint64(src)) {
			return mismatch("number "+strconv.FormatFloat(src, 'g', -1, 64), dst)
		}
		dst.SetUint(uint64(src))
		return nil
	}
	return mismatch("number", dst)
}

func (d *decoder) decodeString(src string, dst reflect.Value) error {
	if dst.Kind() == reflect.String {
		dst.SetString(src)
		return nil
	}
	return mismatch("string", dst)
}

func (d *decoder) decodeArray(src []Value, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Slice:
		// Create or resize slice
		if dst.IsNil() || dst.Cap() < len(src) {
			dst.Set(reflect.MakeSlice(dst.Type(), len(src), len(src)))
		} else {
			dst.SetLen(len(src))
		}

		for i, v := range src {
			if err := d.decode(v, dst.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		if dst.Len() < len(src) {
			return errors.New("array too small")
		}

		for i, v := range src {
			if err := d.decode(v, dst.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}

	return mismatch("array", dst)
}

func (d *decoder) decodeObject(src map[string]Value, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Map:
		keyType := dst.Type().Key()
		if keyType.Kind() != reflect.String {
			return errors.New("map key must be string")
		}

		// Create map if nil
		if dst.IsNil() {
			dst.Set(reflect.MakeMapWithSize(dst.Type(), len(src)))
		}

		elemType := dst.Type().Elem()
		for k, v := range src {
			keyVal := reflect.New(keyType).Elem()
			keyVal.SetString(k)

			elemVal := reflect.New(elemType).Elem()
			if err := d.decode(v, elemVal); err != nil {
				return err
			}

			dst.SetMapIndex(keyVal, elemVal)
		}
		return nil

	case reflect.Struct:
		return d.decodeStruct(src, dst)
	}

	return mismatch("object", dst)
}

func (d *decoder) decodeStruct(src map[string]Value, dst reflect.Value) error {
	fields := cachedFields(dst.Type())
	for k, v := range src {
		f := fields.lookup(k)
		if f == nil {
			continue
		}
		if err := d.decode(v, dst.Field(f.index)); err != nil {
			return err
		}
	}
	return nil
}

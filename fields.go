package stackjson

import (
	"reflect"
	"strings"
	"sync"

	"github.com/biggeezerdevelopment/stackjson/internal/parser"
)

// structField is one exported, non-skipped field of a struct type.
type structField struct {
	index     int
	name      string
	key       []byte // quoted name followed by ':'
	omitEmpty bool
}

type structFields struct {
	list         []structField
	byActualName map[string]*structField
	byFoldedName map[string]*structField
}

// lookup finds the field for an object key, preferring an exact match.
func (sf *structFields) lookup(name string) *structField {
	if f := sf.byActualName[name]; f != nil {
		return f
	}
	return sf.byFoldedName[strings.ToLower(name)]
}

var fieldCache sync.Map // map[reflect.Type]*structFields

func cachedFields(t reflect.Type) *structFields {
	if sf, ok := fieldCache.Load(t); ok {
		return sf.(*structFields)
	}
	sf, _ := fieldCache.LoadOrStore(t, makeStructFields(t))
	return sf.(*structFields)
}

func makeStructFields(t reflect.Type) *structFields {
	sf := &structFields{
		byActualName: make(map[string]*structField, t.NumField()),
		byFoldedName: make(map[string]*structField, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts := fieldName(field)
		if name == "-" {
			continue
		}
		key := parser.AppendQuoted(nil, name)
		sf.list = append(sf.list, structField{
			index:     i,
			name:      name,
			key:       append(key, ':'),
			omitEmpty: hasOption(opts, "omitempty"),
		})
	}
	for i := range sf.list {
		f := &sf.list[i]
		sf.byActualName[f.name] = f
		// First declared field wins a case-insensitive tie.
		folded := strings.ToLower(f.name)
		if _, dup := sf.byFoldedName[folded]; !dup {
			sf.byFoldedName[folded] = f
		}
	}
	return sf
}

// fieldName returns the JSON name of a struct field and its tag options.
func fieldName(field reflect.StructField) (string, string) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "-", ""
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, opts
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

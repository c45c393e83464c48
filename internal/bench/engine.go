package bench

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/buger/jsonparser"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"

	"github.com/biggeezerdevelopment/stackjson"
)

const (
	EngineStackJSON         = "stackjson"
	EngineStackJSONStandard = "stackjson-standard"
	EngineEncodingJSON      = "encoding/json"
	EngineGoJSON            = "go-json"
	EngineJsoniter          = "jsoniter"
	EngineJSONParser        = "jsonparser"
)

// parseFunc parses one document. text and data hold the same bytes so that
// string-based engines are not charged for the conversion.
type parseFunc func(text string, data []byte) error

var jsoniterStd = jsoniter.ConfigCompatibleWithStandardLibrary

var engines = map[string]parseFunc{
	EngineStackJSON: func(text string, _ []byte) error {
		_, err := stackjson.Parse(text)
		return err
	},
	EngineStackJSONStandard: func(text string, _ []byte) error {
		_, err := stackjson.Parse(text, stackjson.WithStandardNumbers(), stackjson.WithDecodeEscapes())
		return err
	},
	EngineEncodingJSON: func(_ string, data []byte) error {
		var v interface{}
		return json.Unmarshal(data, &v)
	},
	EngineGoJSON: func(_ string, data []byte) error {
		var v interface{}
		return gojson.Unmarshal(data, &v)
	},
	EngineJsoniter: func(_ string, data []byte) error {
		var v interface{}
		return jsoniterStd.Unmarshal(data, &v)
	},
	EngineJSONParser: walk,
}

// EngineNames returns every known engine name in sorted order.
func EngineNames() []string {
	return slices.Sorted(maps.Keys(engines))
}

// walk visits every value in data without building a tree.
func walk(_ string, data []byte) error {
	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return err
	}
	return walkValue(data, typ)
}

func walkValue(data []byte, typ jsonparser.ValueType) error {
	switch typ {
	case jsonparser.Object:
		return jsonparser.ObjectEach(data, func(_, value []byte, vt jsonparser.ValueType, _ int) error {
			return walkValue(value, vt)
		})
	case jsonparser.Array:
		var inner error
		_, err := jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
			if inner == nil {
				inner = err
			}
			if inner == nil {
				inner = walkValue(value, vt)
			}
		})
		if err != nil {
			return err
		}
		return inner
	}
	return nil
}

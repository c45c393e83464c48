package stackjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// reference decoders the wide grammar is checked against.
var references = []struct {
	name      string
	unmarshal func([]byte, interface{}) error
}{
	{"encoding/json", json.Unmarshal},
	{"go-json", gojson.Unmarshal},
}

// TestCompatibilityWithStandardLibrary ensures Unmarshal into interface{}
// agrees with encoding/json and go-json.
func TestCompatibilityWithStandardLibrary(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		// Basic types
		{"null", "null"},
		{"true", "true"},
		{"false", "false"},
		{"zero", "0"},
		{"positive_int", "42"},
		{"negative_int", "-123"},
		{"float", "3.14"},
		{"string", `"hello"`},
		{"empty_string", `""`},

		// Objects
		{"empty_object", "{}"},
		{"simple_object", `{"key":"value"}`},
		{"nested_object", `{"outer":{"inner":"value"}}`},
		{"duplicate_keys", `{"a":1,"a":2}`},

		// Arrays
		{"empty_array", "[]"},
		{"number_array", "[1,2,3]"},
		{"mixed_array", `[1,"two",true,null]`},

		// Complex structures
		{"complex", `{
			"name": "Alice",
			"age": 30,
			"active": true,
			"scores": [85, 92, 78],
			"address": {
				"street": "123 Main St",
				"city": "Boston",
				"zip": "02101"
			},
			"metadata": null
		}`},

		// Edge cases with whitespace
		{"whitespace", " \t\n{\n\t \"key\" \t:\n \"value\" \t\n} \n\t "},

		// Numbers
		{"large_int", "9223372036854775807"},
		{"exponent", "1e10"},
		{"negative_exponent", "-2E+3"},

		// Unicode
		{"unicode", `{"text":"Hello 世界 🌍"}`},

		// Escaped characters
		{"escaped", `{"quote":"He said \"Hello\"","backslash":"path\\to\\file","newline":"line1\nline2"}`},
		{"all_escapes", `{"test":"\"\\\/\b\f\n\r\t\u0041"}`},
		{"lone_surrogate", `{"test":"\uD800"}`},
	}

	for _, tc := range testCases {
		for _, ref := range references {
			t.Run(tc.name+"/"+ref.name, func(t *testing.T) {
				var refResult interface{}
				refErr := ref.unmarshal([]byte(tc.json), &refResult)

				var ourResult interface{}
				ourErr := Unmarshal([]byte(tc.json), &ourResult)

				if (refErr == nil) != (ourErr == nil) {
					t.Fatalf("Error mismatch: ref=%v, ours=%v", refErr, ourErr)
				}
				if refErr == nil {
					if diff := cmp.Diff(refResult, ourResult, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
						t.Errorf("Result mismatch (-ref +ours):\n%s", diff)
					}
				}
			})
		}
	}
}

// TestMarshalCompatibility tests that Marshal output decodes to the same
// values as encoding/json output.
func TestMarshalCompatibility(t *testing.T) {
	testValues := []interface{}{
		nil,
		true,
		false,
		42,
		-123,
		3.14,
		"hello world",
		"",
		"tab\there \"quoted\"",
		[]int{1, 2, 3},
		[]byte("bytes"),
		[]interface{}{1, "two", true, nil},
		map[string]interface{}{
			"name":   "Alice",
			"age":    30,
			"active": true,
		},
		map[string]interface{}{
			"nested": map[string]interface{}{
				"value": 42,
			},
		},
	}

	for i, val := range testValues {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			stdBytes, stdErr := json.Marshal(val)
			ourBytes, ourErr := Marshal(val)

			if (stdErr == nil) != (ourErr == nil) {
				t.Fatalf("Error mismatch: std=%v, ours=%v", stdErr, ourErr)
			}

			if stdErr == nil {
				// Maps are written with sorted keys by both
				if !bytes.Equal(stdBytes, ourBytes) {
					t.Errorf("Marshal results differ:\nStd:  %s\nOurs: %s", stdBytes, ourBytes)
				}
			}
		})
	}
}

// TestValidationCompatibility tests JSON validation against a fixed verdict
// and encoding/json. go-json's Valid is lenient about number syntax, so it is
// only used as an Unmarshal reference.
func TestValidationCompatibility(t *testing.T) {
	testCases := []struct {
		name  string
		json  string
		valid bool
	}{
		{"valid_null", "null", true},
		{"valid_bool", "true", true},
		{"valid_number", "42", true},
		{"valid_zero", "0", true},
		{"valid_string", `"hello"`, true},
		{"valid_array", "[1,2,3]", true},
		{"valid_object", `{"key":"value"}`, true},
		{"valid_exponent", `[-1.5e-3,2E+10]`, true},

		{"invalid_empty", "", false},
		{"invalid_whitespace_only", "  \n", false},
		{"invalid_trailing_comma", `{"key":"value",}`, false},
		{"invalid_missing_quote", `{"key:value}`, false},
		{"invalid_unclosed_object", `{"key":"value"`, false},
		{"invalid_unclosed_array", `[1,2,3`, false},
		{"invalid_number", "12.", false},
		{"invalid_escape", `{"key":"val\ue"}`, false},
		{"invalid_unicode", `{"key":"\u12"}`, false},
		{"invalid_duplicate_comma", `[1,,2]`, false},
		{"invalid_leading_zero", `{"num":01}`, false},
		{"invalid_two_roots", `{} {}`, false},
		{"invalid_numeric_key", `{1:2}`, false},
		{"invalid_literal", `[nul]`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := json.Valid([]byte(tc.json)); got != tc.valid {
				t.Fatalf("encoding/json Valid(%q) = %v, table says %v", tc.json, got, tc.valid)
			}
			if got := Valid([]byte(tc.json)); got != tc.valid {
				t.Errorf("Valid(%q) = %v, want %v", tc.json, got, tc.valid)
			}
		})
	}
}

// TestStructUnmarshalling tests unmarshalling into structs
func TestStructUnmarshalling(t *testing.T) {
	type Person struct {
		Name    string `json:"name"`
		Age     int    `json:"age"`
		Active  bool   `json:"active"`
		Address struct {
			Street string `json:"street"`
			City   string `json:"city"`
		} `json:"address"`
		Scores []int             `json:"scores"`
		Tags   map[string]string `json:"tags"`
		Extra  *float64          `json:"extra"`
		Skip   string            `json:"-"`
	}

	jsonData := `{
		"name": "Alice",
		"age": 30,
		"active": true,
		"address": {
			"street": "123 Main St",
			"city": "Boston"
		},
		"scores": [85, 92, 78],
		"tags": {"team": "core"},
		"extra": 1.25,
		"Skip": "ignored"
	}`

	var stdPerson Person
	stdErr := json.Unmarshal([]byte(jsonData), &stdPerson)

	var ourPerson Person
	ourErr := Unmarshal([]byte(jsonData), &ourPerson)

	if stdErr != nil || ourErr != nil {
		t.Fatalf("Unmarshal errors: std=%v, ours=%v", stdErr, ourErr)
	}

	if !reflect.DeepEqual(stdPerson, ourPerson) {
		t.Errorf("Struct unmarshal mismatch:\nStd:  %+v\nOurs: %+v", stdPerson, ourPerson)
	}
}

// TestEdgeCases tests various edge cases against both references
func TestEdgeCases(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		{"deeply_nested", createDeeplyNested(10)},
		{"nested_1000", createDeeplyNested(1000)},
		{"large_array", createLargeArray(1000)},
		{"unicode_keys", `{"键":"值","🔑":"🎁"}`},
		{"invalid_surrogate_pair", `{"test":"\uD800\u0041"}`},
		{"number_then_brace", `{"a":[1,2],"b":{"c":3}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdResult, ourResult interface{}

			stdErr := json.Unmarshal([]byte(tc.json), &stdResult)
			ourErr := Unmarshal([]byte(tc.json), &ourResult)

			if (stdErr != nil) != (ourErr != nil) {
				t.Fatalf("Error expectation mismatch: std=%v, ours=%v", stdErr, ourErr)
			}
			if stdErr == nil && !deepEqual(stdResult, ourResult) {
				t.Errorf("Results differ for valid input")
			}
		})
	}
}

// Property-based testing with random JSON generation
func TestRandomJSONCompatibility(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	rng := rand.New(rand.NewSource(1221))

	for i := 0; i < 100; i++ {
		jsonData := generateRandomValue(rng, 5, 10)
		t.Run(fmt.Sprintf("random_%d", i), func(t *testing.T) {
			var stdResult, ourResult interface{}

			stdErr := json.Unmarshal(jsonData, &stdResult)
			ourErr := Unmarshal(jsonData, &ourResult)

			if (stdErr == nil) != (ourErr == nil) {
				t.Fatalf("Error mismatch for JSON %s: std=%v, ours=%v", jsonData, stdErr, ourErr)
			}
			if stdErr == nil && !deepEqual(stdResult, ourResult) {
				t.Errorf("Results differ for JSON: %s", jsonData)
			}

			// Pretty-printed and compact renderings parse to the same tree.
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, jsonData, "", "\t"); err != nil {
				t.Fatal(err)
			}
			a, errA := Parse(string(jsonData), WithStandardNumbers())
			b, errB := Parse(pretty.String(), WithStandardNumbers())
			if errA != nil || errB != nil {
				t.Fatalf("Parse errors: compact=%v, pretty=%v", errA, errB)
			}
			if !a.Equal(b) {
				t.Errorf("Whitespace changed the tree for %s", jsonData)
			}
		})
	}
}

// Roundtrip testing: Marshal -> Unmarshal should be identity
func TestRoundtripCompatibility(t *testing.T) {
	testValues := []interface{}{
		map[string]interface{}{
			"string": "hello",
			"number": 42.5,
			"bool":   true,
			"null":   nil,
			"array":  []interface{}{1, 2, 3},
			"object": map[string]interface{}{"nested": "value"},
		},
		[]interface{}{
			"mixed", 123, true, nil,
			map[string]interface{}{"key": "value"},
		},
	}

	for i, input := range testValues {
		t.Run(fmt.Sprintf("roundtrip_%d", i), func(t *testing.T) {
			stdBytes, err := json.Marshal(input)
			if err != nil {
				t.Fatalf("Standard marshal failed: %v", err)
			}

			var stdResult interface{}
			if err := json.Unmarshal(stdBytes, &stdResult); err != nil {
				t.Fatalf("Standard unmarshal failed: %v", err)
			}

			ourBytes, err := Marshal(input)
			if err != nil {
				t.Fatalf("Our marshal failed: %v", err)
			}

			var ourResult interface{}
			if err := Unmarshal(ourBytes, &ourResult); err != nil {
				t.Fatalf("Our unmarshal failed: %v", err)
			}

			if !deepEqual(stdResult, ourResult) {
				t.Errorf("Roundtrip results differ:\nStandard: %#v\nOurs:     %#v", stdResult, ourResult)
			}
		})
	}
}

// Helper functions

// deepEqual compares decoded trees, allowing the last bit of a float to
// differ between number converters.
func deepEqual(a, b interface{}) bool {
	return cmp.Equal(normalizeNumbers(a), normalizeNumbers(b), cmpopts.EquateApprox(0, 1e-12))
}

// normalizeNumbers converts all numbers to float64 for comparison
func normalizeNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(val).Int())
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(val).Uint())
	case float32:
		return float64(val)
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = normalizeNumbers(item)
		}
		return result
	case map[string]interface{}:
		result := make(map[string]interface{}, len(val))
		for k, item := range val {
			result[k] = normalizeNumbers(item)
		}
		return result
	default:
		return v
	}
}

func createDeeplyNested(depth int) string {
	var buf strings.Builder
	for i := 0; i < depth; i++ {
		buf.WriteString(`{"level":`)
	}
	buf.WriteString("42")
	for i := 0; i < depth; i++ {
		buf.WriteString("}")
	}
	return buf.String()
}

func createLargeArray(size int) string {
	var buf strings.Builder
	buf.WriteString("[")
	for i := 0; i < size; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "%d", i)
	}
	buf.WriteString("]")
	return buf.String()
}

func generateRandomValue(rng *rand.Rand, maxDepth, maxWidth int) []byte {
	if maxDepth <= 0 || rng.Intn(4) == 0 {
		// Generate leaf values
		switch rng.Intn(5) {
		case 0:
			return []byte("null")
		case 1:
			if rng.Intn(2) == 0 {
				return []byte("true")
			}
			return []byte("false")
		case 2:
			return []byte(fmt.Sprintf("%d", rng.Intn(1000)-500))
		case 3:
			return []byte(fmt.Sprintf("%.2f", rng.Float64()*1000-500))
		default:
			return []byte(fmt.Sprintf(`"string_%d \"q\" \u00e9"`, rng.Intn(100)))
		}
	}

	var buf bytes.Buffer
	width := rng.Intn(maxWidth)
	if rng.Intn(2) == 0 {
		buf.WriteString("[")
		for i := 0; i < width; i++ {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.Write(generateRandomValue(rng, maxDepth-1, maxWidth))
		}
		buf.WriteString("]")
		return buf.Bytes()
	}

	buf.WriteString("{")
	for i := 0; i < width; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `"key_%d":`, rng.Intn(100))
		buf.Write(generateRandomValue(rng, maxDepth-1, maxWidth))
	}
	buf.WriteString("}")
	return buf.Bytes()
}

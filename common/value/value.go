// Package value defines the relay's single notion of field presence.
// Sparse aggregate output, provenance stamping, and classification all
// decide "is this field here" through HasValue, and every field pulled
// out of an upstream payload goes through Normalize first, so the whole
// pipeline shares one definition of empty.
package value

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

// sentinels are placeholder strings some upstream CRMs send instead of
// omitting a field. Matched after trimming and case folding.
var sentinels = map[string]struct{}{
	"":     {},
	"null": {},
	"n/a":  {},
}

// HasValue reports whether v carries usable content. Zero and false count
// as values; nil, non-finite numbers, blank strings, empty arrays and
// empty objects do not.
func HasValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case json.Number:
		return strings.TrimSpace(t.String()) != ""
	case float64:
		return !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		f := float64(t)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}

	// Decoded JSON only produces the types above; reflection covers
	// values assembled in code (typed slices, maps, pointers).
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return HasValue(rv.Elem().Interface())
	}
	return true
}

// Normalize coerces the upstream empty sentinels ("", "null", "n/a"; case
// and surrounding whitespace ignored) to nil. Everything else passes
// through untouched.
func Normalize(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if _, empty := sentinels[strings.ToLower(strings.TrimSpace(s))]; empty {
		return nil
	}
	return v
}

// String extracts m[key] as a string. ok is false when the field is
// absent, a sentinel, not a string, or blank.
func String(m map[string]interface{}, key string) (string, bool) {
	s, ok := Normalize(m[key]).(string)
	if !ok || !HasValue(s) {
		return "", false
	}
	return s, true
}

// Bool extracts m[key] as a bool. Only a JSON boolean counts; truthy
// strings and numbers do not.
func Bool(m map[string]interface{}, key string) (bool, bool) {
	b, ok := Normalize(m[key]).(bool)
	return b, ok
}

// Number extracts m[key] as a float64, accepting the numeric shapes JSON
// decoding and in-code construction produce. Non-finite values are
// rejected.
func Number(m map[string]interface{}, key string) (float64, bool) {
	switch t := Normalize(m[key]).(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int64 extracts m[key] as an int64, truncating fractional parts. Used
// for epoch-millisecond timestamps.
func Int64(m map[string]interface{}, key string) (int64, bool) {
	f, ok := Number(m, key)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Map extracts m[key] as an object. ok is false when absent, not an
// object, or empty.
func Map(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	sub, ok := Normalize(m[key]).(map[string]interface{})
	if !ok || len(sub) == 0 {
		return nil, false
	}
	return sub, true
}

// Slice extracts m[key] as an array. ok is false when absent, not an
// array, or empty.
func Slice(m map[string]interface{}, key string) ([]interface{}, bool) {
	arr, ok := Normalize(m[key]).([]interface{})
	if !ok || len(arr) == 0 {
		return nil, false
	}
	return arr, true
}

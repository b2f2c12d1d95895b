// Package canonical serializes JSON-like values deterministically for use
// as hash input. Object keys are sorted lexicographically at every nesting
// level, HTML escaping is disabled, and inputs the encoder cannot represent
// (non-finite numbers, opaque types, cyclic references) collapse to null
// instead of failing: stable hash input matters more than input fidelity.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Encode returns the canonical serialization of v with arrays kept in
// their original order. Use this form when list order is part of the
// value's identity.
func Encode(v interface{}) string {
	e := &encoder{seen: make(map[uintptr]struct{})}
	var buf bytes.Buffer
	e.write(&buf, v)
	return buf.String()
}

// EncodeUnordered returns the canonical serialization with each array
// re-sorted by the lexicographic order of its elements' own
// serializations. Inputs that differ only in list ordering, at any
// nesting depth, serialize identically. This is the form fingerprinting
// hashes.
func EncodeUnordered(v interface{}) string {
	e := &encoder{unordered: true, seen: make(map[uintptr]struct{})}
	var buf bytes.Buffer
	e.write(&buf, v)
	return buf.String()
}

type encoder struct {
	unordered bool
	// seen holds map/slice pointers on the current walk path; revisiting
	// one means the input cycles, and the revisit renders as null.
	seen map[uintptr]struct{}
}

func (e *encoder) write(buf *bytes.Buffer, v interface{}) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		appendString(buf, t)
	case json.Number:
		buf.WriteString(t.String())
	case float64:
		appendFloat(buf, t)
	case float32:
		appendFloat(buf, float64(t))
	case int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(t, 10))
	case []interface{}:
		if len(t) > 0 {
			p := reflect.ValueOf(t).Pointer()
			if e.entered(p) {
				buf.WriteString("null")
				return
			}
			defer e.leave(p)
		}
		e.writeArray(buf, len(t), func(i int) interface{} { return t[i] })
	case map[string]interface{}:
		if len(t) > 0 {
			p := reflect.ValueOf(t).Pointer()
			if e.entered(p) {
				buf.WriteString("null")
				return
			}
			defer e.leave(p)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.writeObject(buf, keys, func(k string) interface{} { return t[k] })
	default:
		e.writeReflect(buf, reflect.ValueOf(v))
	}
}

// writeReflect covers values assembled in code rather than decoded from
// JSON: typed slices and maps, named scalar types, pointers. Anything
// without a JSON shape renders as null.
func (e *encoder) writeReflect(buf *bytes.Buffer, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			buf.WriteString("null")
			return
		}
		e.write(buf, rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			buf.WriteString("null")
			return
		}
		if rv.Len() > 0 {
			p := rv.Pointer()
			if e.entered(p) {
				buf.WriteString("null")
				return
			}
			defer e.leave(p)
		}
		e.writeArray(buf, rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() })
	case reflect.Array:
		e.writeArray(buf, rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.IsNil() {
			buf.WriteString("null")
			return
		}
		if rv.Len() > 0 {
			p := rv.Pointer()
			if e.entered(p) {
				buf.WriteString("null")
				return
			}
			defer e.leave(p)
		}
		e.writeReflectMap(buf, rv)
	case reflect.String:
		appendString(buf, rv.String())
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		buf.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		appendFloat(buf, rv.Float())
	default:
		buf.WriteString("null")
	}
}

func (e *encoder) writeReflectMap(buf *bytes.Buffer, rv reflect.Value) {
	entries := make(map[string]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		var sub bytes.Buffer
		e.write(&sub, iter.Value().Interface())
		rendered := sub.String()

		key := stringifyKey(iter.Key())
		// Distinct keys can stringify identically; keep the smaller
		// rendering so the outcome does not depend on iteration order.
		if prev, ok := entries[key]; !ok || rendered < prev {
			entries[key] = rendered
		}
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendString(buf, k)
		buf.WriteByte(':')
		buf.WriteString(entries[k])
	}
	buf.WriteByte('}')
}

func (e *encoder) writeArray(buf *bytes.Buffer, n int, elem func(int) interface{}) {
	if !e.unordered {
		buf.WriteByte('[')
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.write(buf, elem(i))
		}
		buf.WriteByte(']')
		return
	}

	parts := make([]string, n)
	for i := 0; i < n; i++ {
		var sub bytes.Buffer
		e.write(&sub, elem(i))
		parts[i] = sub.String()
	}
	sort.Strings(parts)

	buf.WriteByte('[')
	for i, p := range parts {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p)
	}
	buf.WriteByte(']')
}

func (e *encoder) writeObject(buf *bytes.Buffer, sortedKeys []string, val func(string) interface{}) {
	buf.WriteByte('{')
	for i, k := range sortedKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendString(buf, k)
		buf.WriteByte(':')
		e.write(buf, val(k))
	}
	buf.WriteByte('}')
}

func (e *encoder) entered(p uintptr) bool {
	if _, ok := e.seen[p]; ok {
		return true
	}
	e.seen[p] = struct{}{}
	return false
}

func (e *encoder) leave(p uintptr) {
	delete(e.seen, p)
}

func appendString(buf *bytes.Buffer, s string) {
	var sb bytes.Buffer
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(sb.Bytes(), []byte{'\n'}))
}

func appendFloat(buf *bytes.Buffer, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	// json.Marshal on a finite float cannot fail and matches the number
	// formatting of decoded-then-reencoded payloads.
	b, _ := json.Marshal(f)
	buf.Write(b)
}

func stringifyKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

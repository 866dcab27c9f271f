package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// KeySeparator joins the domain name and the serialized parameters.
const KeySeparator = "-"

// Key builds a deterministic cache key from a domain name and optional
// parameters. Identical parameters always produce identical keys: map
// keys are sorted, struct fields are rendered in declaration order and
// pointers are dereferenced. Two callers asking for the same data
// collapse onto the same entry no matter how their params were built.
func Key(domain string, params ...any) string {
	if len(params) == 0 {
		return domain
	}

	parts := make([]string, 0, len(params)+1)
	parts = append(parts, domain)
	for _, p := range params {
		parts = append(parts, serializeValue(p))
	}
	return strings.Join(parts, KeySeparator)
}

// serializeValue renders a single parameter deterministically.
func serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	// time first: it is a struct of unexported fields and its String
	// carries a monotonic clock reading
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	case string:
		return t
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "[]"
		}
		return serializeList(rv)
	case reflect.Array:
		return serializeList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "{}"
		}
		return serializeMap(rv)
	case reflect.Struct:
		return serializeStruct(rv, rt)
	}

	if isBasicKind(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	// last resort for exotic types
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T", v)
	}
	return string(data)
}

func serializeList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts[i] = serializeValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// serializeMap renders key=value pairs sorted lexically so iteration
// order never leaks into the key.
func serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, serializeValue(iter.Key().Interface())+"="+serializeValue(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ",") + "}"
}

func serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+serializeValue(rv.Field(i).Interface()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

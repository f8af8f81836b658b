package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged union over JSON-like data. Inference matches on Kind
// instead of re-checking dynamic types at every call site.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Items  []Value
	Fields map[string]Value
}

// FromAny converts a dynamically typed value (as produced by encoding/json
// or hand-built map literals) into a Value.
//
// Booleans are matched before any numeric case. The source data model treats
// bool as a numeric subtype, so the precedence is load-bearing there; the
// explicit ordering here keeps the rule visible even though Go would not
// conflate the two.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	case int:
		return Value{Kind: KindInt, Int: int64(t)}
	case int32:
		return Value{Kind: KindInt, Int: int64(t)}
	case int64:
		return Value{Kind: KindInt, Int: t}
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Value{Kind: KindInt, Int: i}
		}
		if f, err := t.Float64(); err == nil {
			return Value{Kind: KindFloat, Float: f}
		}
		return Value{Kind: KindString, Str: t.String()}
	case string:
		return Value{Kind: KindString, Str: t}
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return Value{Kind: KindArray, Items: items}
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, e := range t {
			fields[k] = FromAny(e)
		}
		return Value{Kind: KindObject, Fields: fields}
	default:
		// Anything unrecognized degrades to its string rendering.
		return Value{Kind: KindString, Str: fmt.Sprintf("%v", v)}
	}
}

// fromFloat classifies a float as KindInt when it has no fractional
// representation. JSON decoding yields float64 for every number, so this is
// the only place integers can be recovered from decoded input.
func fromFloat(f float64) Value {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
		return Value{Kind: KindInt, Int: int64(f)}
	}
	return Value{Kind: KindFloat, Float: f}
}

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindString:
		return v.Str == o.Str
	case KindArray:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for k, e := range v.Fields {
			oe, ok := o.Fields[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// Display renders a value for schema sample lists.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindArray:
		return fmt.Sprintf("[%d items]", len(v.Items))
	case KindObject:
		return fmt.Sprintf("{%d fields}", len(v.Fields))
	}
	return ""
}

// sortedKeys returns object keys in a stable order so that repeated
// inference over the same input walks fields deterministically.
func sortedKeys(obj map[string]Value) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

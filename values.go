package flateralus

import "math"

// ControlValues maps control names to their current values. Values are
// float64 (number), bool (boolean), string (color, select) or
// []GroupItemValue (group).
type ControlValues map[string]any

// Clone returns a deep copy of v.
func (v ControlValues) Clone() ControlValues {
	if v == nil {
		return nil
	}
	out := make(ControlValues, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

// Merge returns a new map holding v overlaid with partial. Neither input is modified.
func (v ControlValues) Merge(partial ControlValues) ControlValues {
	out := v.Clone()
	if out == nil {
		out = make(ControlValues, len(partial))
	}
	for k, val := range partial {
		out[k] = cloneValue(val)
	}
	return out
}

// Number returns the numeric value stored under name.
func (v ControlValues) Number(name string) (float64, bool) {
	f, ok := toFloat(v[name])
	return f, ok
}

// Bool returns the boolean value stored under name.
func (v ControlValues) Bool(name string) (bool, bool) {
	b, ok := v[name].(bool)
	return b, ok
}

// Color returns the color string stored under name.
func (v ControlValues) Color(name string) (string, bool) {
	s, ok := v[name].(string)
	return s, ok
}

// Choice returns the select value stored under name.
func (v ControlValues) Choice(name string) (string, bool) {
	s, ok := v[name].(string)
	return s, ok
}

// Items returns a copy of the group value stored under name.
func (v ControlValues) Items(name string) ([]GroupItemValue, bool) {
	items, ok := v[name].([]GroupItemValue)
	if !ok {
		return nil, false
	}
	return cloneGroupItems(items), true
}

// Equal reports whether a and b hold the same keys and values.
func (v ControlValues) Equal(other ControlValues) bool {
	if len(v) != len(other) {
		return false
	}
	for k, a := range v {
		b, ok := other[k]
		if !ok || !valueEqual(a, b) {
			return false
		}
	}
	return true
}

func cloneValue(val any) any {
	switch t := val.(type) {
	case []GroupItemValue:
		return cloneGroupItems(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}

func valueEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	ia, aok := a.([]GroupItemValue)
	ib, bok := b.([]GroupItemValue)
	if aok || bok {
		if !aok || !bok || len(ia) != len(ib) {
			return false
		}
		for i := range ia {
			if ia[i].Type != ib[i].Type || !valueEqual(ia[i].Value, ib[i].Value) {
				return false
			}
		}
		return true
	}
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	}
	return false
}

// toFloat converts the numeric kinds produced by Go literals and by JSON or
// YAML decoding to float64. NaN and infinities are rejected.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

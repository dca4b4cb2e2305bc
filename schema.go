package flateralus

import (
	"fmt"
	"sort"
	"strconv"
)

// ControlValuesSchema is a strict validator for the ControlValues of one
// manifest. It is synthesized per manifest by CreateControlValuesSchema.
type ControlValuesSchema struct {
	manifestID string
	names      []string
	rules      map[string]valueRule
}

// valueRule checks v at path and returns its normalized form.
type valueRule func(path string, v any) (any, []Issue)

// CreateControlValuesSchema maps every control of m to a type-appropriate
// rule: bounded ranges for numbers, option membership for selects, item shape
// and length bounds for groups.
func CreateControlValuesSchema(m *Manifest) *ControlValuesSchema {
	s := &ControlValuesSchema{
		manifestID: m.id,
		rules:      make(map[string]valueRule, len(m.controls)),
	}
	for _, c := range m.controls {
		name := c.Base().Name
		if _, dup := s.rules[name]; dup {
			continue
		}
		s.names = append(s.names, name)
		s.rules[name] = ruleFor(c)
	}
	return s
}

// Validate reports whether values holds exactly the manifest's controls with
// values matching their declared types and constraints.
func (s *ControlValuesSchema) Validate(values ControlValues) error {
	_, err := s.Parse(values)
	return err
}

// Parse validates values and returns a normalized deep copy. Integer kinds
// become float64 and decoded group lists become []GroupItemValue.
func (s *ControlValuesSchema) Parse(values ControlValues) (ControlValues, error) {
	out := make(ControlValues, len(s.names))
	var issues []Issue
	for _, name := range s.names {
		v, ok := values[name]
		if !ok {
			issues = append(issues, Issue{Path: name, Message: "missing value"})
			continue
		}
		norm, errs := s.rules[name](name, v)
		if len(errs) > 0 {
			issues = append(issues, errs...)
			continue
		}
		out[name] = norm
	}
	var unknown []string
	for k := range values {
		if _, ok := s.rules[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		issues = append(issues, Issue{Path: k, Message: "unknown control"})
	}
	if len(issues) > 0 {
		return nil, &InvalidControlValuesError{ManifestID: s.manifestID, Issues: issues}
	}
	return out, nil
}

// ParseValue validates a single control value.
func (s *ControlValuesSchema) ParseValue(name string, v any) (any, error) {
	rule, ok := s.rules[name]
	if !ok {
		return nil, &InvalidControlValuesError{
			ManifestID: s.manifestID,
			Issues:     []Issue{{Path: name, Message: "unknown control"}},
		}
	}
	norm, issues := rule(name, v)
	if len(issues) > 0 {
		return nil, &InvalidControlValuesError{ManifestID: s.manifestID, Issues: issues}
	}
	return norm, nil
}

func ruleFor(c Control) valueRule {
	switch c := c.(type) {
	case NumberControl:
		return numberRule(c.Min, c.Max)
	case BooleanControl:
		return booleanRule
	case ColorControl:
		return colorRule
	case SelectControl:
		return selectRule(c.Options, true)
	case GroupControl:
		return groupRule(c)
	default:
		panic(fmt.Sprintf("flateralus: unknown control type %T", c))
	}
}

func numberRule(lo, hi *float64) valueRule {
	expected := "number"
	switch {
	case lo != nil && hi != nil:
		expected = fmt.Sprintf("number in [%g, %g]", *lo, *hi)
	case lo != nil:
		expected = fmt.Sprintf("number >= %g", *lo)
	case hi != nil:
		expected = fmt.Sprintf("number <= %g", *hi)
	}
	return func(path string, v any) (any, []Issue) {
		f, ok := toFloat(v)
		if !ok {
			return nil, []Issue{{Path: path, Expected: expected, Message: fmt.Sprintf("got %T", v)}}
		}
		if (lo != nil && f < *lo) || (hi != nil && f > *hi) {
			return nil, []Issue{{Path: path, Expected: expected, Message: "got " + strconv.FormatFloat(f, 'g', -1, 64)}}
		}
		return f, nil
	}
}

func booleanRule(path string, v any) (any, []Issue) {
	b, ok := v.(bool)
	if !ok {
		return nil, []Issue{{Path: path, Expected: "boolean", Message: fmt.Sprintf("got %T", v)}}
	}
	return b, nil
}

func colorRule(path string, v any) (any, []Issue) {
	s, ok := v.(string)
	if !ok {
		return nil, []Issue{{Path: path, Expected: "color string", Message: fmt.Sprintf("got %T", v)}}
	}
	if _, err := ParseColor(s); err != nil {
		return nil, []Issue{{Path: path, Expected: "color string", Message: err.Error()}}
	}
	return s, nil
}

// selectRule checks membership in options. With strict unset an empty option
// list accepts any string (group items without a select template).
func selectRule(options []SelectOption, strict bool) valueRule {
	expected := "one of"
	for i, o := range options {
		if i > 0 {
			expected += ","
		}
		expected += " " + strconv.Quote(o.Value)
	}
	return func(path string, v any) (any, []Issue) {
		s, ok := v.(string)
		if !ok {
			return nil, []Issue{{Path: path, Expected: expected, Message: fmt.Sprintf("got %T", v)}}
		}
		if len(options) == 0 && !strict {
			return s, nil
		}
		for _, o := range options {
			if o.Value == s {
				return s, nil
			}
		}
		return nil, []Issue{{Path: path, Expected: expected, Message: "got " + strconv.Quote(s)}}
	}
}

// itemRule returns the rule for group items of kind t, constrained by the
// group's template for that kind when one exists.
func itemRule(g GroupControl, t ControlType) valueRule {
	tmpl, _ := g.Template(t)
	switch t {
	case ControlNumber:
		if n, ok := tmpl.(NumberControl); ok {
			return numberRule(n.Min, n.Max)
		}
		return numberRule(nil, nil)
	case ControlBoolean:
		return booleanRule
	case ControlColor:
		return colorRule
	case ControlSelect:
		if s, ok := tmpl.(SelectControl); ok {
			return selectRule(s.Options, false)
		}
		return selectRule(nil, false)
	default:
		return nil
	}
}

func groupRule(g GroupControl) valueRule {
	minItems, maxItems := g.Bounds()
	rules := make(map[ControlType]valueRule)
	var kindNames string
	for i, k := range g.ItemKinds() {
		if r := itemRule(g, k); r != nil {
			rules[k] = r
			if i > 0 {
				kindNames += "|"
			}
			kindNames += string(k)
		}
	}
	bounds := fmt.Sprintf("between %d and %d items", minItems, maxItems)
	if maxItems < 0 {
		bounds = fmt.Sprintf("at least %d items", minItems)
	}
	return func(path string, v any) (any, []Issue) {
		items, ok := toGroupItems(v)
		if !ok {
			return nil, []Issue{{Path: path, Expected: "list of group items", Message: fmt.Sprintf("got %T", v)}}
		}
		var issues []Issue
		if len(items) < minItems || (maxItems >= 0 && len(items) > maxItems) {
			issues = append(issues, Issue{Path: path, Expected: bounds, Message: fmt.Sprintf("got %d items", len(items))})
		}
		for i := range items {
			ipath := fmt.Sprintf("%s[%d]", path, i)
			rule, ok := rules[items[i].Type]
			if !ok {
				issues = append(issues, Issue{Path: ipath + ".type", Expected: kindNames, Message: fmt.Sprintf("got %q", items[i].Type)})
				continue
			}
			norm, errs := rule(ipath+".value", items[i].Value)
			if len(errs) > 0 {
				issues = append(issues, errs...)
				continue
			}
			items[i].Value = norm
		}
		if len(issues) > 0 {
			return nil, issues
		}
		return items, nil
	}
}

// toGroupItems converts a group value to a fresh []GroupItemValue. It accepts
// []GroupItemValue and the []any / []map[string]any shapes produced by JSON
// and YAML decoding.
func toGroupItems(v any) ([]GroupItemValue, bool) {
	switch t := v.(type) {
	case []GroupItemValue:
		return cloneGroupItems(t), true
	case []map[string]any:
		out := make([]GroupItemValue, len(t))
		for i, m := range t {
			item, ok := itemFromMap(m)
			if !ok {
				return nil, false
			}
			out[i] = item
		}
		return out, true
	case []any:
		out := make([]GroupItemValue, len(t))
		for i, e := range t {
			switch e := e.(type) {
			case GroupItemValue:
				out[i] = cloneGroupItems([]GroupItemValue{e})[0]
			case map[string]any:
				item, ok := itemFromMap(e)
				if !ok {
					return nil, false
				}
				out[i] = item
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func itemFromMap(m map[string]any) (GroupItemValue, bool) {
	t, ok := m["type"].(string)
	if !ok {
		return GroupItemValue{}, false
	}
	item := GroupItemValue{Type: ControlType(t), Value: cloneValue(m["value"])}
	if md, ok := m["metadata"].(map[string]any); ok {
		item.Metadata = cloneValue(md).(map[string]any)
	}
	return item, true
}

package flateralus

import (
	"fmt"
	"math"
)

// ValidateManifest checks the structural integrity of a manifest (not of any
// value map): unique non-empty names, defaults matching their control type,
// consistent number bounds, non-empty select options with unique values and
// group templates, bounds and defaults that agree with each other. The
// returned error is an *InvalidManifestError listing every violation.
func ValidateManifest(src ManifestSource) error {
	def := src.definition()
	var issues []Issue
	if def.ID == "" {
		issues = append(issues, Issue{Path: "id", Message: "must not be empty"})
	}
	seen := make(map[string]int)
	for i, c := range def.Controls {
		path := fmt.Sprintf("controls[%d]", i)
		if c == nil {
			issues = append(issues, Issue{Path: path, Message: "nil control"})
			continue
		}
		name := c.Base().Name
		if name == "" {
			issues = append(issues, Issue{Path: path + ".name", Message: "must not be empty"})
		} else if j, dup := seen[name]; dup {
			issues = append(issues, Issue{Path: path + ".name", Message: fmt.Sprintf("duplicate name %q (also controls[%d])", name, j)})
		} else {
			seen[name] = i
		}
		issues = append(issues, checkControl(path, c, true)...)
	}
	if len(issues) > 0 {
		return &InvalidManifestError{ManifestID: def.ID, Issues: issues}
	}
	return nil
}

// checkControl validates one control. withDefault is false for group item
// templates, whose defaults are not used.
func checkControl(path string, c Control, withDefault bool) []Issue {
	switch c := c.(type) {
	case NumberControl:
		return checkNumber(path, c, withDefault)
	case BooleanControl:
		return nil
	case ColorControl:
		if !withDefault {
			return nil
		}
		if _, err := ParseColor(c.DefaultValue); err != nil {
			return []Issue{{Path: path + ".defaultValue", Expected: "color string", Message: err.Error()}}
		}
		return nil
	case SelectControl:
		return checkSelect(path, c, withDefault)
	case GroupControl:
		if !withDefault {
			return []Issue{{Path: path, Message: "group controls cannot be nested"}}
		}
		return checkGroup(path, c)
	default:
		return []Issue{{Path: path + ".type", Message: fmt.Sprintf("unknown control type %T", c)}}
	}
}

func checkNumber(path string, c NumberControl, withDefault bool) []Issue {
	var issues []Issue
	finite := func(p *float64) bool { return p == nil || !(math.IsNaN(*p) || math.IsInf(*p, 0)) }
	if !finite(c.Min) {
		issues = append(issues, Issue{Path: path + ".min", Message: "must be finite"})
	}
	if !finite(c.Max) {
		issues = append(issues, Issue{Path: path + ".max", Message: "must be finite"})
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		issues = append(issues, Issue{Path: path + ".max", Expected: fmt.Sprintf(">= min (%g)", *c.Min), Message: fmt.Sprintf("got %g", *c.Max)})
	}
	if c.Step != nil && !(*c.Step > 0) {
		issues = append(issues, Issue{Path: path + ".step", Expected: "positive number", Message: fmt.Sprintf("got %g", *c.Step)})
	}
	if withDefault && len(issues) == 0 {
		if _, errs := numberRule(c.Min, c.Max)(path+".defaultValue", c.DefaultValue); len(errs) > 0 {
			issues = append(issues, errs...)
		}
	}
	return issues
}

func checkSelect(path string, c SelectControl, withDefault bool) []Issue {
	if len(c.Options) == 0 {
		return []Issue{{Path: path + ".options", Message: "must not be empty"}}
	}
	var issues []Issue
	seen := make(map[string]bool, len(c.Options))
	for i, o := range c.Options {
		if seen[o.Value] {
			issues = append(issues, Issue{Path: fmt.Sprintf("%s.options[%d].value", path, i), Message: fmt.Sprintf("duplicate option %q", o.Value)})
		}
		seen[o.Value] = true
	}
	if withDefault && !c.HasOption(c.DefaultValue) {
		issues = append(issues, Issue{Path: path + ".defaultValue", Expected: "one of the option values", Message: fmt.Sprintf("got %q", c.DefaultValue)})
	}
	return issues
}

func checkGroup(path string, c GroupControl) []Issue {
	var issues []Issue
	switch c.Value {
	case GroupNumber, GroupBoolean, GroupColor, GroupSelect, GroupMixed:
	default:
		issues = append(issues, Issue{Path: path + ".value", Expected: "number|boolean|color|select|mixed", Message: fmt.Sprintf("got %q", c.Value)})
	}
	kinds := make(map[ControlType]int)
	for i, it := range c.Items {
		ipath := fmt.Sprintf("%s.items[%d]", path, i)
		if it == nil {
			issues = append(issues, Issue{Path: ipath, Message: "nil item template"})
			continue
		}
		if c.Value != GroupMixed && it.Type() != ControlType(c.Value) {
			issues = append(issues, Issue{Path: ipath + ".type", Expected: string(c.Value), Message: fmt.Sprintf("got %q", it.Type())})
		}
		if j, dup := kinds[it.Type()]; dup {
			issues = append(issues, Issue{Path: ipath + ".type", Message: fmt.Sprintf("duplicate %s template (also items[%d])", it.Type(), j)})
		}
		kinds[it.Type()] = i
		issues = append(issues, checkControl(ipath, it, false)...)
	}
	if c.Value == GroupMixed && len(c.Items) == 0 {
		issues = append(issues, Issue{Path: path + ".items", Message: "mixed groups need at least one item template"})
	}
	minItems, maxItems := c.Bounds()
	if minItems < 0 {
		issues = append(issues, Issue{Path: path + ".minItems", Expected: ">= 0", Message: fmt.Sprintf("got %d", minItems)})
	}
	if c.MaxItems != nil && maxItems < minItems {
		issues = append(issues, Issue{Path: path + ".maxItems", Expected: fmt.Sprintf(">= minItems (%d)", minItems), Message: fmt.Sprintf("got %d", maxItems)})
	}
	if len(issues) > 0 {
		return issues
	}
	if _, errs := groupRule(c)(path+".defaultValue", c.DefaultValue); len(errs) > 0 {
		issues = append(issues, errs...)
	}
	return issues
}

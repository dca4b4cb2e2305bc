package flateralus

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option customizes a control built by Slider, Toggle, Color, Select or Group.
// Options that do not apply to a control kind are ignored.
type Option func(*controlOptions)

type controlOptions struct {
	label       string
	description string
	debug       bool
	resets      bool
	min, max    *float64
	step        *float64
	options     []SelectOption
	minItems    *int
	maxItems    *int
	items       []Control
}

// Label overrides the label derived from the control name.
func Label(label string) Option {
	return func(o *controlOptions) { o.label = label }
}

// Description sets a help text.
func Description(desc string) Option {
	return func(o *controlOptions) { o.description = desc }
}

// Debug exposes the control to debug panels.
func Debug() Option {
	return func(o *controlOptions) { o.debug = true }
}

// ResetsAnimation makes changes to the control re-run the animation's reset hook.
func ResetsAnimation() Option {
	return func(o *controlOptions) { o.resets = true }
}

// Min sets the lower bound of a number control.
func Min(v float64) Option {
	return func(o *controlOptions) { o.min = &v }
}

// Max sets the upper bound of a number control.
func Max(v float64) Option {
	return func(o *controlOptions) { o.max = &v }
}

// Range sets both bounds of a number control.
func Range(lo, hi float64) Option {
	return func(o *controlOptions) {
		o.min = &lo
		o.max = &hi
	}
}

// Step sets the quantization step of a number control.
func Step(v float64) Option {
	return func(o *controlOptions) { o.step = &v }
}

// Choices sets select options from bare values; labels are derived from the values.
func Choices(values ...string) Option {
	return func(o *controlOptions) {
		o.options = o.options[:0]
		for _, v := range values {
			o.options = append(o.options, SelectOption{Value: v, Label: DeriveLabel(v)})
		}
	}
}

// Options sets select options with explicit labels.
func Options(opts ...SelectOption) Option {
	return func(o *controlOptions) {
		o.options = append([]SelectOption(nil), opts...)
	}
}

// MinItems sets the minimum length of a group control.
func MinItems(n int) Option {
	return func(o *controlOptions) { o.minItems = &n }
}

// MaxItems sets the maximum length of a group control.
func MaxItems(n int) Option {
	return func(o *controlOptions) { o.maxItems = &n }
}

// Items sets the item templates of a group control.
func Items(templates ...Control) Option {
	return func(o *controlOptions) {
		o.items = append([]Control(nil), templates...)
	}
}

func buildOptions(name string, opts []Option) controlOptions {
	var o controlOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.label == "" {
		o.label = DeriveLabel(name)
	}
	return o
}

func (o controlOptions) base(name string) ControlBase {
	return ControlBase{
		Name:            name,
		Label:           o.label,
		Description:     o.description,
		Debug:           o.debug,
		ResetsAnimation: o.resets,
	}
}

// Slider builds a number control.
func Slider(name string, defaultValue float64, opts ...Option) NumberControl {
	o := buildOptions(name, opts)
	return NumberControl{
		ControlBase:  o.base(name),
		Min:          o.min,
		Max:          o.max,
		Step:         o.step,
		DefaultValue: defaultValue,
	}
}

// Toggle builds a boolean control.
func Toggle(name string, defaultValue bool, opts ...Option) BooleanControl {
	o := buildOptions(name, opts)
	return BooleanControl{ControlBase: o.base(name), DefaultValue: defaultValue}
}

// Color builds a color control.
func Color(name, defaultValue string, opts ...Option) ColorControl {
	o := buildOptions(name, opts)
	return ColorControl{ControlBase: o.base(name), DefaultValue: defaultValue}
}

// Select builds a select control. Provide the options with Choices or Options.
func Select(name, defaultValue string, opts ...Option) SelectControl {
	o := buildOptions(name, opts)
	return SelectControl{
		ControlBase:  o.base(name),
		Options:      o.options,
		DefaultValue: defaultValue,
	}
}

// Group builds a group control of the given kind.
func Group(name string, kind GroupKind, defaultValue []GroupItemValue, opts ...Option) GroupControl {
	o := buildOptions(name, opts)
	return GroupControl{
		ControlBase:  o.base(name),
		Value:        kind,
		Items:        o.items,
		MinItems:     o.minItems,
		MaxItems:     o.maxItems,
		DefaultValue: cloneGroupItems(defaultValue),
	}
}

// NumberItem builds a number group item.
func NumberItem(v float64) GroupItemValue {
	return GroupItemValue{Type: ControlNumber, Value: v}
}

// BooleanItem builds a boolean group item.
func BooleanItem(v bool) GroupItemValue {
	return GroupItemValue{Type: ControlBoolean, Value: v}
}

// ColorItem builds a color group item.
func ColorItem(v string) GroupItemValue {
	return GroupItemValue{Type: ControlColor, Value: v}
}

// SelectItem builds a select group item.
func SelectItem(v string) GroupItemValue {
	return GroupItemValue{Type: ControlSelect, Value: v}
}

// DeriveLabel turns a control name such as "particleCount" or "stage_width"
// into a display label ("Particle Count", "Stage Width").
func DeriveLabel(name string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		case unicode.IsDigit(r) && len(cur) > 0 && !unicode.IsDigit(runes[i-1]):
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	caser := cases.Title(language.English)
	for i, w := range words {
		if isUpperWord(w) {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

func isUpperWord(w string) bool {
	if len([]rune(w)) < 2 {
		return false
	}
	for _, r := range w {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

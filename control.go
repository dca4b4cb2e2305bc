package flateralus

// ControlType discriminates the closed set of control kinds a manifest can declare.
type ControlType string

const (
	ControlNumber  ControlType = "number"  // bounded numeric slider
	ControlBoolean ControlType = "boolean" // on/off toggle
	ControlColor   ControlType = "color"   // color string (hex, rgb(), or CSS name)
	ControlSelect  ControlType = "select"  // one value out of a fixed option list
	ControlGroup   ControlType = "group"   // repeatable list of tagged item values
)

// GroupKind is the value discriminator of a GroupControl. The four base kinds
// produce homogeneous groups; GroupMixed allows items of every templated kind.
type GroupKind string

const (
	GroupNumber  GroupKind = "number"
	GroupBoolean GroupKind = "boolean"
	GroupColor   GroupKind = "color"
	GroupSelect  GroupKind = "select"
	GroupMixed   GroupKind = "mixed"
)

// Control is one typed, named parameter declared in a manifest. The set of
// implementations is closed: NumberControl, BooleanControl, ColorControl,
// SelectControl and GroupControl.
type Control interface {
	// Base returns the fields shared by every control kind.
	Base() ControlBase
	// Type returns the discriminator of the concrete control.
	Type() ControlType

	defaultValue() any
	clone() Control
}

// ControlBase holds the fields every control kind carries.
type ControlBase struct {
	Name        string
	Label       string
	Description string
	// Debug exposes the control to debug panels. Non-debug controls are still
	// validated and defaulted.
	Debug bool
	// ResetsAnimation makes a change of this control re-run the animation's
	// OnReset hook.
	ResetsAnimation bool
}

// Base returns a copy of the shared fields.
func (b ControlBase) Base() ControlBase { return b }

// NumberControl is a numeric parameter. Nil bounds are unconstrained for
// validation; randomization treats them as 0 and 1 and a nil Step as 1.
type NumberControl struct {
	ControlBase
	Min          *float64
	Max          *float64
	Step         *float64
	DefaultValue float64
}

// BooleanControl is an on/off parameter.
type BooleanControl struct {
	ControlBase
	DefaultValue bool
}

// ColorControl is a color parameter stored as a string.
type ColorControl struct {
	ControlBase
	DefaultValue string
}

// SelectOption is one entry of a SelectControl.
type SelectOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// SelectControl picks one value out of Options. DefaultValue must equal the
// Value of one option.
type SelectControl struct {
	ControlBase
	Options      []SelectOption
	DefaultValue string
}

// GroupControl is a bounded, ordered list of tagged item values. Items holds
// the per-kind templates (number bounds, select options, ...). Homogeneous
// groups carry at most one template of their kind; mixed groups carry one
// template per permitted kind.
type GroupControl struct {
	ControlBase
	Value        GroupKind
	Items        []Control
	MinItems     *int
	MaxItems     *int
	DefaultValue []GroupItemValue
}

// GroupItemValue is one element of a group control's value.
type GroupItemValue struct {
	Type     ControlType    `json:"type" yaml:"type"`
	Value    any            `json:"value" yaml:"value"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func (NumberControl) Type() ControlType  { return ControlNumber }
func (BooleanControl) Type() ControlType { return ControlBoolean }
func (ColorControl) Type() ControlType   { return ControlColor }
func (SelectControl) Type() ControlType  { return ControlSelect }
func (GroupControl) Type() ControlType   { return ControlGroup }

func (c NumberControl) defaultValue() any  { return c.DefaultValue }
func (c BooleanControl) defaultValue() any { return c.DefaultValue }
func (c ColorControl) defaultValue() any   { return c.DefaultValue }
func (c SelectControl) defaultValue() any  { return c.DefaultValue }
func (c GroupControl) defaultValue() any   { return cloneGroupItems(c.DefaultValue) }

func (c NumberControl) clone() Control {
	c.Min = cloneFloat(c.Min)
	c.Max = cloneFloat(c.Max)
	c.Step = cloneFloat(c.Step)
	return c
}

func (c BooleanControl) clone() Control { return c }

func (c ColorControl) clone() Control { return c }

func (c SelectControl) clone() Control {
	if c.Options != nil {
		c.Options = append([]SelectOption(nil), c.Options...)
	}
	return c
}

func (c GroupControl) clone() Control {
	if c.Items != nil {
		items := make([]Control, len(c.Items))
		for i, it := range c.Items {
			if it != nil {
				items[i] = it.clone()
			}
		}
		c.Items = items
	}
	c.MinItems = cloneInt(c.MinItems)
	c.MaxItems = cloneInt(c.MaxItems)
	c.DefaultValue = cloneGroupItems(c.DefaultValue)
	return c
}

// HasOption reports whether v is the value of one of the control's options.
func (c SelectControl) HasOption(v string) bool {
	for _, o := range c.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Bounds returns the effective item-count bounds of the group. MinItems
// defaults to 1 and MaxItems is unbounded (-1) when unset.
func (c GroupControl) Bounds() (minItems, maxItems int) {
	minItems, maxItems = 1, -1
	if c.MinItems != nil {
		minItems = *c.MinItems
	}
	if c.MaxItems != nil {
		maxItems = *c.MaxItems
	}
	return minItems, maxItems
}

// Template returns the item template for kind t, if the group declares one.
func (c GroupControl) Template(t ControlType) (Control, bool) {
	for _, it := range c.Items {
		if it != nil && it.Type() == t {
			return it, true
		}
	}
	return nil, false
}

// ItemKinds returns the control types a group item may carry.
func (c GroupControl) ItemKinds() []ControlType {
	if c.Value != GroupMixed {
		return []ControlType{ControlType(c.Value)}
	}
	var kinds []ControlType
	seen := make(map[ControlType]bool)
	for _, it := range c.Items {
		if it == nil || it.Type() == ControlGroup || seen[it.Type()] {
			continue
		}
		seen[it.Type()] = true
		kinds = append(kinds, it.Type())
	}
	return kinds
}

// DebugControls returns the controls flagged for debug panels, in manifest order.
func DebugControls(m *Manifest) []Control {
	var out []Control
	for _, c := range m.controls {
		if c.Base().Debug {
			out = append(out, c.clone())
		}
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneGroupItems(items []GroupItemValue) []GroupItemValue {
	if items == nil {
		return nil
	}
	out := make([]GroupItemValue, len(items))
	for i, it := range items {
		out[i] = GroupItemValue{Type: it.Type, Value: it.Value}
		if it.Metadata != nil {
			md := make(map[string]any, len(it.Metadata))
			for k, v := range it.Metadata {
				md[k] = v
			}
			out[i].Metadata = md
		}
	}
	return out
}

package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/flateralus"
)

// manifestFile is the on-disk form of a manifest definition.
type manifestFile struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Controls    []controlFile `json:"controls" yaml:"controls"`
}

// controlFile is one control tagged by type. Fields that do not apply to
// the type are ignored.
type controlFile struct {
	Type            flateralus.ControlType `json:"type" yaml:"type"`
	Name            string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Label           string                 `json:"label,omitempty" yaml:"label,omitempty"`
	Description     string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Debug           bool                   `json:"debug,omitempty" yaml:"debug,omitempty"`
	ResetsAnimation bool                   `json:"resetsAnimation,omitempty" yaml:"resetsAnimation,omitempty"`
	Min             *float64               `json:"min,omitempty" yaml:"min,omitempty"`
	Max             *float64               `json:"max,omitempty" yaml:"max,omitempty"`
	Step            *float64               `json:"step,omitempty" yaml:"step,omitempty"`
	Options         []optionFile           `json:"options,omitempty" yaml:"options,omitempty"`
	Value           flateralus.GroupKind   `json:"value,omitempty" yaml:"value,omitempty"`
	Items           []controlFile          `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems        *int                   `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems        *int                   `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	DefaultValue    any                    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// optionFile is a select option written either as a bare string or as a
// {value, label} object.
type optionFile flateralus.SelectOption

func (o *optionFile) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = optionFile{Value: s}
		return nil
	}
	var opt flateralus.SelectOption
	if err := json.Unmarshal(data, &opt); err != nil {
		return fmt.Errorf("select option: %w", err)
	}
	*o = optionFile(opt)
	return nil
}

func (o *optionFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*o = optionFile{Value: node.Value}
		return nil
	}
	var opt flateralus.SelectOption
	if err := node.Decode(&opt); err != nil {
		return fmt.Errorf("select option: %w", err)
	}
	*o = optionFile(opt)
	return nil
}

// ReadManifest loads a manifest definition file. The format follows the
// file extension; the manifest is validated before it is returned.
func ReadManifest(path string) (*flateralus.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := DecodeManifest(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return m, nil
}

// DecodeManifest parses and validates a manifest definition.
func DecodeManifest(data []byte, format Format) (*flateralus.Manifest, error) {
	var f manifestFile
	if err := unmarshal(data, format, &f); err != nil {
		return nil, err
	}
	def := flateralus.ManifestDefinition{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Controls:    make([]flateralus.Control, 0, len(f.Controls)),
	}
	for i, cf := range f.Controls {
		c, err := cf.control()
		if err != nil {
			return nil, fmt.Errorf("controls[%d]: %w", i, err)
		}
		def.Controls = append(def.Controls, c)
	}
	if err := flateralus.ValidateManifest(def); err != nil {
		return nil, err
	}
	return flateralus.CreateManifest(def), nil
}

// EncodeManifest renders m in the manifest file format.
func EncodeManifest(m *flateralus.Manifest, format Format) ([]byte, error) {
	f := manifestFile{ID: m.ID(), Name: m.Name(), Description: m.Description()}
	for _, c := range m.Controls() {
		f.Controls = append(f.Controls, fileFromControl(c))
	}
	return marshal(f, format)
}

func (cf controlFile) base() flateralus.ControlBase {
	label := cf.Label
	if label == "" && cf.Name != "" {
		label = flateralus.DeriveLabel(cf.Name)
	}
	return flateralus.ControlBase{
		Name:            cf.Name,
		Label:           label,
		Description:     cf.Description,
		Debug:           cf.Debug,
		ResetsAnimation: cf.ResetsAnimation,
	}
}

func (cf controlFile) control() (flateralus.Control, error) {
	switch cf.Type {
	case flateralus.ControlNumber:
		c := flateralus.NumberControl{ControlBase: cf.base(), Min: cf.Min, Max: cf.Max, Step: cf.Step}
		if cf.DefaultValue != nil {
			v, ok := toNumber(cf.DefaultValue)
			if !ok {
				return nil, fmt.Errorf("%s: defaultValue must be a number", cf.Name)
			}
			c.DefaultValue = v
		}
		return c, nil
	case flateralus.ControlBoolean:
		c := flateralus.BooleanControl{ControlBase: cf.base()}
		if cf.DefaultValue != nil {
			v, ok := cf.DefaultValue.(bool)
			if !ok {
				return nil, fmt.Errorf("%s: defaultValue must be a boolean", cf.Name)
			}
			c.DefaultValue = v
		}
		return c, nil
	case flateralus.ControlColor:
		c := flateralus.ColorControl{ControlBase: cf.base()}
		if cf.DefaultValue != nil {
			v, ok := cf.DefaultValue.(string)
			if !ok {
				return nil, fmt.Errorf("%s: defaultValue must be a color string", cf.Name)
			}
			c.DefaultValue = v
		}
		return c, nil
	case flateralus.ControlSelect:
		c := flateralus.SelectControl{ControlBase: cf.base()}
		for _, o := range cf.Options {
			opt := flateralus.SelectOption(o)
			if opt.Label == "" {
				opt.Label = opt.Value
			}
			c.Options = append(c.Options, opt)
		}
		if cf.DefaultValue != nil {
			v, ok := cf.DefaultValue.(string)
			if !ok {
				return nil, fmt.Errorf("%s: defaultValue must be an option value", cf.Name)
			}
			c.DefaultValue = v
		}
		return c, nil
	case flateralus.ControlGroup:
		c := flateralus.GroupControl{
			ControlBase: cf.base(),
			Value:       cf.Value,
			MinItems:    cf.MinItems,
			MaxItems:    cf.MaxItems,
		}
		for i, it := range cf.Items {
			tmpl, err := it.control()
			if err != nil {
				return nil, fmt.Errorf("%s.items[%d]: %w", cf.Name, i, err)
			}
			c.Items = append(c.Items, tmpl)
		}
		if cf.DefaultValue != nil {
			items, err := toItems(cf.DefaultValue)
			if err != nil {
				return nil, fmt.Errorf("%s: defaultValue: %w", cf.Name, err)
			}
			c.DefaultValue = items
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%s: unknown control type %q", cf.Name, cf.Type)
	}
}

func fileFromControl(c flateralus.Control) controlFile {
	b := c.Base()
	cf := controlFile{
		Type:            c.Type(),
		Name:            b.Name,
		Label:           b.Label,
		Description:     b.Description,
		Debug:           b.Debug,
		ResetsAnimation: b.ResetsAnimation,
	}
	switch c := c.(type) {
	case flateralus.NumberControl:
		cf.Min, cf.Max, cf.Step = c.Min, c.Max, c.Step
		cf.DefaultValue = c.DefaultValue
	case flateralus.BooleanControl:
		cf.DefaultValue = c.DefaultValue
	case flateralus.ColorControl:
		cf.DefaultValue = c.DefaultValue
	case flateralus.SelectControl:
		for _, o := range c.Options {
			cf.Options = append(cf.Options, optionFile(o))
		}
		cf.DefaultValue = c.DefaultValue
	case flateralus.GroupControl:
		cf.Value = c.Value
		cf.MinItems, cf.MaxItems = c.MinItems, c.MaxItems
		for _, it := range c.Items {
			cf.Items = append(cf.Items, fileFromControl(it))
		}
		cf.DefaultValue = c.DefaultValue
	}
	return cf
}

// toNumber accepts the numeric kinds produced by the JSON and YAML decoders.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toItems converts a decoded list of {type, value, metadata} maps.
func toItems(v any) ([]flateralus.GroupItemValue, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of items")
	}
	out := make([]flateralus.GroupItemValue, 0, len(list))
	for i, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected an object", i)
		}
		t, _ := m["type"].(string)
		item := flateralus.GroupItemValue{Type: flateralus.ControlType(t), Value: m["value"]}
		if n, ok := toNumber(item.Value); ok {
			item.Value = n
		}
		if md, ok := m["metadata"].(map[string]any); ok {
			item.Metadata = md
		}
		out = append(out, item)
	}
	return out, nil
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
	}
	return nil
}

func marshal(v any, format Format) ([]byte, error) {
	switch format {
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

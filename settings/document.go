// Package settings saves and restores animation and stage control values as
// JSON or YAML documents, and reads manifest definition files.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/flateralus"
)

// Format selects the document encoding.
type Format uint8

const (
	JSON Format = iota // default
	YAML               // .yaml and .yml files
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ParseFormat maps "json", "yaml" and "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return JSON, fmt.Errorf("unknown format %q", s)
	}
}

// ErrManifestMismatch is returned when a document targets another manifest.
var ErrManifestMismatch = errors.New("settings: manifest id mismatch")

// Document is an exported set of control values for one animation and,
// optionally, its application's stage.
type Document struct {
	ManifestID    string                   `json:"manifestId" yaml:"manifestId"`
	ControlValues flateralus.ControlValues `json:"controlValues" yaml:"controlValues"`
	StageControls *StageDocument           `json:"stageControls,omitempty" yaml:"stageControls,omitempty"`
}

// StageDocument holds exported stage control values.
type StageDocument struct {
	ManifestID    string                   `json:"manifestId" yaml:"manifestId"`
	ControlValues flateralus.ControlValues `json:"controlValues" yaml:"controlValues"`
}

// Export captures the current values of anim and, when app is non-nil, of
// the application's stage.
func Export[C any](anim *flateralus.Animation[C], app *flateralus.Application[C]) Document {
	var doc Document
	if anim != nil {
		doc.ManifestID = anim.Manifest().ID()
		doc.ControlValues = anim.ControlValues()
	}
	if app != nil {
		doc.StageControls = &StageDocument{
			ManifestID:    app.StageControlsManifest().ID(),
			ControlValues: app.StageControlValues(),
		}
	}
	return doc
}

// Validate checks that d targets m and that its values, merged over the
// manifest defaults, are valid. Stage values are checked against stage when
// both are present. The returned error joins every failure.
func (d Document) Validate(m, stage *flateralus.Manifest) error {
	var errs []error
	if m != nil {
		errs = append(errs, checkValues(m, d.ManifestID, d.ControlValues))
	}
	if stage != nil && d.StageControls != nil {
		errs = append(errs, checkValues(stage, d.StageControls.ManifestID, d.StageControls.ControlValues))
	}
	return errors.Join(errs...)
}

func checkValues(m *flateralus.Manifest, id string, values flateralus.ControlValues) error {
	if id != "" && id != m.ID() {
		return fmt.Errorf("%w: document %q, manifest %q", ErrManifestMismatch, id, m.ID())
	}
	schema := flateralus.CreateControlValuesSchema(m)
	return schema.Validate(flateralus.DefaultControlValues(m).Merge(values))
}

// Apply validates d and merges its values into anim and the stage of app.
// Either target may be nil. Nothing is applied when validation fails.
func Apply[C any](anim *flateralus.Animation[C], app *flateralus.Application[C], d Document) error {
	var m, stage *flateralus.Manifest
	if anim != nil {
		m = anim.Manifest()
	}
	if app != nil {
		stage = app.StageControlsManifest()
	}
	if err := d.Validate(m, stage); err != nil {
		return err
	}
	if stage != nil && d.StageControls != nil {
		if err := app.UpdateStageControls(d.StageControls.ControlValues); err != nil {
			return fmt.Errorf("apply stage controls: %w", err)
		}
	}
	if anim != nil && len(d.ControlValues) > 0 {
		if err := anim.UpdateControls(d.ControlValues); err != nil {
			return fmt.Errorf("apply controls: %w", err)
		}
	}
	return nil
}

// Decode parses a document.
func Decode(data []byte, format Format) (Document, error) {
	var d Document
	if err := unmarshal(data, format, &d); err != nil {
		return Document{}, fmt.Errorf("settings: %w", err)
	}
	return d, nil
}

// Encode renders a document.
func Encode(d Document, format Format) ([]byte, error) {
	return marshal(d, format)
}

// Read loads a document, choosing the format by file extension.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("settings: %w", err)
	}
	d, err := Decode(data, FormatFor(path))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Write stores a document, choosing the format by file extension.
func Write(path string, d Document) error {
	data, err := Encode(d, FormatFor(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

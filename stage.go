package flateralus

import (
	"image/color"
	"math"
)

// Stage control names used by StageManifest.
const (
	StageBackgroundColor = "backgroundColor"
	StageBackgroundAlpha = "backgroundAlpha"
	StageWidth           = "stageWidth"
	StageHeight          = "stageHeight"
)

// StageManifestID identifies the default stage manifest in exported settings.
const StageManifestID = "stage"

const maxStageSize = 8192

var stageManifest = MustCreateManifest(ManifestDefinition{
	ID:          StageManifestID,
	Name:        "Stage",
	Description: "Background and canvas size owned by the application.",
	Controls: []Control{
		Color(StageBackgroundColor, "#000000", Debug()),
		Slider(StageBackgroundAlpha, 1, Range(0, 1), Step(0.01), Debug()),
		Slider(StageWidth, 800, Range(1, maxStageSize), Step(1), Debug()),
		Slider(StageHeight, 600, Range(1, maxStageSize), Step(1), Debug()),
	},
})

// StageManifest returns the default stage manifest: background color and
// alpha plus canvas width and height. Renderers may return it from
// StageControlsManifest or supply their own.
func StageManifest() *Manifest { return stageManifest }

// StageBackground resolves the background color and alpha of a stage value
// map into a single color. Missing or malformed entries fall back to opaque
// black.
func StageBackground(stage ControlValues) color.NRGBA {
	bg := color.NRGBA{A: 0xff}
	if s, ok := stage.Color(StageBackgroundColor); ok {
		if c, err := ParseColor(s); err == nil {
			bg = c
		}
	}
	if a, ok := stage.Number(StageBackgroundAlpha); ok {
		bg.A = uint8(math.Round(math.Max(0, math.Min(1, a)) * float64(bg.A)))
	}
	return bg
}

// StageSize returns the stage width and height, or 0 when absent.
func StageSize(stage ControlValues) (width, height int) {
	w, _ := stage.Number(StageWidth)
	h, _ := stage.Number(StageHeight)
	return int(w), int(h)
}

// clampToControl clamps v to the bounds of the number control called name.
func clampToControl(m *Manifest, name string, v float64) float64 {
	c, ok := m.lookup(name)
	if !ok {
		return v
	}
	n, ok := c.(NumberControl)
	if !ok {
		return v
	}
	if n.Min != nil {
		v = math.Max(v, *n.Min)
	}
	if n.Max != nil {
		v = math.Min(v, *n.Max)
	}
	return v
}

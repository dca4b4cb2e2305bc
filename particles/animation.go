// Package particles is a backend-agnostic particle fountain animation. Its
// manifest exercises every control kind; a Painter draws it on any
// rendering context.
package particles

import (
	"image/color"
	"math"

	"github.com/phanxgames/flateralus"
)

// Control names.
const (
	ControlCount    = "count"
	ControlSeed     = "seed"
	ControlEmitRate = "emitRate"
	ControlLifetime = "lifetime"
	ControlSpeed    = "speed"
	ControlSpread   = "spread"
	ControlGravity  = "gravity"
	ControlSize     = "size"
	ControlFade     = "fade"
	ControlPalette  = "palette"
	ControlEndColor = "endColor"
	ControlSource   = "source"
)

// Manifest describes the particle controls.
var Manifest = flateralus.MustCreateManifest(flateralus.ManifestDefinition{
	ID:          "particles",
	Name:        "Particles",
	Description: "A particle fountain with a color palette and gravity.",
	Controls: []flateralus.Control{
		flateralus.Slider(ControlCount, 400, flateralus.Range(10, 4000), flateralus.Step(10),
			flateralus.Label("Max particles"), flateralus.ResetsAnimation()),
		flateralus.Slider(ControlSeed, 1, flateralus.Range(1, 9999), flateralus.Step(1),
			flateralus.ResetsAnimation(), flateralus.Debug()),
		flateralus.Slider(ControlEmitRate, 120, flateralus.Range(0, 2000), flateralus.Step(10),
			flateralus.Description("Particles spawned per second.")),
		flateralus.Slider(ControlLifetime, 2, flateralus.Range(0.1, 10), flateralus.Step(0.1)),
		flateralus.Slider(ControlSpeed, 160, flateralus.Range(0, 800), flateralus.Step(5)),
		flateralus.Slider(ControlSpread, 50, flateralus.Range(0, 360), flateralus.Step(1),
			flateralus.Description("Emission cone in degrees.")),
		flateralus.Slider(ControlGravity, 120, flateralus.Range(-500, 500), flateralus.Step(10)),
		flateralus.Slider(ControlSize, 4, flateralus.Range(1, 32), flateralus.Step(0.5)),
		flateralus.Toggle(ControlFade, true),
		flateralus.Group(ControlPalette, flateralus.GroupColor,
			[]flateralus.GroupItemValue{
				flateralus.ColorItem("#ffcc33"),
				flateralus.ColorItem("#ff6633"),
				flateralus.ColorItem("#33ccff"),
			},
			flateralus.MinItems(1), flateralus.MaxItems(8)),
		flateralus.Color(ControlEndColor, "#ffffff"),
		flateralus.Select(ControlSource, "fountain",
			flateralus.Options(
				flateralus.SelectOption{Value: "fountain", Label: "Fountain"},
				flateralus.SelectOption{Value: "rain", Label: "Rain"},
				flateralus.SelectOption{Value: "burst", Label: "Burst"},
			)),
	},
})

// Painter draws particles on a rendering context of type C.
type Painter[C any] interface {
	Size(ctx C) (width, height int)
	Dot(ctx C, x, y, radius float64, col color.NRGBA)
}

// New returns a particle animation drawn with p. initial overrides entries
// of the manifest defaults.
func New[C any](p Painter[C], initial flateralus.ControlValues) (*flateralus.Animation[C], error) {
	return flateralus.NewAnimation[C](Manifest, &hooks[C]{paint: p}, initial)
}

type hooks[C any] struct {
	paint   Painter[C]
	emitter *Emitter
}

func (h *hooks[C]) OnInit(ctx C, values flateralus.ControlValues) error {
	h.rebuild(ctx, values)
	return nil
}

func (h *hooks[C]) OnReset(ctx C, values flateralus.ControlValues) error {
	h.rebuild(ctx, values)
	return nil
}

func (h *hooks[C]) OnUpdate(ctx C, values flateralus.ControlValues, dt float64) {
	if h.emitter == nil {
		return
	}
	w, ht := h.paint.Size(ctx)
	h.emitter.SetConfig(Config(values, w, ht))
	h.emitter.Update(dt)

	size, _ := values.Number(ControlSize)
	h.emitter.Each(func(x, y, scale float64, col color.NRGBA) {
		h.paint.Dot(ctx, x, y, size*scale, col)
	})
}

func (h *hooks[C]) OnDestroy() error {
	h.emitter = nil
	return nil
}

func (h *hooks[C]) rebuild(ctx C, values flateralus.ControlValues) {
	w, ht := h.paint.Size(ctx)
	seed, _ := values.Number(ControlSeed)
	h.emitter = NewEmitter(Config(values, w, ht), uint64(seed))
	h.emitter.Start()
}

// Config maps control values and a canvas size to an emitter configuration.
func Config(values flateralus.ControlValues, width, height int) EmitterConfig {
	count, _ := values.Number(ControlCount)
	rate, _ := values.Number(ControlEmitRate)
	life, _ := values.Number(ControlLifetime)
	speed, _ := values.Number(ControlSpeed)
	spread, _ := values.Number(ControlSpread)
	gravity, _ := values.Number(ControlGravity)
	fade, _ := values.Bool(ControlFade)
	source, _ := values.Choice(ControlSource)

	cfg := EmitterConfig{
		MaxParticles: int(count),
		EmitRate:     rate,
		Lifetime:     Range{Min: life * 0.7, Max: life * 1.3},
		Speed:        Range{Min: speed * 0.6, Max: speed},
		StartScale:   Range{Min: 0.8, Max: 1.2},
		EndScale:     Range{Min: 0.2, Max: 0.5},
		StartAlpha:   Range{Min: 0.8, Max: 1},
		EndAlpha:     Range{Min: 1, Max: 1},
		GravityY:     gravity,
		EndColor:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	if fade {
		cfg.EndAlpha = Range{}
	}
	if c, ok := values.Color(ControlEndColor); ok {
		if parsed, err := flateralus.ParseColor(c); err == nil {
			cfg.EndColor = parsed
		}
	}
	if items, ok := values.Items(ControlPalette); ok {
		for _, it := range items {
			s, _ := it.Value.(string)
			if c, err := flateralus.ParseColor(s); err == nil {
				cfg.Palette = append(cfg.Palette, c)
			}
		}
	}

	w, h := float64(width), float64(height)
	cone := spread * math.Pi / 180
	base := -math.Pi / 2
	switch source {
	case "rain":
		base = math.Pi / 2
		cfg.OriginX, cfg.OriginY = w/2, 0
		cfg.SpreadX = w
	case "burst":
		cone = 2 * math.Pi
		cfg.OriginX, cfg.OriginY = w/2, h/2
	default:
		cfg.OriginX, cfg.OriginY = w/2, h*0.9
	}
	cfg.Angle = Range{Min: base - cone/2, Max: base + cone/2}
	return cfg
}

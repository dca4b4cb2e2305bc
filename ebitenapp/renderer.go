// Package ebitenapp runs flateralus applications in an [Ebitengine] window.
//
// Animations draw into an offscreen [Canvas] sized to the stage; each frame
// the canvas is scaled onto the window. Keyboard shortcuts drive the
// application: Space pauses, R eases toward random values, Backspace resets
// and F toggles the FPS overlay.
//
// [Ebitengine]: https://ebitengine.org
package ebitenapp

import (
	"context"
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/flateralus"
)

// Canvas is the rendering context handed to animations: an offscreen image
// the size of the stage. Image is replaced on resize.
type Canvas struct {
	Image      *ebiten.Image
	Background color.NRGBA
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.Image.Bounds().Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.Image.Bounds().Dy() }

// App is an application rendering to an ebiten canvas.
type App = flateralus.Application[*Canvas]

// Renderer is a flateralus.Renderer[*Canvas]. Ticks are delivered from the
// ebiten game loop's Update.
type Renderer struct {
	cfg     RunConfig
	canvas  *Canvas
	tick    func(dt float64)
	running bool
}

var _ flateralus.Renderer[*Canvas] = (*Renderer)(nil)

// NewRenderer returns a renderer for cfg.
func NewRenderer(cfg RunConfig) *Renderer {
	return &Renderer{cfg: cfg.withDefaults()}
}

// Size reports the configured window size.
func (r *Renderer) Size() (width, height int) { return r.cfg.Width, r.cfg.Height }

// CreateContext allocates the offscreen canvas.
func (r *Renderer) CreateContext(_ context.Context, _ flateralus.Host, stage flateralus.ControlValues) (*Canvas, error) {
	w, h := flateralus.StageSize(stage)
	if w <= 0 || h <= 0 {
		w, h = r.cfg.Width, r.cfg.Height
	}
	r.canvas = &Canvas{
		Image:      ebiten.NewImage(w, h),
		Background: flateralus.StageBackground(stage),
	}
	return r.canvas, nil
}

// StartRenderLoop records tick. The ebiten loop itself is started by Run.
func (r *Renderer) StartRenderLoop(tick func(dt float64)) error {
	if tick == nil {
		return errors.New("ebitenapp: nil tick")
	}
	r.tick = tick
	r.running = true
	return nil
}

// StopRenderLoop stops delivering ticks; the window keeps presenting the
// last frame.
func (r *Renderer) StopRenderLoop() { r.running = false }

// ResumeRenderLoop resumes tick delivery.
func (r *Renderer) ResumeRenderLoop() {
	if r.tick != nil {
		r.running = true
	}
}

// HandleResize swaps in a canvas image of the new size.
func (r *Renderer) HandleResize(c *Canvas, width, height int) error {
	if c == nil {
		return errors.New("ebitenapp: resize without canvas")
	}
	old := c.Image
	c.Image = ebiten.NewImage(width, height)
	if old != nil {
		old.Deallocate()
	}
	return nil
}

// DestroyContext releases the canvas image.
func (r *Renderer) DestroyContext(c *Canvas) error {
	if c != nil && c.Image != nil {
		c.Image.Deallocate()
		c.Image = nil
	}
	if c == r.canvas {
		r.canvas = nil
	}
	r.tick = nil
	r.running = false
	return nil
}

// StageControlsManifest selects the default stage manifest.
func (r *Renderer) StageControlsManifest() *flateralus.Manifest { return nil }

// frame clears the canvas to bg and delivers one tick.
func (r *Renderer) frame(dt float64, bg color.NRGBA) {
	if !r.running || r.canvas == nil || r.canvas.Image == nil {
		return
	}
	r.canvas.Background = bg
	r.canvas.Image.Fill(bg)
	r.tick(dt)
}

// Painter draws on a Canvas through the Size and Dot methods shared by the
// bundled animations.
type Painter struct{}

// Size returns the canvas dimensions.
func (Painter) Size(c *Canvas) (width, height int) { return c.Width(), c.Height() }

// Dot draws an anti-aliased filled circle.
func (Painter) Dot(c *Canvas, x, y, radius float64, col color.NRGBA) {
	vector.DrawFilledCircle(c.Image, float32(x), float32(y), float32(radius), col, true)
}

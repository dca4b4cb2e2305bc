// Package headless implements the flateralus Renderer contract over an
// in-memory image. Frames advance only when stepped, which makes it the
// backend for tests, batch rendering and the command line tool.
package headless

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phanxgames/flateralus"
)

// Config sizes the canvas and paces Run. Zero values select 800x600 at 60
// frames per second.
type Config struct {
	Width  int
	Height int
	FPS    int
	// SnapshotDir receives PNG files written by script snapshot steps.
	// Defaults to "snapshots".
	SnapshotDir string
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.SnapshotDir == "" {
		c.SnapshotDir = "snapshots"
	}
	return c
}

// App is an application rendering to a headless canvas.
type App = flateralus.Application[*Canvas]

// Renderer is a flateralus.Renderer[*Canvas].
type Renderer struct {
	cfg     Config
	canvas  *Canvas
	tick    func(dt float64)
	running bool
	app     *App
	script  *Script
}

var _ flateralus.Renderer[*Canvas] = (*Renderer)(nil)

// New returns a renderer for cfg.
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg.withDefaults()}
}

// NewApp creates a renderer and an application bound to it.
func NewApp(cfg Config, appCfg flateralus.ApplicationConfig) (*App, *Renderer, error) {
	r := New(cfg)
	app, err := flateralus.NewApplication[*Canvas](r, appCfg)
	if err != nil {
		return nil, nil, err
	}
	r.Bind(app)
	return app, r, nil
}

// Bind lets the renderer read the application's stage values each frame and
// run scripts against it.
func (r *Renderer) Bind(app *App) { r.app = app }

// Canvas returns the current context, or nil before CreateContext.
func (r *Renderer) Canvas() *Canvas { return r.canvas }

// Size reports the configured canvas size; a Renderer can serve as the
// flateralus.Host it renders to.
func (r *Renderer) Size() (width, height int) { return r.cfg.Width, r.cfg.Height }

// CreateContext allocates the canvas using the stage size when present.
func (r *Renderer) CreateContext(_ context.Context, _ flateralus.Host, stage flateralus.ControlValues) (*Canvas, error) {
	w, h := flateralus.StageSize(stage)
	if w <= 0 || h <= 0 {
		w, h = r.cfg.Width, r.cfg.Height
	}
	r.canvas = newCanvas(w, h, flateralus.StageBackground(stage))
	r.canvas.Clear()
	return r.canvas, nil
}

// StartRenderLoop records tick; frames run on Step or Run.
func (r *Renderer) StartRenderLoop(tick func(dt float64)) error {
	if tick == nil {
		return errors.New("headless: nil tick")
	}
	r.tick = tick
	r.running = true
	return nil
}

// StopRenderLoop stops frames from reaching the tick function.
func (r *Renderer) StopRenderLoop() { r.running = false }

// ResumeRenderLoop restarts delivery to the recorded tick function.
func (r *Renderer) ResumeRenderLoop() {
	if r.tick != nil {
		r.running = true
	}
}

// HandleResize rescales the canvas content to the new size.
func (r *Renderer) HandleResize(c *Canvas, width, height int) error {
	if c == nil {
		return errors.New("headless: resize without canvas")
	}
	c.resize(width, height)
	return nil
}

// DestroyContext drops the canvas.
func (r *Renderer) DestroyContext(c *Canvas) error {
	if c == r.canvas {
		r.canvas = nil
	}
	r.tick = nil
	r.running = false
	return nil
}

// StageControlsManifest selects the default stage manifest.
func (r *Renderer) StageControlsManifest() *flateralus.Manifest { return nil }

// Running reports whether frames are delivered.
func (r *Renderer) Running() bool { return r.running }

// SetScript attaches a script advanced once per Step, before the frame is
// drawn. A nil script detaches.
func (r *Renderer) SetScript(s *Script) { r.script = s }

// Step renders one frame of dt seconds: it advances the script, clears the
// canvas to the stage background and calls the tick function. It returns
// the script's error, if a step failed.
func (r *Renderer) Step(dt float64) error {
	if r.script != nil && r.app != nil {
		if err := r.script.step(r.app, r); err != nil {
			return err
		}
	}
	if !r.running || r.canvas == nil {
		return nil
	}
	if r.app != nil {
		r.canvas.Background = flateralus.StageBackground(r.app.StageControlValues())
	}
	r.canvas.Clear()
	r.tick(dt)
	r.canvas.frame++
	return nil
}

// Run steps frames at the configured rate until frames have been rendered
// (0 means no limit), an attached script finishes, or ctx is done.
func (r *Renderer) Run(ctx context.Context, frames int) error {
	interval := time.Second / time.Duration(r.cfg.FPS)
	dt := interval.Seconds()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := r.Step(dt); err != nil {
			return fmt.Errorf("headless: frame %d: %w", n, err)
		}
		if r.script != nil && r.script.Done() {
			return nil
		}
	}
	return nil
}

// Render steps frames back to back without waiting, for batch output. It
// stops early when an attached script finishes.
func (r *Renderer) Render(frames int) error {
	dt := 1 / float64(r.cfg.FPS)
	for n := 0; n < frames; n++ {
		if err := r.Step(dt); err != nil {
			return fmt.Errorf("headless: frame %d: %w", n, err)
		}
		if r.script != nil && r.script.Done() {
			return nil
		}
	}
	return nil
}

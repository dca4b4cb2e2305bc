package ebitenapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/flateralus"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// ShowFPS shows the FPS overlay at startup. F toggles it.
	ShowFPS bool
	// TweenSeconds is the duration of the R shortcut's ease toward random
	// values. Defaults to 1.5.
	TweenSeconds float32
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = "flateralus"
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.TweenSeconds <= 0 {
		c.TweenSeconds = 1.5
	}
	return c
}

// NewApp creates a renderer and an application bound to it.
func NewApp(cfg RunConfig, appCfg flateralus.ApplicationConfig) (*App, *Renderer, error) {
	r := NewRenderer(cfg)
	app, err := flateralus.NewApplication[*Canvas](r, appCfg)
	if err != nil {
		return nil, nil, err
	}
	return app, r, nil
}

// Run initializes and starts app, opens the window and blocks until it is
// closed. The application is destroyed on return.
func Run(ctx context.Context, app *App, r *Renderer) error {
	defer app.Destroy()

	if err := app.Init(ctx, r); err != nil {
		return err
	}
	if err := app.Start(); err != nil {
		return err
	}

	ebiten.SetWindowTitle(r.cfg.Title)
	ebiten.SetWindowSize(r.cfg.Width, r.cfg.Height)
	if r.cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := &game{ctx: ctx, app: app, r: r, fps: newFPSOverlay(r.cfg.ShowFPS)}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("ebitenapp: %w", err)
	}
	return nil
}

// game implements ebiten.Game.
type game struct {
	ctx context.Context
	app *App
	r   *Renderer
	fps *fpsOverlay

	layoutW, layoutH int
	pendingResize    bool
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	dt := 1 / float64(ebiten.TPS())
	g.handleKeys()

	if g.pendingResize {
		g.pendingResize = false
		if err := g.app.Resize(g.layoutW, g.layoutH); err != nil {
			return err
		}
	}

	g.r.frame(dt, flateralus.StageBackground(g.app.StageControlValues()))
	g.fps.update(dt, g.app.Frame(), g.app.IsPaused())
	return nil
}

func (g *game) handleKeys() {
	anim := g.app.Animation()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.app.IsPaused() {
			g.app.Resume()
		} else {
			g.app.Pause()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.fps.visible = !g.fps.visible
	case anim == nil:
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := anim.TweenToRandom(nil, g.r.cfg.TweenSeconds, ease.InOutCubic); err != nil {
			flateralus.Logf("ebitenapp: randomize: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if err := anim.Reset(); err != nil {
			flateralus.Logf("ebitenapp: reset: %v", err)
		}
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(flateralus.StageBackground(g.app.StageControlValues()))
	if c := g.r.canvas; c != nil && c.Image != nil {
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(float64(sw)/float64(c.Width()), float64(sh)/float64(c.Height()))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(c.Image, &op)
	}
	g.fps.draw(screen)
}

// Layout follows the window size when resizable; the stage is resized on
// the next Update.
func (g *game) Layout(outsideW, outsideH int) (int, int) {
	if !g.r.cfg.Resizable {
		return g.r.cfg.Width, g.r.cfg.Height
	}
	if outsideW != g.layoutW || outsideH != g.layoutH {
		g.layoutW, g.layoutH = outsideW, outsideH
		g.pendingResize = true
	}
	return outsideW, outsideH
}

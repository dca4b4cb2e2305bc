package ebitenapp

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay displays the current FPS and TPS plus the application frame
// count. The text is refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
	visible    bool
}

func newFPSOverlay(visible bool) *fpsOverlay {
	// 120x48 is enough for three short lines of debug text.
	return &fpsOverlay{img: ebiten.NewImage(120, 48), visible: visible, lastUpdate: 0.5}
}

func (o *fpsOverlay) update(dt float64, frame uint64, paused bool) {
	o.lastUpdate += dt
	if o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	state := "running"
	if paused {
		state = "paused"
	}
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%d %s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), frame, state))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	if !o.visible {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	screen.DrawImage(o.img, &op)
}

package headless

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Canvas is the rendering context handed to animations by the headless
// renderer: an in-memory RGBA image plus the current stage background.
type Canvas struct {
	Image      *image.RGBA
	Background color.NRGBA
	frame      uint64
}

func newCanvas(w, h int, bg color.NRGBA) *Canvas {
	return &Canvas{Image: image.NewRGBA(image.Rect(0, 0, w, h)), Background: bg}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.Image.Bounds().Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.Image.Bounds().Dy() }

// Frame returns the number of frames rendered on the canvas.
func (c *Canvas) Frame() uint64 { return c.frame }

// Clear fills the canvas with the stage background.
func (c *Canvas) Clear() {
	c.Fill(c.Background)
}

// Fill replaces every pixel with col.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.Image, c.Image.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect composites col over the rectangle at (x, y) sized w by h.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	r := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(c.Image, r.Intersect(c.Image.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// FillCircle composites col over the disc centered at (cx, cy).
func (c *Canvas) FillCircle(cx, cy, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	m := &disc{cx: cx, cy: cy, r: radius}
	b := m.Bounds().Intersect(c.Image.Bounds())
	if b.Empty() {
		return
	}
	draw.DrawMask(c.Image, b, image.NewUniform(col), image.Point{}, m, b.Min, draw.Over)
}

// disc is an alpha mask covering a circle.
type disc struct {
	cx, cy, r float64
}

func (d *disc) ColorModel() color.Model { return color.AlphaModel }

func (d *disc) Bounds() image.Rectangle {
	return image.Rect(int(math.Floor(d.cx-d.r)), int(math.Floor(d.cy-d.r)),
		int(math.Ceil(d.cx+d.r)), int(math.Ceil(d.cy+d.r)))
}

func (d *disc) At(x, y int) color.Color {
	dx := float64(x) + 0.5 - d.cx
	dy := float64(y) + 0.5 - d.cy
	if dx*dx+dy*dy <= d.r*d.r {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// resize replaces the backing image with one of the new size, scaling the
// previous content into it.
func (c *Canvas) resize(w, h int) {
	if w == c.Width() && h == c.Height() {
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), c.Image, c.Image.Bounds(), draw.Src, nil)
	c.Image = dst
}

// Painter draws on a Canvas through the Size and Dot methods shared by the
// bundled animations.
type Painter struct{}

// Size returns the canvas dimensions.
func (Painter) Size(c *Canvas) (width, height int) { return c.Width(), c.Height() }

// Dot composites a filled circle.
func (Painter) Dot(c *Canvas, x, y, radius float64, col color.NRGBA) {
	c.FillCircle(x, y, radius, col)
}

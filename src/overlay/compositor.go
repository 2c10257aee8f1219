package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"fourshot/src/selection"
)

// DefaultOutline is the selection border colour.
var DefaultOutline = color.RGBA{R: 0xff, A: 0xff}

const labelOffset = 10

// Compositor renders one overlay frame. Backdrop is the darkened capture; when
// nil the original is used, which is how darkening is switched off.
type Compositor struct {
	Original    *image.RGBA
	Backdrop    *image.RGBA
	Outline     color.RGBA
	LabelOrigin bool
}

// Compose draws the frame for rect into dst. The result depends only on the
// inputs, so composing twice yields identical pixels.
func (c Compositor) Compose(dst *image.RGBA, rect selection.Rect) {
	backdrop := c.Backdrop
	if backdrop == nil {
		backdrop = c.Original
	}
	draw.Draw(dst, dst.Bounds(), backdrop, backdrop.Bounds().Min, draw.Src)

	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}

	r := rect.Image()
	draw.Draw(dst, r.Intersect(dst.Bounds()), c.Original, r.Intersect(dst.Bounds()).Min, draw.Src)

	outline := c.Outline
	if outline.A == 0 {
		outline = DefaultOutline
	}
	strokeRect(dst, r, outline)
	c.drawLabel(dst, rect)
}

// Label formats the dimension text shown above the selection.
func (c Compositor) Label(rect selection.Rect) string {
	if c.LabelOrigin {
		return fmt.Sprintf("(%d, %d) (%d, %d)", rect.StartX, rect.StartY, rect.Width(), rect.Height())
	}
	return fmt.Sprintf("%d x %d", rect.Width(), rect.Height())
}

func (c Compositor) drawLabel(dst *image.RGBA, rect selection.Rect) {
	text := c.Label(rect)
	face := basicfont.Face7x13
	bounds := dst.Bounds()

	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()

	x := rect.StartX
	y := rect.StartY - labelOffset
	if x+width+1 > bounds.Max.X {
		x = bounds.Max.X - width - 1
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y-ascent < bounds.Min.Y {
		y = bounds.Min.Y + ascent
	}
	if y+descent+1 > bounds.Max.Y {
		y = bounds.Max.Y - descent - 1
	}

	shadow := &font.Drawer{Dst: dst, Src: image.NewUniform(color.Black), Face: face, Dot: fixed.P(x+1, y+1)}
	shadow.DrawString(text)
	fg := &font.Drawer{Dst: dst, Src: image.NewUniform(color.White), Face: face, Dot: fixed.P(x, y)}
	fg.DrawString(text)
}

// strokeRect draws a 1-pixel border whose right and bottom edges sit just
// outside r, matching X11 rectangle outlines.
func strokeRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	b := dst.Bounds()
	for x := r.Min.X; x <= r.Max.X; x++ {
		setIn(dst, b, x, r.Min.Y, col)
		setIn(dst, b, x, r.Max.Y, col)
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		setIn(dst, b, r.Min.X, y, col)
		setIn(dst, b, r.Max.X, y, col)
	}
}

func setIn(dst *image.RGBA, b image.Rectangle, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(b) {
		dst.SetRGBA(x, y, col)
	}
}

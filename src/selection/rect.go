package selection

import "image"

// Rect is a selection in raster pixel coordinates. End is exclusive.
type Rect struct {
	StartX int
	StartY int
	EndX   int
	EndY   int
}

func (r Rect) Width() int  { return r.EndX - r.StartX }
func (r Rect) Height() int { return r.EndY - r.StartY }

// Image converts r into an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.StartX, r.StartY, r.EndX, r.EndY)
}

// normalize enforces EndX > StartX and EndY > StartY. When bounds is non-empty
// the coordinates are first clamped so the result always lies inside it.
func (r Rect) normalize(bounds image.Rectangle) Rect {
	if !bounds.Empty() {
		r.StartX = clamp(r.StartX, bounds.Min.X, bounds.Max.X-1)
		r.StartY = clamp(r.StartY, bounds.Min.Y, bounds.Max.Y-1)
		r.EndX = clamp(r.EndX, bounds.Min.X, bounds.Max.X)
		r.EndY = clamp(r.EndY, bounds.Min.Y, bounds.Max.Y)
	}
	if r.StartX >= r.EndX {
		r.EndX = r.StartX + 1
	}
	if r.StartY >= r.EndY {
		r.EndY = r.StartY + 1
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

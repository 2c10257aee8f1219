package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"
)

var (
	// ErrDisplayUnavailable means no connection to the display server could be made.
	ErrDisplayUnavailable = errors.New("display unavailable")
	// ErrCaptureFailed means the display was reachable but the frame grab failed.
	ErrCaptureFailed = errors.New("capture failed")
)

// Backend names accepted by NewCapturer.
const (
	BackendX11        = "x11"
	BackendScreenshot = "screenshot"
	BackendPortal     = "portal"
)

// Region represents a rectangular area of a captured raster.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect converts the region into an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// RegionOf returns the region covering all of img.
func RegionOf(img image.Image) Region {
	b := img.Bounds()
	return Region{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

// Capturer grabs one still frame of the display root surface.
// There are no retries: a failed attempt is final.
type Capturer interface {
	Capture(ctx context.Context) (*image.RGBA, error)
}

// NewCapturer returns the capture backend with the given name.
// display is the X display name; empty means $DISPLAY.
func NewCapturer(backend, display string) (Capturer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendX11:
		return &X11Capturer{Display: display}, nil
	case BackendScreenshot:
		return DisplayCapturer{Index: 0}, nil
	case BackendPortal:
		return PortalCapturer{}, nil
	default:
		return nil, fmt.Errorf("unknown capture backend %q", backend)
	}
}

// normalize returns an opaque copy of img whose bounds start at (0,0).
func normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

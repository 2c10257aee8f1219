package screenshot

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// DisplayCapturer captures one active display through kbinani/screenshot.
type DisplayCapturer struct {
	Index int
}

func (c DisplayCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("%w: no active displays found", ErrDisplayUnavailable)
	}
	if c.Index < 0 || c.Index >= n {
		return nil, fmt.Errorf("%w: display %d out of range (%d active)", ErrCaptureFailed, c.Index, n)
	}

	img, err := screenshot.CaptureDisplay(c.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return normalize(img), nil
}

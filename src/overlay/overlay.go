// Package overlay hosts the interactive region selection: a fullscreen window
// showing the darkened capture with the live selection cut out of it.
package overlay

import (
	"context"
	"image"

	"fourshot/src/selection"
)

// Selector defines a synchronous region-selection API owned by the caller's goroutine.
// Returns (rect, cancelled, error). If cancelled is true, rect is undefined and err is nil.
type Selector interface {
	Select(ctx context.Context, raster *image.RGBA) (selection.Rect, bool, error)
}

// SelectorFunc adapts a plain function to Selector.
type SelectorFunc func(ctx context.Context, raster *image.RGBA) (selection.Rect, bool, error)

func (f SelectorFunc) Select(ctx context.Context, raster *image.RGBA) (selection.Rect, bool, error) {
	return f(ctx, raster)
}

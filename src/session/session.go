// Package session runs one capture from grab to delivery.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"

	"fourshot/src/config"
	"fourshot/src/screenshot"
	"fourshot/src/selection"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

type CaptureFunc func(ctx context.Context) (*image.RGBA, error)

type SelectFunc func(ctx context.Context, raster *image.RGBA) (selection.Rect, bool, error)

type EncodeFunc func(raster *image.RGBA, region screenshot.Region) ([]byte, error)

type NotifyFunc func(ctx context.Context, summary, body string) error

type Options struct {
	Mode    config.Mode
	Capture CaptureFunc
	Select  SelectFunc
	Encode  EncodeFunc
	Targets []Target
	// Notify is called after every destination succeeded. Optional.
	Notify NotifyFunc
	Logger *zap.Logger
}

type Result struct {
	Region screenshot.Region
	Bytes  int
}

// Execute captures the screen, optionally lets the user pick a region and
// delivers the PNG to every target. Capture, selection and encode failures are
// fatal and leave no output behind.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.Capture == nil {
		return Result{}, errors.New("Capture is required")
	}
	if opts.Mode == config.ModeRectangle && opts.Select == nil {
		return Result{}, errors.New("Select is required in rectangle mode")
	}
	if len(opts.Targets) == 0 {
		return Result{}, errors.New("at least one target is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	encode := opts.Encode
	if encode == nil {
		encode = screenshot.Encode
	}

	raster, err := opts.Capture(ctx)
	if err != nil {
		discardAll(opts.Targets, log)
		return Result{}, fmt.Errorf("capture: %w", err)
	}
	region := screenshot.RegionOf(raster)
	log.Debug("captured", zap.Int("width", region.Width), zap.Int("height", region.Height))

	if opts.Mode == config.ModeRectangle {
		rect, cancelled, err := opts.Select(ctx, raster)
		if err != nil {
			discardAll(opts.Targets, log)
			return Result{}, fmt.Errorf("select region: %w", err)
		}
		if cancelled {
			log.Debug("selection cancelled")
			discardAll(opts.Targets, log)
			return Result{}, ErrSelectionCancelled
		}
		region = screenshot.Region{X: rect.StartX, Y: rect.StartY, Width: rect.Width(), Height: rect.Height()}
	}

	data, err := encode(raster, region)
	if err != nil {
		discardAll(opts.Targets, log)
		return Result{}, fmt.Errorf("encode: %w", err)
	}
	log.Debug("encoded", zap.Any("region", region), zap.Int("bytes", len(data)))

	res := Result{Region: region, Bytes: len(data)}
	if err := Deliver(data, opts.Targets, log); err != nil {
		return res, err
	}

	if opts.Notify != nil {
		if err := opts.Notify(ctx, "Screenshot taken", summary(region, opts.Targets)); err != nil {
			log.Warn("notification failed", zap.Error(err))
		}
	}

	holdAll(ctx, opts.Targets, log)
	return res, nil
}

// holdAll keeps targets that are served by this process alive. Interrupting
// the process ends the wait.
func holdAll(ctx context.Context, targets []Target, log *zap.Logger) {
	for _, t := range targets {
		h, ok := t.(Holder)
		if !ok {
			continue
		}
		log.Info("keeping data available until another application replaces it; interrupt to quit",
			zap.String("target", t.Name()))
		h.Hold(ctx)
		log.Debug("released", zap.String("target", t.Name()))
	}
}

func summary(region screenshot.Region, targets []Target) string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name())
	}
	return fmt.Sprintf("%d x %d saved to %s", region.Width, region.Height, strings.Join(names, ", "))
}

func discardAll(targets []Target, log *zap.Logger) {
	for _, t := range targets {
		if err := t.Discard(); err != nil {
			log.Warn("discard target", zap.String("target", t.Name()), zap.Error(err))
		}
	}
}

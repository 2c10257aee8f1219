package overlay

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"fourshot/src/eventloop"
	"fourshot/src/screenshot"
	"fourshot/src/selection"
)

const windowTitle = "fourshot"

// WindowSelector runs the selection in a shiny window sized to the raster.
// Select must be called from the main goroutine and at most once per process.
type WindowSelector struct {
	Bindings    selection.Bindings
	Darkness    float64
	NoDarken    bool
	Outline     color.RGBA
	LabelOrigin bool
	Logger      *zap.Logger
}

// closeRequest is posted into the window queue when the context is done.
type closeRequest struct{}

func (s *WindowSelector) Select(ctx context.Context, raster *image.RGBA) (selection.Rect, bool, error) {
	var (
		rect      selection.Rect
		cancelled bool
		err       error
	)
	driver.Main(func(scr screen.Screen) {
		rect, cancelled, err = s.run(ctx, scr, raster)
	})
	return rect, cancelled, err
}

func (s *WindowSelector) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *WindowSelector) run(ctx context.Context, scr screen.Screen, raster *image.RGBA) (selection.Rect, bool, error) {
	log := s.logger()
	size := raster.Bounds().Size()

	w, err := scr.NewWindow(&screen.NewWindowOptions{Width: size.X, Height: size.Y, Title: windowTitle})
	if err != nil {
		return selection.Rect{}, false, fmt.Errorf("%w: new window: %v", screenshot.ErrDisplayUnavailable, err)
	}
	defer w.Release()

	buf, err := scr.NewBuffer(size)
	if err != nil {
		return selection.Rect{}, false, fmt.Errorf("new buffer: %w", err)
	}
	defer buf.Release()

	comp := Compositor{
		Original:    raster,
		Outline:     s.Outline,
		LabelOrigin: s.LabelOrigin,
	}
	if !s.NoDarken {
		comp.Backdrop = screenshot.Darken(raster, s.Darkness)
	}

	stop := context.AfterFunc(ctx, func() { w.Send(closeRequest{}) })
	defer stop()

	engine := selection.NewEngine(raster.Bounds(), s.Bindings)
	loop := eventloop.New(&windowSource{w: w}, engine, &windowPresenter{w: w, buf: buf, comp: comp}, log)
	state, err := loop.Run(ctx)
	if err != nil {
		return selection.Rect{}, false, err
	}

	log.Debug("overlay closed", zap.Stringer("state", state), zap.Int("frames", loop.Frames()))
	if state != selection.Committed {
		return selection.Rect{}, true, nil
	}
	return engine.Rect(), false, nil
}

type windowSource struct {
	w screen.Window
}

func (s *windowSource) Next(ctx context.Context) (eventloop.Item, error) {
	for {
		if item, ok := translate(s.w.NextEvent()); ok {
			return item, nil
		}
	}
}

// RequestRepaint appends to the window queue, so it is delivered after any
// input already waiting.
func (s *windowSource) RequestRepaint() {
	s.w.Send(paint.Event{})
}

type windowPresenter struct {
	w    screen.Window
	buf  screen.Buffer
	comp Compositor
}

func (p *windowPresenter) Present(rect selection.Rect) error {
	p.comp.Compose(p.buf.RGBA(), rect)
	p.w.Upload(image.Point{}, p.buf, p.buf.Bounds())
	p.w.Publish()
	return nil
}

// translate maps a shiny window event onto a loop item. Events that the
// selection does not care about report false.
func translate(e interface{}) (eventloop.Item, bool) {
	switch e := e.(type) {
	case closeRequest:
		return eventloop.Item{Kind: eventloop.Closed}, true

	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			return eventloop.Item{Kind: eventloop.Closed}, true
		}

	case paint.Event:
		return eventloop.Item{Kind: eventloop.Repaint}, true

	case mouse.Event:
		if e.Button.IsWheel() {
			return eventloop.Item{}, false
		}
		x, y := int(e.X), int(e.Y)
		switch e.Direction {
		case mouse.DirNone:
			return input(selection.Move(x, y)), true
		case mouse.DirPress:
			return input(selection.Press(selection.Button(e.Button), x, y)), true
		case mouse.DirRelease:
			return input(selection.Release(selection.Button(e.Button))), true
		}

	case key.Event:
		if e.Direction == key.DirRelease {
			return eventloop.Item{}, false
		}
		if k := mapKey(e.Code); k != selection.KeyNone {
			return input(selection.Keypress(k)), true
		}
	}
	return eventloop.Item{}, false
}

func input(ev selection.Event) eventloop.Item {
	return eventloop.Item{Kind: eventloop.Input, Event: ev}
}

func mapKey(code key.Code) selection.Key {
	switch code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return selection.KeySave
	case key.CodeEscape:
		return selection.KeyCancel
	case key.CodeLeftArrow:
		return selection.ArrowLeft
	case key.CodeRightArrow:
		return selection.ArrowRight
	case key.CodeUpArrow:
		return selection.ArrowUp
	case key.CodeDownArrow:
		return selection.ArrowDown
	default:
		return selection.KeyNone
	}
}

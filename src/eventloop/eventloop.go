// Package eventloop drives the interactive selection: it pulls window items,
// feeds them to the selection engine and presents frames on demand.
package eventloop

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fourshot/src/selection"
)

// Kind tags an Item delivered by a Source.
type Kind int

const (
	// Input carries a selection.Event.
	Input Kind = iota
	// Repaint means the surface was exposed or a requested repaint is due.
	Repaint
	// Closed means the surface is gone.
	Closed
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Repaint:
		return "repaint"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Item is one entry of the window's event queue.
type Item struct {
	Kind  Kind
	Event selection.Event
}

// Source is the window's event queue.
type Source interface {
	// Next blocks until the next item is available.
	Next(ctx context.Context) (Item, error)
	// RequestRepaint enqueues a Repaint item behind any input already queued.
	RequestRepaint()
}

// Presenter draws the current selection onto the surface.
type Presenter interface {
	Present(rect selection.Rect) error
}

// Loop is the single-threaded coordinator between a Source, the engine and a
// Presenter. It must only be run from one goroutine.
type Loop struct {
	source    Source
	engine    *selection.Engine
	presenter Presenter
	logger    *zap.Logger

	repaintPending bool
	frames         int
}

// New creates a loop. A nil logger discards output.
func New(source Source, engine *selection.Engine, presenter Presenter, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{source: source, engine: engine, presenter: presenter, logger: logger}
}

// Run processes items until the engine reaches a terminal state. Context
// cancellation and a closed surface both end in Cancelled.
func Run(ctx context.Context, source Source, engine *selection.Engine, presenter Presenter) (selection.State, error) {
	return New(source, engine, presenter, nil).Run(ctx)
}

// Frames returns how many frames were presented.
func (l *Loop) Frames() int { return l.frames }

// Run blocks until the selection is committed or cancelled.
func (l *Loop) Run(ctx context.Context) (selection.State, error) {
	for {
		if ctx.Err() != nil {
			return l.abort("context done"), nil
		}

		item, err := l.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return l.abort("context done"), nil
			}
			return l.engine.State(), fmt.Errorf("next event: %w", err)
		}

		switch item.Kind {
		case Closed:
			return l.abort("surface closed"), nil

		case Repaint:
			l.repaintPending = false
			if err := l.presenter.Present(l.engine.Rect()); err != nil {
				return l.engine.State(), fmt.Errorf("present frame: %w", err)
			}
			l.engine.ClearDirty()
			l.frames++

		case Input:
			state, dirty := l.engine.Apply(item.Event)
			if state.Terminal() {
				l.logger.Debug("selection finished",
					zap.Any("selection", l.engine.Snapshot()),
					zap.Int("frames", l.frames))
				return state, nil
			}
			if dirty && !l.repaintPending {
				l.repaintPending = true
				l.source.RequestRepaint()
			}
		}
	}
}

func (l *Loop) abort(reason string) selection.State {
	state, _ := l.engine.Apply(selection.Keypress(selection.KeyCancel))
	l.logger.Debug("selection aborted", zap.String("reason", reason))
	return state
}

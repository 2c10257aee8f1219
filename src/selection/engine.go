// Package selection implements the region-selection state machine. It knows
// nothing about windows, rendering or encoding: callers feed it events and
// observe the returned state and dirty flag.
package selection

import (
	"fmt"
	"image"
)

// State is the engine's position in the selection lifecycle.
type State int

const (
	Idle State = iota
	Dragging
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further event can change the engine.
func (s State) Terminal() bool { return s == Committed || s == Cancelled }

// Bindings maps pointer buttons to the select and save actions.
type Bindings struct {
	Select Button
	Save   Button
}

// DefaultBindings drags with the left button and saves on right-button release.
func DefaultBindings() Bindings {
	return Bindings{Select: ButtonLeft, Save: ButtonRight}
}

// Snapshot is a copy of the engine's observable state.
type Snapshot struct {
	Rect  Rect
	State State
	Dirty bool
}

// Engine owns the current selection. It is not safe for concurrent use; the
// event loop goroutine is its only owner.
type Engine struct {
	bounds   image.Rectangle
	bindings Bindings
	rect     Rect
	state    State
	dirty    bool
}

// NewEngine creates an engine in the Idle state. A non-empty bounds clamps all
// coordinates to the captured raster.
func NewEngine(bounds image.Rectangle, bindings Bindings) *Engine {
	if bindings.Select == 0 {
		bindings.Select = ButtonLeft
	}
	if bindings.Save == 0 {
		bindings.Save = ButtonRight
	}
	return &Engine{bounds: bounds, bindings: bindings}
}

// Apply consumes one event and returns the resulting state and whether the
// selection must be repainted.
func (e *Engine) Apply(ev Event) (State, bool) {
	if e.state.Terminal() {
		return e.state, false
	}

	changed := false
	switch ev.Kind {
	case ButtonDown:
		// A select press while dragging restarts the selection, e.g. after
		// the release happened outside the window.
		if ev.Button == e.bindings.Select {
			e.state = Dragging
			e.rect = Rect{StartX: ev.X, StartY: ev.Y, EndX: ev.X, EndY: ev.Y}
			changed = true
		}
	case PointerMove:
		if e.state == Dragging {
			e.rect.EndX = ev.X
			e.rect.EndY = ev.Y
			changed = true
		}
	case ButtonUp:
		switch ev.Button {
		case e.bindings.Save:
			e.state = Committed
		case e.bindings.Select:
			if e.state == Dragging {
				e.state = Idle
			}
		}
	case KeyDown:
		switch ev.Key {
		case KeyCancel:
			e.cancel()
			return e.state, false
		case KeySave:
			e.state = Committed
		case ArrowLeft:
			e.rect.StartX--
			changed = true
		case ArrowRight:
			e.rect.EndX++
			changed = true
		case ArrowUp:
			e.rect.StartY--
			changed = true
		case ArrowDown:
			e.rect.EndY++
			changed = true
		}
	}

	e.rect = e.rect.normalize(e.bounds)
	if changed && !e.state.Terminal() {
		e.dirty = true
	}
	if e.state.Terminal() {
		e.dirty = false
	}
	return e.state, e.dirty
}

func (e *Engine) cancel() {
	e.state = Cancelled
	e.rect = Rect{}
	e.dirty = false
}

// Rect returns a copy of the current selection.
func (e *Engine) Rect() Rect { return e.rect }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Dirty reports whether a repaint is pending.
func (e *Engine) Dirty() bool { return e.dirty }

// ClearDirty is called by the renderer after a frame was presented.
func (e *Engine) ClearDirty() { e.dirty = false }

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{Rect: e.rect, State: e.state, Dirty: e.dirty}
}

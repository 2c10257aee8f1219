package selection

import "fmt"

// Kind identifies the variant carried by an Event.
type Kind int

const (
	PointerMove Kind = iota + 1
	ButtonDown
	ButtonUp
	KeyDown
)

func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "PointerMove"
	case ButtonDown:
		return "ButtonDown"
	case ButtonUp:
		return "ButtonUp"
	case KeyDown:
		return "KeyDown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Key is a logical key action. Physical key codes are mapped by the event source.
type Key int

const (
	KeyNone Key = iota
	KeySave
	KeyCancel
	ArrowLeft
	ArrowRight
	ArrowUp
	ArrowDown
)

// Button is a pointer button number as reported by the display server (1 = left, 3 = right).
type Button int

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Event is a single input event. Only the fields relevant to Kind are meaningful.
type Event struct {
	Kind   Kind
	Button Button
	Key    Key
	X      int
	Y      int
}

func Move(x, y int) Event { return Event{Kind: PointerMove, X: x, Y: y} }

func Press(b Button, x, y int) Event { return Event{Kind: ButtonDown, Button: b, X: x, Y: y} }

func Release(b Button) Event { return Event{Kind: ButtonUp, Button: b} }

func Keypress(k Key) Event { return Event{Kind: KeyDown, Key: k} }

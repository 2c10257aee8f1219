// Package notification posts desktop notifications over the session bus.
package notification

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
	method     = busName + ".Notify"
	appName    = "fourshot"
	iconName   = "camera-photo"
	// ExpireDefault lets the notification server pick the timeout.
	ExpireDefault int32 = -1
)

// Caller is the part of a dbus object used to send the Notify call.
type Caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Notifier sends notifications to the freedesktop notification daemon.
type Notifier struct {
	obj Caller
}

// NewNotifier wraps an existing object, mostly for tests.
func NewNotifier(obj Caller) *Notifier { return &Notifier{obj: obj} }

// Show posts one notification. The session bus connection is shared and owned
// by godbus.
func Show(ctx context.Context, summary, body string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	return NewNotifier(conn.Object(busName, objectPath)).Show(ctx, summary, body)
}

// Show posts one notification and waits for the server to acknowledge it.
func (n *Notifier) Show(ctx context.Context, summary, body string) error {
	call := n.obj.CallWithContext(ctx, method, 0,
		appName,
		uint32(0),
		iconName,
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		ExpireDefault,
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify reply: %w", err)
	}
	return nil
}

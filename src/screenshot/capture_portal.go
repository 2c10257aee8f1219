package screenshot

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalMethod    = "org.freedesktop.portal.Screenshot.Screenshot"
	portalResponse  = "org.freedesktop.portal.Request.Response"
	portalInterface = "org.freedesktop.portal.Request"
)

// PortalCapturer asks xdg-desktop-portal for a non-interactive screenshot.
// It is the only backend that works under Wayland compositors.
type PortalCapturer struct{}

func (PortalCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: session bus: %v", ErrDisplayUnavailable, err)
	}
	defer conn.Close()

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)

	obj := conn.Object(portalDest, portalPath)
	opts := map[string]dbus.Variant{
		"interactive": dbus.MakeVariant(false),
	}
	var handle dbus.ObjectPath
	if err := obj.CallWithContext(ctx, portalMethod, 0, "", opts).Store(&handle); err != nil {
		return nil, fmt.Errorf("%w: portal call: %v", ErrCaptureFailed, err)
	}

	rule := fmt.Sprintf("type='signal',interface='%s',member='Response',path='%s'", portalInterface, handle)
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("%w: add match: %v", ErrCaptureFailed, err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, fmt.Errorf("%w: session bus closed", ErrCaptureFailed)
			}
			if sig.Path != handle || sig.Name != portalResponse {
				continue
			}
			return decodePortalResponse(sig.Body)
		}
	}
}

func decodePortalResponse(body []interface{}) (*image.RGBA, error) {
	if len(body) < 2 {
		return nil, fmt.Errorf("%w: malformed portal response", ErrCaptureFailed)
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return nil, fmt.Errorf("%w: portal request denied (code %d)", ErrCaptureFailed, code)
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("%w: malformed portal results", ErrCaptureFailed)
	}
	uriVar, ok := results["uri"]
	if !ok {
		return nil, fmt.Errorf("%w: portal returned no uri", ErrCaptureFailed)
	}
	uri, ok := uriVar.Value().(string)
	if !ok {
		return nil, fmt.Errorf("%w: portal uri has unexpected type", ErrCaptureFailed)
	}
	return loadPortalFile(uri)
}

func loadPortalFile(uri string) (*image.RGBA, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("%w: unsupported portal uri %q", ErrCaptureFailed, uri)
	}
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	defer f.Close()
	// The portal leaves a file behind in the user's pictures directory.
	defer os.Remove(u.Path)

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode portal image: %v", ErrCaptureFailed, err)
	}
	return normalize(img), nil
}

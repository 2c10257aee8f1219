package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
	writeMu  sync.Mutex
)

// Init connects to the system clipboard. It is safe to call repeatedly.
func Init() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// WriteImage places PNG data on the clipboard under the image/png target.
// On X11 and Wayland the data is served by this process: it is only
// available until the returned channel is closed, which happens when
// another application takes the clipboard, or until the process exits.
func WriteImage(png []byte) (<-chan struct{}, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("clipboard unavailable: %w", err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	return clipboard.Write(clipboard.FmtImage, png), nil
}

// ReadImage returns the PNG currently on the clipboard, or nil.
func ReadImage() ([]byte, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("clipboard unavailable: %w", err)
	}
	return clipboard.Read(clipboard.FmtImage), nil
}

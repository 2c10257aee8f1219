package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fourshot/src/clipboard"
	"fourshot/src/config"
)

// ErrDestinationWrite wraps every failed delivery.
var ErrDestinationWrite = errors.New("destination write failed")

// Target receives the encoded PNG. Write is attempted exactly once; Discard
// is called instead when the run produced nothing.
type Target interface {
	Name() string
	Write(data []byte) error
	Discard() error
}

// Deliver writes data to every target in order. A failed target does not stop
// the remaining ones; all failures are returned together.
func Deliver(data []byte, targets []Target, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	var errs error
	for _, t := range targets {
		if err := t.Write(data); err != nil {
			log.Error("delivery failed", zap.String("target", t.Name()), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: %v", ErrDestinationWrite, t.Name(), err))
			continue
		}
		log.Debug("delivered", zap.String("target", t.Name()), zap.Int("bytes", len(data)))
	}
	return errs
}

// OpenTargets prepares the destinations of cfg. Files are opened now so an
// unwritable path fails before anything is captured.
func OpenTargets(cfg config.RunConfig, log *zap.Logger) ([]Target, error) {
	targets := make([]Target, 0, len(cfg.Destinations))
	for _, d := range cfg.Destinations {
		switch d.Kind {
		case config.DestinationFile:
			ft, err := OpenFile(d.Path)
			if err != nil {
				discardAll(targets, zap.NewNop())
				return nil, err
			}
			targets = append(targets, ft)
		case config.DestinationStdout:
			targets = append(targets, &StdoutTarget{Logger: log})
		case config.DestinationClipboard:
			targets = append(targets, &ClipboardTarget{})
		default:
			discardAll(targets, zap.NewNop())
			return nil, fmt.Errorf("unknown destination %v", d)
		}
	}
	return targets, nil
}

// FileTarget writes the PNG to a path opened at startup.
type FileTarget struct {
	path    string
	f       *os.File
	created bool
}

// OpenFile opens path for writing without truncating it yet.
func OpenFile(path string) (*FileTarget, error) {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &FileTarget{path: path, f: f, created: created}, nil
}

func (t *FileTarget) Name() string { return t.path }

func (t *FileTarget) Write(data []byte) error {
	if t.f == nil {
		return errors.New("file already closed")
	}
	f := t.f
	t.f = nil

	err := f.Truncate(0)
	if err == nil {
		_, err = f.Write(data)
	}
	return multierr.Append(err, f.Close())
}

// Discard closes the file and removes it if this run created it.
func (t *FileTarget) Discard() error {
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	if t.created {
		err = multierr.Append(err, os.Remove(t.path))
	}
	return err
}

// StdoutTarget writes the PNG verbatim to stdout.
type StdoutTarget struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer
	Logger *zap.Logger
}

func (t *StdoutTarget) Name() string { return "stdout" }

func (t *StdoutTarget) Write(data []byte) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
		if isTerminal(int(os.Stdout.Fd())) && t.Logger != nil {
			t.Logger.Warn("writing binary PNG data to a terminal")
		}
	}
	_, err := w.Write(data)
	return err
}

func (t *StdoutTarget) Discard() error { return nil }

// Holder is implemented by targets whose data lives only as long as the
// process does.
type Holder interface {
	// Hold blocks until the data no longer depends on this process or ctx is done.
	Hold(ctx context.Context)
}

// ClipboardTarget places the PNG on the system clipboard. The clipboard owner
// is this process, so Hold keeps it alive until another application copies
// something.
type ClipboardTarget struct {
	// WriteImage defaults to clipboard.WriteImage.
	WriteImage func(png []byte) (<-chan struct{}, error)

	changed <-chan struct{}
}

func (*ClipboardTarget) Name() string { return "clipboard" }

func (t *ClipboardTarget) Write(data []byte) error {
	write := t.WriteImage
	if write == nil {
		write = clipboard.WriteImage
	}
	changed, err := write(data)
	if err != nil {
		return err
	}
	t.changed = changed
	return nil
}

func (t *ClipboardTarget) Hold(ctx context.Context) {
	if t.changed == nil {
		return
	}
	select {
	case <-t.changed:
	case <-ctx.Done():
	}
}

func (*ClipboardTarget) Discard() error { return nil }

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArguments reports a usage violation detected before any display interaction.
var ErrInvalidArguments = errors.New("invalid arguments")

// Mode selects how the capture region is chosen.
type Mode int

const (
	ModeFullscreen Mode = iota
	ModeRectangle
)

func (m Mode) String() string {
	if m == ModeRectangle {
		return "rectangle"
	}
	return "fullscreen"
}

// DestinationKind identifies an output target.
type DestinationKind int

const (
	DestinationFile DestinationKind = iota
	DestinationStdout
	DestinationClipboard
)

// Destination is one place the encoded image is written to.
type Destination struct {
	Kind DestinationKind
	Path string
}

func (d Destination) String() string {
	switch d.Kind {
	case DestinationFile:
		return "file:" + d.Path
	case DestinationStdout:
		return "stdout"
	case DestinationClipboard:
		return "clipboard"
	default:
		return fmt.Sprintf("destination(%d)", int(d.Kind))
	}
}

// RunConfig is the parsed command line. It is immutable once built.
type RunConfig struct {
	Mode         Mode
	Destinations []Destination
	Notify       bool
}

// Flags are the raw command-line switches.
type Flags struct {
	Full      bool
	Rect      bool
	Stdout    bool
	File      string
	FileSet   bool
	Clipboard bool
	Notify    bool
}

// NewRunConfig applies defaults: fullscreen unless --rect is given alone, and
// stdout unless another destination is named. Destinations are ordered
// file, stdout, clipboard.
func NewRunConfig(f Flags) (RunConfig, error) {
	rc := RunConfig{Mode: ModeFullscreen, Notify: f.Notify}
	if f.Rect && !f.Full {
		rc.Mode = ModeRectangle
	}

	if f.FileSet {
		path := strings.TrimSpace(f.File)
		if path == "" {
			return RunConfig{}, fmt.Errorf("%w: --file requires a path", ErrInvalidArguments)
		}
		rc.Destinations = append(rc.Destinations, Destination{Kind: DestinationFile, Path: path})
	}
	if f.Stdout || (!f.FileSet && !f.Clipboard) {
		rc.Destinations = append(rc.Destinations, Destination{Kind: DestinationStdout})
	}
	if f.Clipboard {
		rc.Destinations = append(rc.Destinations, Destination{Kind: DestinationClipboard})
	}
	return rc, nil
}

// Has reports whether a destination of kind k is configured.
func (rc RunConfig) Has(k DestinationKind) bool {
	for _, d := range rc.Destinations {
		if d.Kind == k {
			return true
		}
	}
	return false
}

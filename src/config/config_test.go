package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		ConfigPathEnvVar, BackendEnvVar, DisplayEnvVar, DarknessEnvVar, NoDarkenEnvVar,
		SelectButtonEnvVar, SaveButtonEnvVar, OutlineColorEnvVar, LabelOriginEnvVar,
		CompressionEnvVar, FileLoggingEnvVar, LogFileEnvVar,
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != DefaultBackend {
		t.Errorf("Backend = %q, want %q", cfg.Backend, DefaultBackend)
	}
	if cfg.Darkness != DefaultDarkness {
		t.Errorf("Darkness = %v, want %v", cfg.Darkness, DefaultDarkness)
	}
	if !cfg.Darken {
		t.Error("Darken should default to true")
	}
	if cfg.SelectButton != 1 || cfg.SaveButton != 3 {
		t.Errorf("buttons = %d/%d, want 1/3", cfg.SelectButton, cfg.SaveButton)
	}
	if cfg.OutlineColor != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("OutlineColor = %v", cfg.OutlineColor)
	}
	if cfg.Compression != "default" {
		t.Errorf("Compression = %q", cfg.Compression)
	}
	if cfg.EnableFileLogging {
		t.Error("file logging should be off by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(BackendEnvVar, "Screenshot")
	t.Setenv(DisplayEnvVar, ":1")
	t.Setenv(DarknessEnvVar, "2.5")
	t.Setenv(NoDarkenEnvVar, "true")
	t.Setenv(SelectButtonEnvVar, "3")
	t.Setenv(SaveButtonEnvVar, "2")
	t.Setenv(OutlineColorEnvVar, "#00ff80")
	t.Setenv(LabelOriginEnvVar, "1")
	t.Setenv(FileLoggingEnvVar, "TRUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "screenshot" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Display != ":1" {
		t.Errorf("Display = %q", cfg.Display)
	}
	if cfg.Darkness != 2.5 {
		t.Errorf("Darkness = %v", cfg.Darkness)
	}
	if cfg.Darken {
		t.Error("Darken should be disabled")
	}
	if cfg.SelectButton != 3 || cfg.SaveButton != 2 {
		t.Errorf("buttons = %d/%d", cfg.SelectButton, cfg.SaveButton)
	}
	if cfg.OutlineColor != (color.RGBA{R: 0, G: 255, B: 128, A: 255}) {
		t.Errorf("OutlineColor = %v", cfg.OutlineColor)
	}
	if !cfg.LabelOrigin || !cfg.EnableFileLogging {
		t.Error("boolean settings not applied")
	}
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(DarknessEnvVar, "0.5")
	t.Setenv(SelectButtonEnvVar, "42")
	t.Setenv(SaveButtonEnvVar, "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Darkness != DefaultDarkness {
		t.Errorf("Darkness = %v, want default", cfg.Darkness)
	}
	if cfg.SelectButton != DefaultSelectButton || cfg.SaveButton != DefaultSaveButton {
		t.Errorf("buttons = %d/%d, want defaults", cfg.SelectButton, cfg.SaveButton)
	}
}

func TestLoadInvalidColor(t *testing.T) {
	clearEnv(t)
	t.Setenv(OutlineColorEnvVar, "reddish")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid colour")
	}
}

func TestLoadDotenvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fourshot.env")
	content := "FOURSHOT_BACKEND=portal\nFOURSHOT_PNG_COMPRESSION=best\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Cleanup(func() {
		os.Unsetenv(BackendEnvVar)
		os.Unsetenv(CompressionEnvVar)
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnvPath != path {
		t.Errorf("EnvPath = %q, want %q", cfg.EnvPath, path)
	}
	if cfg.Backend != "portal" || cfg.Compression != "best" {
		t.Errorf("dotenv values not applied: backend=%q compression=%q", cfg.Backend, cfg.Compression)
	}
}

func TestLoadMissingOverride(t *testing.T) {
	clearEnv(t)
	_, err := LoadWithOptions(LoadOptions{EnvPathOverride: filepath.Join(t.TempDir(), "missing.env")})
	if err == nil {
		t.Fatal("expected error for missing override file")
	}
}

func TestNewRunConfig(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		mode  Mode
		dests []Destination
	}{
		{
			name:  "defaults",
			flags: Flags{},
			mode:  ModeFullscreen,
			dests: []Destination{{Kind: DestinationStdout}},
		},
		{
			name:  "rect to file",
			flags: Flags{Rect: true, File: "out.png", FileSet: true},
			mode:  ModeRectangle,
			dests: []Destination{{Kind: DestinationFile, Path: "out.png"}},
		},
		{
			name:  "full wins over rect",
			flags: Flags{Rect: true, Full: true},
			mode:  ModeFullscreen,
			dests: []Destination{{Kind: DestinationStdout}},
		},
		{
			name:  "file and stdout are ordered",
			flags: Flags{Stdout: true, File: "a.png", FileSet: true},
			mode:  ModeFullscreen,
			dests: []Destination{{Kind: DestinationFile, Path: "a.png"}, {Kind: DestinationStdout}},
		},
		{
			name:  "clipboard only",
			flags: Flags{Clipboard: true},
			mode:  ModeFullscreen,
			dests: []Destination{{Kind: DestinationClipboard}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := NewRunConfig(tt.flags)
			if err != nil {
				t.Fatalf("NewRunConfig: %v", err)
			}
			if rc.Mode != tt.mode {
				t.Errorf("Mode = %s, want %s", rc.Mode, tt.mode)
			}
			if len(rc.Destinations) != len(tt.dests) {
				t.Fatalf("Destinations = %v, want %v", rc.Destinations, tt.dests)
			}
			for i := range tt.dests {
				if rc.Destinations[i] != tt.dests[i] {
					t.Errorf("Destinations[%d] = %v, want %v", i, rc.Destinations[i], tt.dests[i])
				}
			}
		})
	}
}

func TestNewRunConfigEmptyFile(t *testing.T) {
	_, err := NewRunConfig(Flags{FileSet: true, File: "  "})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("err = %v, want ErrInvalidArguments", err)
	}
}

package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	ConfigPathEnvVar    = "FOURSHOT_CONFIG"
	BackendEnvVar       = "FOURSHOT_BACKEND"
	DisplayEnvVar       = "FOURSHOT_DISPLAY"
	DarknessEnvVar      = "FOURSHOT_DARKNESS"
	NoDarkenEnvVar      = "FOURSHOT_NO_DARKEN"
	SelectButtonEnvVar  = "FOURSHOT_SELECT_BUTTON"
	SaveButtonEnvVar    = "FOURSHOT_SAVE_BUTTON"
	OutlineColorEnvVar  = "FOURSHOT_OUTLINE_COLOR"
	LabelOriginEnvVar   = "FOURSHOT_LABEL_ORIGIN"
	CompressionEnvVar   = "FOURSHOT_PNG_COMPRESSION"
	FileLoggingEnvVar   = "ENABLE_FILE_LOGGING"
	LogFileEnvVar       = "FOURSHOT_LOG_FILE"
	DefaultBackend      = "x11"
	DefaultDarkness     = 1.6
	DefaultSelectButton = 1
	DefaultSaveButton   = 3
	DefaultOutlineColor = "#ff0000"
	DefaultLogFile      = "fourshot_debug.log"
)

type LoadOptions struct {
	// EnvPathOverride names a .env file that takes precedence over the default search.
	EnvPathOverride string
}

// Settings holds the tunables that do not come from the command line.
type Settings struct {
	Backend           string
	Display           string
	Darkness          float64
	Darken            bool
	SelectButton      int
	SaveButton        int
	OutlineColor      color.RGBA
	LabelOrigin       bool
	Compression       string
	EnableFileLogging bool
	LogFile           string
	EnvPath           string
}

func Load() (*Settings, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Settings, error) {
	// Sources in priority order: process environment, explicit override file,
	// .env next to the executable, then the file named by FOURSHOT_CONFIG.
	envPath := strings.TrimSpace(opts.EnvPathOverride)
	if envPath == "" {
		envPath = resolveEnvPath()
	} else if _, err := os.Stat(envPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", envPath, err)
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	outline, err := parseColor(getEnvWithDefault(OutlineColorEnvVar, DefaultOutlineColor))
	if err != nil {
		return nil, err
	}

	cfg := &Settings{
		Backend:           strings.ToLower(getEnvWithDefault(BackendEnvVar, DefaultBackend)),
		Display:           os.Getenv(DisplayEnvVar),
		Darkness:          resolveDarkness(os.Getenv(DarknessEnvVar)),
		Darken:            !envBool(NoDarkenEnvVar),
		SelectButton:      resolveButton(os.Getenv(SelectButtonEnvVar), DefaultSelectButton),
		SaveButton:        resolveButton(os.Getenv(SaveButtonEnvVar), DefaultSaveButton),
		OutlineColor:      outline,
		LabelOrigin:       envBool(LabelOriginEnvVar),
		Compression:       getEnvWithDefault(CompressionEnvVar, "default"),
		EnableFileLogging: envBool(FileLoggingEnvVar),
		LogFile:           getEnvWithDefault(LogFileEnvVar, DefaultLogFile),
		EnvPath:           envPath,
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

// resolveDarkness falls back to the default for anything that would not dim.
func resolveDarkness(value string) float64 {
	if value == "" {
		return DefaultDarkness
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f <= 1 {
		return DefaultDarkness
	}
	return f
}

func resolveButton(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 || n > 9 {
		return def
	}
	return n
}

func parseColor(value string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(value))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid %s %q: %w", OutlineColorEnvVar, value, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

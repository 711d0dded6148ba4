package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/dockyard/internal/resources"
)

// Config holds the user-tunable settings of the dockyard shell.
type Config struct {
	Title        string
	Width        int
	Height       int
	DisplayScale float64 // 0 asks the platform
	RefreshRate  int     // frames per second paced by a swap interval of 1
	LogLevel     string
	LogPath      string
	ResourceDir  string // empty uses <exe dir>/assets
	Font         string
	TracePath    string // empty disables profiling
	ClearColor   color.NRGBA
}

const (
	defaultConfigPath  = "~/.config/dockyard/config.toml"
	defaultLogPath     = "~/.local/state/dockyard/dockyard.log"
	defaultTitle       = "Dockyard"
	defaultWidth       = 1280
	defaultHeight      = 720
	defaultRefreshRate = 60
	defaultLogLevel    = "info"
	defaultFont        = resources.DefaultFont
	defaultClearColor  = "#1e1f29"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	bg, _ := ParseColor(defaultClearColor)
	return Config{
		Title:       defaultTitle,
		Width:       defaultWidth,
		Height:      defaultHeight,
		RefreshRate: defaultRefreshRate,
		LogLevel:    defaultLogLevel,
		LogPath:     mustExpand(defaultLogPath),
		Font:        defaultFont,
		ClearColor:  bg,
	}
}

// Load locates and parses the dockyard config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Title        string  `toml:"title"`
		Width        int     `toml:"width"`
		Height       int     `toml:"height"`
		DisplayScale float64 `toml:"display_scale"`
		RefreshRate  int     `toml:"refresh_rate"`
		LogLevel     string  `toml:"log_level"`
		LogPath      string  `toml:"log_path"`
		ResourceDir  string  `toml:"resource_dir"`
		Font         string  `toml:"font"`
		TracePath    string  `toml:"trace_path"`
		ClearColor   string  `toml:"clear_color"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Title); v != "" {
		cfg.Title = v
	}
	if raw.Width != 0 {
		cfg.Width = raw.Width
	}
	if raw.Height != 0 {
		cfg.Height = raw.Height
	}
	if raw.RefreshRate != 0 {
		cfg.RefreshRate = raw.RefreshRate
	}
	cfg.DisplayScale = raw.DisplayScale
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ResourceDir); v != "" {
		cfg.ResourceDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Font); v != "" {
		cfg.Font = v
	}
	if v := strings.TrimSpace(raw.TracePath); v != "" {
		cfg.TracePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ClearColor); v != "" {
		c, err := ParseColor(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: clear_color: %w", err)
		}
		cfg.ClearColor = c
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid config: window size %dx%d must be positive", c.Width, c.Height)
	case c.DisplayScale < 0:
		return fmt.Errorf("invalid config: display_scale %g must not be negative", c.DisplayScale)
	case c.RefreshRate <= 0:
		return fmt.Errorf("invalid config: refresh_rate %d must be positive", c.RefreshRate)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

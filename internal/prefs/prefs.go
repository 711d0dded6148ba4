// Package prefs persists UI layout settings: the active theme and which
// panels are collapsed. Settings live in imgui.ini under the per-user config
// directory and are TOML encoded.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Filename is the settings file name appended to the user config directory.
const Filename = "imgui.ini"

const defaultTheme = "Dracula"

// Layout holds persisted UI layout settings.
type Layout struct {
	Theme     string   `toml:"theme"`
	Collapsed []string `toml:"collapsed,omitempty"`
}

// Default returns the layout used when nothing is persisted.
func Default() Layout {
	return Layout{Theme: defaultTheme}
}

// IsCollapsed reports whether the panel titled title is collapsed.
func (l Layout) IsCollapsed(title string) bool {
	return slices.Contains(l.Collapsed, title)
}

// SetCollapsed records the collapsed state of a panel.
func (l *Layout) SetCollapsed(title string, collapsed bool) {
	idx := slices.Index(l.Collapsed, title)
	switch {
	case collapsed && idx < 0:
		l.Collapsed = append(l.Collapsed, title)
	case !collapsed && idx >= 0:
		l.Collapsed = slices.Delete(l.Collapsed, idx, idx+1)
	}
}

// Path returns the absolute settings path inside dir.
func Path(dir string) string {
	if strings.TrimSpace(dir) == "" {
		return ""
	}
	return filepath.Join(dir, Filename)
}

// Load reads layout settings from path, falling back to defaults when the
// file is missing or unreadable. The error is informational: callers can log
// it and continue with the returned defaults.
func Load(path string) (Layout, error) {
	layout := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return layout, nil
		}
		return layout, fmt.Errorf("open layout: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return layout, fmt.Errorf("read layout: %w", err)
	}

	if err := toml.Unmarshal(bytes, &layout); err != nil {
		return Default(), fmt.Errorf("parse layout: %w", err)
	}

	if strings.TrimSpace(layout.Theme) == "" {
		layout.Theme = defaultTheme
	}

	return layout, nil
}

// Save writes layout settings to path, creating directories as needed.
func Save(path string, l Layout) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("layout path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create layout dir: %w", err)
	}

	bytes, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	return nil
}

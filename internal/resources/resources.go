// Package resources resolves bundled resource files and the per-user
// configuration directory.
package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Company and App namespace the per-user configuration directory.
	Company = "five82"
	App     = "dockyard"

	// DefaultFont is the font file loaded by the main window.
	DefaultFont = "Manrope.ttf"

	fontsDir  = "fonts"
	assetsDir = "assets"
)

// Resolver maps logical resource names to filesystem paths.
type Resolver struct {
	// Dir is the resource root. Empty means the assets directory next to
	// the running executable.
	Dir string
}

// Root returns the absolute resource root.
func (r Resolver) Root() string {
	if dir := strings.TrimSpace(r.Dir); dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return assetsDir
	}
	return filepath.Join(filepath.Dir(exe), assetsDir)
}

// ResourcePath returns the path of file inside the resource root. The file
// is not required to exist.
func (r Resolver) ResourcePath(file string) string {
	return filepath.Join(r.Root(), filepath.FromSlash(file))
}

// FontPath returns the path of a font file inside the fonts directory.
func (r Resolver) FontPath(name string) string {
	return r.ResourcePath(filepath.Join(fontsDir, name))
}

// UserConfigDir returns a writable per-user directory for company/app,
// creating it when missing.
func UserConfigDir(company, app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, company, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create user config dir: %w", err)
	}
	return dir, nil
}

package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), Filename))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(Default(), l, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)
	content := "theme = \"Slate\"\ncollapsed = [\"Debug Panel\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Layout{Theme: "Slate", Collapsed: []string{"Debug Panel"}}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", Filename)

	l := Layout{Theme: "Slate", Collapsed: []string{"Log Panel"}}
	if err := Save(path, l); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(l, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_EmptyPathFails(t *testing.T) {
	if err := Save("  ", Default()); err == nil {
		t.Fatalf("Save returned nil error, want error")
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)
	if err := os.WriteFile(path, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if l.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", l.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse layout") {
		t.Fatalf("Load error = %v, want parse layout error", err)
	}
	if l.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", l.Theme, defaultTheme)
	}
}

func TestSetCollapsed(t *testing.T) {
	var l Layout
	l.SetCollapsed("A", true)
	l.SetCollapsed("A", true)
	l.SetCollapsed("B", true)
	if diff := cmp.Diff([]string{"A", "B"}, l.Collapsed); diff != "" {
		t.Fatalf("Collapsed mismatch (-want +got):\n%s", diff)
	}
	l.SetCollapsed("A", false)
	if l.IsCollapsed("A") || !l.IsCollapsed("B") {
		t.Fatalf("Collapsed = %v, want [B]", l.Collapsed)
	}
}

func TestPath(t *testing.T) {
	if got := Path(""); got != "" {
		t.Fatalf("Path(\"\") = %q, want empty", got)
	}
	if got := Path("/tmp/x"); got != filepath.Join("/tmp/x", Filename) {
		t.Fatalf("Path = %q, want %q", got, filepath.Join("/tmp/x", Filename))
	}
}

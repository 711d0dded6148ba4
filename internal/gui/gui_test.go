package gui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"go.uber.org/zap/zaptest"

	"github.com/five82/dockyard/internal/platform"
	"github.com/five82/dockyard/internal/platform/headless"
	"github.com/five82/dockyard/internal/prefs"
)

type fixture struct {
	ui  *Context
	p   *headless.Platform
	win *headless.Window
	ctx *headless.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := headless.New()
	if err := p.Init(platform.SubsystemVideo); err != nil {
		t.Fatalf("Init: %v", err)
	}
	w, err := p.CreateWindow("test", 80, 24, 0)
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	gctx, err := w.CreateContext()
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	ui := NewContext(zaptest.NewLogger(t))
	ui.IO().ConfigFlags = ConfigNavEnableKeyboard | ConfigDockingEnable | ConfigViewportsEnable
	if err := ui.InitPlatform(p, w); err != nil {
		t.Fatalf("InitPlatform: %v", err)
	}
	if err := ui.InitRenderer(gctx); err != nil {
		t.Fatalf("InitRenderer: %v", err)
	}
	return &fixture{ui: ui, p: p, win: w.(*headless.Window), ctx: gctx.(*headless.Context)}
}

// menus is the state a test frame mutates.
type menus struct {
	exit                 int
	somePanel, logsPanel bool
}

// frame submits a menu bar with File and View menus plus any open panels.
func (f *fixture) frame(m *menus) string {
	ui := f.ui
	ui.NewFrame()
	ui.DockSpaceOverViewport()
	if ui.BeginMainMenuBar() {
		if ui.BeginMenu("File") {
			if ui.MenuItem("Exit", "ctrl+c", nil) {
				m.exit++
			}
			ui.EndMenu()
		}
		if ui.BeginMenu("View") {
			ui.MenuItem("Some Panel", "", &m.somePanel)
			ui.Separator()
			ui.MenuItem("Log Panel", "", &m.logsPanel)
			ui.EndMenu()
		}
		ui.EndMainMenuBar()
	}
	if m.somePanel {
		if ui.Begin("Some Panel", &m.somePanel) {
			ui.Text("Hello World")
		}
		ui.End()
	}
	ui.Render()
	return ansi.Strip(ui.DrawData().Frame)
}

func (f *fixture) click(x, y int) {
	f.ui.ProcessEvent(platform.ClickEvent(f.win.ID(), x, y))
}

func (f *fixture) press(keys ...string) {
	for _, k := range keys {
		f.ui.ProcessEvent(platform.KeyEvent(f.win.ID(), platform.Key(k)))
	}
}

func TestRender_MenuBarAndPanel(t *testing.T) {
	f := newFixture(t)
	m := &menus{somePanel: true}

	frame := f.frame(m)
	for _, want := range []string{"File", "View", "Some Panel", "Hello World", closeButton} {
		if !strings.Contains(frame, want) {
			t.Fatalf("frame missing %q:\n%s", want, frame)
		}
	}
	if lines := strings.Split(frame, "\n"); len(lines) != 24 {
		t.Fatalf("frame has %d lines, want 24", len(lines))
	}
	dd := f.ui.DrawData()
	if !dd.Valid || dd.Panels != 1 || dd.DisplaySize.X != 80 || dd.DisplaySize.Y != 24 {
		t.Fatalf("DrawData = %+v, want valid 80x24 with one panel", *dd)
	}
}

func TestRender_EmptyFrameWhenNothingSubmitted(t *testing.T) {
	f := newFixture(t)
	f.ui.NewFrame()
	f.ui.Render()
	if got := f.ui.DrawData().Frame; got != "" {
		t.Fatalf("Frame = %q, want empty", got)
	}
	f.ui.RenderDrawData(f.ui.DrawData())
	if f.ctx.Frame != "" {
		t.Fatalf("context frame = %q, want nothing drawn", f.ctx.Frame)
	}
}

func TestRenderDrawData_SubmitsToRenderer(t *testing.T) {
	f := newFixture(t)
	f.frame(&menus{})
	f.ui.RenderDrawData(f.ui.DrawData())
	if !strings.Contains(ansi.Strip(f.ctx.Frame), "File") {
		t.Fatalf("context frame = %q, want the menu bar", f.ctx.Frame)
	}
}

func TestMenu_ClickOpensAndActivatesItem(t *testing.T) {
	f := newFixture(t)
	m := &menus{}
	f.frame(m)

	f.click(1, 0)
	frame := f.frame(m)
	if !strings.Contains(frame, "Exit") {
		t.Fatalf("File menu not open after click:\n%s", frame)
	}

	f.click(2, 1)
	frame = f.frame(m)
	if m.exit != 1 {
		t.Fatalf("Exit activated %d times, want 1", m.exit)
	}
	if strings.Contains(frame, "Exit") {
		t.Fatalf("menu still open after activation:\n%s", frame)
	}
}

func TestMenu_ClickTitleAgainCloses(t *testing.T) {
	f := newFixture(t)
	m := &menus{}
	f.frame(m)
	f.click(1, 0)
	f.frame(m)
	f.click(1, 0)
	if frame := f.frame(m); strings.Contains(frame, "Exit") {
		t.Fatalf("menu still open:\n%s", frame)
	}
}

func TestMenu_ClickOutsideCloses(t *testing.T) {
	f := newFixture(t)
	m := &menus{}
	f.frame(m)
	f.click(1, 0)
	f.frame(m)
	f.click(60, 20)
	if frame := f.frame(m); strings.Contains(frame, "Exit") {
		t.Fatalf("menu still open:\n%s", frame)
	}
	if m.exit != 0 {
		t.Fatalf("Exit activated by outside click")
	}
}

func TestMenu_KeyboardNavigationTogglesItem(t *testing.T) {
	f := newFixture(t)
	m := &menus{}
	f.frame(m)

	f.press("alt+v")
	if frame := f.frame(m); !strings.Contains(frame, "Log Panel") {
		t.Fatalf("View menu not open:\n%s", frame)
	}

	// Down skips the separator and lands on Log Panel.
	f.press("down", "enter")
	f.frame(m)
	if !m.logsPanel || m.somePanel {
		t.Fatalf("logsPanel=%v somePanel=%v, want only logsPanel toggled", m.logsPanel, m.somePanel)
	}
}

func TestMenu_KeyboardF10AndArrows(t *testing.T) {
	f := newFixture(t)
	m := &menus{}
	f.frame(m)

	f.press("f10")
	f.frame(m)
	if f.ui.openMenu != "File" {
		t.Fatalf("openMenu = %q, want File", f.ui.openMenu)
	}
	f.press("right")
	f.frame(m)
	if f.ui.openMenu != "View" {
		t.Fatalf("openMenu = %q, want View", f.ui.openMenu)
	}
	f.press("esc")
	f.frame(m)
	if f.ui.openMenu != "" {
		t.Fatalf("openMenu = %q, want closed", f.ui.openMenu)
	}
}

func TestMenu_KeyboardIgnoredWithoutNavFlag(t *testing.T) {
	f := newFixture(t)
	f.ui.IO().ConfigFlags = ConfigDockingEnable
	m := &menus{}
	f.frame(m)
	f.press("f10")
	f.frame(m)
	if f.ui.openMenu != "" {
		t.Fatalf("openMenu = %q, want keyboard navigation disabled", f.ui.openMenu)
	}
}

func TestPanel_CloseButton(t *testing.T) {
	f := newFixture(t)
	m := &menus{somePanel: true}
	f.frame(m)

	r, ok := f.ui.prev.closes["Some Panel"]
	if !ok {
		t.Fatalf("close button not laid out")
	}
	f.click(r.x, r.y)
	frame := f.frame(m)
	if m.somePanel {
		t.Fatalf("somePanel still open after close click")
	}
	if strings.Contains(frame, "Hello World") {
		t.Fatalf("closed panel still drawn:\n%s", frame)
	}
}

func TestPanel_CollapsePersists(t *testing.T) {
	ini := filepath.Join(t.TempDir(), prefs.Filename)

	f := newFixture(t)
	f.ui.IO().IniFilename = ini
	m := &menus{somePanel: true}
	f.frame(m)

	r := f.ui.prev.titles["Some Panel"]
	f.click(r.x, r.y)
	if frame := f.frame(m); strings.Contains(frame, "Hello World") {
		t.Fatalf("collapsed panel still shows content:\n%s", frame)
	}
	f.ui.Shutdown()

	layout, err := prefs.Load(ini)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if !layout.IsCollapsed("Some Panel") {
		t.Fatalf("Collapsed = %v, want Some Panel persisted", layout.Collapsed)
	}

	g := newFixture(t)
	g.ui.IO().IniFilename = ini
	if frame := g.frame(&menus{somePanel: true}); strings.Contains(frame, "Hello World") {
		t.Fatalf("collapsed state not restored:\n%s", frame)
	}
}

func TestCycleTheme_PersistsOnShutdown(t *testing.T) {
	ini := filepath.Join(t.TempDir(), prefs.Filename)
	f := newFixture(t)
	f.ui.IO().IniFilename = ini
	f.frame(&menus{})

	f.press("ctrl+t")
	f.frame(&menus{})
	if got := f.ui.Theme().Name; got != "Slate" {
		t.Fatalf("Theme = %q, want Slate", got)
	}
	f.ui.Shutdown()

	layout, err := prefs.Load(ini)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if layout.Theme != "Slate" {
		t.Fatalf("persisted theme = %q, want Slate", layout.Theme)
	}
}

func TestProcessEvent_IgnoresOtherWindows(t *testing.T) {
	f := newFixture(t)
	if f.ui.ProcessEvent(platform.KeyEvent(f.win.ID()+1, "f10")) {
		t.Fatalf("event for another window captured")
	}
	if f.ui.ProcessEvent(platform.WindowEvent(f.win.ID(), platform.WindowMoved)) {
		t.Fatalf("window event captured as UI input")
	}
	if !f.ui.ProcessEvent(platform.KeyEvent(f.win.ID(), "f10")) {
		t.Fatalf("key event for the bound window not captured")
	}
}

func TestRender_WithoutNewFrameIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.ui.Render()
	if f.ui.FrameCount() != 0 {
		t.Fatalf("FrameCount = %d, want 0", f.ui.FrameCount())
	}
}

func TestViewports_MainOnly(t *testing.T) {
	f := newFixture(t)
	f.ui.UpdatePlatformWindows()
	f.ui.RenderPlatformWindowsDefault()
	vps := f.ui.Viewports()
	if len(vps) != 1 || !vps[0].Main || vps[0].Context == nil {
		t.Fatalf("Viewports = %+v, want the main viewport with its context", vps)
	}
	if f.win.Swaps != 0 {
		t.Fatalf("main window swapped %d times by viewport rendering, want 0", f.win.Swaps)
	}
}

func TestRenderPlatformWindows_SecondaryViewportBecomesCurrent(t *testing.T) {
	f := newFixture(t)
	w2, err := f.p.CreateWindow("secondary", 40, 12, 0)
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	c2, err := w2.CreateContext()
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	f.ui.viewports = append(f.ui.viewports, &Viewport{ID: uint32(w2.ID()), Window: w2, Context: c2, frame: "secondary"})
	if err := f.p.MakeCurrent(f.win, f.ctx); err != nil {
		t.Fatalf("MakeCurrent: %v", err)
	}

	f.ui.UpdatePlatformWindows()
	f.ui.RenderPlatformWindowsDefault()

	if cw, cc := f.p.CurrentContext(); cw != w2 || cc != c2 {
		t.Fatalf("current = (%v, %v), want the secondary viewport's window and context", cw, cc)
	}
	second := w2.(*headless.Window)
	if second.Swaps != 1 || second.Context.Clears != 1 || second.Context.Frame != "secondary" {
		t.Fatalf("secondary Swaps = %d, Clears = %d, Frame = %q; want one presented frame",
			second.Swaps, second.Context.Clears, second.Context.Frame)
	}
	if f.win.Swaps != 0 {
		t.Fatalf("main window swapped %d times by viewport rendering, want 0", f.win.Swaps)
	}

	f.ui.viewports[1].Window = nil
	f.ui.UpdatePlatformWindows()
	if n := len(f.ui.Viewports()); n != 1 {
		t.Fatalf("len(Viewports) = %d after its window went away, want 1", n)
	}
}

func TestFontSize_AppliesGlobalScale(t *testing.T) {
	f := newFixture(t)
	if got := f.ui.FontSize(); got != 0 {
		t.Fatalf("FontSize without a default font = %v, want 0", got)
	}
	font, err := f.ui.IO().Fonts.AddFontDefault(36)
	if err != nil {
		t.Fatalf("AddFontDefault: %v", err)
	}
	f.ui.IO().FontDefault = font

	tests := []struct {
		scale float32
		want  float32
	}{
		{scale: 1, want: 36},
		{scale: 0.5, want: 18},
		{scale: 0.25, want: 9},
	}
	for _, tt := range tests {
		f.ui.IO().FontGlobalScale = tt.scale
		if got := f.ui.FontSize(); got != tt.want {
			t.Fatalf("FontSize at scale %v = %v, want %v", tt.scale, got, tt.want)
		}
		f.frame(&menus{})
		if got := f.ui.DrawData().FontSize; got != tt.want {
			t.Fatalf("DrawData.FontSize at scale %v = %v, want %v", tt.scale, got, tt.want)
		}
	}
}

func TestCalcTextSize_AppliesGlobalScale(t *testing.T) {
	f := newFixture(t)
	font, err := f.ui.IO().Fonts.AddFontDefault(36)
	if err != nil {
		t.Fatalf("AddFontDefault: %v", err)
	}
	f.ui.IO().FontDefault = font
	adv := float64(font.Advance("Hello World"))
	if adv <= 0 || font.LineHeight() <= 0 {
		t.Fatalf("Advance = %v, LineHeight = %d; want positive metrics", adv, font.LineHeight())
	}

	for _, scale := range []float32{1, 0.5} {
		f.ui.IO().FontGlobalScale = scale
		got := f.ui.CalcTextSize("Hello World\nHi")
		wantW := int(math.Ceil(adv * float64(scale)))
		wantH := int(math.Ceil(float64(2*font.LineHeight()) * float64(scale)))
		if got.X != wantW || got.Y != wantH {
			t.Fatalf("CalcTextSize at scale %v = %v, want (%d,%d)", scale, got, wantW, wantH)
		}
	}
}

func TestRender_TransparentPayloadDropsPanelBackground(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	render := func(transparent bool) string {
		f := newFixture(t)
		f.ui.IO().ConfigDockingTransparentPayload = transparent
		f.frame(&menus{somePanel: true})
		return f.ui.DrawData().Frame
	}
	theme := GetTheme("Dracula")
	var r, g, b int
	if _, err := fmt.Sscanf(theme.Surface, "#%02x%02x%02x", &r, &g, &b); err != nil {
		t.Fatalf("parse surface color: %v", err)
	}
	surface := fmt.Sprintf("48;2;%d;%d;%d", r, g, b)

	opaque, transparent := render(false), render(true)
	if ansi.Strip(opaque) != ansi.Strip(transparent) {
		t.Fatalf("transparent payload changed the layout:\n%s\n---\n%s", ansi.Strip(opaque), ansi.Strip(transparent))
	}
	no, nt := strings.Count(opaque, surface), strings.Count(transparent, surface)
	if nt >= no {
		t.Fatalf("surface background appears %d times with transparent payload, %d without; want fewer", nt, no)
	}
}

func TestNewFrame_EstimatesFramerate(t *testing.T) {
	f := newFixture(t)
	clock := time.Unix(0, 0)
	f.ui.now = func() time.Time {
		clock = clock.Add(20 * time.Millisecond)
		return clock
	}

	f.frame(&menus{})
	if got := f.ui.IO().Framerate; got != 0 {
		t.Fatalf("Framerate after first frame = %v, want 0", got)
	}
	for range 3 {
		f.frame(&menus{})
	}
	if got := f.ui.IO().Framerate; math.Abs(float64(got)-50) > 0.01 {
		t.Fatalf("Framerate = %v, want 50", got)
	}

	for range framerateWindow + 5 {
		f.frame(&menus{})
	}
	if got := f.ui.IO().Framerate; math.Abs(float64(got)-50) > 0.01 {
		t.Fatalf("Framerate after the window filled = %v, want 50", got)
	}
}

func TestInitBackends_RejectNil(t *testing.T) {
	ui := NewContext(nil)
	if err := ui.InitPlatform(nil, nil); err == nil {
		t.Fatalf("InitPlatform(nil) returned nil error")
	}
	if err := ui.InitRenderer(nil); err == nil {
		t.Fatalf("InitRenderer(nil) returned nil error")
	}
}

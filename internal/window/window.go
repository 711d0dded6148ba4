package window

import (
	"fmt"
	"image/color"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/five82/dockyard/internal/gui"
	"github.com/five82/dockyard/internal/instrument"
	"github.com/five82/dockyard/internal/logtail"
	"github.com/five82/dockyard/internal/platform"
	"github.com/five82/dockyard/internal/prefs"
	"github.com/five82/dockyard/internal/resources"
)

const (
	baseFontSize = 18

	// logRefreshFrames is how often the Log panel rereads the log file.
	logRefreshFrames = 30
)

// Settings is the requested size and title of the main window.
type Settings struct {
	Title  string
	Width  int
	Height int
}

// DefaultSettings returns a 1280x720 window titled title.
func DefaultSettings(title string) Settings {
	return Settings{Title: title, Width: 1280, Height: 720}
}

// Options carries the collaborators of a Window. Every field is optional.
type Options struct {
	Logger   *zap.Logger
	Profiler *instrument.Profiler

	// FontPath is the font file loaded at 18px times the display scale.
	// When it cannot be loaded the built-in font is used.
	FontPath string
	// ConfigDir holds the persisted layout settings. Empty means the
	// per-user config directory; if that cannot be created, layout
	// settings are not persisted.
	ConfigDir string
	// LogPath is the file tailed by the Log panel.
	LogPath    string
	ClearColor color.NRGBA

	// Draw submits application content after the built-in panels.
	Draw func(ui *gui.Context)
}

// Panels are the visibility toggles of the View menu.
type Panels struct {
	Some  bool
	Demo  bool
	Debug bool
	Log   bool
}

// Window owns the native window and its rendering context. It must not be
// copied.
type Window struct {
	_ noCopy

	log  *zap.Logger
	prof *instrument.Profiler
	plat platform.Platform

	settings Settings
	native   platform.Window
	gl       platform.Context
	ui       *gui.Context

	clear   color.NRGBA
	draw    func(*gui.Context)
	iniPath string

	logPath     string
	logLines    []string
	logReadAt   int
	logWasShown bool

	renderable bool
	err        error
	closed     bool

	minimized bool
	panels    Panels
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates the main window and its rendering context and sets up the UI
// layer. Failures are logged and leave the window not renderable; check
// Renderable before driving it.
func New(p platform.Platform, s Settings, opts Options) *Window {
	defer opts.Profiler.Scope("Window.New")()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	w := &Window{
		log:     log,
		prof:    opts.Profiler,
		plat:    p,
		clear:   opts.ClearColor,
		draw:    opts.Draw,
		logPath: opts.LogPath,
	}

	w.settings = DPIAwareSize(p, s)

	p.SetSurfaceAttributes(platform.SurfaceAttributes{
		DoubleBuffer: true,
		DepthBits:    24,
		StencilBits:  8,
	})

	flags := platform.WindowResizable | platform.WindowAccelerated | platform.WindowHighPixelDensity
	native, err := p.CreateWindow(w.settings.Title, w.settings.Width, w.settings.Height, flags)
	if err != nil {
		w.fail("create window", err)
		return w
	}
	w.native = native

	gl, err := native.CreateContext()
	if err != nil {
		w.fail("create rendering context", err)
		return w
	}
	w.gl = gl

	native.Center()
	if err := p.MakeCurrent(native, gl); err != nil {
		w.fail("make context current", err)
		return w
	}
	if err := gl.SetSwapInterval(1); err != nil {
		log.Warn("vsync unavailable", zap.Error(err))
	}

	if err := w.initUI(opts); err != nil {
		w.fail("init ui", err)
		return w
	}

	w.renderable = true
	width, height := native.Size()
	log.Info("window created",
		zap.String("title", w.settings.Title),
		zap.Uint32("id", uint32(native.ID())),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("scale", native.DisplayScale()),
	)
	return w
}

func (w *Window) fail(op string, err error) {
	w.err = fmt.Errorf("%s: %w", op, err)
	w.log.Error("window not renderable", zap.String("op", op), zap.Error(err))
}

func (w *Window) initUI(opts Options) error {
	ui := gui.NewContext(w.log)
	io := ui.IO()
	io.ConfigFlags |= gui.ConfigNavEnableKeyboard | gui.ConfigDockingEnable | gui.ConfigViewportsEnable
	io.ConfigDockingTransparentPayload = true

	dir := opts.ConfigDir
	if dir == "" {
		var err error
		dir, err = resources.UserConfigDir(resources.Company, resources.App)
		if err != nil {
			w.log.Warn("layout settings will not be saved", zap.Error(err))
		}
	}
	if dir != "" {
		w.iniPath = prefs.Path(dir)
		io.IniFilename = w.iniPath
	}

	scale := w.native.DisplayScale()
	if scale <= 0 {
		scale = 1
	}
	size := baseFontSize * scale

	var font *gui.Font
	if opts.FontPath != "" {
		f, err := io.Fonts.AddFontFromFileTTF(opts.FontPath, size)
		if err != nil {
			w.log.Warn("font not loaded, using default", zap.String("path", opts.FontPath), zap.Error(err))
		}
		font = f
	}
	if font == nil {
		f, err := io.Fonts.AddFontDefault(size)
		if err != nil {
			w.log.Warn("default font not loaded", zap.Error(err))
		}
		font = f
	}
	io.FontDefault = font
	io.FontGlobalScale = 1 / scale

	if err := ui.InitPlatform(w.plat, w.native); err != nil {
		return err
	}
	if err := ui.InitRenderer(w.gl); err != nil {
		return err
	}
	w.ui = ui
	return nil
}

// Update renders one frame. While minimized only the clear and the swap
// happen. It does nothing when the window is not renderable.
func (w *Window) Update() {
	if !w.renderable {
		return
	}
	defer w.prof.Scope("Window.Update")()

	ui := w.ui
	ui.NewFrame()
	if !w.minimized {
		ui.DockSpaceOverViewport()
		w.menuBar()
		w.drawPanels()
		if w.draw != nil {
			w.draw(ui)
		}
	}
	ui.Render()

	width, height := w.native.Size()
	w.gl.Viewport(width, height)
	w.gl.ClearColor(w.clear)
	w.gl.Clear()
	ui.RenderDrawData(ui.DrawData())

	if ui.IO().ConfigFlags.Has(gui.ConfigViewportsEnable) {
		prevWindow, prevContext := w.plat.CurrentContext()
		ui.UpdatePlatformWindows()
		ui.RenderPlatformWindowsDefault()
		if prevWindow != nil {
			if err := w.plat.MakeCurrent(prevWindow, prevContext); err != nil {
				w.log.Warn("restore current context failed", zap.Error(err))
			}
		}
	}

	if err := w.native.Swap(); err != nil {
		w.log.Warn("swap failed", zap.Error(err))
	}
}

func (w *Window) menuBar() {
	ui := w.ui
	if !ui.BeginMainMenuBar() {
		return
	}
	if ui.BeginMenu("File") {
		if ui.MenuItem("Exit", "ctrl+c", nil) {
			w.OnClose()
		}
		ui.EndMenu()
	}
	if ui.BeginMenu("View") {
		ui.MenuItem("Some Panel", "", &w.panels.Some)
		ui.MenuItem("Demo Panel", "", &w.panels.Demo)
		ui.MenuItem("Debug Panel", "", &w.panels.Debug)
		ui.MenuItem("Log Panel", "", &w.panels.Log)
		ui.Separator()
		if ui.MenuItem("Cycle Theme", "ctrl+t", nil) {
			ui.CycleTheme()
		}
		ui.EndMenu()
	}
	ui.EndMainMenuBar()
}

func (w *Window) drawPanels() {
	ui := w.ui
	if w.panels.Some {
		if ui.Begin("Some Panel", &w.panels.Some) {
			ui.Text("Hello World")
		}
		ui.End()
	}

	if w.panels.Demo {
		if ui.Begin("Demo Panel", &w.panels.Demo) {
			theme := ui.Theme()
			ui.Text("Theme: %s", theme.Name)
			ui.Separator()
			for _, sw := range theme.Swatches() {
				ui.Text("%-12s %s", sw[0], sw[1])
			}
		}
		ui.End()
	}

	if w.panels.Debug {
		if ui.Begin("Debug Panel", &w.panels.Debug) {
			io := ui.IO()
			dir := "(not persisted)"
			if w.iniPath != "" {
				dir = filepath.Dir(w.iniPath)
			}
			ui.Text("User config dir: %s", dir)
			ui.Text("Global font scale: %.2f", io.FontGlobalScale)
			if io.FontDefault != nil {
				ui.Text("Font: %s %.0fpx", io.FontDefault.Name, ui.FontSize())
				sz := ui.CalcTextSize("Hello World")
				ui.Text("Text size: %dx%dpx", sz.X, sz.Y)
			}
			ui.Text("Framerate: %.1f fps", io.Framerate)
			ui.Text("Frame: %d", ui.FrameCount())
		}
		ui.End()
	}

	if w.panels.Log {
		w.refreshLog()
		if ui.Begin("Log Panel", &w.panels.Log) {
			if len(w.logLines) == 0 {
				ui.Text("(log is empty)")
			}
			for _, line := range w.logLines {
				ui.Text("%s", line)
			}
		}
		ui.End()
	}
	w.logWasShown = w.panels.Log
}

func (w *Window) refreshLog() {
	frame := w.ui.FrameCount()
	if w.logWasShown && frame-w.logReadAt < logRefreshFrames {
		return
	}
	w.logReadAt = frame
	if w.logPath == "" {
		w.logLines = nil
		return
	}
	_, rows := w.native.Size()
	lines, err := logtail.Read(w.logPath, max(rows, 1))
	if err != nil {
		w.logLines = []string{err.Error()}
		return
	}
	w.logLines = logtail.FormatLines(lines)
}

// OnMinimize stops UI layout until OnShown.
func (w *Window) OnMinimize() {
	w.minimized = true
}

// OnShown resumes UI layout.
func (w *Window) OnShown() {
	w.minimized = false
}

// OnClose asks the application to quit by queueing a quit event. The loop
// decides when to stop.
func (w *Window) OnClose() {
	if err := w.plat.PushEvent(platform.QuitEvent()); err != nil {
		w.log.Error("queue quit event failed", zap.Error(err))
	}
}

// OnEvent reacts to a window event addressed to this window.
func (w *Window) OnEvent(ev platform.Event) {
	switch ev.Window {
	case platform.WindowCloseRequested:
		w.OnClose()
	case platform.WindowMinimized:
		w.OnMinimize()
	case platform.WindowShown:
		w.OnShown()
	default:
	}
}

// ProcessInput forwards an event to the UI layer's input state.
func (w *Window) ProcessInput(ev platform.Event) bool {
	if w.ui == nil {
		return false
	}
	return w.ui.ProcessEvent(ev)
}

// ID returns the native window id, or zero when no window was created.
func (w *Window) ID() platform.WindowID {
	if w.native == nil {
		return 0
	}
	return w.native.ID()
}

// Renderable reports whether the window and its context are usable.
func (w *Window) Renderable() bool { return w.renderable }

// Err returns the construction failure, if any.
func (w *Window) Err() error { return w.err }

func (w *Window) Minimized() bool { return w.minimized }

// Settings returns the DPI-adjusted settings the window was created with.
func (w *Window) Settings() Settings { return w.settings }

func (w *Window) Panels() Panels { return w.panels }

// UI returns the UI layer, or nil when the window is not renderable.
func (w *Window) UI() *gui.Context { return w.ui }

// Close saves UI settings and releases the context and the native window.
// Calls after the first do nothing.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.renderable = false

	if w.ui != nil {
		w.ui.Shutdown()
	}
	if w.gl != nil {
		w.gl.Destroy()
	}
	if w.native != nil {
		w.native.Destroy()
	}
	w.log.Debug("window closed")
}

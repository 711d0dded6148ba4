package gui

import (
	"errors"
	"image"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"go.uber.org/zap"

	"github.com/five82/dockyard/internal/platform"
	"github.com/five82/dockyard/internal/prefs"
)

// Context is an immediate-mode UI layer. Each frame the caller submits the
// whole UI between NewFrame and Render; the context keeps only navigation
// state and the previous frame's layout, which it hit-tests input against.
type Context struct {
	io    IO
	log   *zap.Logger
	theme Theme
	keys  keyMap

	plat   platform.Platform
	window platform.Window
	target platform.Context

	pending []platform.Event
	input   frameInput

	inFrame    bool
	frameCount int

	now        func() time.Time
	lastFrame  time.Time
	frameTimes [framerateWindow]time.Duration
	frameIdx   int
	frameN     int
	frameSum   time.Duration

	// Submitted during the current frame.
	dockspace bool
	menuBar   *menuBar
	panels    []*panel
	curMenu   *menu
	curPanel  *panel

	openMenu string
	hot      int
	prev     frameLayout

	layout         prefs.Layout
	layoutLoaded   bool
	layoutDirty    bool
	layoutLoadPath string

	drawData  DrawData
	viewports []*Viewport
}

// framerateWindow is the number of frame intervals IO.Framerate averages.
const framerateWindow = 60

type frameInput struct {
	clicks   []image.Point
	keys     []platform.Key
	activate string
}

// NewContext creates a UI layer with default configuration.
func NewContext(log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		io:     defaultIO(),
		log:    log,
		theme:  GetTheme(prefs.Default().Theme),
		keys:   defaultKeyMap(),
		layout: prefs.Default(),
		prev:   newFrameLayout(),
		now:    time.Now,
	}
}

// IO returns the configuration block. Changes take effect at the next frame.
func (c *Context) IO() *IO {
	return &c.io
}

// Theme returns the active theme.
func (c *Context) Theme() Theme {
	return c.theme
}

// FrameCount returns the number of rendered frames.
func (c *Context) FrameCount() int {
	return c.frameCount
}

// InitPlatform binds the platform backend: input is taken from events
// targeting w and the display size follows w.
func (c *Context) InitPlatform(p platform.Platform, w platform.Window) error {
	if p == nil || w == nil {
		return errors.New("gui: platform backend needs a platform and a window")
	}
	c.plat = p
	c.window = w
	c.viewports = []*Viewport{{ID: uint32(w.ID()), Window: w, Main: true}}
	return nil
}

// InitRenderer binds the renderer backend to a rendering context.
func (c *Context) InitRenderer(target platform.Context) error {
	if target == nil {
		return errors.New("gui: renderer backend needs a context")
	}
	c.target = target
	if len(c.viewports) > 0 {
		c.viewports[0].Context = target
	}
	return nil
}

// ProcessEvent feeds a platform event to the input state. It reports whether
// the event was captured as UI input.
func (c *Context) ProcessEvent(ev platform.Event) bool {
	if c.window != nil && ev.WindowID != 0 && ev.WindowID != c.window.ID() {
		return false
	}
	switch ev.Type {
	case platform.EventKey, platform.EventMouse:
		c.pending = append(c.pending, ev)
		return true
	default:
		return false
	}
}

// NewFrame starts a frame: it loads persisted settings on first use,
// refreshes the display size and turns queued input into this frame's
// input.
func (c *Context) NewFrame() {
	if c.inFrame {
		c.log.Warn("gui: NewFrame called before Render; discarding frame")
	}
	c.loadLayout()
	c.updateFramerate(c.now())

	if c.window != nil {
		w, h := c.window.Size()
		c.io.DisplaySize = image.Pt(w, h)
	}

	c.input = frameInput{}
	for _, ev := range c.pending {
		switch ev.Type {
		case platform.EventKey:
			c.input.keys = append(c.input.keys, ev.Key)
		case platform.EventMouse:
			if ev.Mouse.Press && ev.Mouse.Button == platform.MouseLeft {
				c.input.clicks = append(c.input.clicks, image.Pt(ev.Mouse.X, ev.Mouse.Y))
			}
		}
	}
	c.pending = c.pending[:0]

	c.navigate()

	c.dockspace = false
	c.menuBar = nil
	c.panels = nil
	c.curMenu = nil
	c.curPanel = nil
	c.inFrame = true
}

func (c *Context) updateFramerate(t time.Time) {
	if !c.lastFrame.IsZero() {
		if dt := t.Sub(c.lastFrame); dt > 0 {
			c.frameSum += dt - c.frameTimes[c.frameIdx]
			c.frameTimes[c.frameIdx] = dt
			c.frameIdx = (c.frameIdx + 1) % framerateWindow
			c.frameN = min(c.frameN+1, framerateWindow)
			c.io.Framerate = float32(float64(c.frameN) / c.frameSum.Seconds())
		}
	}
	c.lastFrame = t
}

func (c *Context) navigate() {
	for _, k := range c.input.keys {
		if key.Matches(k, c.keys.CycleTheme) {
			c.CycleTheme()
			continue
		}
		if !c.io.ConfigFlags.Has(ConfigNavEnableKeyboard) {
			continue
		}
		if c.openMenu == "" {
			c.navigateClosed(k)
			continue
		}
		c.navigateOpen(k)
	}

	if c.openMenu == "" {
		return
	}
	for _, pt := range c.input.clicks {
		if !c.prev.insideMenus(pt) {
			c.openMenu = ""
			return
		}
	}
}

func (c *Context) navigateClosed(k platform.Key) {
	if len(c.prev.menus) == 0 {
		return
	}
	if key.Matches(k, c.keys.MenuBar) {
		c.openMenu, c.hot = c.prev.menus[0], 0
		return
	}
	for _, label := range c.prev.menus {
		if k == altKey(label) {
			c.openMenu, c.hot = label, 0
			return
		}
	}
}

func (c *Context) navigateOpen(k platform.Key) {
	n := c.prev.itemCount(c.openMenu)
	switch {
	case key.Matches(k, c.keys.Close), key.Matches(k, c.keys.MenuBar):
		c.openMenu = ""
	case key.Matches(k, c.keys.Up):
		c.hot = c.prev.step(c.openMenu, c.hot, -1)
	case key.Matches(k, c.keys.Down):
		c.hot = c.prev.step(c.openMenu, c.hot, 1)
	case key.Matches(k, c.keys.Left):
		c.openMenu, c.hot = c.prev.adjacentMenu(c.openMenu, -1), 0
	case key.Matches(k, c.keys.Right):
		c.openMenu, c.hot = c.prev.adjacentMenu(c.openMenu, 1), 0
	case key.Matches(k, c.keys.Activate):
		if n > 0 {
			c.input.activate = itemID(c.openMenu, c.hot)
		}
	}
}

// CycleTheme switches to the next theme and marks settings for saving.
func (c *Context) CycleTheme() {
	c.theme = GetTheme(NextTheme(c.theme.Name))
	c.layout.Theme = c.theme.Name
	c.layoutDirty = true
}

func (c *Context) loadLayout() {
	path := c.io.IniFilename
	if path == "" || (c.layoutLoaded && c.layoutLoadPath == path) {
		return
	}
	c.layoutLoaded = true
	c.layoutLoadPath = path

	layout, err := prefs.Load(path)
	if err != nil {
		c.log.Warn("gui: layout settings unreadable, using defaults", zap.String("path", path), zap.Error(err))
	}
	c.layout = layout
	c.theme = GetTheme(layout.Theme)
}

// SaveSettings writes layout settings to IniFilename.
func (c *Context) SaveSettings() error {
	if c.io.IniFilename == "" {
		return nil
	}
	if err := prefs.Save(c.io.IniFilename, c.layout); err != nil {
		return err
	}
	c.layoutDirty = false
	return nil
}

// Shutdown saves pending settings, releases fonts and unbinds both backends.
func (c *Context) Shutdown() {
	if c.layoutDirty {
		if err := c.SaveSettings(); err != nil {
			c.log.Warn("gui: saving layout settings failed", zap.Error(err))
		}
	}
	if c.io.Fonts != nil {
		c.io.Fonts.Clear()
	}
	c.io.FontDefault = nil
	c.target = nil
	c.window = nil
	c.plat = nil
	c.viewports = nil
}

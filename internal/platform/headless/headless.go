// Package headless is an in-memory platform backend. It keeps a scriptable
// event queue, lets callers inject failures and records every call so tests
// can assert on ordering and side effects.
package headless

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/five82/dockyard/internal/platform"
)

// ErrQueueFull is returned by PushEvent when the queue limit is reached.
var ErrQueueFull = errors.New("headless: event queue full")

// Platform implements platform.Platform in memory. The exported fields are
// configuration; set them before handing the platform to the core.
type Platform struct {
	// InitErr is returned by Init when non-nil.
	InitErr error
	// WindowErr is returned by CreateWindow when non-nil.
	WindowErr error
	// ContextErr is returned by Window.CreateContext when non-nil.
	ContextErr error
	// Scale is the content scale of the primary display and every window.
	// Zero means 1.
	Scale float32
	// QueueLimit caps the event queue. Zero means unlimited.
	QueueLimit int

	Initialized platform.Subsystem
	ContextAttr platform.ContextAttributes
	SurfaceAttr platform.SurfaceAttributes
	Hints       map[string]string
	Windows     []*Window
	// Calls records platform operations in order.
	Calls []string

	queue      []platform.Event
	polls      int
	nextID     platform.WindowID
	curWindow  platform.Window
	curContext platform.Context
}

var _ platform.Platform = (*Platform)(nil)

// New returns a platform with a 1.0 display scale.
func New() *Platform {
	return &Platform{Scale: 1, Hints: make(map[string]string)}
}

func (p *Platform) record(format string, args ...any) {
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
}

func (p *Platform) Init(s platform.Subsystem) error {
	p.record("init")
	if p.InitErr != nil {
		return p.InitErr
	}
	p.Initialized |= s
	return nil
}

func (p *Platform) Quit() {
	p.record("quit")
	p.Initialized = 0
}

func (p *Platform) SetContextAttributes(a platform.ContextAttributes) {
	p.record("context_attributes")
	p.ContextAttr = a
}

func (p *Platform) SetSurfaceAttributes(a platform.SurfaceAttributes) {
	p.record("surface_attributes")
	p.SurfaceAttr = a
}

func (p *Platform) SetHint(name, value string) {
	p.record("hint %s", name)
	if p.Hints == nil {
		p.Hints = make(map[string]string)
	}
	p.Hints[name] = value
}

func (p *Platform) PrimaryDisplayScale() float32 {
	if p.Scale == 0 {
		return 1
	}
	return p.Scale
}

func (p *Platform) CreateWindow(title string, width, height int, flags platform.WindowFlags) (platform.Window, error) {
	p.record("create_window")
	if p.WindowErr != nil {
		return nil, p.WindowErr
	}
	if p.Initialized&platform.SubsystemVideo == 0 {
		return nil, errors.New("headless: video subsystem not initialized")
	}
	p.nextID++
	w := &Window{
		p:      p,
		id:     p.nextID,
		Title:  title,
		Width:  width,
		Height: height,
		Flags:  flags,
	}
	p.Windows = append(p.Windows, w)
	return w, nil
}

// Enqueue appends events to the queue, bypassing QueueLimit.
func (p *Platform) Enqueue(evs ...platform.Event) {
	p.queue = append(p.queue, evs...)
}

// Pending returns a copy of the events still queued.
func (p *Platform) Pending() []platform.Event {
	return append([]platform.Event(nil), p.queue...)
}

// Polls returns how many times PollEvent was called.
func (p *Platform) Polls() int {
	return p.polls
}

func (p *Platform) PollEvent() (platform.Event, bool) {
	p.polls++
	if len(p.queue) == 0 {
		return platform.Event{}, false
	}
	ev := p.queue[0]
	p.queue = p.queue[1:]
	return ev, true
}

func (p *Platform) PushEvent(ev platform.Event) error {
	if p.QueueLimit > 0 && len(p.queue) >= p.QueueLimit {
		return ErrQueueFull
	}
	p.queue = append(p.queue, ev)
	return nil
}

func (p *Platform) CurrentContext() (platform.Window, platform.Context) {
	return p.curWindow, p.curContext
}

func (p *Platform) MakeCurrent(w platform.Window, c platform.Context) error {
	p.record("make_current")
	p.curWindow, p.curContext = w, c
	return nil
}

// Swaps returns the total number of presented frames across all windows.
func (p *Platform) Swaps() int {
	n := 0
	for _, w := range p.Windows {
		n += w.Swaps
	}
	return n
}

// Window is an in-memory native window.
type Window struct {
	p  *Platform
	id platform.WindowID

	Title         string
	Width, Height int
	Flags         platform.WindowFlags
	Centered      bool
	Destroyed     bool
	Swaps         int
	// Frames holds every presented frame, oldest first.
	Frames  []string
	Context *Context
}

func (w *Window) ID() platform.WindowID { return w.id }

func (w *Window) Center() { w.Centered = true }

func (w *Window) DisplayScale() float32 { return w.p.PrimaryDisplayScale() }

func (w *Window) Size() (int, int) { return w.Width, w.Height }

func (w *Window) CreateContext() (platform.Context, error) {
	w.p.record("create_context")
	if w.p.ContextErr != nil {
		return nil, w.p.ContextErr
	}
	w.Context = &Context{}
	return w.Context, nil
}

func (w *Window) Swap() error {
	if w.Destroyed {
		return errors.New("headless: swap on destroyed window")
	}
	w.Swaps++
	frame := ""
	if w.Context != nil {
		frame = w.Context.Frame
	}
	w.Frames = append(w.Frames, frame)
	return nil
}

func (w *Window) Destroy() {
	w.p.record("destroy_window")
	w.Destroyed = true
}

// LastFrame returns the most recently presented frame.
func (w *Window) LastFrame() string {
	if len(w.Frames) == 0 {
		return ""
	}
	return w.Frames[len(w.Frames)-1]
}

// Context is an in-memory rendering context.
type Context struct {
	SwapInterval int
	ViewportW    int
	ViewportH    int
	Color        color.NRGBA
	Clears       int
	Frame        string
	Destroyed    bool
}

func (c *Context) SetSwapInterval(frames int) error {
	if frames < 0 {
		return fmt.Errorf("headless: unsupported swap interval %d", frames)
	}
	c.SwapInterval = frames
	return nil
}

func (c *Context) Viewport(w, h int) { c.ViewportW, c.ViewportH = w, h }

func (c *Context) ClearColor(col color.NRGBA) { c.Color = col }

func (c *Context) Clear() {
	c.Clears++
	c.Frame = ""
}

func (c *Context) Draw(frame string) { c.Frame = frame }

func (c *Context) Destroy() { c.Destroyed = true }

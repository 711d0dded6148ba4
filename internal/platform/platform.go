// Package platform defines the contracts between the application core and a
// windowing backend: subsystem bring-up, the native window, its rendering
// context and the platform event queue.
package platform

import "image/color"

// Subsystem is a bit set of platform subsystems brought up by Init.
type Subsystem uint32

const (
	SubsystemVideo Subsystem = 1 << iota
	SubsystemTimer
	SubsystemInput
)

// ContextAttributes are global rendering-context negotiation parameters. They
// are consumed when a context is created, so they must be set before the
// window exists.
type ContextAttributes struct {
	ForwardCompatible bool
	CoreProfile       bool
	Major             int
	Minor             int
}

// SurfaceAttributes describe the framebuffer requested for new windows.
type SurfaceAttributes struct {
	DoubleBuffer bool
	DepthBits    int
	StencilBits  int
}

// WindowFlags control native window creation.
type WindowFlags uint32

const (
	WindowResizable WindowFlags = 1 << iota
	WindowAccelerated
	WindowHighPixelDensity
)

// Has reports whether all bits in f are set.
func (w WindowFlags) Has(f WindowFlags) bool {
	return w&f == f
}

// HintIMEShowUI asks the platform to show its own input-method UI.
const HintIMEShowUI = "ime_show_ui"

// WindowID identifies a native window. Zero is never a valid id.
type WindowID uint32

// Platform is a process-wide windowing backend. Implementations are driven
// from a single goroutine: the one running the application loop.
type Platform interface {
	Init(Subsystem) error
	Quit()

	SetContextAttributes(ContextAttributes)
	SetSurfaceAttributes(SurfaceAttributes)
	SetHint(name, value string)

	// PrimaryDisplayScale returns the content scale of the primary display.
	PrimaryDisplayScale() float32

	CreateWindow(title string, width, height int, flags WindowFlags) (Window, error)

	// PollEvent removes one queued event. It never blocks; ok is false when
	// the queue is empty.
	PollEvent() (ev Event, ok bool)
	PushEvent(Event) error

	CurrentContext() (Window, Context)
	MakeCurrent(Window, Context) error
}

// Window is a native window owned by exactly one caller.
type Window interface {
	ID() WindowID
	Center()
	DisplayScale() float32
	Size() (width, height int)
	CreateContext() (Context, error)
	// Swap presents the frame drawn into the window's context.
	Swap() error
	Destroy()
}

// Context is the rendering context bound to a Window.
type Context interface {
	// SetSwapInterval sets how many display refreshes to wait per swap.
	SetSwapInterval(frames int) error
	Viewport(width, height int)
	ClearColor(color.NRGBA)
	Clear()
	Draw(frame string)
	Destroy()
}

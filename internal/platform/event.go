package platform

import "fmt"

// EventType tags the variant held by an Event.
type EventType uint8

const (
	EventNone EventType = iota
	EventQuit
	EventWindow
	EventKey
	EventMouse
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindow:
		return "window"
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	default:
		return "none"
	}
}

// WindowEventType is the subtype of an EventWindow event.
type WindowEventType uint8

const (
	WindowNone WindowEventType = iota
	WindowShown
	WindowHidden
	WindowExposed
	WindowMoved
	WindowResized
	WindowMinimized
	WindowMaximized
	WindowRestored
	WindowFocusGained
	WindowFocusLost
	WindowCloseRequested
)

var windowEventNames = [...]string{
	WindowNone:           "none",
	WindowShown:          "shown",
	WindowHidden:         "hidden",
	WindowExposed:        "exposed",
	WindowMoved:          "moved",
	WindowResized:        "resized",
	WindowMinimized:      "minimized",
	WindowMaximized:      "maximized",
	WindowRestored:       "restored",
	WindowFocusGained:    "focus_gained",
	WindowFocusLost:      "focus_lost",
	WindowCloseRequested: "close_requested",
}

func (t WindowEventType) String() string {
	if int(t) < len(windowEventNames) {
		return windowEventNames[t]
	}
	return fmt.Sprintf("window_event(%d)", uint8(t))
}

// Key names a key press the way bubbles/key bindings spell it ("ctrl+c",
// "alt+f", "enter", "a").
type Key string

func (k Key) String() string { return string(k) }

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Mouse is the payload of an EventMouse event. Coordinates are in window
// units with the origin at the top-left corner.
type Mouse struct {
	X, Y    int
	Button  MouseButton
	Press   bool
	Release bool
}

// Event is a tagged union of platform events. Type selects which of the
// remaining fields are meaningful.
type Event struct {
	Type     EventType
	WindowID WindowID

	// EventWindow
	Window       WindowEventType
	Data1, Data2 int

	// EventKey
	Key Key

	// EventMouse
	Mouse Mouse
}

// QuitEvent returns a quit request.
func QuitEvent() Event {
	return Event{Type: EventQuit}
}

// WindowEvent returns a window event of the given subtype targeting id.
func WindowEvent(id WindowID, sub WindowEventType) Event {
	return Event{Type: EventWindow, WindowID: id, Window: sub}
}

// KeyEvent returns a key press targeting id.
func KeyEvent(id WindowID, k Key) Event {
	return Event{Type: EventKey, WindowID: id, Key: k}
}

// ClickEvent returns a left-button press at (x, y) targeting id.
func ClickEvent(id WindowID, x, y int) Event {
	return Event{Type: EventMouse, WindowID: id, Mouse: Mouse{X: x, Y: y, Button: MouseLeft, Press: true}}
}

func (e Event) String() string {
	switch e.Type {
	case EventWindow:
		return fmt.Sprintf("window %d %s", e.WindowID, e.Window)
	case EventKey:
		return fmt.Sprintf("key %d %q", e.WindowID, e.Key)
	case EventMouse:
		return fmt.Sprintf("mouse %d (%d,%d)", e.WindowID, e.Mouse.X, e.Mouse.Y)
	default:
		return e.Type.String()
	}
}

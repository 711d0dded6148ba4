package tty

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dockyard/internal/platform"
)

// frameMsg carries a presented frame into the program.
type frameMsg string

// queue is the event channel shared by the program goroutine and the loop.
// Sends never block: the program's event loop must keep draining Send
// while the application loop sleeps in Swap.
type queue struct {
	events  chan platform.Event
	quit    atomic.Bool
	dropped atomic.Int64
}

func newQueue(size int) *queue {
	return &queue{events: make(chan platform.Event, size)}
}

// emit queues ev, dropping it when the queue is full. A dropped quit is
// remembered and delivered once the queue drains.
func (q *queue) emit(ev platform.Event) bool {
	select {
	case q.events <- ev:
		return true
	default:
		if ev.Type == platform.EventQuit {
			q.quit.Store(true)
		}
		q.dropped.Add(1)
		return false
	}
}

func (q *queue) poll() (platform.Event, bool) {
	select {
	case ev := <-q.events:
		return ev, true
	default:
		if q.quit.CompareAndSwap(true, false) {
			return platform.QuitEvent(), true
		}
		return platform.Event{}, false
	}
}

// bridge is the bubbletea model of the terminal window. It turns terminal
// messages into platform events and shows whatever frame was last swapped.
type bridge struct {
	id    platform.WindowID
	title string
	q     *queue
	frame string
}

func (b *bridge) Init() tea.Cmd {
	return tea.SetWindowTitle(b.title)
}

func (b *bridge) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		b.frame = string(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			b.q.emit(platform.QuitEvent())
		case "ctrl+w":
			b.q.emit(platform.WindowEvent(b.id, platform.WindowCloseRequested))
		case "ctrl+z":
			b.q.emit(platform.WindowEvent(b.id, platform.WindowMinimized))
			return b, tea.Suspend
		default:
			b.q.emit(platform.KeyEvent(b.id, platform.Key(msg.String())))
		}

	case tea.ResumeMsg:
		b.q.emit(platform.WindowEvent(b.id, platform.WindowRestored))
		b.q.emit(platform.WindowEvent(b.id, platform.WindowShown))

	case tea.WindowSizeMsg:
		ev := platform.WindowEvent(b.id, platform.WindowResized)
		ev.Data1, ev.Data2 = msg.Width, msg.Height
		b.q.emit(ev)

	case tea.FocusMsg:
		b.q.emit(platform.WindowEvent(b.id, platform.WindowFocusGained))

	case tea.BlurMsg:
		b.q.emit(platform.WindowEvent(b.id, platform.WindowFocusLost))

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion {
			break
		}
		b.q.emit(platform.Event{
			Type:     platform.EventMouse,
			WindowID: b.id,
			Mouse: platform.Mouse{
				X:       msg.X,
				Y:       msg.Y,
				Button:  mouseButton(msg.Button),
				Press:   msg.Action == tea.MouseActionPress,
				Release: msg.Action == tea.MouseActionRelease,
			},
		})
	}
	return b, nil
}

func (b *bridge) View() string {
	return b.frame
}

func mouseButton(b tea.MouseButton) platform.MouseButton {
	switch b {
	case tea.MouseButtonLeft:
		return platform.MouseLeft
	case tea.MouseButtonMiddle:
		return platform.MouseMiddle
	case tea.MouseButtonRight:
		return platform.MouseRight
	case tea.MouseButtonWheelUp:
		return platform.MouseWheelUp
	case tea.MouseButtonWheelDown:
		return platform.MouseWheelDown
	default:
		return platform.MouseNone
	}
}

// Package tty runs the platform on a terminal. The terminal is the one
// native window: bubbletea owns the screen and input, and its messages are
// bridged into the platform event queue.
package tty

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/five82/dockyard/internal/platform"
)

const (
	defaultRefreshRate = 60
	defaultCols        = 80
	defaultRows        = 24
	queueSize          = 256
	shutdownTimeout    = 2 * time.Second
)

// ErrQueueFull is returned by PushEvent when the event queue is full.
var ErrQueueFull = errors.New("tty: event queue full")

// Options configure the terminal platform. Every field is optional.
type Options struct {
	// Context ends the program when cancelled; a quit event is queued.
	Context context.Context
	Logger  *zap.Logger

	// Scale overrides the display content scale. Zero reads GDK_SCALE,
	// falling back to 1.
	Scale float32
	// RefreshRate is the emulated display refresh in Hz that a swap
	// interval of 1 paces to.
	RefreshRate int

	In  *os.File
	Out *os.File
}

// Platform implements platform.Platform on the controlling terminal.
type Platform struct {
	opts Options
	log  *zap.Logger

	initialized platform.Subsystem
	contextAttr platform.ContextAttributes
	surfaceAttr platform.SurfaceAttributes
	hints       map[string]string

	q      *queue
	window *Window

	curWindow  platform.Window
	curContext platform.Context
}

var _ platform.Platform = (*Platform)(nil)

// New returns a terminal platform. Nothing touches the terminal until
// CreateWindow.
func New(opts Options) *Platform {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = defaultRefreshRate
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Platform{
		opts:  opts,
		log:   log,
		hints: make(map[string]string),
		q:     newQueue(queueSize),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Init brings up the requested subsystems. Video needs both the input and
// the output to be terminals.
func (p *Platform) Init(s platform.Subsystem) error {
	if s&platform.SubsystemVideo != 0 {
		if !isTerminal(p.opts.In) {
			return fmt.Errorf("tty: video init: %s is not a terminal", p.opts.In.Name())
		}
		if !isTerminal(p.opts.Out) {
			return fmt.Errorf("tty: video init: %s is not a terminal", p.opts.Out.Name())
		}
	}
	p.initialized |= s
	return nil
}

func (p *Platform) Quit() {
	if p.window != nil && !p.window.destroyed {
		p.window.Destroy()
	}
	p.initialized = 0
}

// SetContextAttributes records the attributes. Terminal contexts have no
// version to negotiate.
func (p *Platform) SetContextAttributes(a platform.ContextAttributes) {
	p.contextAttr = a
}

func (p *Platform) SetSurfaceAttributes(a platform.SurfaceAttributes) {
	p.surfaceAttr = a
}

func (p *Platform) SetHint(name, value string) {
	p.hints[name] = value
}

func (p *Platform) PrimaryDisplayScale() float32 {
	if p.opts.Scale > 0 {
		return p.opts.Scale
	}
	if v := strings.TrimSpace(os.Getenv("GDK_SCALE")); v != "" {
		if s, err := strconv.ParseFloat(v, 32); err == nil && s > 0 {
			return float32(s)
		}
	}
	return 1
}

// CreateWindow takes over the terminal. The requested size is ignored: the
// window is as large as the terminal and follows its resizes.
func (p *Platform) CreateWindow(title string, width, height int, flags platform.WindowFlags) (platform.Window, error) {
	if p.initialized&platform.SubsystemVideo == 0 {
		return nil, errors.New("tty: video subsystem not initialized")
	}
	if p.window != nil && !p.window.destroyed {
		return nil, errors.New("tty: the terminal already hosts a window")
	}

	cols, rows, err := term.GetSize(p.opts.Out.Fd())
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = defaultCols, defaultRows
	}
	w := newWindow(p, 1, title, cols, rows)
	p.log.Debug("terminal window",
		zap.String("title", title),
		zap.Int("requested_width", width),
		zap.Int("requested_height", height),
		zap.Int("cols", cols),
		zap.Int("rows", rows),
	)

	w.prog = tea.NewProgram(w.model,
		tea.WithContext(p.opts.Context),
		tea.WithInput(p.opts.In),
		tea.WithOutput(p.opts.Out),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	w.done = make(chan struct{})
	go w.run()

	p.window = w
	return w, nil
}

func (p *Platform) PollEvent() (platform.Event, bool) {
	ev, ok := p.q.poll()
	if !ok {
		return ev, false
	}
	if w := p.window; w != nil && ev.Type == platform.EventWindow &&
		ev.Window == platform.WindowResized && ev.WindowID == w.id {
		w.width, w.height = ev.Data1, ev.Data2
	}
	return ev, true
}

func (p *Platform) PushEvent(ev platform.Event) error {
	if !p.q.emit(ev) {
		return ErrQueueFull
	}
	return nil
}

func (p *Platform) CurrentContext() (platform.Window, platform.Context) {
	return p.curWindow, p.curContext
}

func (p *Platform) MakeCurrent(w platform.Window, c platform.Context) error {
	if w != nil {
		if _, ok := w.(*Window); !ok {
			return fmt.Errorf("tty: make current: foreign window %T", w)
		}
	}
	p.curWindow, p.curContext = w, c
	return nil
}

// Window is the terminal screen.
type Window struct {
	p      *Platform
	id     platform.WindowID
	title  string
	width  int
	height int

	model *bridge
	prog  *tea.Program
	done  chan struct{}
	ctx   *Context

	lastSwap  time.Time
	now       func() time.Time
	sleep     func(time.Duration)
	destroyed bool
	stopping  atomic.Bool
}

func newWindow(p *Platform, id platform.WindowID, title string, width, height int) *Window {
	return &Window{
		p:      p,
		id:     id,
		title:  title,
		width:  width,
		height: height,
		model:  &bridge{id: id, title: title, q: p.q},
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// run owns the program. A program that ends while the window is still
// alive (context cancelled, terminal gone) is reported as a quit request.
func (w *Window) run() {
	defer close(w.done)
	_, err := w.prog.Run()
	if w.stopping.Load() {
		return
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		w.p.log.Error("terminal program failed", zap.Error(err))
	}
	w.p.q.emit(platform.QuitEvent())
}

func (w *Window) ID() platform.WindowID { return w.id }

// Center does nothing: the terminal window fills the terminal.
func (w *Window) Center() {}

func (w *Window) DisplayScale() float32 { return w.p.PrimaryDisplayScale() }

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) CreateContext() (platform.Context, error) {
	if w.destroyed {
		return nil, errors.New("tty: create context on destroyed window")
	}
	if w.ctx != nil && !w.ctx.destroyed {
		return nil, errors.New("tty: window already has a context")
	}
	w.ctx = &Context{win: w, width: w.width, height: w.height}
	return w.ctx, nil
}

// Swap hands the composed frame to the program and waits out the rest of
// the swap interval.
func (w *Window) Swap() error {
	if w.destroyed {
		return errors.New("tty: swap on destroyed window")
	}
	frame := ""
	interval := 0
	if w.ctx != nil {
		frame = w.ctx.Frame()
		interval = w.ctx.swapInterval
	}
	if w.prog != nil {
		w.prog.Send(frameMsg(frame))
	}
	w.pace(interval)
	return nil
}

func (w *Window) pace(interval int) {
	now := w.now()
	if interval <= 0 {
		w.lastSwap = now
		return
	}
	period := time.Second * time.Duration(interval) / time.Duration(w.p.opts.RefreshRate)
	next := w.lastSwap.Add(period)
	if d := next.Sub(now); d > 0 {
		w.sleep(d)
		w.lastSwap = next
		return
	}
	w.lastSwap = now
}

// Destroy gives the terminal back, waiting briefly for the program to
// restore it.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.stopping.Store(true)
	if w.prog == nil {
		return
	}
	w.prog.Quit()
	select {
	case <-w.done:
	case <-time.After(shutdownTimeout):
		w.p.log.Warn("terminal program did not exit; killing it")
		w.prog.Kill()
		<-w.done
	}
	if n := w.p.q.dropped.Load(); n > 0 {
		w.p.log.Warn("terminal events dropped", zap.Int64("count", n))
	}
}

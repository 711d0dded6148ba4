package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/dockyard/internal/instrument"
	"github.com/five82/dockyard/internal/platform"
	"github.com/five82/dockyard/internal/window"
)

// ExitStatus is the result of Run. Its numeric value is the process exit code.
type ExitStatus int

const (
	Success ExitStatus = iota
	Failure
)

func (s ExitStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("exit_status(%d)", int(s))
	}
}

// requiredSubsystems are brought up before any window exists.
const requiredSubsystems = platform.SubsystemVideo | platform.SubsystemTimer | platform.SubsystemInput

// Options configure an Application.
type Options struct {
	Platform platform.Platform
	Logger   *zap.Logger
	Profiler *instrument.Profiler

	// Width and Height override the default logical window size when
	// positive.
	Width  int
	Height int

	// Window configures the main window. Logger and Profiler default to the
	// application's own.
	Window window.Options
}

// Application owns the platform subsystems and the main window and runs the
// main loop. It must not be copied.
type Application struct {
	_ noCopy

	log  *zap.Logger
	prof *instrument.Profiler
	plat platform.Platform

	subs   *subsystems
	window *window.Window

	status  ExitStatus
	running bool
	closed  bool
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New brings up the platform and creates the main window titled title.
// Failures are logged and recorded in the exit status; Run then returns
// Failure without entering the loop.
func New(title string, opts Options) *Application {
	defer opts.Profiler.Scope("Application.New")()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	a := &Application{log: log, prof: opts.Profiler, plat: opts.Platform}

	if a.plat == nil {
		log.Error("platform init failed", zap.Error(errNoPlatform))
		a.status = Failure
		return a
	}

	subs, err := acquireSubsystems(a.plat, requiredSubsystems)
	if err != nil {
		log.Error("platform init failed", zap.Error(err))
		a.status = Failure
		return a
	}
	a.subs = subs

	// Context attributes are negotiated when a context is created, so they
	// go in before the window.
	a.plat.SetContextAttributes(platform.ContextAttributes{
		ForwardCompatible: true,
		CoreProfile:       true,
		Major:             4,
		Minor:             1,
	})
	a.plat.SetHint(platform.HintIMEShowUI, "1")

	settings := window.DefaultSettings(title)
	if opts.Width > 0 {
		settings.Width = opts.Width
	}
	if opts.Height > 0 {
		settings.Height = opts.Height
	}
	wopts := opts.Window
	if wopts.Logger == nil {
		wopts.Logger = log.Named("window")
	}
	if wopts.Profiler == nil {
		wopts.Profiler = opts.Profiler
	}

	a.window = window.New(a.plat, settings, wopts)
	if !a.window.Renderable() {
		log.Error("main window is not renderable", zap.Error(a.window.Err()))
		a.status = Failure
		return a
	}

	a.running = true
	return a
}

// Run drives the main loop until Stop and returns the exit status. Each
// iteration drains the event queue and then renders one frame. When New
// failed Run returns Failure immediately.
func (a *Application) Run() ExitStatus {
	if a.status == Failure {
		return a.status
	}
	a.log.Info("main loop started")
	for a.running {
		end := a.prof.Scope("MainLoop")
		a.pollEvents()
		a.window.Update()
		end()
	}
	a.log.Info("main loop stopped", zap.Stringer("status", a.status))
	return a.status
}

// Stop ends the loop after the current iteration. It may be called from
// event handling and more than once.
func (a *Application) Stop() {
	a.running = false
}

// Running reports whether the loop will run another iteration.
func (a *Application) Running() bool { return a.running }

// Status returns the exit status recorded so far.
func (a *Application) Status() ExitStatus { return a.status }

// Window returns the main window, or nil when platform init failed.
func (a *Application) Window() *window.Window { return a.window }

// pollEvents drains the event queue. A quit, or a close request for the
// main window, stops the loop and leaves later events queued.
func (a *Application) pollEvents() {
	defer a.prof.Scope("EventPolling")()

	for {
		ev, ok := a.plat.PollEvent()
		if !ok {
			return
		}
		if ce := a.log.Check(zap.DebugLevel, "event"); ce != nil {
			ce.Write(zap.Stringer("event", ev))
		}

		a.window.ProcessInput(ev)

		switch ev.Type {
		case platform.EventQuit:
			a.Stop()
			return
		case platform.EventWindow:
			if ev.WindowID != a.window.ID() {
				continue
			}
			if ev.Window == platform.WindowCloseRequested {
				a.Stop()
				return
			}
			a.window.OnEvent(ev)
		}
	}
}

// Close tears down the window, then the platform subsystems, and writes the
// trace when profiling. Calls after the first do nothing.
func (a *Application) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.running = false

	if a.window != nil {
		a.window.Close()
	}
	a.subs.release()

	if err := a.prof.Flush(); err != nil {
		return fmt.Errorf("flush trace: %w", err)
	}
	return nil
}

// Package app is the lifecycle and main loop of the dockyard shell.
//
// # Overview
//
// An Application brings up the platform subsystems, owns the single main
// window and pumps events until something asks it to stop:
//
//	┌──────────────┐
//	│   New()      │ Bring everything up
//	└──────┬───────┘
//	       │
//	       ├─────> platform.Init()          video, timer, input
//	       ├─────> SetContextAttributes()   before any window exists
//	       ├─────> SetHint(ime_show_ui)
//	       └─────> window.New()             DPI-aware size, context, UI
//
//	Main loop (Run):
//	┌─────────────────────────────────────────┐
//	│ while running                           │
//	│  ├─> pollEvents()   drain the queue     │
//	│  └─> window.Update() one frame + swap   │
//	└─────────────────────────────────────────┘
//
// # Event Handling
//
// pollEvents drains every queued event in one pass. Each event first goes
// to the UI layer so its input state stays current. A quit event, or a close
// request for the main window, stops the loop at once and leaves the rest of
// the queue untouched. Other window events for the main window go to
// Window.OnEvent; events for any other window are ignored.
//
// Stop only clears the running flag. The loop checks it before the next
// iteration, so the frame in progress always completes. Window.OnClose never
// stops the loop itself: it queues a quit event that the next poll picks up.
//
// # Error Handling
//
// Nothing in New returns an error. When the platform cannot be initialized
// the error is logged, the exit status becomes Failure, the subsystems are
// released and no window is created. A window that ends up without a
// rendering context also sets Failure. Run returns Failure immediately in
// both cases, without polling or drawing.
//
// # Teardown
//
// Close destroys the window, then releases the subsystems, then writes the
// trace file when profiling is enabled. It is safe to call more than once.
//
// # Usage Example
//
//	a := app.New("Dockyard", app.Options{Platform: plat, Logger: logger})
//	status := a.Run()
//	if err := a.Close(); err != nil {
//		logger.Warn("teardown", zap.Error(err))
//	}
//	os.Exit(int(status))
package app

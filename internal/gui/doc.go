// Package gui is the immediate-mode UI layer drawn on top of a platform
// window.
//
// # Frame protocol
//
// Every frame the caller rebuilds the whole UI:
//
//	ctx.NewFrame()
//	ctx.DockSpaceOverViewport()
//	if ctx.BeginMainMenuBar() {
//		if ctx.BeginMenu("File") {
//			if ctx.MenuItem("Exit", "ctrl+c", nil) {
//				// ...
//			}
//			ctx.EndMenu()
//		}
//		ctx.EndMainMenuBar()
//	}
//	if ctx.Begin("Some Panel", &open) {
//		ctx.Text("Hello World")
//	}
//	ctx.End()
//	ctx.Render()
//	ctx.RenderDrawData(ctx.DrawData())
//
// Widgets return whether they were activated this frame. Input queued with
// ProcessEvent is applied at NewFrame and hit-tested against the layout of
// the previous frame, so a click lands on what the user actually saw.
//
// # Backends
//
// InitPlatform binds the platform window the layer reads its display size
// and input from; InitRenderer binds the rendering context draw data is
// submitted to. Draw data is a lipgloss-styled frame sized to the display.
//
// # Keyboard navigation
//
// With ConfigNavEnableKeyboard set, f10 opens the menu bar, alt+<initial>
// opens a menu, arrows (or h/j/k/l) move, enter activates and esc closes.
// ctrl+t cycles the theme regardless of the flag.
//
// # Settings
//
// The theme and collapsed panels are loaded from IO.IniFilename at the
// first frame and saved at Shutdown when they changed.
package gui

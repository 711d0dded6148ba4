// Package window owns the main platform window of the dockyard shell, its
// rendering context and the UI layer drawn into it.
//
// # Construction
//
// New scales the requested size by the primary display's content scale
// (DPIAwareSize), creates a resizable, high-density window, gives it a
// rendering context, centers it and turns on vsync. It then sets up the UI
// layer: keyboard navigation, docking and viewports are enabled, the default
// font is loaded at 18px times the display scale and FontGlobalScale is set
// to the inverse of that scale so text keeps its logical size.
//
// Construction never returns an error. A step that fails is logged and the
// window is left not renderable; Renderable and Err report why.
//
// # State
//
// A Window tracks whether it is minimized:
//
//	          OnMinimize / minimized event
//	 ┌────────┐ ───────────────────────────> ┌───────────┐
//	 │ Shown  │                              │ Minimized │
//	 └────────┘ <─────────────────────────── └───────────┘
//	               OnShown / shown event
//
// OnEvent maps window events onto these transitions. A close request calls
// OnClose, which queues a quit event instead of stopping anything directly.
// Every other event subtype is ignored.
//
// # Frames
//
// Update draws one frame. While minimized it skips the layout (dock space,
// menu bar, panels and the draw hook) but still clears, renders and swaps,
// so the swap interval keeps pacing the loop. With viewports enabled it
// renders the secondary viewports and then restores whichever context was
// current before them, ahead of the final swap.
package window

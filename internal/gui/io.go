package gui

import "image"

// ConfigFlags toggle optional behavior of the UI layer.
type ConfigFlags uint32

const (
	// ConfigNavEnableKeyboard enables menu navigation from the keyboard.
	ConfigNavEnableKeyboard ConfigFlags = 1 << iota
	// ConfigDockingEnable lets panels dock into the dock space.
	ConfigDockingEnable
	// ConfigViewportsEnable lets the layer spawn extra platform windows.
	ConfigViewportsEnable
)

// Has reports whether all bits in f are set.
func (c ConfigFlags) Has(f ConfigFlags) bool {
	return c&f == f
}

// IO is the configuration and per-frame input/output block of a Context.
type IO struct {
	ConfigFlags ConfigFlags

	// ConfigDockingTransparentPayload draws panels docked into the dock
	// space without their own background, so the dock space shows through.
	ConfigDockingTransparentPayload bool

	// IniFilename is where layout settings are loaded from and saved to.
	// Empty disables persistence.
	IniFilename string

	// FontGlobalScale multiplies FontDefault's size wherever text is
	// measured (FontSize, CalcTextSize).
	FontGlobalScale float32

	Fonts       *FontAtlas
	FontDefault *Font

	// DisplaySize is refreshed from the platform window at NewFrame.
	DisplaySize image.Point

	// Framerate is averaged over recent NewFrame intervals.
	Framerate float32
}

func defaultIO() IO {
	return IO{
		FontGlobalScale: 1,
		Fonts:           &FontAtlas{},
	}
}

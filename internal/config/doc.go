// Package config loads the dockyard configuration file.
//
// # Configuration Discovery
//
// Load reads the given path, or ~/.config/dockyard/config.toml when the path
// is empty. A missing file is not an error: the defaults from Default are
// returned so the shell runs without any setup.
//
// # TOML Format
//
//	title = "Dockyard"
//	width = 1280          # logical size, scaled by the display content scale
//	height = 720
//	display_scale = 0     # 0 asks the platform (GDK_SCALE on terminals)
//	refresh_rate = 60     # frames per second for a swap interval of 1
//	log_level = "info"    # debug, info, warn, error
//	log_path = "~/.local/state/dockyard/dockyard.log"
//	resource_dir = ""     # defaults to <exe dir>/assets
//	font = "Manrope.ttf"  # looked up under <resource_dir>/fonts
//	trace_path = ""       # Chrome trace output; empty disables profiling
//	clear_color = "#1e1f29"
//
// Every field is optional. String values are trimmed, empty strings keep
// the default and paths get tilde expansion.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors and values
// rejected by Validate. Command-line flags are applied by the caller on top
// of the loaded Config and should be checked with Validate again.
package config

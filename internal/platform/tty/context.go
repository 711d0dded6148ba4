package tty

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Context composes a frame for its window: Clear paints the clear color over
// the viewport and Draw places a frame on top of it.
type Context struct {
	win          *Window
	swapInterval int
	width        int
	height       int
	bg           color.NRGBA
	canvas       string
	destroyed    bool
}

func (c *Context) SetSwapInterval(frames int) error {
	if frames < 0 {
		return errors.New("tty: adaptive vsync is not supported")
	}
	c.swapInterval = frames
	return nil
}

func (c *Context) Viewport(width, height int) {
	c.width, c.height = width, height
}

func (c *Context) ClearColor(col color.NRGBA) {
	c.bg = col
}

func (c *Context) Clear() {
	c.canvas = c.place("")
}

func (c *Context) Draw(frame string) {
	c.canvas = c.place(frame)
}

func (c *Context) Destroy() {
	c.destroyed = true
	c.canvas = ""
}

// Frame returns the composed frame.
func (c *Context) Frame() string {
	return c.canvas
}

func (c *Context) place(frame string) string {
	if c.width <= 0 || c.height <= 0 {
		return frame
	}
	bg := lipgloss.Color(hexColor(c.bg))
	return lipgloss.Place(c.width, c.height, lipgloss.Left, lipgloss.Top, frame,
		lipgloss.WithWhitespaceBackground(bg))
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

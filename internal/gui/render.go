package gui

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/five82/dockyard/internal/platform"
)

// DrawData is the finalized output of one frame.
type DrawData struct {
	Valid       bool
	DisplaySize image.Point
	Frame       string
	Panels      int
	FontSize    float32
}

// Viewport is a platform window the layer draws into. The main viewport is
// the window passed to InitPlatform.
type Viewport struct {
	ID      uint32
	Window  platform.Window
	Context platform.Context
	Main    bool
	frame   string
}

const closeButton = "[x]"

// Render ends the frame and builds its draw data.
func (c *Context) Render() {
	if !c.inFrame {
		c.log.Warn("gui: Render called without NewFrame")
		return
	}
	c.inFrame = false
	c.frameCount++

	size := c.io.DisplaySize
	next := newFrameLayout()
	styles := c.theme.Styles()
	if c.dockspace && c.io.ConfigDockingTransparentPayload {
		styles = styles.docked(c.theme)
	}

	var rows []string
	top := 0
	if c.menuBar != nil && size.Y > 0 {
		rows = append(rows, c.renderMenuBar(styles, size.X, &next))
		top = 1
	}

	bodyH := size.Y - top
	if bodyH > 0 && (c.dockspace || len(c.panels) > 0) {
		rows = append(rows, c.renderDock(styles, size.X, bodyH, top, &next))
	}

	frame := strings.Join(rows, "\n")
	if c.openMenu != "" && c.menuBar != nil {
		frame = c.overlayMenu(frame, styles, &next)
	}

	c.prev = next
	c.drawData = DrawData{
		Valid:       true,
		DisplaySize: size,
		Frame:       frame,
		Panels:      len(c.panels),
		FontSize:    c.FontSize(),
	}
}

// DrawData returns the draw data built by the last Render.
func (c *Context) DrawData() *DrawData {
	return &c.drawData
}

// RenderDrawData submits draw data to the renderer backend.
func (c *Context) RenderDrawData(dd *DrawData) {
	if c.target == nil || dd == nil || !dd.Valid || dd.Frame == "" {
		return
	}
	c.target.Draw(dd.Frame)
}

// Viewports returns the platform windows the layer renders into.
func (c *Context) Viewports() []*Viewport {
	return c.viewports
}

// UpdatePlatformWindows synchronizes secondary viewports with the panels
// that live outside the main window. Both backends dock every panel into
// the main window, so the list only ever holds the main viewport; secondary
// viewports are pruned when their window is gone.
func (c *Context) UpdatePlatformWindows() {
	if !c.io.ConfigFlags.Has(ConfigViewportsEnable) {
		return
	}
	kept := c.viewports[:0]
	for _, vp := range c.viewports {
		if vp.Main || vp.Window != nil {
			kept = append(kept, vp)
		}
	}
	c.viewports = kept
}

// RenderPlatformWindowsDefault draws and presents every secondary viewport.
// It changes the current context; callers restore their own afterward.
func (c *Context) RenderPlatformWindowsDefault() {
	if c.plat == nil {
		return
	}
	for _, vp := range c.viewports {
		if vp.Main || vp.Window == nil || vp.Context == nil {
			continue
		}
		if err := c.plat.MakeCurrent(vp.Window, vp.Context); err != nil {
			c.log.Warn("gui: viewport make current failed", zap.Uint32("viewport", vp.ID), zap.Error(err))
			continue
		}
		vp.Context.Clear()
		vp.Context.Draw(vp.frame)
		if err := vp.Window.Swap(); err != nil {
			c.log.Warn("gui: viewport swap failed", zap.Uint32("viewport", vp.ID), zap.Error(err))
		}
	}
}

func (c *Context) renderMenuBar(styles Styles, width int, next *frameLayout) string {
	var b strings.Builder
	x := 0
	for _, m := range c.menuBar.menus {
		text := " " + m.label + " "
		w := ansi.StringWidth(text)
		style := styles.MenuTitle
		if c.openMenu == m.label {
			style = styles.MenuOpen
		}
		b.WriteString(style.Render(text))
		next.menus = append(next.menus, m.label)
		next.menuRects[m.label] = rect{x: x, y: 0, w: w, h: 1}
		x += w
	}
	bar := ansi.Truncate(b.String(), width, "")
	return styles.MenuBar.Width(width).MaxHeight(1).Render(bar)
}

func (c *Context) renderDock(styles Styles, width, height, top int, next *frameLayout) string {
	whitespace := lipgloss.WithWhitespaceBackground(lipgloss.Color(c.theme.Background))
	if len(c.panels) == 0 {
		hint := styles.FaintText.Render("dock space")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, hint, whitespace)
	}

	n := len(c.panels)
	boxes := make([]string, 0, n)
	x := 0
	for i, p := range c.panels {
		w := width / n
		if i == n-1 {
			w = width - x
		}
		if w < 4 {
			break
		}
		boxes = append(boxes, c.renderPanel(styles, p, x, top, w, height, next))
		x += w
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, body, whitespace)
}

// renderPanel draws a bordered panel of outer size w×h at (x, y) and records
// its title and close-button hit boxes.
func (c *Context) renderPanel(styles Styles, p *panel, x, y, w, h int, next *frameLayout) string {
	innerW := w - 2
	innerH := h - 2
	if p.collapsed {
		innerH = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	titleW := innerW
	if p.closable {
		titleW -= len(closeButton)
		next.closes[p.title] = rect{x: x + 1 + titleW, y: y + 1, w: len(closeButton), h: 1}
	}
	next.titles[p.title] = rect{x: x + 1, y: y + 1, w: titleW, h: 1}

	title := styles.PanelTitle.Width(titleW).Render(ansi.Truncate(p.title, titleW, "…"))
	if p.closable {
		title += styles.Close.Render(closeButton)
	}

	lines := []string{title}
	for _, line := range p.lines {
		if len(lines) >= innerH {
			break
		}
		if line == panelSeparator {
			lines = append(lines, styles.MutedText.Render(strings.Repeat("─", innerW)))
			continue
		}
		lines = append(lines, styles.Text.Width(innerW).Render(ansi.Truncate(line, innerW, "…")))
	}

	return styles.Panel.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}

// overlayMenu draws the open menu's dropdown over frame, directly under its
// title on the menu bar.
func (c *Context) overlayMenu(frame string, styles Styles, next *frameLayout) string {
	var open *menu
	for _, m := range c.menuBar.menus {
		if m.label == c.openMenu {
			open = m
		}
	}
	title, ok := next.menuRects[c.openMenu]
	if open == nil || !ok {
		return frame
	}

	labelW, shortcutW := 0, 0
	for _, it := range open.items {
		labelW = max(labelW, ansi.StringWidth(it.label))
		shortcutW = max(shortcutW, ansi.StringWidth(it.shortcut))
	}
	itemW := 4 + labelW + 2 + shortcutW + 1

	lines := strings.Split(frame, "\n")
	rects := make([]rect, len(open.items))
	for i, it := range open.items {
		row := title.y + 1 + i
		if row >= len(lines) {
			break
		}
		var text string
		if it.separator {
			text = styles.Shortcut.Render(strings.Repeat("─", itemW))
		} else {
			mark := "    "
			if it.checkable && it.checked {
				mark = " [x]"
			} else if it.checkable {
				mark = " [ ]"
			}
			style := styles.MenuItem
			if i == c.hot {
				style = styles.MenuHot
			}
			label := style.Width(4 + labelW + 2).Render(mark + " " + it.label)
			text = label + styles.Shortcut.Width(shortcutW+1).Render(it.shortcut)
			rects[i] = rect{x: title.x, y: row, w: itemW, h: 1}
		}
		lines[row] = splice(lines[row], text, title.x)
	}
	next.items[c.openMenu] = rects
	return strings.Join(lines, "\n")
}

// splice writes overlay over line starting at column x, keeping whatever
// lies to the right of it.
func splice(line, overlay string, x int) string {
	w := ansi.StringWidth(overlay)
	left := ansi.Truncate(line, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	return left + overlay + ansi.TruncateLeft(line, x+w, "")
}

package gui

import (
	"fmt"
	"image"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/five82/dockyard/internal/platform"
)

type menuBar struct {
	menus []*menu
}

type menu struct {
	label string
	items []menuItem
}

type menuItem struct {
	label     string
	shortcut  string
	checkable bool
	checked   bool
	separator bool
}

type panel struct {
	title     string
	closable  bool
	collapsed bool
	lines     []string
}

func itemID(menu string, idx int) string {
	return fmt.Sprintf("%s/%d", menu, idx)
}

func altKey(label string) platform.Key {
	r, _ := utf8.DecodeRuneInString(label)
	return platform.Key("alt+" + string(unicode.ToLower(r)))
}

func (c *Context) clicked(r rect) bool {
	for _, pt := range c.input.clicks {
		if r.contains(pt) {
			return true
		}
	}
	return false
}

// DockSpaceOverViewport submits a dock space covering the display below the
// menu bar. Panels submitted this frame are docked into it.
func (c *Context) DockSpaceOverViewport() {
	if !c.inFrame {
		return
	}
	c.dockspace = c.io.ConfigFlags.Has(ConfigDockingEnable)
}

// BeginMainMenuBar starts the menu bar along the top of the display.
func (c *Context) BeginMainMenuBar() bool {
	if !c.inFrame {
		return false
	}
	if c.menuBar == nil {
		c.menuBar = &menuBar{}
	}
	return true
}

// EndMainMenuBar closes the menu bar started by BeginMainMenuBar.
func (c *Context) EndMainMenuBar() {
	c.curMenu = nil
}

// BeginMenu submits a menu on the bar. It returns true while the menu is
// open; the caller then submits items and calls EndMenu.
func (c *Context) BeginMenu(label string) bool {
	if c.menuBar == nil {
		return false
	}
	m := &menu{label: label}
	c.menuBar.menus = append(c.menuBar.menus, m)

	if r, ok := c.prev.menuRects[label]; ok && c.clicked(r) {
		if c.openMenu == label {
			c.openMenu = ""
		} else {
			c.openMenu, c.hot = label, 0
		}
	}
	if c.openMenu != label {
		return false
	}
	c.curMenu = m
	return true
}

// EndMenu closes a menu opened by BeginMenu.
func (c *Context) EndMenu() {
	c.curMenu = nil
}

// MenuItem submits an item in the open menu and reports whether it was
// activated this frame. When selected is non-nil the item shows a check
// mark and activation toggles *selected.
func (c *Context) MenuItem(label, shortcut string, selected *bool) bool {
	m := c.curMenu
	if m == nil {
		return false
	}
	idx := len(m.items)
	item := menuItem{label: label, shortcut: shortcut, checkable: selected != nil}
	if selected != nil {
		item.checked = *selected
	}

	activated := c.input.activate == itemID(m.label, idx)
	if rects := c.prev.items[m.label]; idx < len(rects) && c.clicked(rects[idx]) {
		activated = true
	}
	if activated {
		if selected != nil {
			*selected = !*selected
			item.checked = *selected
		}
		c.openMenu = ""
		c.input.activate = ""
	}
	m.items = append(m.items, item)
	return activated
}

// Separator draws a divider in the open menu or the current panel.
func (c *Context) Separator() {
	switch {
	case c.curMenu != nil:
		c.curMenu.items = append(c.curMenu.items, menuItem{separator: true})
	case c.curPanel != nil && !c.curPanel.collapsed:
		c.curPanel.lines = append(c.curPanel.lines, panelSeparator)
	}
}

// Begin starts a panel. When open is non-nil the panel gets a close button
// that sets *open to false. It returns false when the panel is collapsed
// or was closed; End must be called either way.
func (c *Context) Begin(title string, open *bool) bool {
	if !c.inFrame {
		return false
	}
	if open != nil && !*open {
		return false
	}
	if r, ok := c.prev.closes[title]; ok && open != nil && c.clicked(r) {
		*open = false
		return false
	}
	if r, ok := c.prev.titles[title]; ok && c.clicked(r) {
		c.layout.SetCollapsed(title, !c.layout.IsCollapsed(title))
		c.layoutDirty = true
	}

	p := &panel{
		title:     title,
		closable:  open != nil,
		collapsed: c.layout.IsCollapsed(title),
	}
	c.panels = append(c.panels, p)
	c.curPanel = p
	return !p.collapsed
}

// End closes the panel started by Begin.
func (c *Context) End() {
	c.curPanel = nil
}

// Text adds a formatted line to the current panel.
func (c *Context) Text(format string, args ...any) {
	p := c.curPanel
	if p == nil || p.collapsed {
		return
	}
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	p.lines = append(p.lines, strings.Split(text, "\n")...)
}

// panelSeparator marks a divider line in panel content.
const panelSeparator = "\x00"

type rect struct {
	x, y, w, h int
}

func (r rect) contains(pt image.Point) bool {
	return pt.X >= r.x && pt.X < r.x+r.w && pt.Y >= r.y && pt.Y < r.y+r.h
}

// frameLayout records where interactive elements landed in the last
// rendered frame.
type frameLayout struct {
	menus     []string
	menuRects map[string]rect
	items     map[string][]rect
	closes    map[string]rect
	titles    map[string]rect
}

func newFrameLayout() frameLayout {
	return frameLayout{
		menuRects: make(map[string]rect),
		items:     make(map[string][]rect),
		closes:    make(map[string]rect),
		titles:    make(map[string]rect),
	}
}

func (l frameLayout) itemCount(menu string) int {
	return len(l.items[menu])
}

// step moves from item idx by delta, wrapping around and skipping
// separators, which are recorded with zero width.
func (l frameLayout) step(menu string, idx, delta int) int {
	rects := l.items[menu]
	n := len(rects)
	for i := 1; i <= n; i++ {
		next := ((idx+delta*i)%n + n) % n
		if rects[next].w > 0 {
			return next
		}
	}
	return idx
}

func (l frameLayout) adjacentMenu(current string, delta int) string {
	n := len(l.menus)
	if n == 0 {
		return ""
	}
	for i, label := range l.menus {
		if label == current {
			return l.menus[(i+delta+n)%n]
		}
	}
	return l.menus[0]
}

func (l frameLayout) insideMenus(pt image.Point) bool {
	for _, r := range l.menuRects {
		if r.contains(pt) {
			return true
		}
	}
	for _, rs := range l.items {
		for _, r := range rs {
			if r.contains(pt) {
				return true
			}
		}
	}
	return false
}

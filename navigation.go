package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleNavigation consumes cursor and pan keys shared by most modes.
// Returns false when the key is not a navigation key.
func (m *model) handleNavigation(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Move):
		dx, dy := keyDelta(msg.String())
		m.moveCursor(dx, dy)
	case key.Matches(msg, m.keys.Pan):
		dx, dy := keyDelta(msg.String())
		m.pan(dx*4, dy*2)
	default:
		return false
	}
	return true
}

func keyDelta(key string) (int, int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

// moveCursor moves the screen cursor, scrolling the viewport when it
// presses against an edge.
func (m *model) moveCursor(dx, dy int) {
	buf := m.buffer()
	if buf == nil {
		return
	}
	w, h := m.canvasSize()

	m.cursorX += dx
	m.cursorY += dy
	if m.cursorX < 0 {
		buf.panX += m.cursorX
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		buf.panY += m.cursorY
		m.cursorY = 0
	}
	if w > 0 && m.cursorX >= w {
		buf.panX += m.cursorX - (w - 1)
		m.cursorX = w - 1
	}
	if h > 0 && m.cursorY >= h {
		buf.panY += m.cursorY - (h - 1)
		m.cursorY = h - 1
	}
}

func (m *model) pan(dx, dy int) {
	if buf := m.buffer(); buf != nil {
		buf.panX += dx
		buf.panY += dy
	}
}

// worldCursor maps the screen cursor into board coordinates.
func (m *model) worldCursor() (int, int) {
	buf := m.buffer()
	if buf == nil {
		return m.cursorX, m.cursorY
	}
	return m.cursorX + buf.panX, m.cursorY + buf.panY
}

// centerOn scrolls the viewport so the given board point sits mid-screen,
// with the cursor on it.
func (m *model) centerOn(x, y int) {
	buf := m.buffer()
	if buf == nil {
		return
	}
	w, h := m.canvasSize()
	buf.panX = x - w/2
	buf.panY = y - h/2
	m.cursorX = x - buf.panX
	m.cursorY = y - buf.panY
	m.clampCursor()
}

func (m *model) clampCursor() {
	w, h := m.canvasSize()
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if w > 0 && m.cursorX >= w {
		m.cursorX = w - 1
	}
	if h > 0 && m.cursorY >= h {
		m.cursorY = h - 1
	}
}

// canvasSize is the terminal area left for the board once the chrome
// rows are taken out.
func (m *model) canvasSize() (int, int) {
	h := m.height - chromeRows
	if h < 1 {
		h = 1
	}
	return m.width, h
}

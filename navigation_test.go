package main

import "testing"

func navModel() *model {
	return &model{
		keys:   keys,
		width:  80,
		height: 24,
		buffers: []*pageBuffer{
			{name: "scratch", board: NewBoard("scratch"), history: &History{}},
		},
	}
}

func TestCanvasSizeReservesChromeRows(t *testing.T) {
	m := navModel()
	w, h := m.canvasSize()
	if w != 80 || h != 24-chromeRows {
		t.Errorf("canvas = %dx%d, want 80x%d", w, h, 24-chromeRows)
	}

	m.height = 2
	if _, h := m.canvasSize(); h != 1 {
		t.Errorf("tiny terminal canvas height = %d, want 1", h)
	}
}

func TestMoveCursorWithinCanvas(t *testing.T) {
	m := navModel()
	m.cursorX, m.cursorY = 5, 5

	m.moveCursor(1, -2)
	if m.cursorX != 6 || m.cursorY != 3 {
		t.Errorf("cursor = (%d,%d), want (6,3)", m.cursorX, m.cursorY)
	}
	if buf := m.buffer(); buf.panX != 0 || buf.panY != 0 {
		t.Errorf("pan moved to (%d,%d) without an edge", buf.panX, buf.panY)
	}
}

func TestMoveCursorScrollsAtEdges(t *testing.T) {
	m := navModel()

	m.moveCursor(-3, 0)
	if m.cursorX != 0 {
		t.Errorf("cursor x = %d, want pinned at 0", m.cursorX)
	}
	if got := m.buffer().panX; got != -3 {
		t.Errorf("pan x = %d, want -3", got)
	}

	w, h := m.canvasSize()
	m.cursorX, m.cursorY = w-1, h-1
	m.moveCursor(2, 1)
	if m.cursorX != w-1 || m.cursorY != h-1 {
		t.Errorf("cursor = (%d,%d), want pinned at the far corner", m.cursorX, m.cursorY)
	}
	if buf := m.buffer(); buf.panX != -3+2 || buf.panY != 1 {
		t.Errorf("pan = (%d,%d), want (-1,1)", buf.panX, buf.panY)
	}
}

func TestWorldCursorAddsPan(t *testing.T) {
	m := navModel()
	m.buffer().panX, m.buffer().panY = 10, 5
	m.cursorX, m.cursorY = 3, 2

	x, y := m.worldCursor()
	if x != 13 || y != 7 {
		t.Errorf("world cursor = (%d,%d), want (13,7)", x, y)
	}
}

func TestCenterOnPutsCursorOnPoint(t *testing.T) {
	m := navModel()
	m.centerOn(100, 50)

	x, y := m.worldCursor()
	if x != 100 || y != 50 {
		t.Errorf("world cursor = (%d,%d), want (100,50)", x, y)
	}
	w, h := m.canvasSize()
	if m.cursorX != w/2 || m.cursorY != h/2 {
		t.Errorf("screen cursor = (%d,%d), want mid-screen", m.cursorX, m.cursorY)
	}
}

func TestClampCursorAfterResize(t *testing.T) {
	m := navModel()
	m.cursorX, m.cursorY = 200, 200
	m.clampCursor()

	w, h := m.canvasSize()
	if m.cursorX != w-1 || m.cursorY != h-1 {
		t.Errorf("cursor = (%d,%d), want clamped to (%d,%d)", m.cursorX, m.cursorY, w-1, h-1)
	}
}

func TestHandleNavigationKeys(t *testing.T) {
	m := navModel()
	m.cursorX, m.cursorY = 10, 10

	if !m.handleNavigation(chipKey("h")) {
		t.Fatal("h should be consumed as navigation")
	}
	if m.cursorX != 9 {
		t.Errorf("cursor x = %d after h, want 9", m.cursorX)
	}

	if !m.handleNavigation(chipKey("J")) {
		t.Fatal("J should be consumed as pan")
	}
	if got := m.buffer().panY; got != 2 {
		t.Errorf("pan y = %d after J, want 2", got)
	}

	if m.handleNavigation(chipKey("x")) {
		t.Error("x is not a navigation key")
	}
}

func TestKeyDeltaArrows(t *testing.T) {
	cases := map[string][2]int{
		"h": {-1, 0}, "left": {-1, 0}, "shift+left": {-1, 0},
		"l": {1, 0}, "right": {1, 0},
		"k": {0, -1}, "up": {0, -1},
		"j": {0, 1}, "down": {0, 1},
		"x": {0, 0},
	}
	for in, want := range cases {
		dx, dy := keyDelta(in)
		if dx != want[0] || dy != want[1] {
			t.Errorf("keyDelta(%q) = (%d,%d), want (%d,%d)", in, dx, dy, want[0], want[1])
		}
	}
}

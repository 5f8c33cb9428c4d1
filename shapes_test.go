package main

import "testing"

func TestNewShapeDefaults(t *testing.T) {
	box := NewShape(ShapeBox, 3, 4)
	if box.ID == "" {
		t.Error("expected generated id")
	}
	if box.X != 3 || box.Y != 4 {
		t.Errorf("position = (%d,%d), want (3,4)", box.X, box.Y)
	}
	if box.Width != 12 || box.Height != 5 {
		t.Errorf("box size = %dx%d, want 12x5", box.Width, box.Height)
	}
	if box.Color != defaultColor || box.Stroke != StrokeSolid || box.Scale != ScaleMD {
		t.Errorf("defaults = %q/%q/%q", box.Color, box.Stroke, box.Scale)
	}

	text := NewShape(ShapeText, 0, 0)
	if !text.AutoResize {
		t.Error("text shapes should autoresize by default")
	}

	line := NewShape(ShapeLine, 0, 0)
	if line.Width != 0 || line.Height != 0 {
		t.Errorf("line size = %dx%d, want 0x0", line.Width, line.Height)
	}
}

func TestBoundsForPointShapes(t *testing.T) {
	p := NewShape(ShapePencil, 0, 0)
	p.Points = []Point{{X: 5, Y: 2}, {X: 1, Y: 7}, {X: 9, Y: 4}}

	got := p.Bounds()
	want := Rect{X: 1, Y: 2, W: 9, H: 6}
	if got != want {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}

	empty := NewShape(ShapeLine, 8, 9)
	if got := empty.Bounds(); got.W != 1 || got.H != 1 || got.X != 8 || got.Y != 9 {
		t.Errorf("empty line bounds = %+v", got)
	}
}

func TestTranslateMovesPoints(t *testing.T) {
	l := NewShape(ShapeLine, 0, 0)
	l.Points = []Point{{X: 1, Y: 1}, {X: 5, Y: 5}}
	l.Translate(2, -1)

	if l.Points[0] != (Point{X: 3, Y: 0}) || l.Points[1] != (Point{X: 7, Y: 4}) {
		t.Errorf("points after translate = %+v", l.Points)
	}
}

func TestResetBoundsSizesTextToContent(t *testing.T) {
	s := NewShape(ShapeText, 0, 0)
	s.Text = "hello\nwide line here"
	s.ResetBounds()
	if s.Width != 14 || s.Height != 2 {
		t.Errorf("text bounds = %dx%d, want 14x2", s.Width, s.Height)
	}

	s.Text = ""
	s.ResetBounds()
	if s.Width != 1 || s.Height != 1 {
		t.Errorf("empty text bounds = %dx%d, want 1x1", s.Width, s.Height)
	}
}

func TestResetBoundsLeavesRoomForHTMLChrome(t *testing.T) {
	s := NewShape(ShapeHTML, 0, 0)
	s.Text = "snippet"
	s.ResetBounds()
	if s.Width != 11 || s.Height != 4 {
		t.Errorf("html bounds = %dx%d, want 11x4", s.Width, s.Height)
	}
}

func TestResetBoundsPortal(t *testing.T) {
	s := NewShape(ShapePortal, 0, 0)
	s.Page = "project notes"
	s.ResetBounds()
	if s.Width != 19 {
		t.Errorf("portal width = %d, want 19", s.Width)
	}
	if s.Height < 6 {
		t.Errorf("expanded portal height = %d, want >= 6", s.Height)
	}

	s.Collapsed = true
	s.ResetBounds()
	if s.Height != 3 {
		t.Errorf("collapsed portal height = %d, want 3", s.Height)
	}

	s.Page = ""
	s.ResetBounds()
	if s.Width != 14 {
		t.Errorf("unset portal width = %d, want the 14 minimum", s.Width)
	}
}

func TestResetBoundsAutoResizeBox(t *testing.T) {
	s := NewShape(ShapeBox, 0, 0)
	s.AutoResize = true
	s.Text = "a label"
	s.ResetBounds()
	if s.Width != 11 || s.Height != 3 {
		t.Errorf("autoresized box = %dx%d, want 11x3", s.Width, s.Height)
	}

	// Tiny content still respects the type minimum.
	s.Text = ""
	s.ResetBounds()
	if s.Width < 4 || s.Height < 3 {
		t.Errorf("box shrank below minimum: %dx%d", s.Width, s.Height)
	}
}

func TestSetCollapsedOnlyAffectsPortals(t *testing.T) {
	p := NewShape(ShapePortal, 0, 0)
	p.SetCollapsed(true)
	if !p.Collapsed || p.Height != 3 {
		t.Errorf("portal collapsed=%v height=%d", p.Collapsed, p.Height)
	}
	p.SetCollapsed(false)
	if p.Collapsed || p.Height < 6 {
		t.Errorf("portal expanded=%v height=%d", !p.Collapsed, p.Height)
	}

	b := NewShape(ShapeBox, 0, 0)
	b.SetCollapsed(true)
	if b.Collapsed {
		t.Error("collapse should not touch non-portals")
	}
}

func TestNextScaleClampsAtEnds(t *testing.T) {
	if got := nextScale(ScaleXS, -1); got != ScaleXS {
		t.Errorf("below xs = %q", got)
	}
	if got := nextScale(ScaleXXL, 1); got != ScaleXXL {
		t.Errorf("above xxl = %q", got)
	}
	if got := nextScale(ScaleMD, 1); got != ScaleLG {
		t.Errorf("md+1 = %q, want lg", got)
	}
	if got := nextScale(ScaleMD, -2); got != ScaleXS {
		t.Errorf("md-2 = %q, want xs", got)
	}
}

func TestCycleArrowsWalksAllStates(t *testing.T) {
	l := NewShape(ShapeLine, 0, 0)

	want := []string{"end", "start", "both", "none"}
	for _, label := range want {
		l.cycleArrows(1)
		if got := l.arrowLabel(); got != label {
			t.Fatalf("arrow label = %q, want %q", got, label)
		}
	}

	l.cycleArrows(-1)
	if got := l.arrowLabel(); got != "both" {
		t.Errorf("cycling back from none = %q, want both", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewShape(ShapePencil, 0, 0)
	s.Points = []Point{{X: 1, Y: 1}}
	c := s.Clone()

	c.Points[0].X = 99
	c.Text = "changed"
	if s.Points[0].X != 1 {
		t.Error("clone shares the points slice")
	}
	if s.Text != "" {
		t.Error("clone shares scalar state")
	}
	if c.ID != s.ID {
		t.Error("clone must keep the id for history replay")
	}
}

func TestMeasureText(t *testing.T) {
	if w, h := measureText(""); w != 0 || h != 0 {
		t.Errorf("empty = %dx%d", w, h)
	}
	if w, h := measureText("ab\nabcd\na"); w != 4 || h != 3 {
		t.Errorf("multiline = %dx%d, want 4x3", w, h)
	}
	if w, _ := measureText("héllo"); w != 5 {
		t.Errorf("rune width = %d, want 5", w)
	}
}

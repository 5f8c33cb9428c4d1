package main

import "testing"

func TestShapeAtPicksTopmost(t *testing.T) {
	b := NewBoard("test")
	bottom := NewShape(ShapeBox, 0, 0)
	top := NewShape(ShapeBox, 2, 1)
	b.Add(bottom)
	b.Add(top)

	if got := b.ShapeAt(3, 2); got != top {
		t.Error("overlap should resolve to the later shape")
	}
	if got := b.ShapeAt(0, 0); got != bottom {
		t.Error("uncovered cell should hit the bottom shape")
	}
	if got := b.ShapeAt(50, 50); got != nil {
		t.Errorf("empty cell returned %v", got)
	}
}

func TestShapesByIDKeepsOrderAndSkipsStale(t *testing.T) {
	b := NewBoard("test")
	s1 := NewShape(ShapeBox, 0, 0)
	s2 := NewShape(ShapeBox, 20, 0)
	b.Add(s1)
	b.Add(s2)

	got := b.ShapesByID([]string{s2.ID, "gone", s1.ID})
	if len(got) != 2 || got[0] != s2 || got[1] != s1 {
		t.Errorf("ShapesByID = %v", got)
	}
}

func TestRaiseAndLower(t *testing.T) {
	b := NewBoard("test")
	s1 := NewShape(ShapeBox, 0, 0)
	s2 := NewShape(ShapeBox, 0, 0)
	b.Add(s1)
	b.Add(s2)

	b.Raise(s1.ID)
	if b.Shapes[1] != s1 {
		t.Error("raise should move the shape up one slot")
	}
	b.Raise(s1.ID)
	if b.Shapes[1] != s1 {
		t.Error("raise at the top should be a no-op")
	}
	b.Lower(s1.ID)
	if b.Shapes[0] != s1 {
		t.Error("lower should move the shape down one slot")
	}
}

func TestShapesInUsesOverlap(t *testing.T) {
	b := NewBoard("test")
	in := NewShape(ShapeBox, 0, 0) // 12x5
	edge := NewShape(ShapeBox, 10, 4)
	out := NewShape(ShapeBox, 40, 40)
	b.Add(in)
	b.Add(edge)
	b.Add(out)

	got := b.ShapesIn(Rect{X: 0, Y: 0, W: 11, H: 5})
	if len(got) != 2 {
		t.Fatalf("ShapesIn = %d shapes, want 2", len(got))
	}
}

func TestBoardBoundsSpansAllShapes(t *testing.T) {
	b := NewBoard("test")
	if got := b.Bounds(); got != (Rect{}) {
		t.Errorf("empty board bounds = %+v", got)
	}

	b.Add(NewShape(ShapeBox, -5, -2))     // to (7,3)
	b.Add(NewShape(ShapeEllipse, 20, 10)) // 14x7, to (34,17)
	got := b.Bounds()
	want := Rect{X: -5, Y: -2, W: 39, H: 19}
	if got != want {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}
}

// ---- line binding ----

func boundLine(t *testing.T, b *Board, from, to Point) *Shape {
	t.Helper()
	l := NewShape(ShapeLine, 0, 0)
	l.Points = []Point{from, to}
	b.Add(l)
	b.AttachLine(l)
	return l
}

func TestAttachLineBindsAndSnapsToBorder(t *testing.T) {
	b := NewBoard("test")
	box := NewShape(ShapeBox, 0, 0) // 12x5
	b.Add(box)

	l := boundLine(t, b, Point{X: 5, Y: 2}, Point{X: 30, Y: 2})
	if l.BindStart != box.ID {
		t.Fatalf("bind start = %q, want box", l.BindStart)
	}
	if l.BindEnd != "" {
		t.Errorf("bind end = %q, want unbound", l.BindEnd)
	}
	if l.Points[0] != (Point{X: 11, Y: 2}) {
		t.Errorf("start snapped to %+v, want the right border at (11,2)", l.Points[0])
	}
	if l.Points[1] != (Point{X: 30, Y: 2}) {
		t.Errorf("free end moved to %+v", l.Points[1])
	}
}

func TestMoveShapeReroutesBoundLines(t *testing.T) {
	b := NewBoard("test")
	box := NewShape(ShapeBox, 0, 0)
	b.Add(box)
	l := boundLine(t, b, Point{X: 5, Y: 2}, Point{X: 30, Y: 2})

	b.MoveShape(box.ID, 0, 10)
	if box.Y != 10 {
		t.Fatalf("box y = %d, want 10", box.Y)
	}
	if l.Points[0].Y < 10 {
		t.Errorf("bound endpoint stayed at %+v after the box moved", l.Points[0])
	}
	if l.Points[1] != (Point{X: 30, Y: 2}) {
		t.Errorf("free endpoint moved to %+v", l.Points[1])
	}
}

func TestRemoveDetachesBindings(t *testing.T) {
	b := NewBoard("test")
	box := NewShape(ShapeBox, 0, 0)
	b.Add(box)
	l := boundLine(t, b, Point{X: 5, Y: 2}, Point{X: 30, Y: 2})

	if got := b.Remove(box.ID); got != box {
		t.Fatal("remove should return the shape")
	}
	if l.BindStart != "" {
		t.Errorf("bind start = %q after target removed", l.BindStart)
	}
	if b.Find(l.ID) == nil {
		t.Error("line itself should survive")
	}
}

func TestBoundLinesExcludesListedLines(t *testing.T) {
	b := NewBoard("test")
	box := NewShape(ShapeBox, 0, 0)
	b.Add(box)
	l := boundLine(t, b, Point{X: 5, Y: 2}, Point{X: 30, Y: 2})
	free := NewShape(ShapeLine, 0, 0)
	free.Points = []Point{{X: 50, Y: 50}, {X: 60, Y: 50}}
	b.Add(free)

	got := b.BoundLines([]string{box.ID})
	if len(got) != 1 || got[0] != l {
		t.Fatalf("BoundLines = %v, want just the bound line", got)
	}

	if got := b.BoundLines([]string{box.ID, l.ID}); len(got) != 0 {
		t.Errorf("listed line still reported: %v", got)
	}
}

func TestReplaceKeepsStackingSlot(t *testing.T) {
	b := NewBoard("test")
	s1 := NewShape(ShapeBox, 0, 0)
	s2 := NewShape(ShapeBox, 0, 0)
	b.Add(s1)
	b.Add(s2)

	edit := s1.Clone()
	edit.Color = "red"
	b.Replace(edit)

	if b.Shapes[0] != edit {
		t.Error("replace should keep the shape's slot")
	}
	if b.Find(s1.ID).Color != "red" {
		t.Error("replace should swap in the new state")
	}
}

func TestBorderPointPicksFacingEdge(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 4}

	if got := borderPoint(r, Point{X: 30, Y: 2}); got != (Point{X: 9, Y: 2}) {
		t.Errorf("east exit = %+v", got)
	}
	if got := borderPoint(r, Point{X: -20, Y: 1}); got != (Point{X: 0, Y: 1}) {
		t.Errorf("west exit = %+v", got)
	}
	if got := borderPoint(r, Point{X: 5, Y: 40}); got != (Point{X: 5, Y: 3}) {
		t.Errorf("south exit = %+v", got)
	}
	if got := borderPoint(r, Point{X: 5, Y: 2}); got.Y != 0 {
		t.Errorf("degenerate target should exit north, got %+v", got)
	}
}

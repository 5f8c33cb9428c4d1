package main

// Board is one page's worth of shapes. Slice order is z-order: later shapes
// draw on top and pick first.
type Board struct {
	Name   string
	Shapes []*Shape
}

func NewBoard(name string) *Board {
	return &Board{Name: name}
}

func (b *Board) Add(s *Shape) {
	b.Shapes = append(b.Shapes, s)
}

// Remove deletes a shape by ID and returns it. Lines bound to the removed
// shape keep their geometry but lose the binding.
func (b *Board) Remove(id string) *Shape {
	for i, s := range b.Shapes {
		if s.ID == id {
			b.Shapes = append(b.Shapes[:i], b.Shapes[i+1:]...)
			b.detachBindings(id)
			return s
		}
	}
	return nil
}

// Replace swaps in a shape by ID, keeping its z position.
func (b *Board) Replace(s *Shape) {
	for i, old := range b.Shapes {
		if old.ID == s.ID {
			b.Shapes[i] = s
			return
		}
	}
	b.Shapes = append(b.Shapes, s)
}

func (b *Board) Find(id string) *Shape {
	for _, s := range b.Shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ShapesByID resolves IDs to shapes preserving the given order and skipping
// stale IDs. Selections stay ordered this way.
func (b *Board) ShapesByID(ids []string) []*Shape {
	out := make([]*Shape, 0, len(ids))
	for _, id := range ids {
		if s := b.Find(id); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// ShapeAt returns the topmost shape covering a board cell.
func (b *Board) ShapeAt(x, y int) *Shape {
	for i := len(b.Shapes) - 1; i >= 0; i-- {
		if b.Shapes[i].Contains(x, y) {
			return b.Shapes[i]
		}
	}
	return nil
}

// ShapesIn returns every shape whose bounds intersect the rectangle, in z
// order.
func (b *Board) ShapesIn(r Rect) []*Shape {
	var out []*Shape
	for _, s := range b.Shapes {
		sb := s.Bounds()
		if sb.X < r.X+r.W && sb.X+sb.W > r.X && sb.Y < r.Y+r.H && sb.Y+sb.H > r.Y {
			out = append(out, s)
		}
	}
	return out
}

func (b *Board) Raise(id string) {
	for i, s := range b.Shapes {
		if s.ID == id && i < len(b.Shapes)-1 {
			b.Shapes[i], b.Shapes[i+1] = b.Shapes[i+1], b.Shapes[i]
			return
		}
	}
}

func (b *Board) Lower(id string) {
	for i, s := range b.Shapes {
		if s.ID == id && i > 0 {
			b.Shapes[i], b.Shapes[i-1] = b.Shapes[i-1], b.Shapes[i]
			return
		}
	}
}

// Bounds returns the rectangle enclosing every shape, for export sizing.
func (b *Board) Bounds() Rect {
	if len(b.Shapes) == 0 {
		return Rect{}
	}
	r := b.Shapes[0].Bounds()
	minX, minY := r.X, r.Y
	maxX, maxY := r.X+r.W, r.Y+r.H
	for _, s := range b.Shapes[1:] {
		sb := s.Bounds()
		if sb.X < minX {
			minX = sb.X
		}
		if sb.Y < minY {
			minY = sb.Y
		}
		if sb.X+sb.W > maxX {
			maxX = sb.X + sb.W
		}
		if sb.Y+sb.H > maxY {
			maxY = sb.Y + sb.H
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// MoveShape translates a shape and re-routes any line endpoints bound to
// it.
func (b *Board) MoveShape(id string, dx, dy int) {
	s := b.Find(id)
	if s == nil {
		return
	}
	s.Translate(dx, dy)
	b.rerouteLines(s)
}

// AttachLine binds a line's endpoints to whatever box-like shapes they land
// on, then snaps them to the border.
func (b *Board) AttachLine(line *Shape) {
	if line.Type != ShapeLine || len(line.Points) < 2 {
		return
	}
	start := line.Points[0]
	end := line.Points[len(line.Points)-1]

	if s := b.bindableAt(start.X, start.Y, line.ID); s != nil {
		line.BindStart = s.ID
	}
	if s := b.bindableAt(end.X, end.Y, line.ID); s != nil {
		line.BindEnd = s.ID
	}
	b.routeLine(line)
}

// bindableAt finds the topmost shape a line endpoint can bind to.
func (b *Board) bindableAt(x, y int, excludeID string) *Shape {
	for i := len(b.Shapes) - 1; i >= 0; i-- {
		s := b.Shapes[i]
		if s.ID == excludeID || s.pointShape() {
			continue
		}
		if s.Contains(x, y) {
			return s
		}
	}
	return nil
}

// BoundLines returns the lines bound to any of the given shape IDs that are
// not themselves listed. Mutations that move or resize shapes drag these
// lines along, so history snapshots include them.
func (b *Board) BoundLines(ids []string) []*Shape {
	listed := make(map[string]bool, len(ids))
	for _, id := range ids {
		listed[id] = true
	}
	var out []*Shape
	for _, l := range b.Shapes {
		if l.Type != ShapeLine || listed[l.ID] {
			continue
		}
		if listed[l.BindStart] || listed[l.BindEnd] {
			out = append(out, l)
		}
	}
	return out
}

// rerouteLines updates every line bound to the moved shape.
func (b *Board) rerouteLines(moved *Shape) {
	for _, l := range b.Shapes {
		if l.Type != ShapeLine {
			continue
		}
		if l.BindStart == moved.ID || l.BindEnd == moved.ID {
			b.routeLine(l)
		}
	}
}

// routeLine snaps a line's bound endpoints onto the border of their target
// shapes, aiming at the neighboring waypoint.
func (b *Board) routeLine(l *Shape) {
	if len(l.Points) < 2 {
		return
	}
	last := len(l.Points) - 1
	if l.BindStart != "" {
		if target := b.Find(l.BindStart); target != nil {
			l.Points[0] = borderPoint(target.Bounds(), l.Points[1])
		} else {
			l.BindStart = ""
		}
	}
	if l.BindEnd != "" {
		if target := b.Find(l.BindEnd); target != nil {
			l.Points[last] = borderPoint(target.Bounds(), l.Points[last-1])
		} else {
			l.BindEnd = ""
		}
	}
}

func (b *Board) detachBindings(id string) {
	for _, l := range b.Shapes {
		if l.Type != ShapeLine {
			continue
		}
		if l.BindStart == id {
			l.BindStart = ""
		}
		if l.BindEnd == id {
			l.BindEnd = ""
		}
	}
}

// borderPoint picks the cell on the rectangle's border facing the target,
// so bound lines leave a shape from the side nearest their next waypoint.
func borderPoint(r Rect, toward Point) Point {
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	dx := toward.X - cx
	dy := toward.Y - cy
	if dx == 0 && dy == 0 {
		return Point{X: cx, Y: r.Y}
	}
	// Compare slopes against the rectangle's aspect to pick the exit edge.
	if abs(dx)*r.H >= abs(dy)*r.W {
		x := r.X
		if dx > 0 {
			x = r.X + r.W - 1
		}
		return Point{X: x, Y: clamp(toward.Y, r.Y, r.Y+r.H-1)}
	}
	y := r.Y
	if dy > 0 {
		y = r.Y + r.H - 1
	}
	return Point{X: clamp(toward.X, r.X, r.X+r.W-1), Y: y}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

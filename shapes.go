package main

import (
	"strings"

	"github.com/google/uuid"
)

// ShapeType tags a shape with its kind. Tags are stored as-is in the page
// store, so unknown tags from newer files still load and render as plain
// boxes; they just expose no toolbar actions.
type ShapeType string

const (
	ShapeBox         ShapeType = "box"
	ShapeEllipse     ShapeType = "ellipse"
	ShapePolygon     ShapeType = "polygon"
	ShapeLine        ShapeType = "line"
	ShapePencil      ShapeType = "pencil"
	ShapeHighlighter ShapeType = "highlighter"
	ShapeText        ShapeType = "text"
	ShapeHTML        ShapeType = "html"
	ShapeYouTube     ShapeType = "youtube"
	ShapePortal      ShapeType = "portal"
)

type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
)

type ScaleLevel string

const (
	ScaleXS  ScaleLevel = "xs"
	ScaleSM  ScaleLevel = "sm"
	ScaleMD  ScaleLevel = "md"
	ScaleLG  ScaleLevel = "lg"
	ScaleXL  ScaleLevel = "xl"
	ScaleXXL ScaleLevel = "xxl"
)

// scaleLevels is the cycling order for the scale widget.
var scaleLevels = []ScaleLevel{ScaleXS, ScaleSM, ScaleMD, ScaleLG, ScaleXL, ScaleXXL}

// scaleFactor maps a level to the font multiplier used by PNG export.
var scaleFactor = map[ScaleLevel]float64{
	ScaleXS:  0.625,
	ScaleSM:  0.8,
	ScaleMD:  1.0,
	ScaleLG:  1.375,
	ScaleXL:  1.75,
	ScaleXXL: 2.25,
}

func (l ScaleLevel) factor() float64 {
	if f, ok := scaleFactor[l]; ok {
		return f
	}
	return 1.0
}

func nextScale(l ScaleLevel, delta int) ScaleLevel {
	idx := 0
	for i, s := range scaleLevels {
		if s == l {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scaleLevels) {
		idx = len(scaleLevels) - 1
	}
	return scaleLevels[idx]
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Shape is a single element on a board. One flat struct covers every type;
// which fields matter depends on Type. The whole struct round-trips through
// the JSON column in the page store.
type Shape struct {
	ID   string    `json:"id"`
	Type ShapeType `json:"type"`

	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`

	// Text is the label (box, ellipse, polygon, line) or the content
	// (text, html).
	Text string `json:"text,omitempty"`

	// Points holds the stroke for pencil/highlighter and the endpoints plus
	// waypoints for line shapes, in board coordinates.
	Points []Point `json:"points,omitempty"`

	Color      string      `json:"color,omitempty"`
	NoFill     bool        `json:"noFill,omitempty"`
	Stroke     StrokeStyle `json:"stroke,omitempty"`
	Scale      ScaleLevel  `json:"scale,omitempty"`
	Bold       bool        `json:"bold,omitempty"`
	Italic     bool        `json:"italic,omitempty"`
	AutoResize bool        `json:"autoResize,omitempty"`

	// Line endpoint decorations and optional bindings to other shapes.
	StartArrow bool   `json:"startArrow,omitempty"`
	EndArrow   bool   `json:"endArrow,omitempty"`
	BindStart  string `json:"bindStart,omitempty"`
	BindEnd    string `json:"bindEnd,omitempty"`

	// URL for youtube shapes, Page and Collapsed for portals.
	URL       string `json:"url,omitempty"`
	Page      string `json:"page,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty"`
}

// NewShape builds a shape of the given type at a board position with the
// type's default size and style.
func NewShape(t ShapeType, x, y int) *Shape {
	s := &Shape{
		ID:     uuid.NewString(),
		Type:   t,
		X:      x,
		Y:      y,
		Color:  defaultColor,
		Stroke: StrokeSolid,
		Scale:  ScaleMD,
	}
	switch t {
	case ShapeBox, ShapePolygon:
		s.Width, s.Height = 12, 5
	case ShapeEllipse:
		s.Width, s.Height = 14, 7
	case ShapeText:
		s.Width, s.Height = 1, 1
		s.AutoResize = true
	case ShapeHTML:
		s.Width, s.Height = 24, 8
	case ShapeYouTube:
		s.Width, s.Height = 26, 5
	case ShapePortal:
		s.Width, s.Height = 24, 8
	case ShapeLine, ShapePencil, ShapeHighlighter:
		s.Width, s.Height = 0, 0
	}
	return s
}

// pointShape reports whether the shape's geometry lives in Points rather
// than in the X/Y/W/H box.
func (s *Shape) pointShape() bool {
	switch s.Type {
	case ShapeLine, ShapePencil, ShapeHighlighter:
		return true
	}
	return false
}

// Bounds returns the enclosing rectangle in board coordinates.
func (s *Shape) Bounds() Rect {
	if !s.pointShape() {
		return Rect{X: s.X, Y: s.Y, W: s.Width, H: s.Height}
	}
	if len(s.Points) == 0 {
		return Rect{X: s.X, Y: s.Y, W: 1, H: 1}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}

// Contains reports whether a board cell falls inside the shape for picking.
// Stroke shapes pick by bounding box, which is forgiving enough at cell
// resolution.
func (s *Shape) Contains(x, y int) bool {
	return s.Bounds().contains(x, y)
}

// Translate moves the shape, points included, by a cell delta.
func (s *Shape) Translate(dx, dy int) {
	s.X += dx
	s.Y += dy
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
}

// ResetBounds recomputes width and height from the shape's content. Text and
// html size to their lines, portals size to their chrome; box-likes keep the
// user's size but never shrink below the type minimum.
func (s *Shape) ResetBounds() {
	switch s.Type {
	case ShapeText, ShapeHTML:
		w, h := measureText(s.Text)
		if s.Type == ShapeHTML {
			// Room for the border and source tag row.
			w += 4
			h += 3
		}
		s.Width, s.Height = max(w, 1), max(h, 1)
	case ShapePortal:
		s.Width = max(len([]rune(s.Page))+6, 14)
		if s.Collapsed {
			s.Height = 3
		} else {
			s.Height = max(s.Height, 6)
		}
	case ShapeYouTube:
		s.Width = max(s.Width, 12)
		s.Height = max(s.Height, 3)
	default:
		if s.AutoResize {
			w, h := measureText(s.Text)
			s.Width, s.Height = w+4, h+2
		}
		minW, minH := s.minSize()
		s.Width = max(s.Width, minW)
		s.Height = max(s.Height, minH)
	}
}

func (s *Shape) minSize() (int, int) {
	switch s.Type {
	case ShapeBox, ShapePolygon:
		return 4, 3
	case ShapeEllipse:
		return 6, 3
	case ShapeYouTube:
		return 12, 3
	case ShapePortal:
		return 14, 3
	case ShapeHTML:
		return 8, 3
	}
	return 1, 1
}

// SetScale changes the scale level and recomputes bounds for shapes that
// size to content.
func (s *Shape) SetScale(l ScaleLevel) {
	s.Scale = l
	if s.AutoResize {
		s.ResetBounds()
	}
}

// SetCollapsed folds a portal down to its header row or restores it.
func (s *Shape) SetCollapsed(collapsed bool) {
	if s.Type != ShapePortal {
		return
	}
	s.Collapsed = collapsed
	if collapsed {
		s.Height = 3
	} else if s.Height < 6 {
		s.Height = 6
	}
}

// cycleArrows walks line decorations: none, end, start, both.
func (s *Shape) cycleArrows(delta int) {
	states := [][2]bool{{false, false}, {false, true}, {true, false}, {true, true}}
	cur := 0
	for i, st := range states {
		if st[0] == s.StartArrow && st[1] == s.EndArrow {
			cur = i
			break
		}
	}
	cur = ((cur+delta)%len(states) + len(states)) % len(states)
	s.StartArrow, s.EndArrow = states[cur][0], states[cur][1]
}

func (s *Shape) arrowLabel() string {
	switch {
	case s.StartArrow && s.EndArrow:
		return "both"
	case s.StartArrow:
		return "start"
	case s.EndArrow:
		return "end"
	}
	return "none"
}

// Clone deep-copies the shape for history snapshots.
func (s *Shape) Clone() *Shape {
	c := *s
	if s.Points != nil {
		c.Points = make([]Point, len(s.Points))
		copy(c.Points, s.Points)
	}
	return &c
}

func measureText(text string) (int, int) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	w := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > w {
			w = n
		}
	}
	return w, len(lines)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package main

import "strings"

// cell is one terminal cell of the rendered viewport.
type cell struct {
	ch       rune
	color    string
	selected bool
}

type grid struct {
	w, h  int
	cells [][]cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]cell, h)}
	for y := range g.cells {
		g.cells[y] = make([]cell, w)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{ch: ' '}
		}
	}
	return g
}

func (g *grid) set(x, y int, ch rune, color string) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = cell{ch: ch, color: color}
}

func (g *grid) mark(x, y int, ch rune) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = cell{ch: ch, selected: true}
}

// lines converts the grid to ANSI-colored rows, emitting escape codes only
// on color changes.
func (g *grid) lines() []string {
	out := make([]string, g.h)
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		sb.Reset()
		current := ""
		for x := 0; x < g.w; x++ {
			c := g.cells[y][x]
			want := ""
			switch {
			case c.selected:
				want = ansiSelect
			case c.color != "":
				want = fgCode(c.color)
			}
			if want != current {
				if want == "" {
					sb.WriteString(ansiReset)
				} else {
					if current != "" {
						sb.WriteString(ansiReset)
					}
					sb.WriteString(want)
				}
				current = want
			}
			sb.WriteRune(c.ch)
		}
		if current != "" {
			sb.WriteString(ansiReset)
		}
		out[y] = sb.String()
	}
	return out
}

// plainLines renders without any escape codes, for text export.
func (g *grid) plainLines() []string {
	out := make([]string, g.h)
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		sb.Reset()
		for x := 0; x < g.w; x++ {
			sb.WriteRune(g.cells[y][x].ch)
		}
		out[y] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

// RenderBoard draws the visible part of a board into width x height cells.
// Highlighter strokes go down first so everything else stays readable over
// them; the rest draws in z order. Selected shapes get corner handles.
func RenderBoard(b *Board, width, height, panX, panY int, selected map[string]bool) *grid {
	g := newGrid(width, height)

	for _, s := range b.Shapes {
		if s.Type == ShapeHighlighter {
			drawStroke(g, s, panX, panY, '█')
		}
	}
	for _, s := range b.Shapes {
		switch s.Type {
		case ShapeHighlighter:
			// Already drawn.
		case ShapeBox:
			drawBox(g, s, panX, panY)
		case ShapeEllipse:
			drawEllipse(g, s, panX, panY)
		case ShapePolygon:
			drawPolygon(g, s, panX, panY)
		case ShapeLine:
			drawLine(g, s, panX, panY)
		case ShapePencil:
			drawStroke(g, s, panX, panY, '•')
		case ShapeText:
			drawTextShape(g, s, panX, panY)
		case ShapeHTML:
			drawHTML(g, s, panX, panY)
		case ShapeYouTube:
			drawYouTube(g, s, panX, panY)
		case ShapePortal:
			drawPortal(g, s, panX, panY)
		default:
			drawBox(g, s, panX, panY)
		}
		if selected[s.ID] {
			markSelection(g, s, panX, panY)
		}
	}
	return g
}

func markSelection(g *grid, s *Shape, panX, panY int) {
	r := s.Bounds()
	x0, y0 := r.X-panX, r.Y-panY
	x1, y1 := x0+r.W-1, y0+r.H-1
	g.mark(x0, y0, '◆')
	g.mark(x1, y0, '◆')
	g.mark(x0, y1, '◆')
	g.mark(x1, y1, '◆')
}

func strokeRunes(style StrokeStyle) (horiz, vert rune) {
	if style == StrokeDashed {
		return '╌', '╎'
	}
	return '─', '│'
}

func drawBox(g *grid, s *Shape, panX, panY int) {
	drawFrame(g, s, panX, panY, '┌', '┐', '└', '┘', !s.NoFill)
	drawCenteredLabel(g, s, panX, panY)
}

// drawFrame draws the border and optional fill shared by the box-like
// shapes.
func drawFrame(g *grid, s *Shape, panX, panY int, tl, tr, bl, br rune, fill bool) {
	x, y := s.X-panX, s.Y-panY
	w, h := s.Width, s.Height
	if w < 2 || h < 2 {
		g.set(x, y, tl, s.Color)
		return
	}
	horiz, vert := strokeRunes(s.Stroke)

	if fill {
		for fy := y + 1; fy < y+h-1; fy++ {
			for fx := x + 1; fx < x+w-1; fx++ {
				g.set(fx, fy, '░', s.Color)
			}
		}
	}
	for fx := x + 1; fx < x+w-1; fx++ {
		g.set(fx, y, horiz, s.Color)
		g.set(fx, y+h-1, horiz, s.Color)
	}
	for fy := y + 1; fy < y+h-1; fy++ {
		g.set(x, fy, vert, s.Color)
		g.set(x+w-1, fy, vert, s.Color)
	}
	g.set(x, y, tl, s.Color)
	g.set(x+w-1, y, tr, s.Color)
	g.set(x, y+h-1, bl, s.Color)
	g.set(x+w-1, y+h-1, br, s.Color)
}

func drawCenteredLabel(g *grid, s *Shape, panX, panY int) {
	if s.Text == "" {
		return
	}
	lines := strings.Split(s.Text, "\n")
	startY := s.Y - panY + (s.Height-len(lines))/2
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) > s.Width-2 && s.Width > 2 {
			runes = runes[:s.Width-2]
		}
		startX := s.X - panX + (s.Width-len(runes))/2
		for j, r := range runes {
			g.set(startX+j, startY+i, r, s.Color)
		}
	}
}

func drawEllipse(g *grid, s *Shape, panX, panY int) {
	x, y := s.X-panX, s.Y-panY
	w, h := s.Width, s.Height
	if w < 2 || h < 2 {
		g.set(x, y, 'o', s.Color)
		return
	}
	cx := float64(x) + float64(w-1)/2
	cy := float64(y) + float64(h-1)/2
	rx := float64(w-1) / 2
	ry := float64(h-1) / 2

	dash := s.Stroke == StrokeDashed
	inside := func(fx, fy int) bool {
		dx := (float64(fx) - cx) / rx
		dy := (float64(fy) - cy) / ry
		return dx*dx+dy*dy <= 1.0
	}
	step := 0
	for fy := y; fy < y+h; fy++ {
		for fx := x; fx < x+w; fx++ {
			if !inside(fx, fy) {
				continue
			}
			// Border cells have at least one neighbor outside.
			onBorder := !inside(fx-1, fy) || !inside(fx+1, fy) || !inside(fx, fy-1) || !inside(fx, fy+1)
			if onBorder {
				step++
				if dash && step%2 == 0 {
					continue
				}
				g.set(fx, fy, '•', s.Color)
			} else if !s.NoFill {
				g.set(fx, fy, '░', s.Color)
			}
		}
	}
	drawCenteredLabel(g, s, panX, panY)
}

// drawPolygon renders the diamond between the edge midpoints of the
// bounds.
func drawPolygon(g *grid, s *Shape, panX, panY int) {
	x, y := s.X-panX, s.Y-panY
	w, h := s.Width, s.Height
	if w < 3 || h < 3 {
		g.set(x, y, '◇', s.Color)
		return
	}
	top := Point{X: x + w/2, Y: y}
	right := Point{X: x + w - 1, Y: y + h/2}
	bottom := Point{X: x + w/2, Y: y + h - 1}
	left := Point{X: x, Y: y + h/2}

	if !s.NoFill {
		for fy := y + 1; fy < y+h-1; fy++ {
			for fx := x + 1; fx < x+w-1; fx++ {
				// Diamond interior by normalized manhattan distance.
				dx := float64(abs(2*(fx-x)-(w-1))) / float64(w-1)
				dy := float64(abs(2*(fy-y)-(h-1))) / float64(h-1)
				if dx+dy < 0.95 {
					g.set(fx, fy, '░', s.Color)
				}
			}
		}
	}
	plotSegment(g, top, right, s.Color)
	plotSegment(g, right, bottom, s.Color)
	plotSegment(g, bottom, left, s.Color)
	plotSegment(g, left, top, s.Color)
	drawCenteredLabel(g, s, panX, panY)
}

func drawLine(g *grid, s *Shape, panX, panY int) {
	if len(s.Points) < 2 {
		return
	}
	pts := make([]Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = Point{X: p.X - panX, Y: p.Y - panY}
	}
	for i := 0; i < len(pts)-1; i++ {
		plotSegment(g, pts[i], pts[i+1], s.Color)
	}
	if s.StartArrow {
		drawArrowhead(g, pts[1], pts[0], s.Color)
	}
	if s.EndArrow {
		drawArrowhead(g, pts[len(pts)-2], pts[len(pts)-1], s.Color)
	}
	if s.Text != "" {
		mid := pts[len(pts)/2]
		if len(pts)%2 == 0 {
			a, b := pts[len(pts)/2-1], pts[len(pts)/2]
			mid = Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		}
		label := []rune(strings.Split(s.Text, "\n")[0])
		startX := mid.X - len(label)/2
		for j, r := range label {
			g.set(startX+j, mid.Y, r, s.Color)
		}
	}
}

// plotSegment walks the segment cell by cell, picking a rune from the step
// direction.
func plotSegment(g *grid, from, to Point, color string) {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	x, y := from.X, from.Y
	err := dx - dy
	for {
		ch := lineRune(dx, dy, sx, sy)
		g.set(x, y, ch, color)
		if x == to.X && y == to.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func lineRune(dx, dy, sx, sy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case sx == sy:
		return '╲'
	default:
		return '╱'
	}
}

func drawArrowhead(g *grid, from, tip Point, color string) {
	dx := tip.X - from.X
	dy := tip.Y - from.Y
	var ch rune
	switch {
	case abs(dx) >= abs(dy) && dx >= 0:
		ch = '►'
	case abs(dx) >= abs(dy):
		ch = '◄'
	case dy >= 0:
		ch = '▼'
	default:
		ch = '▲'
	}
	g.set(tip.X, tip.Y, ch, color)
}

// drawStroke renders pencil and highlighter paths, connecting consecutive
// samples so fast cursor moves still leave a continuous trail.
func drawStroke(g *grid, s *Shape, panX, panY int, ch rune) {
	if len(s.Points) == 0 {
		return
	}
	prev := Point{X: s.Points[0].X - panX, Y: s.Points[0].Y - panY}
	g.set(prev.X, prev.Y, ch, s.Color)
	for _, p := range s.Points[1:] {
		cur := Point{X: p.X - panX, Y: p.Y - panY}
		plotStrokeSegment(g, prev, cur, ch, s.Color)
		prev = cur
	}
}

func plotStrokeSegment(g *grid, from, to Point, ch rune, color string) {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	x, y := from.X, from.Y
	err := dx - dy
	for {
		g.set(x, y, ch, color)
		if x == to.X && y == to.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func drawTextShape(g *grid, s *Shape, panX, panY int) {
	lines := strings.Split(s.Text, "\n")
	for i, line := range lines {
		for j, r := range []rune(line) {
			g.set(s.X-panX+j, s.Y-panY+i, r, s.Color)
		}
	}
	if s.Text == "" {
		g.set(s.X-panX, s.Y-panY, '_', s.Color)
	}
}

func drawHTML(g *grid, s *Shape, panX, panY int) {
	drawFrame(g, s, panX, panY, '┌', '┐', '└', '┘', false)
	x, y := s.X-panX, s.Y-panY
	for j, r := range []rune("</>") {
		g.set(x+2+j, y, r, s.Color)
	}
	lines := strings.Split(s.Text, "\n")
	maxLines := s.Height - 2
	for i, line := range lines {
		if i >= maxLines {
			break
		}
		runes := []rune(line)
		if len(runes) > s.Width-4 {
			runes = runes[:s.Width-4]
		}
		for j, r := range runes {
			g.set(x+2+j, y+1+i, r, s.Color)
		}
	}
}

func drawYouTube(g *grid, s *Shape, panX, panY int) {
	drawFrame(g, s, panX, panY, '┌', '┐', '└', '┘', false)
	x, y := s.X-panX, s.Y-panY
	label := "▶ " + urlHost(s.URL)
	if s.URL == "" {
		label = "▶ (no link)"
	}
	runes := []rune(label)
	if len(runes) > s.Width-2 && s.Width > 2 {
		runes = runes[:s.Width-2]
	}
	startX := x + (s.Width-len(runes))/2
	for j, r := range runes {
		g.set(startX+j, y+s.Height/2, r, s.Color)
	}
}

func drawPortal(g *grid, s *Shape, panX, panY int) {
	drawFrame(g, s, panX, panY, '╔', '╗', '╚', '╝', false)
	x, y := s.X-panX, s.Y-panY
	title := "⧉ " + s.Page
	if s.Page == "" {
		title = "⧉ (no page)"
	}
	runes := []rune(title)
	if len(runes) > s.Width-2 && s.Width > 2 {
		runes = runes[:s.Width-2]
	}
	startX := x + (s.Width-len(runes))/2
	g.set(x, y+1, '║', s.Color)
	g.set(x+s.Width-1, y+1, '║', s.Color)
	for j, r := range runes {
		g.set(startX+j, y+1, r, s.Color)
	}
	if !s.Collapsed && s.Height > 3 {
		horiz, _ := strokeRunes(StrokeSolid)
		for fx := x + 1; fx < x+s.Width-1; fx++ {
			g.set(fx, y+2, horiz, s.Color)
		}
	}
}

package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Pixels per terminal cell in PNG output.
const (
	exportCellW = 8.0
	exportCellH = 16.0
	exportPad   = 2
)

type pngRenderer struct {
	dc         *gg.Context
	minX, minY int
	ttf        *truetype.Font
	faces      map[ScaleLevel]font.Face
}

func (r *pngRenderer) px(x, y int) (float64, float64) {
	return float64(x-r.minX) * exportCellW, float64(y-r.minY) * exportCellH
}

func (r *pngRenderer) face(l ScaleLevel) font.Face {
	if f, ok := r.faces[l]; ok {
		return f
	}
	f := truetype.NewFace(r.ttf, &truetype.Options{
		Size:    12.0 * l.factor(),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[l] = f
	return f
}

func (r *pngRenderer) setColor(name string, alpha float64) {
	c := colorByName(name)
	r.dc.SetRGBA(c.R, c.G, c.B, alpha)
}

func (r *pngRenderer) setDash(style StrokeStyle) {
	if style == StrokeDashed {
		r.dc.SetDash(6, 4)
	} else {
		r.dc.SetDash()
	}
}

// ExportPNG renders a board to a PNG file at one 8x16 pixel block per
// terminal cell.
func ExportPNG(b *Board, path string) error {
	if len(b.Shapes) == 0 {
		return fmt.Errorf("nothing to export")
	}

	bounds := b.Bounds()
	minX := bounds.X - exportPad
	minY := bounds.Y - exportPad
	imgW := int(float64(bounds.W+2*exportPad) * exportCellW)
	imgH := int(float64(bounds.H+2*exportPad) * exportCellH)

	dc := gg.NewContext(imgW, imgH)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	r := &pngRenderer{dc: dc, minX: minX, minY: minY, ttf: ttf, faces: map[ScaleLevel]font.Face{}}

	// Same stacking as the terminal: highlighter ink underneath, the rest
	// in z order.
	for _, s := range b.Shapes {
		if s.Type == ShapeHighlighter {
			r.drawStrokePNG(s, exportCellH*0.7, 0.35)
		}
	}
	for _, s := range b.Shapes {
		switch s.Type {
		case ShapeHighlighter:
		case ShapeBox:
			r.drawBoxPNG(s)
		case ShapeEllipse:
			r.drawEllipsePNG(s)
		case ShapePolygon:
			r.drawPolygonPNG(s)
		case ShapeLine:
			r.drawLinePNG(s)
		case ShapePencil:
			r.drawStrokePNG(s, 1.6, 1.0)
		case ShapeText:
			r.drawTextPNG(s)
		case ShapeHTML:
			r.drawPanelPNG(s, "</>", s.Text)
		case ShapeYouTube:
			r.drawYouTubePNG(s)
		case ShapePortal:
			r.drawPortalPNG(s)
		default:
			r.drawBoxPNG(s)
		}
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	return dc.SavePNG(path)
}

func (r *pngRenderer) drawBoxPNG(s *Shape) {
	x, y := r.px(s.X, s.Y)
	w := float64(s.Width) * exportCellW
	h := float64(s.Height) * exportCellH

	if !s.NoFill {
		r.setColor(s.Color, 0.25)
		r.dc.DrawRoundedRectangle(x, y, w, h, 4)
		r.dc.Fill()
	}
	r.setColor(s.Color, 1.0)
	r.setDash(s.Stroke)
	r.dc.SetLineWidth(1.5)
	r.dc.DrawRoundedRectangle(x, y, w, h, 4)
	r.dc.Stroke()
	r.dc.SetDash()

	r.drawCenteredLines(s, s.Text)
}

func (r *pngRenderer) drawEllipsePNG(s *Shape) {
	x, y := r.px(s.X, s.Y)
	w := float64(s.Width) * exportCellW
	h := float64(s.Height) * exportCellH
	cx, cy := x+w/2, y+h/2

	if !s.NoFill {
		r.setColor(s.Color, 0.25)
		r.dc.DrawEllipse(cx, cy, w/2, h/2)
		r.dc.Fill()
	}
	r.setColor(s.Color, 1.0)
	r.setDash(s.Stroke)
	r.dc.SetLineWidth(1.5)
	r.dc.DrawEllipse(cx, cy, w/2, h/2)
	r.dc.Stroke()
	r.dc.SetDash()

	r.drawCenteredLines(s, s.Text)
}

func (r *pngRenderer) drawPolygonPNG(s *Shape) {
	x, y := r.px(s.X, s.Y)
	w := float64(s.Width) * exportCellW
	h := float64(s.Height) * exportCellH

	diamond := func() {
		r.dc.MoveTo(x+w/2, y)
		r.dc.LineTo(x+w, y+h/2)
		r.dc.LineTo(x+w/2, y+h)
		r.dc.LineTo(x, y+h/2)
		r.dc.ClosePath()
	}

	if !s.NoFill {
		r.setColor(s.Color, 0.25)
		diamond()
		r.dc.Fill()
	}
	r.setColor(s.Color, 1.0)
	r.setDash(s.Stroke)
	r.dc.SetLineWidth(1.5)
	diamond()
	r.dc.Stroke()
	r.dc.SetDash()

	r.drawCenteredLines(s, s.Text)
}

func (r *pngRenderer) drawLinePNG(s *Shape) {
	if len(s.Points) < 2 {
		return
	}
	r.setColor(s.Color, 1.0)
	r.dc.SetLineWidth(1.5)
	for i := 0; i < len(s.Points)-1; i++ {
		x1, y1 := r.px(s.Points[i].X, s.Points[i].Y)
		x2, y2 := r.px(s.Points[i+1].X, s.Points[i+1].Y)
		r.dc.DrawLine(x1, y1, x2, y2)
		r.dc.Stroke()
	}

	if s.StartArrow {
		r.drawArrowPNG(s.Points[1], s.Points[0])
	}
	if s.EndArrow {
		r.drawArrowPNG(s.Points[len(s.Points)-2], s.Points[len(s.Points)-1])
	}

	if s.Text != "" {
		mid := s.Points[len(s.Points)/2]
		mx, my := r.px(mid.X, mid.Y)
		r.dc.SetFontFace(r.face(ScaleSM))
		r.dc.DrawStringAnchored(strings.Split(s.Text, "\n")[0], mx, my-4, 0.5, 0)
	}
}

func (r *pngRenderer) drawArrowPNG(from, tip Point) {
	fx, fy := r.px(from.X, from.Y)
	tx, ty := r.px(tip.X, tip.Y)
	dx, dy := tx-fx, ty-fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const size = 7.0
	const spread = 0.5
	r.dc.MoveTo(tx, ty)
	r.dc.LineTo(tx-size*dx+size*dy*spread, ty-size*dy-size*dx*spread)
	r.dc.LineTo(tx-size*dx-size*dy*spread, ty-size*dy+size*dx*spread)
	r.dc.ClosePath()
	r.dc.Fill()
}

func (r *pngRenderer) drawStrokePNG(s *Shape, width, alpha float64) {
	if len(s.Points) == 0 {
		return
	}
	r.setColor(s.Color, alpha)
	r.dc.SetLineWidth(width)
	r.dc.SetLineCapRound()
	if len(s.Points) == 1 {
		x, y := r.px(s.Points[0].X, s.Points[0].Y)
		r.dc.DrawPoint(x, y, width/2)
		r.dc.Fill()
		return
	}
	for i := 0; i < len(s.Points)-1; i++ {
		x1, y1 := r.px(s.Points[i].X, s.Points[i].Y)
		x2, y2 := r.px(s.Points[i+1].X, s.Points[i+1].Y)
		r.dc.DrawLine(x1, y1, x2, y2)
		r.dc.Stroke()
	}
}

func (r *pngRenderer) drawTextPNG(s *Shape) {
	r.setColor(s.Color, 1.0)
	r.dc.SetFontFace(r.face(s.Scale))
	lineH := exportCellH * s.Scale.factor()
	x, y := r.px(s.X, s.Y)
	for i, line := range strings.Split(s.Text, "\n") {
		ly := y + float64(i+1)*lineH
		r.dc.DrawString(line, x, ly)
		if s.Bold {
			// gomono has no bold face; double-strike stands in.
			r.dc.DrawString(line, x+0.6, ly)
		}
	}
}

func (r *pngRenderer) drawCenteredLines(s *Shape, text string) {
	if text == "" {
		return
	}
	x, y := r.px(s.X, s.Y)
	w := float64(s.Width) * exportCellW
	h := float64(s.Height) * exportCellH
	r.setColor(s.Color, 1.0)
	r.dc.SetFontFace(r.face(ScaleMD))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		ly := y + h/2 + (float64(i)-float64(len(lines)-1)/2)*exportCellH
		r.dc.DrawStringAnchored(line, x+w/2, ly, 0.5, 0.35)
	}
}

func (r *pngRenderer) drawPanelPNG(s *Shape, tag, body string) {
	x, y := r.px(s.X, s.Y)
	w := float64(s.Width) * exportCellW
	h := float64(s.Height) * exportCellH

	r.setColor(s.Color, 1.0)
	r.dc.SetLineWidth(1.5)
	r.dc.DrawRoundedRectangle(x, y, w, h, 4)
	r.dc.Stroke()

	r.dc.SetFontFace(r.face(ScaleSM))
	r.dc.DrawString(tag, x+6, y+14)

	r.dc.SetFontFace(r.face(s.Scale))
	maxLines := s.Height - 2
	for i, line := range strings.Split(body, "\n") {
		if i >= maxLines {
			break
		}
		r.dc.DrawString(line, x+10, y+28+float64(i)*exportCellH)
	}
}

func (r *pngRenderer) drawYouTubePNG(s *Shape) {
	x, y := r.px(s.X, s.Y)
	w := float64(s.Width) * exportCellW
	h := float64(s.Height) * exportCellH

	r.setColor(s.Color, 0.15)
	r.dc.DrawRoundedRectangle(x, y, w, h, 4)
	r.dc.Fill()
	r.setColor(s.Color, 1.0)
	r.dc.SetLineWidth(1.5)
	r.dc.DrawRoundedRectangle(x, y, w, h, 4)
	r.dc.Stroke()

	// Play triangle.
	cx, cy := x+w/2, y+h/2
	r.dc.MoveTo(cx-6, cy-8)
	r.dc.LineTo(cx+8, cy)
	r.dc.LineTo(cx-6, cy+8)
	r.dc.ClosePath()
	r.dc.Fill()

	if s.URL != "" {
		r.dc.SetFontFace(r.face(ScaleSM))
		r.dc.DrawStringAnchored(urlHost(s.URL), cx, y+h-6, 0.5, 0)
	}
}

func (r *pngRenderer) drawPortalPNG(s *Shape) {
	x, y := r.px(s.X, s.Y)
	w := float64(s.Width) * exportCellW
	h := float64(s.Height) * exportCellH

	r.setColor(s.Color, 1.0)
	r.dc.SetLineWidth(2.5)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Stroke()

	title := s.Page
	if title == "" {
		title = "(no page)"
	}
	r.dc.SetFontFace(r.face(ScaleMD))
	r.dc.DrawStringAnchored(title, x+w/2, y+14, 0.5, 0.35)

	if !s.Collapsed {
		r.dc.SetLineWidth(1.0)
		r.dc.DrawLine(x, y+exportCellH*1.5, x+w, y+exportCellH*1.5)
		r.dc.Stroke()
	}
}

// ExportText writes the board as plain text, the full content bounds with
// no escape codes.
func ExportText(b *Board, path string) error {
	if len(b.Shapes) == 0 {
		return fmt.Errorf("nothing to export")
	}

	bounds := b.Bounds()
	g := RenderBoard(b, bounds.W+2*exportPad, bounds.H+2*exportPad,
		bounds.X-exportPad, bounds.Y-exportPad, nil)

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	content := strings.Join(g.plainLines(), "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// sanitizeFilename keeps page names usable as file names.
func sanitizeFilename(name string) string {
	repl := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_")
	out := repl.Replace(strings.TrimSpace(name))
	if out == "" {
		out = "untitled"
	}
	return out
}

package main

import (
	"strings"
	"testing"
)

func renderPlain(b *Board, w, h, panX, panY int, selected map[string]bool) []string {
	return RenderBoard(b, w, h, panX, panY, selected).plainLines()
}

func TestRenderBoxFrameAndFill(t *testing.T) {
	b := NewBoard("test")
	b.Add(NewShape(ShapeBox, 0, 0)) // 12x5

	lines := renderPlain(b, 20, 8, 0, 0, nil)
	if lines[0] != "┌──────────┐" {
		t.Errorf("top row = %q", lines[0])
	}
	if lines[1] != "│░░░░░░░░░░│" {
		t.Errorf("interior row = %q", lines[1])
	}
	if lines[4] != "└──────────┘" {
		t.Errorf("bottom row = %q", lines[4])
	}
	if lines[5] != "" {
		t.Errorf("row below the box = %q, want trimmed empty", lines[5])
	}
}

func TestRenderHollowBox(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeBox, 0, 0)
	s.NoFill = true
	b.Add(s)

	lines := renderPlain(b, 20, 8, 0, 0, nil)
	if lines[1] != "│          │" {
		t.Errorf("hollow interior = %q", lines[1])
	}
}

func TestRenderDashedStroke(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeBox, 0, 0)
	s.Stroke = StrokeDashed
	b.Add(s)

	lines := renderPlain(b, 20, 8, 0, 0, nil)
	if !strings.Contains(lines[0], "╌") {
		t.Errorf("dashed top row = %q", lines[0])
	}
	if !strings.Contains(lines[1], "╎") {
		t.Errorf("dashed side row = %q", lines[1])
	}
}

func TestRenderAppliesPan(t *testing.T) {
	b := NewBoard("test")
	b.Add(NewShape(ShapeBox, 100, 50))

	lines := renderPlain(b, 20, 8, 98, 48, nil)
	if lines[2] != "  ┌──────────┐" {
		t.Errorf("panned top row = %q", lines[2])
	}
	if lines[0] != "" || lines[1] != "" {
		t.Error("rows above the panned shape should be empty")
	}
}

func TestRenderSelectionHandles(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeBox, 0, 0)
	b.Add(s)

	lines := renderPlain(b, 20, 8, 0, 0, map[string]bool{s.ID: true})
	if lines[0] != "◆──────────◆" {
		t.Errorf("selected top row = %q", lines[0])
	}
	if lines[4] != "◆──────────◆" {
		t.Errorf("selected bottom row = %q", lines[4])
	}
}

func TestRenderBoxLabelCentered(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeBox, 0, 0)
	s.Text = "hub"
	s.NoFill = true
	b.Add(s)

	lines := renderPlain(b, 20, 8, 0, 0, nil)
	// 12 wide, 3 runes: centered at column 4.
	if lines[2] != "│   hub    │" {
		t.Errorf("label row = %q", lines[2])
	}
}

func TestRenderTextShape(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeText, 1, 1)
	s.Text = "hi"
	b.Add(s)

	lines := renderPlain(b, 10, 4, 0, 0, nil)
	if lines[1] != " hi" {
		t.Errorf("text row = %q", lines[1])
	}

	s.Text = ""
	lines = renderPlain(b, 10, 4, 0, 0, nil)
	if lines[1] != " _" {
		t.Errorf("empty text placeholder = %q", lines[1])
	}
}

func TestRenderLineWithArrowhead(t *testing.T) {
	b := NewBoard("test")
	l := NewShape(ShapeLine, 0, 0)
	l.Points = []Point{{X: 2, Y: 2}, {X: 8, Y: 2}}
	l.EndArrow = true
	b.Add(l)

	lines := renderPlain(b, 12, 5, 0, 0, nil)
	if lines[2] != "  ──────►" {
		t.Errorf("line row = %q", lines[2])
	}
}

func TestRenderPortalChrome(t *testing.T) {
	b := NewBoard("test")
	p := NewShape(ShapePortal, 0, 0)
	p.Page = "notes"
	b.Add(p)

	lines := renderPlain(b, 30, 10, 0, 0, nil)
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasSuffix(lines[0], "╗") {
		t.Errorf("portal top row = %q", lines[0])
	}
	if !strings.Contains(lines[1], "⧉ notes") {
		t.Errorf("portal title row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "─") {
		t.Errorf("expanded portal should draw a divider, got %q", lines[2])
	}

	p.SetCollapsed(true)
	lines = renderPlain(b, 30, 10, 0, 0, nil)
	if lines[3] != "" {
		t.Errorf("collapsed portal should end at row 2, row 3 = %q", lines[3])
	}
}

func TestRenderHTMLTag(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeHTML, 0, 0)
	s.Text = "snippet"
	b.Add(s)

	lines := renderPlain(b, 30, 10, 0, 0, nil)
	if !strings.Contains(lines[0], "</>") {
		t.Errorf("html top row = %q, want the source tag", lines[0])
	}
	if !strings.Contains(lines[1], "snippet") {
		t.Errorf("html body row = %q", lines[1])
	}
}

func TestRenderYouTubePlaceholder(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeYouTube, 0, 0)
	b.Add(s)

	lines := renderPlain(b, 30, 8, 0, 0, nil)
	if !strings.Contains(lines[2], "▶ (no link)") {
		t.Errorf("unset video row = %q", lines[2])
	}

	s.URL = "https://www.youtube.com/watch?v=abc"
	lines = renderPlain(b, 30, 8, 0, 0, nil)
	if !strings.Contains(lines[2], "▶ youtube.com") {
		t.Errorf("video row = %q", lines[2])
	}
}

func TestRenderStrokeTrailIsContinuous(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapePencil, 0, 0)
	// Sparse samples, as a fast cursor drag would leave.
	s.Points = []Point{{X: 0, Y: 0}, {X: 4, Y: 0}}
	b.Add(s)

	lines := renderPlain(b, 10, 3, 0, 0, nil)
	if lines[0] != "•••••" {
		t.Errorf("stroke row = %q, want a joined trail", lines[0])
	}
}

func TestGridLinesCarryColor(t *testing.T) {
	b := NewBoard("test")
	s := NewShape(ShapeBox, 0, 0)
	s.Color = "red"
	b.Add(s)

	row := RenderBoard(b, 20, 8, 0, 0, nil).lines()[0]
	if !strings.Contains(row, fgCode("red")) {
		t.Errorf("row %q missing color code", row)
	}
	if !strings.HasSuffix(strings.TrimRight(row, " "), ansiReset) {
		t.Errorf("row %q should reset color at the end", row)
	}
}

package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphpad/pkg/graph"
)

// grid maps canvas coordinates onto terminal cells. Each cell covers
// cellW x cellH canvas units and stands for its center point.
type grid struct {
	cellW, cellH float64
}

// scene returns the canvas point a terminal cell stands for.
func (g grid) scene(col, row int) graph.Point {
	return graph.Point{
		X: (float64(col) + 0.5) * g.cellW,
		Y: (float64(row) + 0.5) * g.cellH,
	}
}

// cell returns the terminal cell containing p.
func (g grid) cell(p graph.Point) (col, row int) {
	return int(math.Floor(p.X / g.cellW)), int(math.Floor(p.Y / g.cellH))
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellEdge
	cellNode
	cellLabel
)

type canvasCell struct {
	r     rune
	kind  cellKind
	color graph.Color
	hl    bool
}

// canvas is a character raster of a graph.
type canvas struct {
	w, h  int
	cells []canvasCell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]canvasCell, w*h)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

func (c *canvas) set(col, row int, cc canvasCell) {
	if col < 0 || row < 0 || col >= c.w || row >= c.h {
		return
	}
	c.cells[row*c.w+col] = cc
}

func (c *canvas) at(col, row int) canvasCell {
	return c.cells[row*c.w+col]
}

// draw rasterizes g: edges first, then nodes in draw order so later nodes
// cover earlier ones. The anchor node, if any, is highlighted.
func (c *canvas) draw(g *graph.Graph, gr grid, anchor graph.NodeID, anchored bool) {
	for _, e := range g.Edges() {
		a, _ := g.Node(e.From)
		b, _ := g.Node(e.To)
		c.line(gr, a.Pos, b.Pos, e.Color)
	}
	for _, n := range g.DrawOrder() {
		c.node(gr, n, anchored && n.ID == anchor)
	}
}

// line draws a segment between the cells of p and q with Bresenham's
// algorithm, picking the glyph from the segment's direction in canvas space.
func (c *canvas) line(gr grid, p, q graph.Point, col graph.Color) {
	r := edgeGlyph(q.X-p.X, q.Y-p.Y)
	x0, y0 := gr.cell(p)
	x1, y1 := gr.cell(q)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.set(x0, y0, canvasCell{r: r, kind: cellEdge, color: col})
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func edgeGlyph(dx, dy float64) rune {
	deg := math.Abs(math.Atan2(dy, dx) * 180 / math.Pi)
	switch {
	case deg < 22.5 || deg > 157.5:
		return '─'
	case deg > 67.5 && deg < 112.5:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// node fills every cell whose center lies inside the circle and writes the
// node ID on the center row.
func (c *canvas) node(gr grid, n graph.Node, hl bool) {
	lo, _ := gr.cell(graph.Point{X: n.Pos.X - n.Radius, Y: n.Pos.Y})
	hi, _ := gr.cell(graph.Point{X: n.Pos.X + n.Radius, Y: n.Pos.Y})
	_, top := gr.cell(graph.Point{X: n.Pos.X, Y: n.Pos.Y - n.Radius})
	_, bottom := gr.cell(graph.Point{X: n.Pos.X, Y: n.Pos.Y + n.Radius})
	for row := top; row <= bottom; row++ {
		for col := lo; col <= hi; col++ {
			if n.Contains(gr.scene(col, row), 0) {
				c.set(col, row, canvasCell{r: '░', kind: cellNode, color: n.Color, hl: hl})
			}
		}
	}

	cx, cy := gr.cell(n.Pos)
	label := "(" + strconv.Itoa(int(n.ID)) + ")"
	start := cx - (len(label)-1)/2
	for i, r := range label {
		c.set(start+i, cy, canvasCell{r: r, kind: cellLabel, color: n.Color, hl: hl})
	}
}

// String returns the canvas without styling, one line per row.
func (c *canvas) String() string {
	var b strings.Builder
	for row := range c.h {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range c.w {
			b.WriteRune(c.at(col, row).r)
		}
	}
	return b.String()
}

// Render returns the canvas with pen colors applied. Consecutive cells of
// the same style are rendered as one run.
func (c *canvas) Render() string {
	var b strings.Builder
	for row := range c.h {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		var runCell canvasCell
		flush := func() {
			if len(run) > 0 {
				b.WriteString(cellStyle(runCell).Render(string(run)))
				run = run[:0]
			}
		}
		for col := range c.w {
			cc := c.at(col, row)
			if len(run) > 0 && !sameStyle(cc, runCell) {
				flush()
			}
			runCell = cc
			run = append(run, cc.r)
		}
		flush()
	}
	return b.String()
}

func sameStyle(a, b canvasCell) bool {
	if a.kind == cellEmpty && b.kind == cellEmpty {
		return true
	}
	return a.kind == b.kind && a.color == b.color && a.hl == b.hl
}

func cellStyle(cc canvasCell) lipgloss.Style {
	switch cc.kind {
	case cellEmpty:
		return lipgloss.NewStyle()
	case cellLabel:
		s := penStyle(cc.color).Bold(true)
		if cc.hl {
			s = s.Reverse(true)
		}
		return s
	default:
		s := penStyle(cc.color)
		if cc.hl {
			s = s.Bold(true)
		}
		return s
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

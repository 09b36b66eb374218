package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphpad/pkg/graph"
)

// pointsPerInch converts canvas units (Graphviz points) to DOT inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Labels prints node IDs inside the circles.
	Labels bool
	// Background is the canvas color. Empty means transparent.
	Background string
}

// ToDOT converts g to Graphviz DOT with every node pinned at its position.
// Nodes are emitted in drawing order so later nodes are painted on top, as
// in the editor.
func ToDOT(g *graph.Graph, opts Options) string {
	bg := opts.Background
	if bg == "" {
		bg = "transparent"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, fillcolor=white, penwidth=2, fontsize=10];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	for _, n := range g.DrawOrder() {
		fmt.Fprintf(&buf, "  %q [%s];\n", strconv.Itoa(int(n.ID)), strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q];\n",
			strconv.Itoa(int(e.From)), strconv.Itoa(int(e.To)), e.Color.Hex())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, opts Options) []string {
	size := fmtFloat(2 * n.Radius / pointsPerInch)
	label := ""
	if opts.Labels {
		label = strconv.Itoa(int(n.ID))
	}
	return []string{
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Pos.X), fmtFloat(-n.Pos.Y)),
		"width=" + size,
		"height=" + size,
		fmt.Sprintf("color=%q", n.Color.Hex()),
		fmt.Sprintf("label=%q", label),
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG lays out dot with neato, keeping pinned positions, and renders
// it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg element with a plain
// pixel-sized one so browsers scale the drawing one to one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

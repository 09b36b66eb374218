// Package nodelink renders graphs as Graphviz node-link diagrams.
//
// # Overview
//
// Unlike a layout engine, the editor already knows where every node is, so
// the generated DOT pins each node at its canvas position (pos="x,y!") and
// is rendered with the neato engine, which honors pinned positions. The
// picture therefore matches the editor canvas.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Coordinates
//
// Canvas units map one to one onto Graphviz points. Graphviz's y axis points
// up, so y is negated when writing positions. Node sizes are converted to
// inches, the unit DOT uses for width and height.
//
// Edges are undirected ("--") because the editor treats a pair of nodes as
// connected in either direction.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink

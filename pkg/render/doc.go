// Package render exports graphs as pictures.
//
// # Overview
//
// Three formats are supported:
//
//   - dot: Graphviz source with pinned node positions ([nodelink.ToDOT])
//   - svg: the DOT source laid out by neato ([nodelink.RenderSVG])
//   - png: a raster drawing made with fogleman/gg ([raster.RenderPNG])
//
// [Render] picks the renderer for a [Format]; hosts that need finer control
// call the subpackages directly.
//
//	data, err := render.Render(ctx, g, render.FormatSVG, render.Options{Labels: true})
//
// Pictures reproduce the editor canvas: node positions, radii and colors
// are used as stored, nothing is laid out again.
package render

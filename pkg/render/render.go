package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/render/nodelink"
	"github.com/matzehuels/graphpad/pkg/render/raster"
)

// Format is an export format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Formats lists the supported formats.
var Formats = []Format{FormatDOT, FormatSVG, FormatPNG}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported render format %q (want dot, svg or png)", s)
}

// FormatFromPath infers the format from an output file name.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Options configures [Render].
type Options struct {
	// Labels prints node IDs inside the circles.
	Labels bool
	// Scale applies to PNG output. Zero means 1.
	Scale float64
	// Padding is the PNG margin in canvas units.
	Padding float64
}

// Validate checks the PNG settings against the raster limits.
func (o Options) Validate() error {
	return o.raster().Validate()
}

func (o Options) raster() raster.Options {
	return raster.Options{Scale: o.Scale, Padding: o.Padding, Labels: o.Labels}
}

// DefaultOptions returns labelled output at scale 1 with the raster
// renderer's default margin.
func DefaultOptions() Options {
	d := raster.DefaultOptions()
	return Options{Labels: true, Scale: d.Scale, Padding: d.Padding}
}

// Render encodes g in format f.
func Render(ctx context.Context, g *graph.Graph, f Format, opts Options) ([]byte, error) {
	switch f {
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Labels: opts.Labels})), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Labels: opts.Labels, Background: "white"}))
	case FormatPNG:
		return raster.RenderPNG(g, opts.raster())
	}
	return nil, fmt.Errorf("unsupported render format %q", f)
}

// ContentType returns the MIME type of f.
func ContentType(f Format) string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

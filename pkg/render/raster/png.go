// Package raster draws graphs to PNG images with fogleman/gg.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/matzehuels/graphpad/pkg/graph"
)

const (
	// MaxScale bounds Options.Scale.
	MaxScale   = 16.0
	// MaxPadding bounds Options.Padding, in canvas units.
	MaxPadding = 4096.0
	// MaxPixels is the largest image RenderPNG allocates.
	MaxPixels  = 64 << 20
)

var (
	// ErrBadOptions is returned for non-finite or out-of-range options.
	ErrBadOptions = errors.New("bad raster options")
	// ErrTooLarge is returned when the image would exceed MaxPixels.
	ErrTooLarge   = errors.New("image too large")
)

// Options configures PNG rendering.
type Options struct {
	// Scale multiplies canvas units. Zero means 1.
	Scale float64
	// Padding is the margin around the drawing in canvas units. Negative
	// values are treated as zero.
	Padding float64
	// Labels prints node IDs inside the circles.
	Labels bool
	// LineWidth is the stroke width of edges and node borders. Zero means 2.
	LineWidth float64
}

// DefaultOptions returns the options used by the render command.
func DefaultOptions() Options {
	return Options{Scale: 1, Padding: 24, Labels: true, LineWidth: 2}
}

// Validate rejects NaN, infinities and values above MaxScale or MaxPadding.
func (o Options) Validate() error {
	switch {
	case math.IsNaN(o.Scale) || o.Scale < 0 || o.Scale > MaxScale:
		return fmt.Errorf("%w: scale %v outside [0, %v]", ErrBadOptions, o.Scale, MaxScale)
	case math.IsNaN(o.Padding) || o.Padding > MaxPadding || math.IsInf(o.Padding, -1):
		return fmt.Errorf("%w: padding %v above %v", ErrBadOptions, o.Padding, MaxPadding)
	case math.IsNaN(o.LineWidth) || math.IsInf(o.LineWidth, 0):
		return fmt.Errorf("%w: line width %v", ErrBadOptions, o.LineWidth)
	}
	return nil
}

// RenderPNG draws g cropped to its bounds plus padding on a white
// background. Edges are painted first, then nodes in drawing order.
func RenderPNG(g *graph.Graph, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 2
	}
	pad := math.Max(opts.Padding, 0)

	lo, hi, ok := g.Bounds()
	if !ok {
		lo, hi = graph.Point{}, graph.Point{X: 1, Y: 1}
	}
	fw := math.Ceil((hi.X - lo.X + 2*pad) * opts.Scale)
	fh := math.Ceil((hi.Y - lo.Y + 2*pad) * opts.Scale)
	if !(fw*fh <= MaxPixels) {
		return nil, fmt.Errorf("%w: %vx%v pixels", ErrTooLarge, fw, fh)
	}
	w, h := max(int(fw), 1), max(int(fh), 1)

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(pad-lo.X, pad-lo.Y)
	dc.SetLineWidth(opts.LineWidth)

	nodes := g.DrawOrder()
	pos := make(map[graph.NodeID]graph.Point, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n.Pos
	}

	for _, e := range g.Edges() {
		a, b := pos[e.From], pos[e.To]
		dc.SetRGB(e.Color.RGB())
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}

	for _, n := range nodes {
		dc.DrawCircle(n.Pos.X, n.Pos.Y, n.Radius)
		dc.SetRGB(1, 1, 1)
		dc.FillPreserve()
		dc.SetRGB(n.Color.RGB())
		dc.Stroke()
		if opts.Labels {
			dc.DrawStringAnchored(strconv.Itoa(int(n.ID)), n.Pos.X, n.Pos.Y, 0.5, 0.35)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

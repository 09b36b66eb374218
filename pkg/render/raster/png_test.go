package raster

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/matzehuels/graphpad/pkg/graph"
)

func TestRenderPNGSize(t *testing.T) {
	g := graph.New()
	g.CreateNode(graph.Point{X: 50, Y: 50}, graph.Black)
	g.CreateNode(graph.Point{X: 150, Y: 90}, graph.Black)

	tests := []struct {
		name  string
		opts  Options
		wantW int
		wantH int
	}{
		{"tight", Options{}, 124, 64},
		{"padded", Options{Padding: 10}, 144, 84},
		{"scaled", Options{Scale: 2}, 248, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(g, tt.opts)
			if err != nil {
				t.Fatalf("RenderPNG: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderPNGColors(t *testing.T) {
	g := graph.New()
	g.CreateNode(graph.Point{X: 50, Y: 50}, graph.Red)

	data, err := RenderPNG(g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	// The image is 24x24 with the node centered; its border runs along x=0.
	r, gr, b, _ := img.At(0, 12).RGBA()
	if r>>8 < 200 || gr>>8 > 80 || b>>8 > 80 {
		t.Errorf("border pixel = (%d, %d, %d), want red", r>>8, gr>>8, b>>8)
	}
	r, gr, b, _ = img.At(12, 12).RGBA()
	if r>>8 != 255 || gr>>8 != 255 || b>>8 != 255 {
		t.Errorf("center pixel = (%d, %d, %d), want white fill", r>>8, gr>>8, b>>8)
	}
}

func TestRenderPNGEmptyGraph(t *testing.T) {
	data, err := RenderPNG(graph.New(), DefaultOptions())
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("empty graph produced an invalid PNG: %v", err)
	}
}

func TestRenderPNGRejectsBadOptions(t *testing.T) {
	g := graph.New()
	g.CreateNode(graph.Point{X: 50, Y: 50}, graph.Black)

	tests := []struct {
		name string
		opts Options
	}{
		{"nan scale", Options{Scale: math.NaN()}},
		{"inf scale", Options{Scale: math.Inf(1)}},
		{"negative scale", Options{Scale: -1}},
		{"scale above max", Options{Scale: MaxScale + 1}},
		{"nan padding", Options{Padding: math.NaN()}},
		{"padding above max", Options{Padding: MaxPadding * 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderPNG(g, tt.opts); !errors.Is(err, ErrBadOptions) {
				t.Errorf("RenderPNG err = %v, want ErrBadOptions", err)
			}
		})
	}
}

func TestRenderPNGPixelBudget(t *testing.T) {
	g := graph.New()
	g.CreateNode(graph.Point{X: 0, Y: 0}, graph.Black)
	g.CreateNode(graph.Point{X: 1e5, Y: 1e5}, graph.Black)

	if _, err := RenderPNG(g, Options{}); !errors.Is(err, ErrTooLarge) {
		t.Errorf("RenderPNG err = %v, want ErrTooLarge", err)
	}
}

package cli

import (
	"reflect"
	"testing"

	"github.com/matzehuels/graphpad/pkg/render"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		want    []render.Format
		wantErr bool
	}{
		{"empty defaults to svg", "", "", []render.Format{render.FormatSVG}, false},
		{"empty follows output extension", "", "a.png", []render.Format{render.FormatPNG}, false},
		{"unknown output extension", "", "a.out", []render.Format{render.FormatSVG}, false},
		{"single format", "dot", "", []render.Format{render.FormatDOT}, false},
		{"multiple formats", "svg, dot,png", "", []render.Format{render.FormatSVG, render.FormatDOT, render.FormatPNG}, false},
		{"flag wins over extension", "dot", "a.png", []render.Format{render.FormatDOT}, false},
		{"invalid format", "svg,pdf", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFormats(tt.input, tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormats(%q, %q) error = %v, wantErr %v", tt.input, tt.output, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q, %q) = %v, want %v", tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []render.Format
		format  render.Format
		want    string
	}{
		{"explicit single output", "x/diagram.png", []render.Format{render.FormatPNG}, render.FormatPNG, "x/diagram.png"},
		{"derived from input", "", []render.Format{render.FormatSVG}, render.FormatSVG, "a.svg"},
		{"base path for several", "out/d", []render.Format{render.FormatSVG, render.FormatDOT}, render.FormatDOT, "out/d.dot"},
		{"extension replaced when format differs", "out/d.svg", []render.Format{render.FormatDOT}, render.FormatDOT, "out/d.dot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &renderOpts{output: tt.output, formats: tt.formats}
			if got := outputPath(opts, "a.graph", tt.format); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

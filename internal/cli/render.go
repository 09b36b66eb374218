package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	gpio "github.com/matzehuels/graphpad/pkg/io"
	"github.com/matzehuels/graphpad/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string          // output file, or base path for several formats
	formats []render.Format // dot, svg, png
	render  render.Options
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{render: render.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Export a graph as DOT, SVG or PNG",
		Long: `Export a saved graph.

DOT output pins every node at its canvas position. SVG is produced from the
same DOT source with graphviz. PNG is drawn directly and cropped to the
graph's extent plus --padding.

The format is taken from --format, else from the extension of --output,
else SVG.`,
		Example: `  graphpad render diagram.graph
  graphpad render diagram.graph -o diagram.png --scale 2
  graphpad render diagram.graph -f dot,svg,png -o out/diagram`,
		ValidArgsFunction: completeGraphFiles,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr, opts.output)
			if err != nil {
				return err
			}
			opts.formats = formats
			if err := opts.render.Validate(); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid render options")
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, dot, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.render.Labels, "labels", opts.render.Labels, "print node IDs")
	cmd.Flags().Float64Var(&opts.render.Scale, "scale", opts.render.Scale, "PNG pixels per canvas unit")
	cmd.Flags().Float64Var(&opts.render.Padding, "padding", opts.render.Padding, "PNG margin in canvas units")

	return cmd
}

// parseFormats parses the --format flag. An empty flag falls back to the
// extension of output, then to SVG.
func parseFormats(s, output string) ([]render.Format, error) {
	if s == "" {
		if f, err := render.FormatFromPath(output); err == nil {
			return []render.Format{f}, nil
		}
		return []render.Format{render.FormatSVG}, nil
	}
	var out []render.Format
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(strings.TrimSpace(part))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid --format")
		}
		out = append(out, f)
	}
	return out, nil
}

// basePath derives the output path without extension. An empty output
// strips the extension from the input; a known format extension is removed
// from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if _, err := render.FormatFromPath(output); err == nil {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPath names the file for format f. A single format written to an
// explicit output path keeps that path as given.
func outputPath(opts *renderOpts, input string, f render.Format) string {
	if len(opts.formats) == 1 && opts.output != "" {
		if g, err := render.FormatFromPath(opts.output); err == nil && g == f {
			return opts.output
		}
	}
	return basePath(opts.output, input) + "." + string(f)
}

func runRender(ctx context.Context, stdout, stderr io.Writer, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Rendering %s", input)

	g, err := gpio.ImportFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	prog := newProgress(logger)
	var written []string
	for _, f := range opts.formats {
		path := outputPath(opts, input, f)
		if err := renderAndWrite(ctx, stderr, g, f, path, opts.render); err != nil {
			return err
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))

	printSuccess(stdout, "Rendered %s", input)
	printDetail(stdout, "%d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	for _, p := range written {
		printFile(stdout, p)
	}
	return nil
}

func renderAndWrite(ctx context.Context, stderr io.Writer, g *graph.Graph, f render.Format, path string, opts render.Options) error {
	// SVG goes through the graphviz layout, which is slow enough to show.
	var spinner *Spinner
	if f == render.FormatSVG {
		spinner = newSpinner(ctx, stderr, "Running graphviz...")
		spinner.Start()
	}
	data, err := render.Render(ctx, g, f, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "render %s", f)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeIO, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

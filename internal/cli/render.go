package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/io"
	"github.com/matzehuels/geospanner/pkg/pipeline"
	"github.com/matzehuels/geospanner/pkg/render/nodelink"
)

// Render output formats.
const (
	renderSVG = "svg"
	renderPDF = "pdf"
	renderPNG = "png"
	renderDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file; the extension picks the format unless --format is set
	format     string  // svg, pdf, png or dot
	input      string  // saved instance JSON instead of a run command
	labels     bool    // print node indices
	candidates bool    // draw all candidate edges beneath the spanner
	size       float64 // drawing extent in points
	scale      float64 // PNG scale factor
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{size: nodelink.DefaultSize, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [<algorithm> <args...>]",
		Short: "Draw a spanner as SVG, PDF, PNG or DOT",
		Long: `Run an algorithm and draw the resulting spanner with every point at its
coordinates. Instead of a run command, --input draws a file written by
"generate" or "--save".

Example:
  geospanner render greedy 1.5 euclid uniform 1 200 -o greedy.svg`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.input == "" && len(args) == 0 {
				return errors.New(errors.ErrCodeArgumentParse, "Not enough args!")
			}
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (required)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, pdf, png or dot (default from extension)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "draw a saved instance JSON file")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes with their index")
	cmd.Flags().BoolVar(&opts.candidates, "candidates", false, "draw the candidate edges in grey")
	cmd.Flags().Float64Var(&opts.size, "size", opts.size, "drawing size in points")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, args []string, opts renderOpts) error {
	format, err := renderFormat(opts)
	if err != nil {
		return err
	}

	inst, g, background, err := c.renderSource(ctx, args, opts)
	if err != nil {
		return err
	}
	if !opts.candidates {
		background = nil
	}
	dot := nodelink.ToDOT(inst, g, nodelink.Options{Size: opts.size, Labels: opts.labels, Background: background})

	spinner := newSpinnerWithContext(ctx, "Rendering "+format+"...")
	spinner.Start()
	data, err := renderBytes(ctx, dot, format, opts.scale)
	spinner.Stop()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %d points, %d edges", inst.Len(), g.EdgeCount())
	printFile(opts.output)
	return nil
}

// renderSource returns the instance and spanner to draw, plus the
// candidate graph for --candidates.
func (c *CLI) renderSource(ctx context.Context, args []string, opts renderOpts) (*instance.Instance, *graph.Graph, *graph.Graph, error) {
	if opts.input != "" {
		inst, g, err := io.ImportJSON(opts.input)
		if err != nil {
			return nil, nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", opts.input)
		}
		if g == nil {
			g = graph.New(inst.Len())
		}
		return inst, g, io.Candidates(inst, nil), nil
	}

	options, err := pipeline.ParseArgs(args)
	if err != nil {
		return nil, nil, nil, err
	}
	options.Refresh = true

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	result, err := runner.Execute(ctx, options)
	if err != nil {
		return nil, nil, nil, err
	}
	background := io.Candidates(result.Instance, nil)
	if len(result.Stages) > 1 {
		background = result.Stages[0].Spanner
	}
	return result.Instance, result.Spanner, background, nil
}

func renderFormat(opts renderOpts) (string, error) {
	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}
	switch format {
	case renderSVG, renderPDF, renderPNG, renderDOT:
		return format, nil
	case "":
		return renderSVG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want svg, pdf, png or dot)", format)
	}
}

func renderBytes(ctx context.Context, dot, format string, scale float64) ([]byte, error) {
	switch format {
	case renderDOT:
		return []byte(dot), nil
	case renderPDF:
		return nodelink.RenderPDF(ctx, dot)
	case renderPNG:
		return nodelink.RenderPNG(ctx, dot, scale)
	default:
		return nodelink.RenderSVG(ctx, dot)
	}
}

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/geospanner/pkg/geo"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/render"
)

// DefaultSize is the drawing extent in points along the longer axis.
const DefaultSize = 720.0

// Options configures node-link diagram rendering.
type Options struct {
	// Size is the extent of the longer axis in points. Zero means DefaultSize.
	Size float64

	// Labels prints node indices next to the dots.
	Labels bool

	// Background is drawn in light grey beneath the spanner, typically the
	// candidate graph the spanner was built from. Edges already in the
	// spanner are not repeated.
	Background *graph.Graph
}

// ToDOT converts a spanner over inst to Graphviz DOT with pinned positions.
func ToDOT(inst *instance.Instance, g *graph.Graph, opts Options) string {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	proj := newProjection(inst, size)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=\"edgesfirst\";\n")
	if opts.Labels {
		buf.WriteString("  node [shape=circle, style=filled, fillcolor=black, fontcolor=white, fontsize=8, width=0.2, height=0.2, fixedsize=true];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.06];\n")
	}
	buf.WriteString("  edge [penwidth=0.8];\n")
	buf.WriteString("\n")

	for i, p := range inst.Points {
		x, y := proj.apply(p)
		label := ""
		if opts.Labels {
			label = strconv.Itoa(i)
		}
		fmt.Fprintf(&buf, "  %d [pos=\"%.2f,%.2f!\", label=%q];\n", i, x, y, label)
	}

	if opts.Background != nil {
		buf.WriteString("\n")
		for _, e := range opts.Background.Edges() {
			if g.HasEdge(e.U, e.V) {
				continue
			}
			fmt.Fprintf(&buf, "  %d -- %d [color=\"#d0d0d0\", penwidth=0.4];\n", e.U, e.V)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.U, e.V)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type projection struct {
	space      geo.Space
	minX, minY float64
	scale      float64
}

func newProjection(inst *instance.Instance, size float64) projection {
	p := projection{space: inst.Space(), scale: 1}
	var w, h float64
	switch inst.Space() {
	case geo.Sphere:
		p.minX, p.minY = -math.Pi, -math.Pi/2
		w, h = 2*math.Pi, math.Pi
	default:
		w, h = inst.Params.MaxX, inst.Params.MaxY
		if w <= 0 || h <= 0 {
			w, h = extent(inst.Points)
		}
	}
	if m := max(w, h); m > 0 {
		p.scale = size / m
	}
	return p
}

func (p projection) apply(pt geo.Point) (float64, float64) {
	x, y := pt.X, pt.Y
	if p.space == geo.Sphere {
		x = geo.WrapLon(x)
	}
	return (x - p.minX) * p.scale, (y - p.minY) * p.scale
}

func extent(points []geo.Point) (float64, float64) {
	var w, h float64
	for _, pt := range points {
		w = max(w, pt.X)
		h = max(h, pt.Y)
	}
	return w, h
}

// RenderSVG renders DOT from [ToDOT] to SVG with the neato engine, keeping
// the pinned positions.
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

// RenderPDF renders DOT as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

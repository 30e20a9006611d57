// Package render draws instances and spanners.
//
// The [nodelink] subpackage turns a spanner into Graphviz DOT with every
// node pinned at its coordinates and renders it to SVG. [ToPDF] and [ToPNG]
// convert that SVG with the external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(inst, g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/geospanner/pkg/render/nodelink
package render

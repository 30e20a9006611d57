// Package nodelink renders spanners as node-link diagrams.
//
// Every point becomes a small dot pinned at its coordinates and every
// spanner edge a straight line, so the drawing shows the geometry the
// builder worked on. Sphere instances are drawn in the equirectangular
// projection (longitude right, latitude up).
//
// # Usage
//
//	dot := nodelink.ToDOT(inst, g, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The generated DOT is laid out with neato using pinned positions, so
// external tools reproduce the same picture with "neato -n".
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

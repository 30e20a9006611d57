package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/geospanner/pkg/geo"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
)

type document struct {
	Params instance.Params `json:"params"`
	Points []geo.Point      `json:"points"`
	Edges  []graph.Edge     `json:"edges,omitempty"`
}

// WriteJSON encodes an instance, and the spanner g when it is not nil.
func WriteJSON(w io.Writer, inst *instance.Instance, g *graph.Graph) error {
	doc := document{
		Params: inst.Params,
		Points: inst.Points,
	}
	if g != nil {
		if g.NodeCount() != inst.Len() {
			return fmt.Errorf("spanner has %d nodes, instance has %d", g.NodeCount(), inst.Len())
		}
		doc.Edges = g.Edges()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes an instance and optional spanner to a file at path.
func ExportJSON(path string, inst *instance.Instance, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, inst, g)
}

// WriteGraphML writes g one element per line, with edge weights as cost
// function c_0.
func WriteGraphML(w io.Writer, g *graph.Graph) error {
	bw := &errWriter{w: w}
	bw.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	bw.printf("<graphml xmlns=\"http://graphml.graphdrawing.org/xmlns\">\n")
	bw.printf("<key id=\"c_0\" for=\"edge\" attr.name=\"cost\" attr.type=\"double\"/>\n")
	bw.printf("<graph id=\"G\" edgedefault=\"undirected\">\n")
	for v := 0; v < g.NodeCount(); v++ {
		bw.printf("<node id=\"%d\">\n</node>\n", v)
	}
	for i, e := range g.Edges() {
		bw.printf("<edge id=\"%d\" source=\"%d\" target=\"%d\">\n", i, e.U, e.V)
		bw.printf("<data key=\"c_0\">%s</data>\n", formatFloat(e.W))
		bw.printf("</edge>\n")
	}
	bw.printf("</graph>\n</graphml>\n")
	return bw.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

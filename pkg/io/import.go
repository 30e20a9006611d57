package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
)

// ReadJSON decodes an instance and its edges. The graph is nil when the
// document has no "edges" array. Edge weights are kept as written.
//
// ReadJSON returns an error if the JSON is malformed, the space is unknown,
// or an edge is invalid (out of range, self loop, duplicate, negative weight).
func ReadJSON(r io.Reader) (*instance.Instance, *graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	if !doc.Params.Space.Valid() {
		return nil, nil, fmt.Errorf("decode: missing space")
	}

	inst := &instance.Instance{Params: doc.Params, Points: doc.Points}
	if inst.Params.Distribution != instance.Cluster {
		inst.Params.N = len(doc.Points)
	}
	if doc.Edges == nil {
		return inst, nil, nil
	}
	g := graph.New(len(doc.Points))
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.U, e.V, e.W); err != nil {
			return nil, nil, fmt.Errorf("edge %d-%d: %w", e.U, e.V, err)
		}
	}
	return inst, g, nil
}

// ImportJSON reads a JSON file at path.
func ImportJSON(path string) (*instance.Instance, *graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// metricEdges returns the complete graph of inst with metric weights.
func metricEdges(inst *instance.Instance) *graph.Graph {
	g := graph.New(inst.Len())
	for u := 0; u < inst.Len(); u++ {
		for v := u + 1; v < inst.Len(); v++ {
			_ = g.AddEdge(u, v, inst.Distance(u, v))
		}
	}
	return g
}

// Candidates returns the edges of a document to prune: the stored edges,
// or every pair of points when there are none.
func Candidates(inst *instance.Instance, g *graph.Graph) *graph.Graph {
	if g != nil {
		return g
	}
	return metricEdges(inst)
}

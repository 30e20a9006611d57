package graph

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNodeOutOfRange is returned by [Graph.AddEdge] when an endpoint is
	// not in 0..n-1.
	ErrNodeOutOfRange = errors.New("node index out of range")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are equal.
	ErrSelfLoop = errors.New("self-loop")

	// ErrInvalidWeight is returned by [Graph.AddEdge] for negative or NaN weights.
	ErrInvalidWeight = errors.New("invalid edge weight")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the endpoints are
	// already connected.
	ErrDuplicateEdge = errors.New("duplicate edge")
)

// Edge is an undirected weighted edge between node indices U and V.
type Edge struct {
	U int     `json:"source"`
	V int     `json:"target"`
	W float64 `json:"weight"`
}

// Arc is one direction of an edge as seen from its tail.
type Arc struct {
	To   int     // Head node
	W    float64 // Edge weight
	Edge int     // Index into Edges()
}

// Graph is a simple undirected weighted graph over a fixed node set.
// It is not safe for concurrent mutation.
type Graph struct {
	n     int
	edges []Edge
	adj   [][]Arc
	index map[[2]int]int
}

// New returns an edgeless graph with n nodes.
func New(n int) *Graph {
	return &Graph{
		n:     n,
		adj:   make([][]Arc, n),
		index: make(map[[2]int]int),
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.n }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddEdge connects u and v with weight w.
func (g *Graph) AddEdge(u, v int, w float64) error {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return fmt.Errorf("%w: (%d, %d) with %d nodes", ErrNodeOutOfRange, u, v, g.n)
	}
	if u == v {
		return fmt.Errorf("%w: node %d", ErrSelfLoop, u)
	}
	if w < 0 || math.IsNaN(w) {
		return fmt.Errorf("%w: (%d, %d) weight=%v", ErrInvalidWeight, u, v, w)
	}
	k := key(u, v)
	if _, ok := g.index[k]; ok {
		return fmt.Errorf("%w: (%d, %d)", ErrDuplicateEdge, u, v)
	}

	id := len(g.edges)
	g.edges = append(g.edges, Edge{U: u, V: v, W: w})
	g.adj[u] = append(g.adj[u], Arc{To: v, W: w, Edge: id})
	g.adj[v] = append(g.adj[v], Arc{To: u, W: w, Edge: id})
	g.index[k] = id
	return nil
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.index[key(u, v)]
	return ok
}

// Weight returns the weight of the edge between u and v.
func (g *Graph) Weight(u, v int) (float64, bool) {
	id, ok := g.index[key(u, v)]
	if !ok {
		return 0, false
	}
	return g.edges[id].W, true
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Neighbors returns the arcs leaving u. The slice must not be modified.
func (g *Graph) Neighbors(u int) []Arc {
	return g.adj[u]
}

// Degree returns the number of edges incident to u.
func (g *Graph) Degree(u int) int {
	return len(g.adj[u])
}

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() float64 {
	return TotalWeight(g.edges)
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := New(g.n)
	for _, e := range g.edges {
		_ = c.AddEdge(e.U, e.V, e.W)
	}
	return c
}

// SortedEdges returns the edges ordered by weight. Ties are broken by
// endpoints so the order is deterministic.
func (g *Graph) SortedEdges() []Edge {
	edges := g.Edges()
	SortEdges(edges)
	return edges
}

// TotalWeight sums the weights of edges. The empty set weighs zero.
// Weights are added in ascending order, so the result does not depend on the
// order of edges.
func TotalWeight(edges []Edge) float64 {
	weights := make([]float64, len(edges))
	for i, e := range edges {
		weights[i] = e.W
	}
	slices.Sort(weights)

	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum
}

// SortEdges orders edges by weight, then by endpoints.
func SortEdges(edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.W, b.W); c != 0 {
			return c
		}
		au, av := minmax(a.U, a.V)
		bu, bv := minmax(b.U, b.V)
		if c := cmp.Compare(au, bu); c != 0 {
			return c
		}
		return cmp.Compare(av, bv)
	})
}

func key(u, v int) [2]int {
	u, v = minmax(u, v)
	return [2]int{u, v}
}

func minmax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

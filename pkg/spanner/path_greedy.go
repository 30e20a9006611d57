package spanner

import (
	"context"
	"math"

	"github.com/matzehuels/geospanner/pkg/graph"
)

// pathGreedy is the path greedy spanner over all pairs of points. It yields
// the same graph as the basic greedy algorithm but keeps an upper bound on
// every pair's spanner distance, taken from earlier full shortest-path trees,
// and only searches when that bound does not already prove the pair is
// covered.
type pathGreedy struct{}

func (pathGreedy) Name() string { return PathRestricted.String() }

func (pathGreedy) Build(ctx context.Context, in Input, t float64) (*graph.Graph, error) {
	if in.Instance == nil {
		return nil, ErrNoInstance
	}
	if err := validStretch(t); err != nil {
		return nil, err
	}

	n := in.Instance.Len()
	g := graph.New(n)
	s := graph.NewSearcher(g)
	upper := newBoundMatrix(n)

	for i, p := range allPairs(in.Instance) {
		if err := interrupted(ctx, i); err != nil {
			return nil, err
		}
		limit := t * p.W
		if upper.get(p.U, p.V) <= limit {
			continue
		}
		s.Search(p.U)
		for _, r := range s.Settled() {
			upper.set(p.U, r, s.Dist(r))
		}
		if s.Dist(p.V) > limit {
			_ = g.AddEdge(p.U, p.V, p.W)
			upper.set(p.U, p.V, p.W)
		}
	}
	return g, nil
}

// boundMatrix stores symmetric distance upper bounds, +Inf when unknown.
type boundMatrix struct {
	n int
	d []float64
}

func newBoundMatrix(n int) *boundMatrix {
	d := make([]float64, n*n)
	for i := range d {
		d[i] = math.Inf(1)
	}
	return &boundMatrix{n: n, d: d}
}

func (m *boundMatrix) get(u, v int) float64 { return m.d[u*m.n+v] }

func (m *boundMatrix) set(u, v int, d float64) {
	m.d[u*m.n+v] = d
	m.d[v*m.n+u] = d
}

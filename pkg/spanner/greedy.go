package spanner

import (
	"context"

	"github.com/matzehuels/geospanner/pkg/graph"
)

type greedy struct{}

func (greedy) Name() string { return Greedy.String() }

func (greedy) Build(ctx context.Context, in Input, t float64) (*graph.Graph, error) {
	if in.Candidates != nil {
		return PruneByGreedy(ctx, in.Candidates, t)
	}
	if in.Instance == nil {
		return nil, ErrNoInstance
	}
	if err := validStretch(t); err != nil {
		return nil, err
	}
	return greedyOver(ctx, in.Instance.Len(), allPairs(in.Instance), t)
}

// PruneByGreedy runs the basic greedy algorithm over candidates: edges are
// taken by increasing weight and kept only when the spanner built so far
// has no path between their endpoints within t times their weight. The
// result is a t-spanner of candidates using a subset of its edges.
func PruneByGreedy(ctx context.Context, candidates *graph.Graph, t float64) (*graph.Graph, error) {
	if err := validStretch(t); err != nil {
		return nil, err
	}
	return greedyOver(ctx, candidates.NodeCount(), candidates.SortedEdges(), t)
}

// greedyOver expects edges sorted by weight.
func greedyOver(ctx context.Context, n int, edges []graph.Edge, t float64) (*graph.Graph, error) {
	g := graph.New(n)
	s := graph.NewSearcher(g)
	for i, e := range edges {
		if err := interrupted(ctx, i); err != nil {
			return nil, err
		}
		limit := t * e.W
		s.Search(e.U, graph.WithBound(limit), graph.WithTarget(e.V))
		if s.Dist(e.V) > limit {
			_ = g.AddEdge(e.U, e.V, e.W)
		}
	}
	return g, nil
}

package spanner

import (
	"context"
	"fmt"

	"github.com/matzehuels/geospanner/pkg/graph"
)

// deltaGreedy is the Δ-greedy spanner. Pairs are visited shortest first.
// A pair already known to be within stretch t is skipped. Otherwise one
// shortest-path tree is grown from its first endpoint: the edge is added
// when the current path is longer than δ times the distance, and every
// pair (p, r) the tree shows to be within stretch t is marked covered.
//
// With 1 ≤ δ ≤ t the result is a t-spanner; δ = t gives the greedy spanner,
// smaller δ adds more edges but settles more pairs per search.
type deltaGreedy struct {
	delta float64
}

func (b deltaGreedy) Name() string { return DeltaWeighted.String() }

func (b deltaGreedy) Build(ctx context.Context, in Input, t float64) (*graph.Graph, error) {
	if in.Instance == nil {
		return nil, ErrNoInstance
	}
	if err := validStretch(t); err != nil {
		return nil, err
	}
	if b.delta < 1 || b.delta > t {
		return nil, fmt.Errorf("%w: delta=%v t=%v", ErrInvalidDelta, b.delta, t)
	}

	inst := in.Instance
	n := inst.Len()
	g := graph.New(n)
	s := graph.NewSearcher(g)
	covered := make([]bool, n*n)

	for i, p := range allPairs(inst) {
		if err := interrupted(ctx, i); err != nil {
			return nil, err
		}
		if covered[p.U*n+p.V] {
			continue
		}
		s.Search(p.U)
		for _, r := range s.Settled() {
			if r != p.U && s.Dist(r) <= t*inst.Distance(p.U, r) {
				covered[p.U*n+r] = true
				covered[r*n+p.U] = true
			}
		}
		if s.Dist(p.V) > b.delta*p.W {
			_ = g.AddEdge(p.U, p.V, p.W)
		}
		covered[p.U*n+p.V] = true
		covered[p.V*n+p.U] = true
	}
	return g, nil
}

package spanner

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
)

// MaxStretch returns the largest ratio between the spanner distance and the
// metric distance over all pairs of distinct points. Pairs of coincident
// points are ignored. A graph with fewer than two nodes has stretch 1.
// It returns ctx.Err() when ctx is done before every source is searched.
func MaxStretch(ctx context.Context, in *instance.Instance, g *graph.Graph) (float64, error) {
	if in.Len() != g.NodeCount() {
		return 0, fmt.Errorf("spanner has %d nodes, instance has %d", g.NodeCount(), in.Len())
	}
	n := in.Len()
	worst := 1.0
	s := graph.NewSearcher(g)
	for u := 0; u < n-1; u++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.Search(u)
		for v := u + 1; v < n; v++ {
			d := in.Distance(u, v)
			if d == 0 {
				continue
			}
			sd := s.Dist(v)
			if math.IsInf(sd, 1) {
				return 0, fmt.Errorf("%w: no path between %d and %d", ErrDisconnected, u, v)
			}
			worst = max(worst, sd/d)
		}
	}
	return worst, nil
}

// StretchAgainst returns the largest ratio between distances in g and in
// reference over all pairs connected in reference. It measures a pruned
// graph against the graph it was pruned from when no point set exists.
func StretchAgainst(ctx context.Context, reference, g *graph.Graph) (float64, error) {
	if reference.NodeCount() != g.NodeCount() {
		return 0, fmt.Errorf("graph has %d nodes, reference has %d", g.NodeCount(), reference.NodeCount())
	}
	n := reference.NodeCount()
	worst := 1.0
	ref := graph.NewSearcher(reference)
	s := graph.NewSearcher(g)
	for u := 0; u < n-1; u++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		ref.Search(u)
		s.Search(u)
		for v := u + 1; v < n; v++ {
			d := ref.Dist(v)
			if d == 0 || math.IsInf(d, 1) {
				continue
			}
			sd := s.Dist(v)
			if math.IsInf(sd, 1) {
				return 0, fmt.Errorf("%w: no path between %d and %d", ErrDisconnected, u, v)
			}
			worst = max(worst, sd/d)
		}
	}
	return worst, nil
}

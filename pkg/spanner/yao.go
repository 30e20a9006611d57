package spanner

import (
	"context"
	"math"
	"slices"

	"github.com/matzehuels/geospanner/pkg/graph"
)

// minCones keeps the cone angle below π/3, where the Yao graph is a spanner.
const minCones = 7

// angleSector is the Yao graph: around every point the plane (or the tangent
// plane of the sphere) is split into k cones of equal angle, and the point
// is joined to the nearest other point in each cone.
type angleSector struct{}

func (angleSector) Name() string { return AngleSector.String() }

// coneHit is the nearest point found so far in one cone.
type coneHit struct {
	v int
	d float64
}

func (angleSector) Build(ctx context.Context, in Input, t float64) (*graph.Graph, error) {
	if in.Instance == nil {
		return nil, ErrNoInstance
	}
	k, err := ConeCount(t)
	if err != nil {
		return nil, err
	}

	inst := in.Instance
	n := inst.Len()
	g := graph.New(n)
	width := 2 * math.Pi / float64(k)
	last := float64(k - 1)

	// At most n-1 cones around a point are occupied, so hits are keyed by
	// cone index rather than stored for all k cones.
	nearest := make(map[int]coneHit, min(k, n))
	cones := make([]int, 0, min(k, n))

	for u := 0; u < n; u++ {
		if err := interrupted(ctx, u); err != nil {
			return nil, err
		}
		clear(nearest)
		for v := 0; v < n; v++ {
			if v == u {
				continue
			}
			c := int(math.Min(math.Floor((inst.Bearing(u, v)+math.Pi)/width), last))
			d := inst.Distance(u, v)
			if h, ok := nearest[c]; !ok || d < h.d {
				nearest[c] = coneHit{v: v, d: d}
			}
		}
		cones = cones[:0]
		for c := range nearest {
			cones = append(cones, c)
		}
		slices.Sort(cones)
		for _, c := range cones {
			h := nearest[c]
			if !g.HasEdge(u, h.v) {
				_ = g.AddEdge(u, h.v, h.d)
			}
		}
	}
	return g, nil
}

// ConeCount returns the number of cones a Yao graph needs for stretch t.
// A cone angle θ gives stretch 1/(1 - 2·sin(θ/2)) for θ < π/3.
func ConeCount(t float64) (int, error) {
	if t <= 1 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, ErrStretchTooSmall
	}
	theta := 2 * math.Asin((1-1/t)/2)
	if theta <= 0 {
		return 0, ErrStretchTooSmall
	}
	k := math.Ceil(2 * math.Pi / theta)
	if k >= float64(math.MaxInt) {
		return 0, ErrStretchTooSmall
	}
	return max(int(k), minCones), nil
}

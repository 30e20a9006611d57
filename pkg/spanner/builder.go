package spanner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
)

var (
	// ErrStretchTooSmall is returned when a builder cannot reach the
	// requested stretch factor.
	ErrStretchTooSmall = errors.New("stretch factor too small")

	// ErrInvalidDelta is returned by the Δ-greedy builder when δ is not in [1, t].
	ErrInvalidDelta = errors.New("delta must be in [1, t]")

	// ErrNoInstance is returned by geometric builders given no point set.
	ErrNoInstance = errors.New("builder needs a point instance")

	// ErrDisconnected is returned by the stretch oracle when two points have
	// no connecting path.
	ErrDisconnected = errors.New("spanner is disconnected")
)

// Kind names one of the spanner construction algorithms.
type Kind int

const (
	// AngleSector is the Yao graph builder.
	AngleSector Kind = iota + 1
	// Greedy is the basic greedy builder over a candidate graph.
	Greedy
	// DeltaWeighted is the Δ-greedy builder.
	DeltaWeighted
	// PathRestricted is the path greedy builder over all pairs.
	PathRestricted
)

// Kinds lists every algorithm in a stable order.
var Kinds = []Kind{AngleSector, Greedy, DeltaWeighted, PathRestricted}

// ParseKind maps an algorithm name to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown spanner algorithm %q", name)
}

// String returns the algorithm name.
func (k Kind) String() string {
	switch k {
	case AngleSector:
		return "yao"
	case Greedy:
		return "greedy"
	case DeltaWeighted:
		return "delta-greedy"
	case PathRestricted:
		return "path-greedy"
	default:
		return "unknown"
	}
}

// Input is what a builder works on: a point instance, an explicit candidate
// graph, or both. When Candidates is nil the candidates are all pairs of
// points with their metric distance.
type Input struct {
	Instance   *instance.Instance
	Candidates *graph.Graph
}

// Len returns the number of nodes of the input.
func (in Input) Len() int {
	if in.Candidates != nil {
		return in.Candidates.NodeCount()
	}
	if in.Instance != nil {
		return in.Instance.Len()
	}
	return 0
}

// Builder constructs a spanner with stretch at most t.
type Builder interface {
	// Name returns the algorithm name.
	Name() string
	// Build returns a new graph over the input's nodes whose edges are a
	// subset of the candidate edges, with the candidate weights. It stops
	// with ctx.Err() once ctx is done.
	Build(ctx context.Context, in Input, t float64) (*graph.Graph, error)
}

// Options carries algorithm-specific parameters.
type Options struct {
	// Delta is the Δ-greedy acceptance factor.
	Delta float64
}

// New returns the builder for kind.
func New(kind Kind, opts Options) (Builder, error) {
	switch kind {
	case AngleSector:
		return angleSector{}, nil
	case Greedy:
		return greedy{}, nil
	case DeltaWeighted:
		return deltaGreedy{delta: opts.Delta}, nil
	case PathRestricted:
		return pathGreedy{}, nil
	default:
		return nil, fmt.Errorf("unknown spanner algorithm %d", int(kind))
	}
}

func validStretch(t float64) error {
	if t < 1 || math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: %v", ErrStretchTooSmall, t)
	}
	return nil
}

// checkEvery is how many loop steps run between context checks.
const checkEvery = 256

// interrupted returns ctx.Err() on every checkEvery-th step and nil otherwise.
func interrupted(ctx context.Context, step int) error {
	if step%checkEvery != 0 {
		return nil
	}
	return ctx.Err()
}

// pair is a candidate edge of the complete graph.
type pair = graph.Edge

// allPairs returns every pair of points with its distance, shortest first.
func allPairs(in *instance.Instance) []pair {
	n := in.Len()
	pairs := make([]pair, 0, n*(n-1)/2)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			pairs = append(pairs, pair{U: u, V: v, W: in.Distance(u, v)})
		}
	}
	graph.SortEdges(pairs)
	return pairs
}

// completeGraph materializes all pairs of points as a graph.
func completeGraph(in *instance.Instance) *graph.Graph {
	g := graph.New(in.Len())
	for _, p := range allPairs(in) {
		_ = g.AddEdge(p.U, p.V, p.W)
	}
	return g
}

package server

import (
	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/pipeline"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

// candidateEdges bounds the number of edges the first stage of a validated
// run holds in memory. The greedy family enumerates every pair; a Yao graph
// keeps at most one neighbour per occupied cone of every point.
func candidateEdges(opts pipeline.Options) int {
	n := opts.Instance.Size()
	shape, kind, err := pipeline.ShapeOf(opts.Algorithm)
	if err != nil || kind != spanner.AngleSector {
		return n * (n - 1) / 2
	}
	t := opts.Stretch
	if shape == pipeline.Forward {
		t = opts.IntermediateStretch
	}
	k, err := spanner.ConeCount(t)
	if err != nil {
		return n * (n - 1) / 2
	}
	return n * min(k, n-1)
}

// checkLimits rejects runs larger than the server accepts.
func (s *Server) checkLimits(opts pipeline.Options) error {
	if n := opts.Instance.Size(); s.MaxNodes > 0 && n > s.MaxNodes {
		return errors.New(errors.ErrCodeInvalidParameters,
			"instance has %d nodes, this server accepts at most %d", n, s.MaxNodes)
	}
	if m := candidateEdges(opts); s.MaxEdges > 0 && m > s.MaxEdges {
		return errors.New(errors.ErrCodeInvalidParameters,
			"%s on %d nodes needs up to %d candidate edges, this server accepts at most %d",
			opts.Algorithm, opts.Instance.Size(), m, s.MaxEdges)
	}
	return nil
}

package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/observability"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

// StageResult is the output of one builder invocation.
type StageResult struct {
	// Stage is 1 or 2.
	Stage   int
	Builder string
	Stretch float64
	Spanner *graph.Graph
	Elapsed time.Duration
}

// RunStage builds a spanner of in with stretch t. Builder failures are
// ALGORITHM_FAILURE errors. A build stopped by ctx is a TIMEOUT error.
func RunStage(ctx context.Context, stage int, b spanner.Builder, in spanner.Input, t float64) (StageResult, error) {
	res := StageResult{Stage: stage, Builder: b.Name(), Stretch: t}
	if err := ctx.Err(); err != nil {
		return res, errors.Wrap(errors.ErrCodeTimeout, err, "stage %d cancelled", stage)
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage, res.Builder, in.Len())

	start := time.Now()
	g, err := b.Build(ctx, in, t)
	res.Elapsed = time.Since(start)

	edges := 0
	if g != nil {
		edges = g.EdgeCount()
	}
	hooks.OnStageComplete(ctx, stage, res.Builder, edges, res.Elapsed, err)
	if err != nil {
		return res, failure(err, "stage %d (%s, t=%g)", stage, res.Builder, t)
	}
	res.Spanner = g
	return res, nil
}

// failure wraps a builder or measurement error. Errors from a done context
// become TIMEOUT, everything else ALGORITHM_FAILURE.
func failure(err error, format string, args ...any) error {
	code := errors.ErrCodeAlgorithmFailure
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		code = errors.ErrCodeTimeout
	}
	return errors.Wrap(code, err, format, args...)
}

// Materialize copies the edges of a stage result into a fresh candidate
// graph over the same nodes, keeping their weights. The copy shares nothing
// with the stage result.
func Materialize(res StageResult) *graph.Graph {
	return res.Spanner.Clone()
}

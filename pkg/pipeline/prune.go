package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/report"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

// Keys of additional_info written by Prune.
const (
	InfoInputEdges  = "input_edges"
	InfoInputWeight = "input_weight"
)

// PruneOptions describes a greedy pruning of an existing graph.
type PruneOptions struct {
	Stretch float64
	Command string

	// SkipStretch disables the measurement against the input graph.
	SkipStretch bool
}

// Prune runs the greedy algorithm over the edges of candidates with
// stretch t. The stretch is measured against shortest paths in
// candidates, since there is no point set; graphs above
// StretchGuardNodes are not measured.
func (r *Runner) Prune(ctx context.Context, candidates *graph.Graph, opts PruneOptions) (*Result, error) {
	if err := errors.ValidateStretch("stretch", opts.Stretch); err != nil {
		return nil, err
	}
	builders := r.Builders
	if builders == nil {
		builders = spanner.New
	}
	b, err := builders(spanner.Greedy, spanner.Options{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAlgorithmFailure, err, "select builder")
	}

	absStart := time.Now()
	stage, err := RunStage(ctx, 1, b, spanner.Input{Candidates: candidates}, opts.Stretch)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Spanner: stage.Spanner,
		Stages:  []StageResult{stage},
	}
	result.Stats.NodeCount = candidates.NodeCount()
	result.Stats.EdgeCount = stage.Spanner.EdgeCount()
	result.Stats.Stage1Time = stage.Elapsed
	result.Stats.StageTime = stage.Elapsed

	stretch := report.Skipped()
	switch {
	case opts.SkipStretch:
	case candidates.NodeCount() > StretchGuardNodes:
		r.Logger.Info("skipping stretch measurement", "nodes", candidates.NodeCount(), "limit", StretchGuardNodes)
	default:
		start := time.Now()
		v, err := spanner.StretchAgainst(ctx, candidates, stage.Spanner)
		result.Stats.MeasureTime = time.Since(start)
		if err != nil {
			return nil, failure(err, "measure stretch")
		}
		stretch = report.Measured(v)
	}
	result.Stats.AbsoluteTime = time.Since(absStart)

	result.Report = &report.Report{
		ActualStretch: stretch,
		AdditionalInfo: map[string]any{
			InfoInputEdges:         candidates.EdgeCount(),
			InfoInputWeight:        candidates.TotalWeight(),
			report.InfoAbsoluteTime: report.Millis(result.Stats.AbsoluteTime),
		},
		Command:          opts.Command,
		GraphInformation: report.NewGraphInformation(candidates.NodeCount(), stage.Spanner.EdgeCount()),
		Runtime:          report.Millis(stage.Elapsed),
		Status:           report.StatusSuccess,
		Weight:           stage.Spanner.TotalWeight(),
	}
	r.Logger.Debug("pruned graph",
		"input_edges", candidates.EdgeCount(),
		"edges", stage.Spanner.EdgeCount(),
		"stretch", stretch)
	return result, nil
}

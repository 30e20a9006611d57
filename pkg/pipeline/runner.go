package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geospanner/pkg/cache"
	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/observability"
	"github.com/matzehuels/geospanner/pkg/report"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

// BuilderFunc returns the builder of a spanner kind.
type BuilderFunc func(kind spanner.Kind, opts spanner.Options) (spanner.Builder, error)

// Runner executes runs with optional report caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Builders resolves spanner kinds. It defaults to spanner.New.
	Builders BuilderFunc
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Builders: spanner.New,
	}
}

// Execute runs one experiment and returns its report. Any failure aborts
// the run; no partial report is produced.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	key := r.Keyer.ReportKey(opts.Args())
	if !opts.Refresh {
		if rep, ok := r.cached(ctx, key); ok {
			rep.Command = opts.Command
			r.Logger.Debug("report cache hit", "run", opts.describe())
			return &Result{Report: rep, CacheHit: true}, nil
		}
	}

	result, err := r.run(ctx, opts)
	if err != nil {
		return nil, err
	}

	if data, err := report.Marshal(result.Report); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLReport); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}
	return result, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*report.Report, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	rep, err := report.Unmarshal(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "report")
	return rep, true
}

// run executes the pipeline state machine.
func (r *Runner) run(ctx context.Context, opts Options) (*Result, error) {
	builders := r.Builders
	if builders == nil {
		builders = spanner.New
	}
	tr := newTracker(ctx, opts.Command, r.Logger)
	result := &Result{}
	absStart := time.Now()

	inst, err := instance.Generate(opts.Instance)
	if err != nil {
		return nil, err
	}
	result.Instance = inst
	result.Stats.GenerateTime = time.Since(absStart)
	result.Stats.NodeCount = inst.Len()
	if err := tr.advance(StateGenerated); err != nil {
		return nil, err
	}
	r.Logger.Debug("generated instance",
		"points", inst.Len(),
		"duration", result.Stats.GenerateTime)

	shape, kind, err := ShapeOf(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	first, err := builders(kind, spanner.Options{Delta: opts.Delta})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAlgorithmFailure, err, "select builder")
	}

	stageStart := time.Now()
	var final *graph.Graph
	switch shape {
	case Single:
		s1, err := RunStage(ctx, 1, first, spanner.Input{Instance: inst}, opts.Stretch)
		if err != nil {
			return nil, err
		}
		result.Stages = append(result.Stages, s1)
		result.Stats.Stage1Time = s1.Elapsed
		if err := tr.advance(StateStage1Done); err != nil {
			return nil, err
		}
		final = s1.Spanner

	case Forward, Reverse:
		t1 := opts.Stretch
		if shape == Forward {
			t1 = opts.IntermediateStretch
		}
		s1, err := RunStage(ctx, 1, first, spanner.Input{Instance: inst}, t1)
		if err != nil {
			return nil, err
		}
		result.Stages = append(result.Stages, s1)
		result.Stats.Stage1Time = s1.Elapsed
		if err := tr.advance(StateStage1Done); err != nil {
			return nil, err
		}

		tGreedy, err := r.greedyBudget(ctx, shape, opts, inst, s1)
		if err != nil {
			return nil, err
		}
		result.Stats.GreedyStretch = tGreedy

		candidates := Materialize(s1)
		if err := tr.advance(StateMaterialized); err != nil {
			return nil, err
		}

		pruner, err := builders(spanner.Greedy, spanner.Options{})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeAlgorithmFailure, err, "select builder")
		}
		s2, err := RunStage(ctx, 2, pruner, spanner.Input{Instance: inst, Candidates: candidates}, tGreedy)
		if err != nil {
			return nil, err
		}
		result.Stages = append(result.Stages, s2)
		result.Stats.Stage2Time = s2.Elapsed
		if err := tr.advance(StateStage2Done); err != nil {
			return nil, err
		}
		final = s2.Spanner

	default:
		return nil, errors.New(errors.ErrCodeInternal, "unhandled shape %s", shape)
	}
	result.Stats.StageTime = time.Since(stageStart)
	result.Spanner = final
	result.Stats.EdgeCount = final.EdgeCount()

	r.Logger.Debug("built spanner",
		"algorithm", opts.Algorithm,
		"edges", final.EdgeCount(),
		"duration", result.Stats.StageTime)

	stretch, err := r.measure(ctx, shape, inst, final, &result.Stats)
	if err != nil {
		return nil, err
	}
	if err := tr.advance(StateMeasured); err != nil {
		return nil, err
	}
	result.Stats.AbsoluteTime = time.Since(absStart)

	result.Report = &report.Report{
		ActualStretch:    stretch,
		AdditionalInfo:   additionalInfo(opts, result.Stats),
		Command:          opts.Command,
		GraphInformation: report.NewGraphInformation(final.NodeCount(), final.EdgeCount()),
		Runtime:          report.Millis(result.Stats.StageTime),
		Status:           report.StatusSuccess,
		Weight:           final.TotalWeight(),
	}
	if err := tr.advance(StateReported); err != nil {
		return nil, err
	}

	r.Logger.Info("run complete",
		"run", opts.describe(),
		"weight", result.Report.Weight,
		"stretch", stretch,
		"duration", result.Stats.AbsoluteTime)
	return result, nil
}

// greedyBudget returns the stretch of the pruning stage.
func (r *Runner) greedyBudget(ctx context.Context, shape Shape, opts Options, inst *instance.Instance, s1 StageResult) (float64, error) {
	switch shape {
	case Forward:
		return opts.Stretch / opts.IntermediateStretch, nil
	case Reverse:
		actual, err := spanner.MaxStretch(ctx, inst, s1.Spanner)
		if err != nil {
			return 0, failure(err, "measure stage 1")
		}
		budget := opts.Stretch / actual
		if budget < 1 {
			// Only reachable through rounding: a Yao graph never exceeds its stretch.
			r.Logger.Warn("stage 1 exceeded its stretch", "stretch", opts.Stretch, "actual", actual)
			budget = 1
		}
		r.Logger.Debug("greedy budget", "stage1_stretch", actual, "stretch_greedy", budget)
		return budget, nil
	default:
		return 0, errors.New(errors.ErrCodeInternal, "shape %s has no second stage", shape)
	}
}

// measure returns the spanner's worst-case stretch, skipping single-stage
// runs above StretchGuardNodes.
func (r *Runner) measure(ctx context.Context, shape Shape, inst *instance.Instance, g *graph.Graph, stats *Stats) (report.Stretch, error) {
	if shape == Single && inst.Len() > StretchGuardNodes {
		r.Logger.Info("skipping stretch measurement", "nodes", inst.Len(), "limit", StretchGuardNodes)
		observability.Pipeline().OnMeasure(ctx, 0, false, 0)
		return report.Skipped(), nil
	}
	start := time.Now()
	v, err := spanner.MaxStretch(ctx, inst, g)
	stats.MeasureTime = time.Since(start)
	if err != nil {
		return report.Stretch{}, failure(err, "measure stretch")
	}
	observability.Pipeline().OnMeasure(ctx, v, true, stats.MeasureTime)
	return report.Measured(v), nil
}

// additionalInfo returns the algorithm-specific report fields.
func additionalInfo(opts Options, stats Stats) map[string]any {
	info := map[string]any{}
	switch opts.Algorithm {
	case CommandYao:
		info[report.InfoAbsoluteTime] = report.Millis(stats.AbsoluteTime)
	case CommandDeltaGreedy:
		info[report.InfoDelta] = opts.Delta
	case CommandYaoParametrizedPruning:
		info[report.InfoStretchYao] = opts.IntermediateStretch
		info[report.InfoAbsoluteTime] = report.Millis(stats.AbsoluteTime)
	case CommandYaoPruning:
		info[report.InfoStretchGreedy] = stats.GreedyStretch
	}
	return info
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

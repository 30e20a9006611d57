package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/geospanner/pkg/cache"
	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/geo"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/report"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

const eps = 1e-9

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(args)
	require.NoError(t, err, "ParseArgs(%v)", args)
	return opts
}

func TestExecuteSingleGreedy(t *testing.T) {
	opts := mustParse(t, "greedy", "1.5", "euclid", "uniform", "1", "10")
	res, err := quietRunner(nil).Execute(context.Background(), opts)
	require.NoError(t, err)

	rep := res.Report
	assert.Equal(t, 10, rep.GraphInformation.Nodes)
	assert.True(t, rep.GraphInformation.Weighted)
	assert.True(t, rep.GraphInformation.Simple)
	assert.False(t, rep.GraphInformation.Directed)

	stretch, ok := rep.ActualStretch.Value()
	require.True(t, ok, "stretch should be measured")
	assert.LessOrEqual(t, stretch, 1.5+eps)
	assert.Equal(t, report.StatusSuccess, rep.Status)
	assert.Empty(t, rep.AdditionalInfo)
	assert.InDelta(t, res.Spanner.TotalWeight(), rep.Weight, eps)
	assert.Len(t, res.Stages, 1)
}

func TestExecuteForward(t *testing.T) {
	opts := mustParse(t, "yao-parametrized-pruning", "2", "1.3", "euclid", "uniform", "3", "25")
	res, err := quietRunner(nil).Execute(context.Background(), opts)
	require.NoError(t, err)

	assert.InDelta(t, 2.0/1.3, res.Stats.GreedyStretch, eps)
	assert.Equal(t, 1.3, res.Report.AdditionalInfo[report.InfoStretchYao])
	assert.Contains(t, res.Report.AdditionalInfo, report.InfoAbsoluteTime)
	assertSubset(t, res)

	stretch, ok := res.Report.ActualStretch.Value()
	require.True(t, ok)
	assert.LessOrEqual(t, stretch, 2+eps)
}

func TestExecuteReverse(t *testing.T) {
	for seed := 0; seed < 5; seed++ {
		opts := Options{
			Algorithm: CommandYaoPruning,
			Stretch:   1.5,
			Instance: instance.Params{
				Space: geo.Euclid, Distribution: instance.Uniform, Seed: uint64(seed), N: 20,
			},
		}
		res, err := quietRunner(nil).Execute(context.Background(), opts)
		require.NoError(t, err, "seed %d", seed)

		s1, err := spanner.MaxStretch(context.Background(), res.Instance, res.Stages[0].Spanner)
		require.NoError(t, err, "seed %d", seed)
		assert.LessOrEqual(t, res.Stats.GreedyStretch*s1, 1.5+eps, "seed %d", seed)
		assert.Equal(t, res.Stats.GreedyStretch, res.Report.AdditionalInfo[report.InfoStretchGreedy], "seed %d", seed)
		assertSubset(t, res)
	}
}

func assertSubset(t *testing.T, res *Result) {
	t.Helper()
	require.Len(t, res.Stages, 2)
	first := res.Stages[0].Spanner
	for _, e := range res.Stages[1].Spanner.Edges() {
		w, ok := first.Weight(e.U, e.V)
		if assert.True(t, ok, "stage 2 edge (%d, %d) not in stage 1", e.U, e.V) {
			assert.Equal(t, w, e.W, "edge (%d, %d) weight changed", e.U, e.V)
		}
	}
	assert.LessOrEqual(t, res.Stages[1].Spanner.EdgeCount(), first.EdgeCount())
}

func TestAdditionalInfoKeys(t *testing.T) {
	tests := []struct {
		args []string
		keys []string
	}{
		{[]string{"yao", "1.5"}, []string{report.InfoAbsoluteTime}},
		{[]string{"path-greedy", "1.5"}, nil},
		{[]string{"greedy", "1.5"}, nil},
		{[]string{"delta-greedy", "2", "1.4"}, []string{report.InfoDelta}},
		{[]string{"yao-pruning", "1.5"}, []string{report.InfoStretchGreedy}},
		{[]string{"yao-parametrized-pruning", "2", "1.4"}, []string{report.InfoStretchYao, report.InfoAbsoluteTime}},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			args := append(tt.args, "euclid", "uniform", "4", "12")
			res, err := quietRunner(nil).Execute(context.Background(), mustParse(t, args...))
			require.NoError(t, err)

			info := res.Report.AdditionalInfo
			assert.Len(t, info, len(tt.keys))
			for _, k := range tt.keys {
				assert.Contains(t, info, k)
			}
		})
	}
}

// star connects every point to point 0.
type star struct{}

func (star) Name() string { return "star" }

func (star) Build(_ context.Context, in spanner.Input, t float64) (*graph.Graph, error) {
	g := graph.New(in.Len())
	for v := 1; v < in.Len(); v++ {
		if err := g.AddEdge(0, v, in.Instance.Distance(0, v)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

type failing struct{}

func (failing) Name() string { return "failing" }

func (failing) Build(context.Context, spanner.Input, float64) (*graph.Graph, error) {
	return nil, spanner.ErrStretchTooSmall
}

// blocking waits for its context to end.
type blocking struct{}

func (blocking) Name() string { return "blocking" }

func (blocking) Build(ctx context.Context, _ spanner.Input, _ float64) (*graph.Graph, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func withBuilder(b spanner.Builder) *Runner {
	r := quietRunner(nil)
	r.Builders = func(spanner.Kind, spanner.Options) (spanner.Builder, error) { return b, nil }
	return r
}

func TestStretchGuardSkipsLargeSingleRuns(t *testing.T) {
	tests := [][]string{
		{"path-greedy", "2", "euclid", "uniform", "1", "5001"},
		{"greedy", "2", "sphere", "uniform", "1", "5001"},
	}
	for _, args := range tests {
		t.Run(args[2], func(t *testing.T) {
			res, err := withBuilder(star{}).Execute(context.Background(), mustParse(t, args...))
			require.NoError(t, err)
			require.False(t, res.Report.ActualStretch.IsMeasured(), "stretch should be skipped above the guard")

			data, err := report.Marshal(res.Report)
			require.NoError(t, err)
			var raw map[string]any
			require.NoError(t, json.Unmarshal(data, &raw))
			assert.Equal(t, float64(-1), raw["actual_stretch"])
			assert.Equal(t, 5000, res.Report.GraphInformation.Edges)
			assert.Equal(t, 5001, res.Report.GraphInformation.Nodes)
		})
	}
}

func TestStretchGuardMeasuresSmallRuns(t *testing.T) {
	res, err := withBuilder(star{}).Execute(context.Background(), mustParse(t, "yao", "2", "euclid", "uniform", "2", "30"))
	require.NoError(t, err)
	v, ok := res.Report.ActualStretch.Value()
	require.True(t, ok)
	assert.GreaterOrEqual(t, v, 1.0)
}

func TestExecuteBuilderFailure(t *testing.T) {
	_, err := withBuilder(failing{}).Execute(context.Background(), mustParse(t, "greedy", "1.5", "euclid", "uniform", "1", "10"))
	assert.True(t, errors.Is(err, errors.ErrCodeAlgorithmFailure), "error = %v", err)
}

func TestExecuteInvalidOptions(t *testing.T) {
	_, err := quietRunner(nil).Execute(context.Background(), Options{Algorithm: "greedy", Stretch: 2})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSpaceOrDistribution), "error = %v", err)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quietRunner(nil).Execute(ctx, mustParse(t, "greedy", "1.5", "euclid", "uniform", "1", "10"))
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout), "error = %v", err)
}

func TestExecuteDeadlineStopsBuild(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := withBuilder(blocking{}).Execute(ctx, mustParse(t, "greedy", "1.5", "euclid", "uniform", "1", "10"))
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout), "error = %v", err)
}

func TestExecuteDeadlineStopsGreedy(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := quietRunner(nil).Execute(ctx, mustParse(t, "greedy", "1.1", "euclid", "uniform", "1", "1500"))
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout), "error = %v", err)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecuteCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := quietRunner(fc)
	ctx := context.Background()
	opts := mustParse(t, "greedy", "2", "euclid", "uniform", "5", "15")

	first, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit, "first run should miss")

	second, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit, "second run should hit")
	assert.Equal(t, first.Report.Weight, second.Report.Weight)

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheHit, "refresh should bypass the cache")
}

func TestMaterializeIsACopy(t *testing.T) {
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 2))
	res := StageResult{Stage: 1, Spanner: g}

	m := Materialize(res)
	require.Equal(t, 3, m.NodeCount())
	require.Equal(t, 2, m.EdgeCount())
	require.NoError(t, m.AddEdge(0, 2, 3))
	assert.False(t, g.HasEdge(0, 2), "materialized graph must not alias the stage result")
}

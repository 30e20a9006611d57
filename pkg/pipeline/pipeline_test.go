package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/geo"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

func TestShapeOf(t *testing.T) {
	tests := []struct {
		command string
		shape   Shape
		kind    spanner.Kind
	}{
		{"yao", Single, spanner.AngleSector},
		{"path-greedy", Single, spanner.PathRestricted},
		{"greedy", Single, spanner.Greedy},
		{"delta-greedy", Single, spanner.DeltaWeighted},
		{"yao-pruning", Reverse, spanner.AngleSector},
		{"yao-parametrized-pruning", Forward, spanner.AngleSector},
	}
	for _, tt := range tests {
		shape, kind, err := ShapeOf(tt.command)
		if assert.NoError(t, err, tt.command) {
			assert.Equal(t, tt.shape, shape, tt.command)
			assert.Equal(t, tt.kind, kind, tt.command)
		}
	}

	_, _, err := ShapeOf("theta")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "unknown command: %v", err)
	assert.Len(t, Commands, len(tests))
}

func TestParseArgs(t *testing.T) {
	opts, err := ParseArgs([]string{"yao-parametrized-pruning", "2", "1.3", "euclid", "cluster", "7", "3", "5", "0.05"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, opts.Stretch)
	assert.Equal(t, 1.3, opts.IntermediateStretch)
	assert.Equal(t, 3, opts.Instance.Clusters)
	assert.Equal(t, 5, opts.Instance.PerCluster)
	assert.Equal(t, uint64(7), opts.Instance.Seed)
	assert.Equal(t, 1.0, opts.Instance.MaxX, "bounds default to 1")
	assert.Equal(t, 1.0, opts.Instance.MaxY, "bounds default to 1")
	assert.Equal(t, "geospanner yao-parametrized-pruning 2 1.3 euclid cluster 7 3 5 0.05 1 1", opts.Command)

	opts, err = ParseArgs([]string{"delta-greedy", "2", "1.5", "sphere", "uniform", "1", "30"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, opts.Delta)
	assert.Equal(t, geo.Sphere, opts.Instance.Space)
	assert.Equal(t, 30, opts.Instance.N)
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"empty", nil, errors.ErrCodeArgumentParse},
		{"missing stretch", []string{"yao"}, errors.ErrCodeArgumentParse},
		{"missing delta", []string{"delta-greedy", "2"}, errors.ErrCodeArgumentParse},
		{"bad stretch", []string{"yao", "abc", "euclid", "uniform", "1", "10"}, errors.ErrCodeArgumentParse},
		{"missing instance", []string{"greedy", "1.5"}, errors.ErrCodeArgumentParse},
		{"bad space", []string{"greedy", "1.5", "torus", "uniform", "1", "10"}, errors.ErrCodeInvalidSpaceOrDistribution},
		{"bad distribution", []string{"greedy", "1.5", "euclid", "gauss", "1", "10"}, errors.ErrCodeInvalidSpaceOrDistribution},
		{"unknown algorithm", []string{"theta", "1.5", "euclid", "uniform", "1", "10"}, errors.ErrCodeInvalidInput},
		{"stretch below one", []string{"greedy", "0.5", "euclid", "uniform", "1", "10"}, errors.ErrCodeInvalidParameters},
		{"yao needs stretch above one", []string{"yao", "1", "euclid", "uniform", "1", "10"}, errors.ErrCodeInvalidParameters},
		{"delta above stretch", []string{"delta-greedy", "1.5", "2", "euclid", "uniform", "1", "10"}, errors.ErrCodeInvalidParameters},
		{"delta below one", []string{"delta-greedy", "1.5", "0.9", "euclid", "uniform", "1", "10"}, errors.ErrCodeInvalidParameters},
		{"t_yao above stretch", []string{"yao-parametrized-pruning", "1.5", "2", "euclid", "uniform", "1", "10"}, errors.ErrCodeInvalidParameters},
		{"t_yao of one", []string{"yao-parametrized-pruning", "1.5", "1", "euclid", "uniform", "1", "10"}, errors.ErrCodeInvalidParameters},
		{"zero points", []string{"greedy", "1.5", "euclid", "uniform", "1", "0"}, errors.ErrCodeInvalidParameters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "%v", err)
		})
	}
}

func TestArgsRoundTrip(t *testing.T) {
	inputs := [][]string{
		{"yao", "1.5", "euclid", "uniform", "1", "10", "2", "3"},
		{"delta-greedy", "2", "1.4142135623730951", "sphere", "cluster", "4", "2", "6", "0.1"},
		{"yao-pruning", "1.1", "sphere", "uniform", "9", "100"},
	}
	for _, args := range inputs {
		opts, err := ParseArgs(args)
		require.NoError(t, err, "ParseArgs(%v)", args)
		again, err := ParseArgs(opts.Args())
		require.NoError(t, err, "ParseArgs(%v)", opts.Args())
		assert.Equal(t, opts.Command, again.Command)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{
		Algorithm: CommandGreedy,
		Stretch:   2,
		Instance:  instance.Params{Space: geo.Euclid, Distribution: instance.Uniform, Seed: 1, N: 5},
	}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, instance.DefaultBound, opts.Instance.MaxX)
	assert.Equal(t, "geospanner greedy 2 euclid uniform 1 5 1 1", opts.Command)
	assert.Equal(t, Single, opts.Shape())

	custom := opts
	custom.validated = false
	custom.Command = "./greedy 2 euclid uniform 1 5"
	require.NoError(t, custom.ValidateAndSetDefaults())
	assert.Equal(t, "./greedy 2 euclid uniform 1 5", custom.Command, "an explicit command must be kept")
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateInit, StateGenerated, true},
		{StateGenerated, StateStage1Done, true},
		{StateStage1Done, StateMeasured, true},
		{StateStage1Done, StateMaterialized, true},
		{StateMaterialized, StateStage2Done, true},
		{StateStage2Done, StateMeasured, true},
		{StateMeasured, StateReported, true},
		{StateInit, StateStage1Done, false},
		{StateGenerated, StateMeasured, false},
		{StateMaterialized, StateMeasured, false},
		{StateReported, StateInit, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

package graph

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdge(t *testing.T) {
	g := New(4)
	require.NoError(t, g.AddEdge(0, 1, 1.5))
	require.NoError(t, g.AddEdge(2, 1, 0.5))

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge(1, 0))
	assert.True(t, g.HasEdge(1, 2))
	assert.False(t, g.HasEdge(0, 2))

	w, ok := g.Weight(1, 2)
	require.True(t, ok)
	assert.Equal(t, 0.5, w)
	assert.Equal(t, 2, g.Degree(1))
}

func TestAddEdgeErrors(t *testing.T) {
	g := New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))

	tests := []struct {
		name string
		u, v int
		w    float64
		want error
	}{
		{"out of range", 0, 3, 1, ErrNodeOutOfRange},
		{"negative index", -1, 0, 1, ErrNodeOutOfRange},
		{"self loop", 2, 2, 1, ErrSelfLoop},
		{"negative weight", 0, 2, -1, ErrInvalidWeight},
		{"nan weight", 0, 2, math.NaN(), ErrInvalidWeight},
		{"duplicate", 1, 0, 2, ErrDuplicateEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddEdge(tt.u, tt.v, tt.w)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
	assert.Equal(t, 1, g.EdgeCount())
}

func TestTotalWeight(t *testing.T) {
	assert.Zero(t, TotalWeight(nil))

	edges := []Edge{{0, 1, 0.1}, {1, 2, 0.2}, {2, 3, 0.3}, {0, 3, 1e-9}, {1, 3, 7.25}}
	want := TotalWeight(edges)
	assert.InDelta(t, 7.850000001, want, 1e-12)

	reversed := []Edge{edges[4], edges[3], edges[2], edges[1], edges[0]}
	shuffled := []Edge{edges[2], edges[0], edges[4], edges[1], edges[3]}
	assert.Equal(t, want, TotalWeight(reversed))
	assert.Equal(t, want, TotalWeight(shuffled))
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	c := g.Clone()
	require.NoError(t, c.AddEdge(1, 2, 1))

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, c.EdgeCount())
}

func TestSortedEdges(t *testing.T) {
	g := New(4)
	require.NoError(t, g.AddEdge(2, 3, 1))
	require.NoError(t, g.AddEdge(0, 1, 2))
	require.NoError(t, g.AddEdge(1, 0+2, 1))

	got := g.SortedEdges()
	assert.Equal(t, []Edge{{1, 2, 1}, {2, 3, 1}, {0, 1, 2}}, got)
}

func TestShortestPaths(t *testing.T) {
	// 0 -1- 1 -1- 2
	//  \----3----/   3 is isolated
	g := New(4)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(0, 2, 3))

	d := ShortestPaths(g, 0)
	assert.Equal(t, []float64{0, 1, 2, math.Inf(1)}, d)
}

func TestSearcherBound(t *testing.T) {
	g := New(4)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))

	s := NewSearcher(g)
	s.Search(0, WithBound(2))
	assert.Equal(t, 2.0, s.Dist(2))
	assert.True(t, math.IsInf(s.Dist(3), 1))
	assert.Equal(t, []int{0, 1, 2}, s.Settled())

	// buffers are reset between searches
	s.Search(3)
	assert.Equal(t, 3.0, s.Dist(0))
	assert.Equal(t, 0.0, s.Dist(3))
}

func TestSearcherTarget(t *testing.T) {
	g := New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 5))

	s := NewSearcher(g)
	s.Search(0, WithTarget(1))
	assert.Equal(t, 1.0, s.Dist(1))
	assert.True(t, math.IsInf(s.Dist(2), 1), "search must stop at the target")
}

func TestSearcherSeesNewEdges(t *testing.T) {
	g := New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	s := NewSearcher(g)

	s.Search(0)
	assert.True(t, math.IsInf(s.Dist(2), 1))

	require.NoError(t, g.AddEdge(1, 2, 1))
	s.Search(0)
	assert.Equal(t, 2.0, s.Dist(2))
}

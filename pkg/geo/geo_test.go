package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/geospanner/pkg/errors"
)

func TestParseSpace(t *testing.T) {
	s, err := ParseSpace("euclid")
	require.NoError(t, err)
	assert.Equal(t, Euclid, s)

	s, err = ParseSpace("sphere")
	require.NoError(t, err)
	assert.Equal(t, Sphere, s)

	_, err = ParseSpace("torus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSpaceOrDistribution))
}

func TestSpaceText(t *testing.T) {
	b, err := Sphere.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "sphere", string(b))

	var s Space
	require.NoError(t, s.UnmarshalText([]byte("euclid")))
	assert.Equal(t, Euclid, s)

	_, err = Space(0).MarshalText()
	assert.Error(t, err)
}

func TestEuclidDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Euclid.Distance(Point{0, 0}, Point{3, 4}), 1e-12)
	assert.InDelta(t, 0.0, Euclid.Distance(Point{1, 1}, Point{1, 1}), 1e-12)
}

func TestSphereDistance(t *testing.T) {
	north := Point{0, math.Pi / 2}
	south := Point{0, -math.Pi / 2}
	equator := Point{1, 0}

	assert.InDelta(t, math.Pi, Sphere.Distance(north, south), 1e-12)
	assert.InDelta(t, math.Pi/2, Sphere.Distance(north, equator), 1e-12)
	assert.InDelta(t, math.Pi/2, Sphere.Distance(Point{0, 0}, Point{math.Pi / 2, 0}), 1e-12)

	// symmetric and invariant under longitude wrapping
	p, q := Point{3.0, 0.3}, Point{-3.0, -0.2}
	assert.InDelta(t, Sphere.Distance(p, q), Sphere.Distance(q, p), 1e-12)
	assert.InDelta(t, Sphere.Distance(p, q), Sphere.Distance(Point{3.0 - 2*math.Pi, 0.3}, q), 1e-12)
}

func TestBearing(t *testing.T) {
	assert.InDelta(t, 0.0, Euclid.Bearing(Point{0, 0}, Point{1, 0}), 1e-12)
	assert.InDelta(t, math.Pi/2, Euclid.Bearing(Point{0, 0}, Point{0, 1}), 1e-12)

	// due north and due east from a point on the equator
	assert.InDelta(t, 0.0, Sphere.Bearing(Point{0, 0}, Point{0, 0.5}), 1e-12)
	assert.InDelta(t, math.Pi/2, Sphere.Bearing(Point{0, 0}, Point{0.5, 0}), 1e-12)
}

func TestInBox(t *testing.T) {
	assert.True(t, Point{0, 0}.InBox(1, 1))
	assert.True(t, Point{1, 1}.InBox(1, 1))
	assert.False(t, Point{-0.001, 0.5}.InBox(1, 1))
	assert.False(t, Point{0.5, 1.001}.InBox(1, 1))
}

func TestWrapLon(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3.5 * math.Pi, -0.5 * math.Pi},
		{-1.5 * math.Pi, 0.5 * math.Pi},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapLon(tt.in), 1e-12, "WrapLon(%v)", tt.in)
	}
}

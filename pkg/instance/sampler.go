package instance

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/geo"
)

// Sampler draws random points from a single seeded source.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rng         *rand.Rand
	maxAttempts int
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithMaxAttempts caps the number of rejected draws per point. Zero keeps
// the default of unbounded retries.
func WithMaxAttempts(n int) Option {
	if n < 0 {
		panic("instance: WithMaxAttempts(n < 0)")
	}
	return func(s *Sampler) {
		s.maxAttempts = n
	}
}

// WithRand replaces the seeded source with r.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("instance: WithRand(nil)")
	}
	return func(s *Sampler) {
		s.rng = r
	}
}

// NewSampler returns a sampler whose draws are fully determined by seed.
func NewSampler(seed uint64, opts ...Option) *Sampler {
	s := &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UniformEuclid draws x from [0,maxX) and then y from [0,maxY).
func (s *Sampler) UniformEuclid(maxX, maxY float64) geo.Point {
	x := s.rng.Float64() * maxX
	y := s.rng.Float64() * maxY
	return geo.Point{X: x, Y: y}
}

// UniformSphere draws a longitude uniform in (-π,π) and then a latitude
// uniform in (-π/2,π/2).
//
// The result is uniform in angle, not in surface area: points crowd towards
// the poles.
func (s *Sampler) UniformSphere() geo.Point {
	lon := s.between(-math.Pi, math.Pi)
	lat := s.between(-math.Pi/2, math.Pi/2)
	return geo.Point{X: geo.WrapLon(lon), Y: lat}
}

// ClusterEuclid draws a point around center at an exponentially distributed
// distance with the given mean, rejecting candidates outside
// [0,maxX]×[0,maxY].
func (s *Sampler) ClusterEuclid(center geo.Point, mean, maxX, maxY float64) (geo.Point, error) {
	for attempt := 1; ; attempt++ {
		angle, radius := s.polar(mean)
		p := geo.Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
		if p.InBox(maxX, maxY) {
			return p, nil
		}
		if s.exhausted(attempt) {
			return geo.Point{}, errors.New(errors.ErrCodeSamplingExhausted,
				"no point inside the box after %d draws around %s", attempt, center)
		}
	}
}

// ClusterSphere draws a point around center at an exponentially distributed
// great-circle distance with the given mean. Distances of π or more are
// rejected; accepted offsets are placed with the inverse
// azimuthal-equidistant projection centred at center.
func (s *Sampler) ClusterSphere(center geo.Point, mean float64) (geo.Point, error) {
	for attempt := 1; ; attempt++ {
		angle, radius := s.polar(mean)
		if radius < math.Pi {
			return projectInverse(center, radius*math.Cos(angle), radius*math.Sin(angle), radius), nil
		}
		if s.exhausted(attempt) {
			return geo.Point{}, errors.New(errors.ErrCodeSamplingExhausted,
				"no radius below pi after %d draws", attempt)
		}
	}
}

// polar draws a direction uniform in (-π,π) and then a radius with rate 1/mean.
func (s *Sampler) polar(mean float64) (angle, radius float64) {
	angle = s.between(-math.Pi, math.Pi)
	radius = s.rng.ExpFloat64() * mean
	return angle, radius
}

func (s *Sampler) between(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

func (s *Sampler) exhausted(attempt int) bool {
	return s.maxAttempts > 0 && attempt >= s.maxAttempts
}

// projectInverse maps the planar offset (vx, vy) of length radius back onto
// the sphere around center.
//
// At the poles the general longitude formula degenerates, so the two pole
// cases use their own closed forms. A zero radius is the centre itself.
func projectInverse(center geo.Point, vx, vy, radius float64) geo.Point {
	if radius == 0 {
		return center
	}
	lonC, latC := center.Lon(), center.Lat()
	sinR, cosR := math.Sin(radius), math.Cos(radius)

	lat := math.Asin(clampUnit(cosR*math.Sin(latC) + vy*sinR*math.Cos(latC)/radius))

	lon := lonC
	switch latC {
	case math.Pi / 2:
		lon += math.Atan(-vx / vy)
	case -math.Pi / 2:
		lon += math.Atan(vx / vy)
	default:
		lon += math.Atan(vx * sinR / (radius*math.Cos(latC)*cosR - vy*math.Sin(latC)*sinR))
	}
	return geo.Point{X: geo.WrapLon(lon), Y: lat}
}

// clampUnit keeps rounding noise from pushing an asin argument out of [-1,1].
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

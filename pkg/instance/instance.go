package instance

import (
	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/geo"
)

// Instance is an ordered point set in one space. Node i of every graph built
// over the instance is Points[i]; the candidate edges are all pairs.
type Instance struct {
	Params Params      `json:"params"`
	Points []geo.Point `json:"points"`
}

// New wraps existing points in an instance over space.
func New(space geo.Space, points []geo.Point) *Instance {
	return &Instance{
		Params: Params{Space: space, N: len(points), Distribution: Uniform},
		Points: points,
	}
}

// Space returns the metric space of the instance.
func (in *Instance) Space() geo.Space { return in.Params.Space }

// Len returns the number of points.
func (in *Instance) Len() int { return len(in.Points) }

// Distance returns the metric distance between points i and j.
func (in *Instance) Distance(i, j int) float64 {
	return in.Params.Space.Distance(in.Points[i], in.Points[j])
}

// Bearing returns the direction from point i towards point j.
func (in *Instance) Bearing(i, j int) float64 {
	return in.Params.Space.Bearing(in.Points[i], in.Points[j])
}

// Generate builds the instance described by p.
//
// All points come from one sampler seeded with p.Seed. For clustered
// instances each centre is drawn uniformly, immediately followed by its
// members.
func Generate(p Params, opts ...Option) (*Instance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := NewSampler(p.Seed, append([]Option{WithMaxAttempts(p.MaxAttempts)}, opts...)...)

	points := make([]geo.Point, 0, p.Size())
	switch p.Distribution {
	case Uniform:
		for range p.N {
			points = append(points, s.uniform(p))
		}
	case Cluster:
		for range p.Clusters {
			center := s.uniform(p)
			for range p.PerCluster {
				pt, err := s.member(p, center)
				if err != nil {
					return nil, err
				}
				points = append(points, pt)
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "invalid distribution")
	}

	return &Instance{Params: p, Points: points}, nil
}

func (s *Sampler) uniform(p Params) geo.Point {
	if p.Space == geo.Sphere {
		return s.UniformSphere()
	}
	return s.UniformEuclid(p.MaxX, p.MaxY)
}

func (s *Sampler) member(p Params, center geo.Point) (geo.Point, error) {
	if p.Space == geo.Sphere {
		return s.ClusterSphere(center, p.MeanDist)
	}
	return s.ClusterEuclid(center, p.MeanDist, p.MaxX, p.MaxY)
}

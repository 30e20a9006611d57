package instance

import (
	"strconv"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/geo"
)

// Distribution selects how points are spread.
type Distribution int

const (
	// Uniform spreads points independently over the whole space.
	Uniform Distribution = iota + 1
	// Cluster groups points around random centres.
	Cluster
)

// Distribution tokens as they appear on the command line.
const (
	TokenUniform = "uniform"
	TokenCluster = "cluster"
)

// DefaultBound is the Euclidean box extent used when none is given.
const DefaultBound = 1.0

// ParseDistribution maps a command-line token to a Distribution.
func ParseDistribution(token string) (Distribution, error) {
	switch token {
	case TokenUniform:
		return Uniform, nil
	case TokenCluster:
		return Cluster, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "unknown distribution %q (want %s or %s)", token, TokenUniform, TokenCluster)
	}
}

// String returns the command-line token for d.
func (d Distribution) String() string {
	switch d {
	case Uniform:
		return TokenUniform
	case Cluster:
		return TokenCluster
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Distribution) MarshalText() ([]byte, error) {
	if d != Uniform && d != Cluster {
		return nil, errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "invalid distribution %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Distribution) UnmarshalText(b []byte) error {
	v, err := ParseDistribution(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Params describes one generated instance.
type Params struct {
	Space        geo.Space    `json:"space"`
	Distribution Distribution `json:"distribution"`
	Seed         uint64       `json:"seed"`

	// N is the point count of a uniform instance.
	N int `json:"n,omitempty"`

	// Clusters and PerCluster size a clustered instance; MeanDist is the mean
	// of the exponential radius around each centre.
	Clusters   int     `json:"n_cluster,omitempty"`
	PerCluster int     `json:"n_points_per_cluster,omitempty"`
	MeanDist   float64 `json:"mean_dist,omitempty"`

	// MaxX and MaxY bound the Euclidean box.
	MaxX float64 `json:"max_x,omitempty"`
	MaxY float64 `json:"max_y,omitempty"`

	// MaxAttempts caps rejected draws per point; zero means unbounded.
	MaxAttempts int `json:"max_attempts,omitempty"`
}

// SetDefaults fills the Euclidean bounds when they are unset.
func (p *Params) SetDefaults() {
	if p.Space == geo.Euclid {
		if p.MaxX == 0 {
			p.MaxX = DefaultBound
		}
		if p.MaxY == 0 {
			p.MaxY = DefaultBound
		}
	}
}

// Validate checks that the parameters describe a generatable instance.
func (p Params) Validate() error {
	if !p.Space.Valid() {
		return errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "invalid space")
	}
	switch p.Distribution {
	case Uniform:
		if err := errors.ValidateCount("n", p.N); err != nil {
			return err
		}
	case Cluster:
		if err := errors.ValidateCount("n_cluster", p.Clusters); err != nil {
			return err
		}
		if err := errors.ValidateCount("n_points_per_cluster", p.PerCluster); err != nil {
			return err
		}
		if err := errors.ValidatePositive("mean_dist", p.MeanDist); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "invalid distribution")
	}
	if p.Space == geo.Euclid {
		if err := errors.ValidatePositive("max_x", p.MaxX); err != nil {
			return err
		}
		if err := errors.ValidatePositive("max_y", p.MaxY); err != nil {
			return err
		}
	}
	if p.MaxAttempts < 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "max_attempts must not be negative")
	}
	return nil
}

// Size returns the number of points the parameters produce.
func (p Params) Size() int {
	if p.Distribution == Cluster {
		return p.Clusters * p.PerCluster
	}
	return p.N
}

// Args renders the parameters in the command-line grammar accepted by
// ParseArgs, starting with the space token.
func (p Params) Args() []string {
	args := []string{p.Space.String(), p.Distribution.String(), strconv.FormatUint(p.Seed, 10)}
	if p.Distribution == Cluster {
		args = append(args, strconv.Itoa(p.Clusters), strconv.Itoa(p.PerCluster), formatFloat(p.MeanDist))
	} else {
		args = append(args, strconv.Itoa(p.N))
	}
	if p.Space == geo.Euclid {
		args = append(args, formatFloat(p.MaxX), formatFloat(p.MaxY))
	}
	return args
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package geo

import (
	"math"

	"github.com/matzehuels/geospanner/pkg/errors"
)

// Space selects the metric a point set is measured in.
type Space int

const (
	// Euclid is the Euclidean plane.
	Euclid Space = iota + 1
	// Sphere is the surface of the unit sphere.
	Sphere
)

// Space tokens as they appear on the command line.
const (
	TokenEuclid = "euclid"
	TokenSphere = "sphere"
)

// ParseSpace maps a command-line token to a Space.
func ParseSpace(token string) (Space, error) {
	switch token {
	case TokenEuclid:
		return Euclid, nil
	case TokenSphere:
		return Sphere, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "unknown space %q (want %s or %s)", token, TokenEuclid, TokenSphere)
	}
}

// String returns the command-line token for s.
func (s Space) String() string {
	switch s {
	case Euclid:
		return TokenEuclid
	case Sphere:
		return TokenSphere
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the defined spaces.
func (s Space) Valid() bool {
	return s == Euclid || s == Sphere
}

// MarshalText implements encoding.TextMarshaler.
func (s Space) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "invalid space %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Space) UnmarshalText(b []byte) error {
	v, err := ParseSpace(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Distance returns the metric distance between p and q.
// It panics on an invalid space; callers obtain spaces from ParseSpace.
func (s Space) Distance(p, q Point) float64 {
	switch s {
	case Euclid:
		return math.Hypot(q.X-p.X, q.Y-p.Y)
	case Sphere:
		return greatCircle(p, q)
	default:
		panic("geo: distance in invalid space")
	}
}

// Bearing returns the direction from p towards q as an angle in (-π, π].
// On the sphere this is the initial great-circle bearing measured from north.
func (s Space) Bearing(p, q Point) float64 {
	switch s {
	case Euclid:
		return math.Atan2(q.Y-p.Y, q.X-p.X)
	case Sphere:
		dLon := q.X - p.X
		y := math.Sin(dLon) * math.Cos(q.Y)
		x := math.Cos(p.Y)*math.Sin(q.Y) - math.Sin(p.Y)*math.Cos(q.Y)*math.Cos(dLon)
		return math.Atan2(y, x)
	default:
		panic("geo: bearing in invalid space")
	}
}

// greatCircle uses the haversine form, which stays accurate for nearby points.
func greatCircle(p, q Point) float64 {
	sinLat := math.Sin((q.Y - p.Y) / 2)
	sinLon := math.Sin((q.X - p.X) / 2)
	h := sinLat*sinLat + math.Cos(p.Y)*math.Cos(q.Y)*sinLon*sinLon
	if h > 1 {
		h = 1
	}
	return 2 * math.Asin(math.Sqrt(h))
}

package instance

import (
	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/geo"
)

// Usage lists the accepted instance argument forms.
const Usage = `euclid uniform <seed> <n> [<max_x> [<max_y>]]
euclid cluster <seed> <n_cluster> <n_points_per_cluster> <mean_dist> [<max_x> [<max_y>]]
sphere uniform <seed> <n>
sphere cluster <seed> <n_cluster> <n_points_per_cluster> <mean_dist>`

// ParseArgs parses instance arguments starting at the space token.
//
// Missing or non-numeric values fail with ARGUMENT_PARSE, unknown space or
// distribution tokens with INVALID_SPACE_OR_DISTRIBUTION. Euclidean bounds
// default to 1.0; the returned parameters are validated.
func ParseArgs(args []string) (Params, error) {
	var p Params
	if len(args) < 2 {
		return p, errors.New(errors.ErrCodeArgumentParse, "Not enough args!")
	}

	space, err := geo.ParseSpace(args[0])
	if err != nil {
		return p, err
	}
	dist, err := ParseDistribution(args[1])
	if err != nil {
		return p, err
	}
	p.Space, p.Distribution = space, dist

	var required, optional int
	switch dist {
	case Uniform:
		required = 2
	case Cluster:
		required = 4
	default:
		return p, errors.New(errors.ErrCodeInvalidSpaceOrDistribution, "invalid distribution")
	}
	if space == geo.Euclid {
		optional = 2
	}

	rest := args[2:]
	if len(rest) < required {
		return p, errors.New(errors.ErrCodeArgumentParse, "Not enough args!")
	}
	if len(rest) > required+optional {
		return p, errors.New(errors.ErrCodeArgumentParse, "unexpected argument %q", rest[required+optional])
	}

	if p.Seed, err = errors.ParseSeedArg(rest[0]); err != nil {
		return p, err
	}
	if dist == Uniform {
		if p.N, err = errors.ParseIntArg("n", rest[1]); err != nil {
			return p, err
		}
	} else {
		if p.Clusters, err = errors.ParseIntArg("n_cluster", rest[1]); err != nil {
			return p, err
		}
		if p.PerCluster, err = errors.ParseIntArg("n_points_per_cluster", rest[2]); err != nil {
			return p, err
		}
		if p.MeanDist, err = errors.ParseFloatArg("mean_dist", rest[3]); err != nil {
			return p, err
		}
	}

	if space == geo.Euclid {
		p.MaxX, p.MaxY = DefaultBound, DefaultBound
	}
	bounds := rest[required:]
	if len(bounds) > 0 {
		if p.MaxX, err = errors.ParseFloatArg("max_x", bounds[0]); err != nil {
			return p, err
		}
	}
	if len(bounds) > 1 {
		if p.MaxY, err = errors.ParseFloatArg("max_y", bounds[1]); err != nil {
			return p, err
		}
	}

	return p, p.Validate()
}

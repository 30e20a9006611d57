// Package instance generates random point sets for spanner experiments.
//
// A [Sampler] draws single points from one seeded random source; [Generate]
// drives it according to [Params] and returns an [Instance]. Generation is
// fully determined by the seed and the parameters: cluster centres and their
// members are drawn in a fixed order (centre, then members, cluster by
// cluster) from a single source.
//
// Four distributions are supported:
//
//   - uniform in the box [0,max_x)×[0,max_y)
//   - uniform on the sphere, uniform in longitude and latitude (not in area)
//   - clustered in the box, exponential radii around uniform centres,
//     out-of-box points rejected
//   - clustered on the sphere, exponential great-circle radii placed with the
//     inverse azimuthal-equidistant projection, radii of π or more rejected
//
// Rejection sampling retries without limit unless a cap is set with
// [WithMaxAttempts]; with a cap a point that cannot be placed fails with a
// SAMPLING_EXHAUSTED error.
package instance

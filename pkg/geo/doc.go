// Package geo defines points and the two metric spaces spanner instances
// live in.
//
// A [Point] is a plain coordinate pair whose meaning depends on the [Space]:
//
//   - [Euclid]: (x, y) in a bounded box, distance is planar Euclidean
//   - [Sphere]: (longitude, latitude) in radians on the unit sphere,
//     distance is the great-circle angle
//
// Both spaces also provide a bearing from one point to another, which the
// angle-sector spanner uses to assign neighbours to cones.
package geo

// Package spanner builds geometric spanners and measures their stretch.
//
// A t-spanner of a point set is a subgraph of the complete graph in which
// every pair of points is joined by a path at most t times their metric
// distance. Four interchangeable builders implement [Builder]:
//
//   - [AngleSector] ("yao"): each point connects to its nearest neighbour
//     in each of k equal cones around it, k chosen from t
//   - [Greedy] ("greedy"): the basic greedy algorithm over an explicit
//     candidate graph, see [PruneByGreedy]
//   - [DeltaWeighted] ("delta-greedy"): the Δ-greedy variant that adds an
//     edge only when the current path exceeds δ·d and reuses each
//     shortest-path tree to settle many pairs at once
//   - [PathRestricted] ("path-greedy"): the classic path greedy algorithm
//     over all pairs of points
//
// [MaxStretch] is the stretch oracle: it returns the worst ratio between
// spanner distance and metric distance over all pairs of points.
package spanner

// Package graph provides the undirected weighted graph spanners are built in.
//
// Nodes are the indices 0..n-1 of an instance's points; the node set is fixed
// at construction and edges are added one at a time. Graphs are simple: no
// self-loops, no parallel edges, no negative weights.
//
// # Shortest paths
//
// A [Searcher] runs Dijkstra's algorithm from one source at a time and
// reuses its buffers between searches, which matters for the greedy spanner
// builders that search once per candidate edge. A search can be bounded by a
// maximum distance and stopped early at a target node:
//
//	s := graph.NewSearcher(g)
//	s.Search(u, graph.WithBound(t*w), graph.WithTarget(v))
//	if s.Dist(v) > t*w {
//	    // no path within the bound
//	}
//
// [ShortestPaths] is the one-shot form returning a fresh distance slice.
package graph

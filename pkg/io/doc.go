// Package io reads and writes instances and spanners.
//
// # JSON
//
// Instances, optionally with a spanner, use a small JSON format:
//
//	{
//	  "params": {"space": "euclid", "distribution": "uniform", "seed": 1, "n": 2},
//	  "points": [{"x": 0.1, "y": 0.7}, {"x": 0.4, "y": 0.2}],
//	  "edges": [{"source": 0, "target": 1, "weight": 0.58}]
//	}
//
// Sphere points are (longitude, latitude) in radians. "edges" is omitted
// for a bare instance; [Candidates] then yields the complete graph. Use [WriteJSON] and [ReadJSON].
//
// # GraphML
//
// [ReadGraphML] reads the line-oriented GraphML files produced by common
// graph frontends: one element per line, node ids and edge endpoints as
// attributes, and edge costs in <data key="c_K"> elements where K selects
// the cost function. Anything else is ignored. [WriteGraphML] writes the
// same layout, so its output can be read back.
package io

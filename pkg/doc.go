// Package pkg holds the geospanner libraries.
//
// geospanner builds geometric t-spanners over random point sets in the
// Euclidean plane or on the unit sphere and reports their size, weight and
// measured stretch. The packages are layered bottom-up:
//
//   - [geo]: points, spaces and the two distance functions
//   - [instance]: seeded uniform and clustered point generators
//   - [graph]: the weighted undirected graph and its Dijkstra searcher
//   - [spanner]: Yao, path-greedy, greedy and delta-greedy builders,
//     greedy pruning and the stretch oracle
//   - [report]: the JSON report every run emits
//   - [pipeline]: single-stage and two-stage runs with caching
//   - [cache]: file, Redis and null report caches
//   - [io]: JSON and GraphML import and export
//   - [render]: DOT, SVG, PDF and PNG drawings of a spanner
//   - [bench]: TOML suites and the parallel benchmark driver
//   - [server]: the HTTP run service
//
// # Data Flow
//
//	run arguments
//	     ↓
//	[instance] Generate → points
//	     ↓
//	[spanner] builder (one or two stages) → graph
//	     ↓
//	[spanner] StretchAgainst → measured stretch
//	     ↓
//	[report] → JSON on stdout, in the cache, or in a benchmark results file
//
// # Quick Start
//
//	opts, err := pipeline.ParseArgs([]string{"greedy", "1.5", "euclid", "uniform", "1", "100"})
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	report.Write(os.Stdout, result.Report)
//
// [geo]: github.com/matzehuels/geospanner/pkg/geo
// [instance]: github.com/matzehuels/geospanner/pkg/instance
// [graph]: github.com/matzehuels/geospanner/pkg/graph
// [spanner]: github.com/matzehuels/geospanner/pkg/spanner
// [report]: github.com/matzehuels/geospanner/pkg/report
// [pipeline]: github.com/matzehuels/geospanner/pkg/pipeline
// [cache]: github.com/matzehuels/geospanner/pkg/cache
// [io]: github.com/matzehuels/geospanner/pkg/io
// [render]: github.com/matzehuels/geospanner/pkg/render
// [bench]: github.com/matzehuels/geospanner/pkg/bench
// [server]: github.com/matzehuels/geospanner/pkg/server
package pkg

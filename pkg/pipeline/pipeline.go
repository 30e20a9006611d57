// Package pipeline runs spanner experiments end to end.
//
// A run generates a point instance, builds a spanner in one or two stages,
// measures its weight and worst-case stretch, and produces a report. The CLI,
// the benchmark driver and the HTTP service all go through [Runner.Execute]
// so every entry point reports the same numbers.
//
// # Shapes
//
// Each command maps to one of three pipeline shapes:
//
//  1. Single: one builder with the target stretch t
//     (yao, path-greedy, greedy, delta-greedy)
//  2. Forward: a Yao graph with the intermediate stretch t_yao, then greedy
//     pruning of its edges with t/t_yao (yao-parametrized-pruning)
//  3. Reverse: a Yao graph with t, then greedy pruning of its edges with
//     t divided by the Yao graph's measured stretch (yao-pruning)
//
// Composing a t1-spanner with a t2-spanner of it yields a (t1·t2)-spanner,
// so both two-stage shapes stay within t.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	opts, err := pipeline.ParseArgs([]string{"yao-pruning", "1.5", "euclid", "uniform", "1", "100"})
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	report.Write(os.Stdout, result.Report)
package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/report"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

// =============================================================================
// Commands and Shapes
// =============================================================================

// Command names. They double as CLI subcommands and benchmark algorithm names.
const (
	CommandYao                    = "yao"
	CommandPathGreedy             = "path-greedy"
	CommandGreedy                 = "greedy"
	CommandDeltaGreedy            = "delta-greedy"
	CommandYaoPruning             = "yao-pruning"
	CommandYaoParametrizedPruning = "yao-parametrized-pruning"
)

// Commands lists every run command in a stable order.
var Commands = []string{
	CommandYao,
	CommandPathGreedy,
	CommandGreedy,
	CommandDeltaGreedy,
	CommandYaoPruning,
	CommandYaoParametrizedPruning,
}

// Program is the name used when reconstructing a command line.
const Program = "geospanner"

// StretchGuardNodes is the largest single-stage instance whose stretch is
// measured. Above it the all-pairs measurement is skipped.
const StretchGuardNodes = 5000

// Shape is the structure of a pipeline.
type Shape int

const (
	// Single runs one builder.
	Single Shape = iota + 1
	// Forward prunes a Yao graph built with a fixed intermediate stretch.
	Forward
	// Reverse prunes a Yao graph using the headroom its measured stretch leaves.
	Reverse
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case Single:
		return "single"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// ShapeOf returns the pipeline shape of a command and, for single-stage
// commands, the builder it runs.
func ShapeOf(command string) (Shape, spanner.Kind, error) {
	switch command {
	case CommandYao:
		return Single, spanner.AngleSector, nil
	case CommandPathGreedy:
		return Single, spanner.PathRestricted, nil
	case CommandGreedy:
		return Single, spanner.Greedy, nil
	case CommandDeltaGreedy:
		return Single, spanner.DeltaWeighted, nil
	case CommandYaoPruning:
		return Reverse, spanner.AngleSector, nil
	case CommandYaoParametrizedPruning:
		return Forward, spanner.AngleSector, nil
	default:
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "unknown algorithm %q (must be one of: %s)",
			command, strings.Join(Commands, ", "))
	}
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options describes one run. It supports JSON for service requests.
type Options struct {
	Algorithm string  `json:"algorithm"`
	Stretch   float64 `json:"stretch"`

	// Delta is the acceptance factor of delta-greedy.
	Delta float64 `json:"delta,omitempty"`

	// IntermediateStretch is t_yao of yao-parametrized-pruning.
	IntermediateStretch float64 `json:"stretch_yao,omitempty"`

	Instance instance.Params `json:"instance"`

	// Command is the invocation echoed in the report. It defaults to the
	// canonical command line.
	Command string `json:"command,omitempty"`

	// Refresh bypasses the report cache.
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a run.
type Result struct {
	// Instance and Spanner are nil when the report came from the cache.
	Instance *instance.Instance
	Spanner  *graph.Graph

	// Stages holds the stage results in order.
	Stages []StageResult

	Report *report.Report
	Stats  Stats

	// CacheHit reports whether the report was served from the cache.
	CacheHit bool
}

// Stats contains run timing and size information.
type Stats struct {
	NodeCount int
	EdgeCount int

	// StageTime covers the algorithmic region: every stage, plus the
	// intermediate measurement of the reverse shape.
	StageTime time.Duration
	// AbsoluteTime covers the whole run from generation to measurement.
	AbsoluteTime time.Duration

	GenerateTime time.Duration
	Stage1Time   time.Duration
	Stage2Time   time.Duration
	MeasureTime  time.Duration

	// GreedyStretch is the stretch handed to the second stage, if any.
	GreedyStretch float64
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset instance bounds and the command line.
func (o *Options) SetDefaults() {
	o.Instance.SetDefaults()
	if o.Command == "" {
		o.Command = Program + " " + strings.Join(o.Args(), " ")
	}
}

// Validate checks that the options describe a runnable experiment.
func (o *Options) Validate() error {
	shape, kind, err := ShapeOf(o.Algorithm)
	if err != nil {
		return err
	}
	if err := errors.ValidateStretch("stretch", o.Stretch); err != nil {
		return err
	}
	if kind == spanner.AngleSector && shape != Forward && o.Stretch <= 1 {
		return errors.New(errors.ErrCodeInvalidParameters, "stretch of a Yao graph must be > 1, got %g", o.Stretch)
	}
	switch shape {
	case Single:
		if kind == spanner.DeltaWeighted {
			if err := errors.ValidateStretch("delta", o.Delta); err != nil {
				return err
			}
			if o.Delta > o.Stretch {
				return errors.New(errors.ErrCodeInvalidParameters, "delta must not exceed stretch (%g > %g)", o.Delta, o.Stretch)
			}
		}
	case Forward:
		if o.IntermediateStretch <= 1 {
			return errors.New(errors.ErrCodeInvalidParameters, "stretch_yao must be > 1, got %g", o.IntermediateStretch)
		}
		if o.IntermediateStretch > o.Stretch {
			return errors.New(errors.ErrCodeInvalidParameters, "stretch_yao must not exceed stretch (%g > %g)",
				o.IntermediateStretch, o.Stretch)
		}
	case Reverse:
	default:
		return errors.New(errors.ErrCodeInternal, "unhandled shape %s", shape)
	}
	return o.Instance.Validate()
}

// ValidateAndSetDefaults applies defaults and validates.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Shape returns the pipeline shape of the options' algorithm.
func (o *Options) Shape() Shape {
	s, _, _ := ShapeOf(o.Algorithm)
	return s
}

// Args renders the options as a command line without the program name,
// in the grammar accepted by ParseArgs.
func (o *Options) Args() []string {
	args := []string{o.Algorithm, formatFloat(o.Stretch)}
	switch o.Algorithm {
	case CommandDeltaGreedy:
		args = append(args, formatFloat(o.Delta))
	case CommandYaoParametrizedPruning:
		args = append(args, formatFloat(o.IntermediateStretch))
	}
	return append(args, o.Instance.Args()...)
}

// =============================================================================
// Argument Parsing
// =============================================================================

// ParseArgs parses a run command line without the program name:
//
//	<algorithm> <t> [<delta> | <t_yao>] <space> <distribution> <params...>
//
// The returned options are validated and carry the canonical command.
func ParseArgs(args []string) (Options, error) {
	var o Options
	if len(args) < 1 {
		return o, errors.New(errors.ErrCodeArgumentParse, "Not enough args!")
	}
	o.Algorithm = args[0]
	if _, _, err := ShapeOf(o.Algorithm); err != nil {
		return o, err
	}

	numeric := 1
	if o.Algorithm == CommandDeltaGreedy || o.Algorithm == CommandYaoParametrizedPruning {
		numeric = 2
	}
	rest := args[1:]
	if len(rest) < numeric {
		return o, errors.New(errors.ErrCodeArgumentParse, "Not enough args!")
	}

	values := make([]float64, numeric)
	for i := range values {
		v, err := strconv.ParseFloat(rest[i], 64)
		if err != nil {
			return o, errors.Wrap(errors.ErrCodeArgumentParse, err, "Stretch parse error!")
		}
		values[i] = v
	}
	o.Stretch = values[0]
	switch o.Algorithm {
	case CommandDeltaGreedy:
		o.Delta = values[1]
	case CommandYaoParametrizedPruning:
		o.IntermediateStretch = values[1]
	}

	params, err := instance.ParseArgs(rest[numeric:])
	if err != nil {
		return o, err
	}
	o.Instance = params

	if err := o.ValidateAndSetDefaults(); err != nil {
		return o, err
	}
	return o, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// describe is used in log lines.
func (o *Options) describe() string {
	return fmt.Sprintf("%s t=%g n=%d %s/%s", o.Algorithm, o.Stretch, o.Instance.Size(),
		o.Instance.Space, o.Instance.Distribution)
}

package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/observability"
)

// State is the progress of a run.
type State int

const (
	StateInit State = iota
	StateGenerated
	StateStage1Done
	StateMaterialized
	StateStage2Done
	StateMeasured
	StateReported
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateGenerated:
		return "generated"
	case StateStage1Done:
		return "stage1-done"
	case StateMaterialized:
		return "materialized"
	case StateStage2Done:
		return "stage2-done"
	case StateMeasured:
		return "measured"
	case StateReported:
		return "reported"
	default:
		return "unknown"
	}
}

// transitions lists the legal successors of each state. Single-stage runs
// go from Stage1Done straight to Measured.
var transitions = map[State][]State{
	StateInit:         {StateGenerated},
	StateGenerated:    {StateStage1Done},
	StateStage1Done:   {StateMaterialized, StateMeasured},
	StateMaterialized: {StateStage2Done},
	StateStage2Done:   {StateMeasured},
	StateMeasured:     {StateReported},
}

// CanTransition reports whether a run may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// tracker walks a run through its states and reports every step.
type tracker struct {
	ctx     context.Context
	command string
	logger  *log.Logger
	state   State
	path    []State
}

func newTracker(ctx context.Context, command string, logger *log.Logger) *tracker {
	return &tracker{ctx: ctx, command: command, logger: logger, state: StateInit, path: []State{StateInit}}
}

func (t *tracker) advance(to State) error {
	if !CanTransition(t.state, to) {
		return errors.New(errors.ErrCodeInternal, "illegal run transition %s -> %s", t.state, to)
	}
	observability.Pipeline().OnTransition(t.ctx, t.command, t.state.String(), to.String())
	t.logger.Debug("run state", "from", t.state, "to", to)
	t.state = to
	t.path = append(t.path, to)
	return nil
}

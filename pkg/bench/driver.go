package bench

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/geospanner/pkg/cache"
	"github.com/matzehuels/geospanner/pkg/report"
)

// Messages recorded for failed commands.
const (
	MsgTimeLimit   = "Time limit exceeded."
	MsgMemoryLimit = "Memory limit exceeded."
	MsgAborted     = "Tests manually aborted."
)

// Record is the outcome of one command.
type Record struct {
	Index   int
	ID      string
	Command string

	// Report is the validated report object; nil when Error is set.
	Report map[string]json.RawMessage
	Error  string
	// Output is the raw stdout of a command whose output was rejected.
	Output string

	Elapsed time.Duration
	Cached  bool
}

// OK reports whether the command produced a valid report.
func (r Record) OK() bool {
	return r.Error == ""
}

// MarshalJSON writes the report object, or an error object.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.OK() {
		return json.Marshal(r.Report)
	}
	obj := map[string]string{"command": r.Command, "error": r.Error}
	if r.Output != "" {
		obj["output"] = r.Output
	}
	return json.Marshal(obj)
}

// Status is the phase of a command in a progress event.
type Status int

const (
	StatusStarted Status = iota
	StatusSucceeded
	StatusFailed
	StatusCached
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusCached:
		return "cached"
	default:
		return "unknown"
	}
}

// ProgressEvent reports a command starting or finishing.
type ProgressEvent struct {
	Index   int
	Total   int
	Command string
	Status  Status
	Elapsed time.Duration
	Error   string
}

// Driver runs the commands of an input in parallel child processes.
type Driver struct {
	Logger *log.Logger

	// Cache, when set, holds validated reports keyed by command arguments.
	Cache   cache.Cache
	Keyer   cache.Keyer
	Refresh bool

	// Env is appended to the environment of every child.
	Env []string

	// OnProgress is called from worker goroutines; it may be nil.
	OnProgress func(ProgressEvent)
}

// NewDriver creates a driver without a cache.
func NewDriver(logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{Logger: logger, Keyer: cache.NewDefaultKeyer()}
}

// Run executes every command of in, at most NumberProcesses at a time, and
// returns one record per command in input order. A failing command becomes
// an error record; Run itself only fails when ctx is cancelled, in which
// case the records of unstarted commands carry MsgAborted.
func (d *Driver) Run(ctx context.Context, in *Input) ([]Record, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	records := make([]Record, len(in.Commands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.NumberProcesses)

	for i, cmd := range in.Commands {
		if gctx.Err() != nil {
			records[i] = Record{Index: i, ID: uuid.NewString(), Command: cmd, Error: MsgAborted}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				records[i] = Record{Index: i, ID: uuid.NewString(), Command: cmd, Error: MsgAborted}
				return err
			}
			records[i] = d.runOne(gctx, in, i, cmd)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return records, err
}

func (d *Driver) runOne(ctx context.Context, in *Input, index int, command string) Record {
	rec := Record{Index: index, ID: uuid.NewString(), Command: command}
	total := len(in.Commands)
	fields := strings.Fields(command)
	if len(fields) == 0 {
		rec.Error = "empty command"
		d.emit(ProgressEvent{Index: index, Total: total, Command: command, Status: StatusFailed, Error: rec.Error})
		return rec
	}

	key := ""
	if d.Cache != nil {
		key = d.keyer().ReportKey(fields[1:])
		if !d.Refresh {
			if obj, ok := d.cached(ctx, key, command); ok {
				rec.Report, rec.Cached = obj, true
				d.emit(ProgressEvent{Index: index, Total: total, Command: command, Status: StatusCached})
				return rec
			}
		}
	}

	d.emit(ProgressEvent{Index: index, Total: total, Command: command, Status: StatusStarted})
	d.Logger.Debug("starting test", "index", index, "command", command)

	start := time.Now()
	stdout, stderr, err := d.exec(ctx, in, fields)
	rec.Elapsed = time.Since(start)

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		rec.Error = MsgTimeLimit
	case ctx.Err() != nil:
		rec.Error = MsgAborted
	case err != nil:
		rec.Error = childError(err, stderr)
	default:
		obj, verr := report.Validate(stdout, command)
		if verr != nil {
			rec.Error = verr.Error()
			if stderrors.Is(verr, report.ErrMissingKeys) {
				rec.Error = report.ErrMissingKeys.Error()
			}
			rec.Output = string(stdout)
		} else {
			rec.Report = obj
		}
	}

	if rec.OK() {
		d.Logger.Debug("test finished", "index", index, "duration", rec.Elapsed)
		if key != "" {
			if data, err := json.Marshal(rec.Report); err == nil {
				if err := d.Cache.Set(ctx, key, data, cache.TTLReport); err != nil {
					d.Logger.Warn("cache write failed", "error", err)
				}
			}
		}
		d.emit(ProgressEvent{Index: index, Total: total, Command: command, Status: StatusSucceeded, Elapsed: rec.Elapsed})
	} else {
		d.Logger.Warn("test didn't finish", "index", index, "command", command, "error", rec.Error)
		d.emit(ProgressEvent{Index: index, Total: total, Command: command, Status: StatusFailed,
			Elapsed: rec.Elapsed, Error: rec.Error})
	}
	return rec
}

// exec runs one child with the input's time limit. It returns
// context.DeadlineExceeded when the limit expires.
func (d *Driver) exec(ctx context.Context, in *Input, fields []string) ([]byte, []byte, error) {
	cctx, cancel := context.WithTimeout(ctx, time.Duration(in.TimeLimit)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(cctx, fields[0], fields[1:]...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("GOMEMLIMIT=%dMiB", in.MemoryLimit))
	cmd.Env = append(cmd.Env, d.Env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return nil, nil, context.DeadlineExceeded
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// childError turns a failed child into a record message.
func childError(err error, stderr []byte) string {
	msg := strings.TrimSpace(string(stderr))
	if strings.Contains(msg, "Memory") || strings.Contains(msg, "out of memory") {
		return MsgMemoryLimit
	}
	if msg == "" {
		return err.Error()
	}
	return msg
}

func (d *Driver) cached(ctx context.Context, key, command string) (map[string]json.RawMessage, bool) {
	data, hit, err := d.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	obj, err := report.Validate(data, command)
	if err != nil {
		return nil, false
	}
	obj["command"], _ = json.Marshal(command)
	return obj, true
}

func (d *Driver) keyer() cache.Keyer {
	if d.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return d.Keyer
}

func (d *Driver) emit(ev ProgressEvent) {
	if d.OnProgress != nil {
		d.OnProgress(ev)
	}
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Cached    int
}

// Summarize counts records by outcome.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch {
		case !r.OK():
			s.Failed++
		case r.Cached:
			s.Cached++
			s.Succeeded++
		default:
			s.Succeeded++
		}
	}
	return s
}

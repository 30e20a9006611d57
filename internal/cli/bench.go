package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/bench"
	"github.com/matzehuels/geospanner/pkg/errors"
)

// benchCommand creates the bench command group.
func (c *CLI) benchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Expand and run benchmark suites",
	}

	cmd.AddCommand(c.benchGenerateCommand())
	cmd.AddCommand(c.benchRunCommand())

	return cmd
}

// benchGenerateCommand creates the "bench generate" subcommand.
func (c *CLI) benchGenerateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate <suite.toml>",
		Short: "Expand a TOML suite into a JSON command list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := bench.LoadSuite(args[0])
			if err != nil {
				return err
			}
			in := suite.Input()

			if output == "" {
				enc := json.NewEncoder(c.Stdout)
				enc.SetIndent("", "    ")
				return enc.Encode(in)
			}
			if err := in.Write(output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Expanded %d commands", len(in.Commands))
			printFile(output)
			printNextStep("Run them with", appName+" bench run "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// benchRunOpts holds the flags of "bench run".
type benchRunOpts struct {
	tui       bool
	output    string
	mongoURI  string
	mongoDB   string
	mongoColl string
	processes int
	cache     cacheFlags
}

// benchRunCommand creates the "bench run" subcommand.
func (c *CLI) benchRunCommand() *cobra.Command {
	var opts benchRunOpts

	cmd := &cobra.Command{
		Use:   "run <suite.toml|input.json>",
		Short: "Run every command of a suite in parallel",
		Long: `Run every command of a suite or input file in its own process, at most
number_processes at a time, each bounded by time_limit. Results are written
to output_filename as {"initialized": true, "Test0": {...}, ...}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBench(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show live progress")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "results file (default output_filename of the input)")
	cmd.Flags().IntVarP(&opts.processes, "processes", "j", 0, "override number_processes")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "also store results in MongoDB")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", bench.DefaultMongoDatabase, "MongoDB database")
	cmd.Flags().StringVar(&opts.mongoColl, "mongo-collection", bench.DefaultMongoCollection, "MongoDB collection")
	opts.cache.register(cmd)
	return cmd
}

func (c *CLI) runBench(ctx context.Context, path string, opts benchRunOpts) error {
	in, err := bench.Load(path)
	if err != nil {
		return err
	}
	if opts.output != "" {
		in.OutputFilename = opts.output
	}
	if opts.processes > 0 {
		in.NumberProcesses = opts.processes
	}
	resolveSelf(in)

	sink, err := c.benchSink(ctx, in, opts)
	if err != nil {
		return err
	}
	defer sink.Close(context.Background())

	driver := bench.NewDriver(c.Logger)
	driver.Refresh = opts.cache.refresh
	driver.Keyer = keyer()
	if opts.cache.enabled || opts.cache.url != "" {
		driver.Cache = opts.cache.open(ctx, c.Logger)
		defer driver.Cache.Close()
	}

	run := bench.RunInfo{ID: uuid.NewString(), Input: path, StartedAt: time.Now()}
	c.Logger.Info("starting benchmark",
		"run", run.ID,
		"commands", len(in.Commands),
		"processes", in.NumberProcesses,
		"time_limit", time.Duration(in.TimeLimit)*time.Millisecond)

	var records []bench.Record
	if opts.tui {
		records, err = runBenchTUI(ctx, driver, in)
	} else {
		records, err = runBenchPlain(ctx, driver, in)
	}
	if records == nil {
		return err
	}

	if werr := sink.Write(context.Background(), run, records); werr != nil {
		return errors.Wrap(errors.ErrCodeInternal, werr, "write results")
	}

	summary := bench.Summarize(records)
	printSuccess("Finished %d commands in %s", summary.Total, time.Since(run.StartedAt).Round(time.Millisecond))
	printKeyValue("succeeded", fmt.Sprint(summary.Succeeded))
	printKeyValue("cached", fmt.Sprint(summary.Cached))
	printKeyValue("failed", fmt.Sprint(summary.Failed))
	printFile(in.OutputFilename)
	return err
}

func (c *CLI) benchSink(ctx context.Context, in *bench.Input, opts benchRunOpts) (bench.Sink, error) {
	sinks := bench.MultiSink{bench.FileSink{Path: in.OutputFilename}}
	if opts.mongoURI != "" {
		mongo, err := bench.NewMongoSink(ctx, opts.mongoURI, opts.mongoDB, opts.mongoColl)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, mongo)
	}
	return sinks, nil
}

// resolveSelf points commands at this binary when their executable is
// geospanner and no geospanner is on PATH.
func resolveSelf(in *bench.Input) {
	if _, err := exec.LookPath(appName); err == nil {
		return
	}
	self, err := os.Executable()
	if err != nil {
		return
	}
	for i, cmd := range in.Commands {
		if rest, ok := strings.CutPrefix(cmd, appName+" "); ok {
			in.Commands[i] = self + " " + rest
		}
	}
}

func runBenchPlain(ctx context.Context, driver *bench.Driver, in *bench.Input) ([]bench.Record, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %d commands...", len(in.Commands)))
	var (
		mu           sync.Mutex
		done, failed int
	)
	driver.OnProgress = func(ev bench.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch ev.Status {
		case bench.StatusStarted:
			return
		case bench.StatusFailed:
			failed++
		}
		done++
		spinner.SetMessage(fmt.Sprintf("%d/%d done, %d failed", done, ev.Total, failed))
	}
	spinner.Start()
	defer spinner.Stop()
	return driver.Run(ctx, in)
}

func runBenchTUI(ctx context.Context, driver *bench.Driver, in *bench.Input) ([]bench.Record, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newBenchModel(len(in.Commands), cancel), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	driver.OnProgress = func(ev bench.ProgressEvent) { p.Send(progressMsg(ev)) }

	type outcome struct {
		records []bench.Record
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		records, err := driver.Run(ctx, in)
		p.Send(finishedMsg{})
		done <- outcome{records, err}
	}()

	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		cancel()
		res := <-done
		return res.records, err
	}
	res := <-done
	return res.records, res.err
}

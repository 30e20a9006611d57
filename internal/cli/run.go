package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/io"
	"github.com/matzehuels/geospanner/pkg/pipeline"
	"github.com/matzehuels/geospanner/pkg/report"
)

// runUsage is the argument grammar of each run command.
var runUsage = map[string]string{
	pipeline.CommandYao:                    "<t> <space> <distribution> <params...>",
	pipeline.CommandPathGreedy:             "<t> <space> <distribution> <params...>",
	pipeline.CommandGreedy:                 "<t> <space> <distribution> <params...>",
	pipeline.CommandDeltaGreedy:            "<t> <delta> <space> <distribution> <params...>",
	pipeline.CommandYaoPruning:             "<t> <space> <distribution> <params...>",
	pipeline.CommandYaoParametrizedPruning: "<t> <t_yao> <space> <distribution> <params...>",
}

var runShort = map[string]string{
	pipeline.CommandYao:                    "Build a Yao graph",
	pipeline.CommandPathGreedy:             "Build the path greedy spanner",
	pipeline.CommandGreedy:                 "Build the greedy spanner over all pairs",
	pipeline.CommandDeltaGreedy:            "Build the delta-greedy spanner",
	pipeline.CommandYaoPruning:             "Prune a Yao graph greedily using its measured stretch",
	pipeline.CommandYaoParametrizedPruning: "Prune a Yao graph built with an intermediate stretch",
}

const instanceHelp = `Instance parameters:
  <space>          euclid | sphere
  <distribution>   uniform | cluster
  uniform:         <seed> <n>
  cluster:         <seed> <n_cluster> <n_points_per_cluster> <mean_dist>
  euclid adds:     [<max_x> <max_y>]   (default 1 1)

The report is printed to stdout as JSON.`

// runOpts holds the flags of a run command.
type runOpts struct {
	cache cacheFlags
	save  string // write instance and spanner JSON here
}

// runCommand creates the command for one algorithm.
func (c *CLI) runCommand(name string) *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   name + " " + runUsage[name],
		Short: runShort[name],
		Long:  runShort[name] + ".\n\n" + instanceHelp,
		Args:  cobra.ArbitraryArgs,

		ValidArgsFunction: instanceCompletion(numericArgs(name)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExperiment(cmd, name, args, opts)
		},
	}
	opts.cache.register(cmd)
	cmd.Flags().StringVar(&opts.save, "save", "", "write the instance and spanner as JSON to this file")
	return cmd
}

func (c *CLI) runExperiment(cmd *cobra.Command, name string, args []string, opts runOpts) error {
	ctx := cmd.Context()

	options, err := pipeline.ParseArgs(append([]string{name}, args...))
	if err != nil {
		return err
	}
	options.Refresh = opts.cache.refresh || opts.save != ""

	runner := c.newRunner(ctx, opts.cache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, options)
	if err != nil {
		return err
	}
	prog.done(describeResult(result))

	if opts.save != "" {
		if err := io.ExportJSON(opts.save, result.Instance, result.Spanner); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "save %s", opts.save)
		}
		c.Logger.Info("saved", "file", opts.save)
	}
	return report.Write(c.Stdout, result.Report)
}

func describeResult(r *pipeline.Result) string {
	rep := r.Report
	var b strings.Builder
	fmt.Fprintf(&b, "%d edges, weight %.4f, stretch %s",
		rep.GraphInformation.Edges, rep.Weight, rep.ActualStretch)
	if r.CacheHit {
		b.WriteString(", cached")
	}
	return b.String()
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/io"
	"github.com/matzehuels/geospanner/pkg/pipeline"
	"github.com/matzehuels/geospanner/pkg/report"
)

// pruneOpts holds the flags of the prune command.
type pruneOpts struct {
	cost        int
	output      string
	skipStretch bool
}

// pruneCommand creates the prune command.
func (c *CLI) pruneCommand() *cobra.Command {
	var opts pruneOpts

	cmd := &cobra.Command{
		Use:   "prune <file.graphml|file.json> <t>",
		Short: "Prune an existing graph with the greedy algorithm",
		Long: `Read a weighted graph and keep only the edges the greedy algorithm needs
for stretch t. GraphML edge weights come from the cost function selected by
--cost (the <data key="c_K"> elements). A JSON instance without edges is
pruned from its complete graph.

The report is printed to stdout; its stretch is measured against shortest
paths in the input graph.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New(errors.ErrCodeArgumentParse, "Not enough args!")
			}
			if len(args) > 2 {
				return errors.New(errors.ErrCodeArgumentParse, "Too many args!")
			}
			t, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.New(errors.ErrCodeArgumentParse, "Stretch parse error!")
			}
			return c.runPrune(cmd.Context(), args[0], t, opts)
		},
	}

	cmd.Flags().IntVar(&opts.cost, "cost", 0, "GraphML cost function index")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the pruned graph as GraphML")
	cmd.Flags().BoolVar(&opts.skipStretch, "skip-stretch", false, "do not measure the stretch")
	return cmd
}

func (c *CLI) runPrune(ctx context.Context, path string, t float64, opts pruneOpts) error {
	candidates, err := readGraph(path, opts.cost)
	if err != nil {
		return err
	}
	c.Logger.Info("loaded graph", "file", path, "nodes", candidates.NodeCount(), "edges", candidates.EdgeCount())

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	prog := newProgress(c.Logger)
	result, err := runner.Prune(ctx, candidates, pipeline.PruneOptions{
		Stretch:     t,
		Command:     strings.Join([]string{pipeline.Program, "prune", path, strconv.FormatFloat(t, 'g', -1, 64)}, " "),
		SkipStretch: opts.skipStretch,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Kept %d of %d edges", result.Spanner.EdgeCount(), candidates.EdgeCount()))

	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.output, err)
		}
		if err := io.WriteGraphML(f, result.Spanner); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		c.Logger.Info("saved", "file", opts.output)
	}
	return report.Write(c.Stdout, result.Report)
}

// readGraph loads a GraphML or JSON graph, chosen by extension.
func readGraph(path string, cost int) (*graph.Graph, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		inst, g, err := io.ImportJSON(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
		}
		return io.Candidates(inst, g), nil
	default:
		g, err := io.ImportGraphML(path, cost)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
		}
		return g, nil
	}
}

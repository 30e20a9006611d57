package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/pipeline"
	"github.com/matzehuels/geospanner/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		timeout  time.Duration
		maxNodes int
		maxEdges int
		flags    cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve runs over HTTP",
		Long: `Serve runs over HTTP:

  GET  /healthz         liveness and build information
  GET  /v1/algorithms   run commands and their pipeline shapes
  POST /v1/runs         execute one run, respond with its report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := pipeline.NewRunner(flags.open(ctx, c.Logger), keyer(), c.Logger)
			defer runner.Close()

			srv := server.New(runner, c.Logger)
			srv.RunTimeout = timeout
			srv.MaxNodes = maxNodes
			srv.MaxEdges = maxEdges
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "run-timeout", server.DefaultRunTimeout, "maximum duration of one run")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", server.DefaultMaxNodes, "largest instance accepted")
	cmd.Flags().IntVar(&maxEdges, "max-edges", server.DefaultMaxEdges, "largest candidate edge count accepted")
	flags.register(cmd)
	return cmd
}

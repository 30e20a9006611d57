package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/cache"
	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/io"
	"github.com/matzehuels/geospanner/pkg/render/nodelink"
)

// Output formats of generate.
const (
	formatJSON = "json"
	formatDOT  = "dot"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	output string
	format string
	cache  cacheFlags
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{format: formatJSON}

	cmd := &cobra.Command{
		Use:   "generate <space> <distribution> <params...>",
		Short: "Generate a random instance",
		Long:  "Generate a random instance and write its points as JSON or DOT.\n\n" + instanceHelp,
		Args:  cobra.ArbitraryArgs,

		ValidArgsFunction: instanceCompletion(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := instance.ParseArgs(args)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), params, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or dot")
	opts.cache.register(cmd)
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, params instance.Params, opts generateOpts) error {
	if opts.format != formatJSON && opts.format != formatDOT {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s or %s)", opts.format, formatJSON, formatDOT)
	}
	params.SetDefaults()

	store := opts.cache.open(ctx, c.Logger)
	defer store.Close()

	inst, err := c.loadInstance(ctx, store, params, opts.cache.refresh)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch opts.format {
	case formatDOT:
		buf.WriteString(nodelink.ToDOT(inst, graph.New(inst.Len()), nodelink.Options{}))
	default:
		if err := io.WriteJSON(&buf, inst, nil); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode instance")
		}
	}

	if opts.output == "" {
		_, err := c.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Generated %d points", inst.Len())
	printFile(opts.output)
	return nil
}

// loadInstance generates params, serving it from store when possible.
func (c *CLI) loadInstance(ctx context.Context, store cache.Cache, params instance.Params, refresh bool) (*instance.Instance, error) {
	key := keyer().InstanceKey(params.Args())
	if !refresh {
		if data, ok, err := store.Get(ctx, key); err == nil && ok {
			if inst, _, err := io.ReadJSON(bytes.NewReader(data)); err == nil {
				c.Logger.Debug("instance cache hit", "params", params.Args())
				return inst, nil
			}
		}
	}

	prog := newProgress(c.Logger)
	inst, err := instance.Generate(params)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Generated %d points", inst.Len()))

	var buf bytes.Buffer
	if err := io.WriteJSON(&buf, inst, nil); err == nil {
		if err := store.Set(ctx, key, buf.Bytes(), cache.TTLInstance); err != nil {
			c.Logger.Warn("cache write failed", "error", err)
		}
	}
	return inst, nil
}

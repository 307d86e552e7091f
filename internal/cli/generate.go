package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/causemap/causemap/pkg/graph"
	"github.com/causemap/causemap/pkg/pipeline"
	"github.com/causemap/causemap/pkg/synth"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	nodes  int           // service count, [2, 26]
	depth  int           // maximum dependency span per service
	seed   uint64        // random seed for reproducible maps
	ttl    time.Duration // session lifetime
	output string        // optional graph JSON output path
}

// generateCommand creates the generate command for synthesizing dependency maps.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize a random dependency map and open a session",
		Long: `Generate synthesizes a random layered service dependency map and stores it
in a new session. The same seed, node count, and depth always produce the
same map, so sessions are reproducible and shareable by parameters alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.nodes, "nodes", "n", pipeline.DefaultNodes,
		fmt.Sprintf("number of services (%d-%d)", synth.MinNodes, synth.MaxNodes))
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", pipeline.DefaultDepth, "maximum dependency span per service")
	cmd.Flags().Uint64VarP(&opts.seed, "seed", "s", pipeline.DefaultSeed, "random seed")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 0, "session lifetime (default 24h)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write the graph JSON to a file")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()

	// Config file values apply only where the flag was left at its default.
	if cfg := c.config.Generate; cfg != (GenerateConfig{}) {
		if !cmd.Flags().Changed("nodes") && cfg.Nodes != 0 {
			opts.nodes = cfg.Nodes
		}
		if !cmd.Flags().Changed("depth") && cfg.Depth != 0 {
			opts.depth = cfg.Depth
		}
		if !cmd.Flags().Changed("seed") && cfg.Seed != 0 {
			opts.seed = cfg.Seed
		}
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := newProgress(loggerFromContext(ctx))
	sess, err := runner.Generate(ctx, pipeline.GenerateOptions{
		Nodes: opts.nodes,
		Depth: opts.depth,
		Seed:  opts.seed,
		TTL:   opts.ttl,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Synthesized %d services", len(sess.Graph.Nodes)))

	g, err := graph.ToDAG(sess.Graph)
	if err != nil {
		return err
	}

	printSuccess("Created session %s", StyleHighlight.Render(sess.ID))
	printStats(g.NodeCount(), g.EdgeCount(), g.LayerCount())
	printDetail("seed %d · depth %d · expires %s", opts.seed, opts.depth, sess.ExpiresAt.Format(time.RFC3339))

	if opts.output != "" {
		if err := graph.WriteGraphFile(g, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}

	printNewline()
	printNextStep("Analyze issue nodes", fmt.Sprintf("%s analyze %s A B", appName, sess.ID))
	printNextStep("Render the map", fmt.Sprintf("%s render %s -f svg -o map.svg", appName, sess.ID))
	return nil
}

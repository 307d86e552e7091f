package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/causemap/causemap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format  string // output format: "dot", "svg", or "png"
	output  string // output file path; empty writes DOT to stdout
	issues  string // comma-separated issue-node labels to highlight
	noCache bool   // bypass the render artifact cache
}

// renderCommand creates the render command for producing diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <session-id>",
		Short: "Render a session's dependency map to DOT, SVG, or PNG",
		Long: `Render draws the session's dependency map left to right, one column per
layer, with issue nodes highlighted in red. Without --issues, the nodes
from the session's last analysis are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatSVG,
		fmt.Sprintf("output format: %s", strings.Join(pipeline.Formats(), ", ")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <session-id>.<format>)")
	cmd.Flags().StringVar(&opts.issues, "issues", "", "comma-separated issue nodes to highlight")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, sessionID string, opts *renderOpts) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var issueNodes []string
	if opts.issues != "" {
		issueNodes = normalizeLabels(strings.Split(opts.issues, ","))
	}

	p := newProgress(loggerFromContext(ctx))

	// SVG and PNG run the in-process graphviz layout engine, which can take
	// a few seconds on dense maps.
	var sp *Spinner
	if opts.format != pipeline.FormatDOT {
		sp = newSpinnerWithContext(ctx, fmt.Sprintf("rendering %s", opts.format))
		sp.Start()
	}

	data, err := runner.Render(ctx, sessionID, issueNodes, opts.format)
	if sp != nil {
		sp.Stop()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %s (%d bytes)", opts.format, len(data)))

	// DOT with no output path goes to stdout for piping into graphviz tools.
	if opts.output == "" && opts.format == pipeline.FormatDOT {
		fmt.Print(string(data))
		return nil
	}

	path := opts.output
	if path == "" {
		path = sessionID + "." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.format)
	printFile(path)
	return nil
}

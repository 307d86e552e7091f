package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/causemap/causemap/pkg/rootcause"
)

// analyzeCommand creates the analyze command for root-cause ranking.
func (c *CLI) analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <session-id> <issue-node>...",
		Short: "Rank likely root causes for a set of issue nodes",
		Long: `Analyze enumerates the dependency paths between the given issue nodes and
ranks how often each node sits at the downstream end of a surviving path.
The order of the issue nodes matters: paths are only traced from
earlier-listed nodes to later-listed ones.

At least two issue nodes are needed to form a path; with fewer, the result
is empty.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], normalizeLabels(args[1:]))
		},
	}
	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, sessionID string, issueNodes []string) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := newProgress(loggerFromContext(ctx))
	candidates, err := runner.Analyze(ctx, sessionID, issueNodes)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Analyzed %d issue nodes", len(issueNodes)))

	printIssueHeader(issueNodes)
	if len(candidates) == 0 {
		printWarning("No dependency paths connect the selected issue nodes")
		return nil
	}
	fmt.Println(candidateTable(candidates))
	return nil
}

// normalizeLabels upper-cases single-letter labels so "a b c" works like "A B C".
func normalizeLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToUpper(strings.TrimSpace(l))
	}
	return out
}

// printIssueHeader prints the selected issue nodes.
func printIssueHeader(issueNodes []string) {
	rendered := make([]string, len(issueNodes))
	for i, n := range issueNodes {
		rendered[i] = StyleIssue.Render(n)
	}
	printInfo("Issues: %s", strings.Join(rendered, " "))
}

// candidateTable renders the ranked candidates as a bordered table.
func candidateTable(candidates []rootcause.Candidate) string {
	rows := make([][]string, len(candidates))
	for i, cand := range candidates {
		rows[i] = []string{fmt.Sprintf("%d", i+1), cand.Label, fmt.Sprintf("%d", cand.Count)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Service", "Paths").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == 0 {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

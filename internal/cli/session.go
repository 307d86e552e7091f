package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/causemap/causemap/pkg/graph"
	"github.com/causemap/causemap/pkg/session"
)

// sessionCommand creates the session command group for store management.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage stored sessions",
	}
	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionDeleteCommand())
	cmd.AddCommand(c.sessionClearCommand())
	return cmd
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				printInfo("No stored sessions")
				return nil
			}
			fmt.Println(sessionTable(sessions))
			return nil
		},
	}
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session's parameters and graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			sess, g, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}

			printKeyValue("session", sess.ID)
			printKeyValue("created", sess.CreatedAt.Format(time.RFC3339))
			printKeyValue("expires", sess.ExpiresAt.Format(time.RFC3339))
			printKeyValue("seed", fmt.Sprintf("%d", sess.Graph.Params.Seed))
			printKeyValue("depth", fmt.Sprintf("%d", sess.Graph.Params.Depth))
			if len(sess.IssueNodes) > 0 {
				printKeyValue("issues", strings.Join(sess.IssueNodes, " "))
			}
			printStats(g.NodeCount(), g.EdgeCount(), g.LayerCount())
			printNewline()
			return graph.WriteGraph(g, cmd.OutOrStdout())
		},
	}
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>...",
		Short: "Delete stored sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

func (c *CLI) sessionClearCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				printInfo("No stored sessions")
				return nil
			}
			if !force {
				printWarning("This deletes %d sessions; pass --force to confirm", len(sessions))
				return nil
			}
			for _, s := range sessions {
				if err := store.Delete(ctx, s.ID); err != nil {
					return err
				}
			}
			printSuccess("Deleted %d sessions", len(sessions))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete without confirmation")
	return cmd
}

// sessionTable renders stored sessions as a bordered table.
func sessionTable(sessions []*session.Session) string {
	rows := make([][]string, len(sessions))
	for i, s := range sessions {
		issues := "-"
		if len(s.IssueNodes) > 0 {
			issues = strings.Join(s.IssueNodes, " ")
		}
		rows[i] = []string{
			s.ID,
			fmt.Sprintf("%d", len(s.Graph.Nodes)),
			fmt.Sprintf("%d", len(s.Graph.Edges)),
			issues,
			s.CreatedAt.Format("Jan 2 15:04"),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Session", "Services", "Deps", "Issues", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/causemap/causemap/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// uiCommand creates the ui command for interactive issue selection.
func (c *CLI) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui [session-id]",
		Short: "Interactively pick issue nodes and rank root causes",
		Long: `UI opens an interactive picker over the session's services. Toggle the
services that are currently showing issues, in the order you noticed them,
then confirm to rank the likely root causes. Without a session ID the most
recently created session is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return c.runUI(cmd, id)
		},
	}
}

func (c *CLI) runUI(cmd *cobra.Command, sessionID string) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	if sessionID == "" {
		sessions, err := runner.Store.List(ctx)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			return errors.New(errors.ErrCodeSessionNotFound, "no stored sessions; run %s generate first", appName)
		}
		sessionID = sessions[len(sessions)-1].ID
	}

	sess, g, err := runner.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	model := newIssuePickerModel(sessionID, g.Labels(), sess.IssueNodes)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	picker, ok := final.(issuePickerModel)
	if !ok || !picker.Confirmed {
		printInfo("Cancelled")
		return nil
	}
	if len(picker.Selected) < 2 {
		printWarning("Need at least two issue nodes to trace paths between them")
		return nil
	}

	candidates, err := runner.Analyze(ctx, sessionID, picker.Selected)
	if err != nil {
		return err
	}

	printIssueHeader(picker.Selected)
	if len(candidates) == 0 {
		printWarning("No dependency paths connect the selected issue nodes")
		return nil
	}
	fmt.Println(candidateTable(candidates))
	return nil
}

// =============================================================================
// issuePickerModel - Interactive issue-node selection
// =============================================================================

// issuePickerModel is the bubbletea model for picking issue nodes.
// Selection order is preserved: the order services are toggled on is the
// order the analyzer traces paths in.
type issuePickerModel struct {
	SessionID string
	Labels    []string
	Cursor    int
	Selected  []string // in toggle order
	Confirmed bool
}

func newIssuePickerModel(sessionID string, labels, preselected []string) issuePickerModel {
	return issuePickerModel{
		SessionID: sessionID,
		Labels:    labels,
		Selected:  slices.Clone(preselected),
	}
}

func (m issuePickerModel) Init() tea.Cmd {
	return nil
}

func (m issuePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Labels)-1 {
				m.Cursor++
			}
		case " ", "x":
			m.toggle(m.Labels[m.Cursor])
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// toggle adds label to the selection, or removes it if already selected.
func (m *issuePickerModel) toggle(label string) {
	if i := slices.Index(m.Selected, label); i >= 0 {
		m.Selected = slices.Delete(m.Selected, i, i+1)
		return
	}
	m.Selected = append(m.Selected, label)
}

func (m issuePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Issue Nodes"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(m.SessionID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ analyze  q quit"))
	b.WriteString("\n\n")

	for i, label := range m.Labels {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		order := slices.Index(m.Selected, label)
		mark := "[ ]"
		if order >= 0 {
			mark = fmt.Sprintf("[%d]", order+1)
		}

		line := fmt.Sprintf("%s%s %s", cursor, mark, label)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case order >= 0:
			b.WriteString(StyleIssue.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.Selected) > 0 {
		b.WriteString(listDimStyle.Render("order: "))
		b.WriteString(StyleIssue.Render(strings.Join(m.Selected, " ")))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d selected]", len(m.Selected), len(m.Labels))))

	return b.String()
}

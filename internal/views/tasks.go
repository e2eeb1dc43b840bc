package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RowState drives the colour of a task row.
type RowState string

const (
	RowPlain     RowState = "plain"
	RowOverdue   RowState = "overdue"
	RowDueToday  RowState = "due-today"
	RowCompleted RowState = "completed"
)

type TaskRow struct {
	ID       int64
	Text     string
	DueLabel string
	State    RowState
	Selected bool
}

const EmptyStateText = "No tasks here. Press a to add one."

var (
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dueTodayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	dueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	emptyStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
)

func RenderTaskList(rows []TaskRow) string {
	if len(rows) == 0 {
		return emptyStyle.Render(EmptyStateText)
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, renderRow(row))
	}
	return strings.Join(lines, "\n")
}

func renderRow(row TaskRow) string {
	cursor := "  "
	if row.Selected {
		cursor = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if row.State == RowCompleted {
		box = "[x]"
	}

	text := row.Text
	due := row.DueLabel
	switch row.State {
	case RowOverdue:
		text = overdueStyle.Render(text)
		due = overdueStyle.Render(due)
	case RowDueToday:
		due = dueTodayStyle.Render(due)
	case RowCompleted:
		text = completedStyle.Render(text)
		due = completedStyle.Render(due)
	default:
		due = dueStyle.Render(due)
	}

	line := fmt.Sprintf("%s%s %s", cursor, box, text)
	if row.DueLabel != "" {
		line += "  " + due
	}
	return line
}

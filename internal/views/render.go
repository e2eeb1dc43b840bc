package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Stats        string
	Filters      string
	TaskList     string
	Palette      string
	StatusLine   string
	StatusError  bool
	Notification string
	Help         string
	Footer       string
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeFilter = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	idleFilter   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const panelWidth = 72

func RenderApp(data AppData) string {
	lines := []string{headerStyle.Render(data.Header)}
	if data.Stats != "" {
		lines = append(lines, data.Stats)
	}
	if data.Filters != "" {
		lines = append(lines, data.Filters)
	}
	lines = append(lines, panelStyle.Width(panelWidth).Render(data.TaskList))
	if data.Palette != "" {
		lines = append(lines, panelStyle.Width(panelWidth).Render(data.Palette))
	}
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Width(panelWidth).Render(data.Notification))
	}
	if data.Help != "" {
		lines = append(lines, data.Help)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderStats renders "N tasks remaining" followed by an overdue badge when
// anything is overdue.
func RenderStats(remaining string, overdue int, permission string) string {
	parts := []string{statsStyle.Render(remaining)}
	if overdue > 0 {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("%d overdue", overdue)))
	}
	if permission != "" {
		parts = append(parts, footerStyle.Render("["+permission+"]"))
	}
	return strings.Join(parts, "  ")
}

// RenderFilters renders the filter tabs with the active one highlighted.
func RenderFilters(active string, tabs []FilterTab) string {
	out := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := tab.Key + " " + tab.Label
		if tab.Name == active {
			out = append(out, activeFilter.Render(label))
			continue
		}
		out = append(out, idleFilter.Render(label))
	}
	return strings.Join(out, "   ")
}

type FilterTab struct {
	Key   string
	Name  string
	Label string
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

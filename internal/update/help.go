package update

import (
	"strings"

	"github.com/sandeepkv93/duetasks/internal/views"
)

const commandReference = `## Commands

- ` + "`add <text> [due:YYYY-MM-DD]`" + ` adds a task; due also takes ` + "`today`" + ` or ` + "`tomorrow`" + `
- ` + "`toggle <id>`" + ` marks a task done or not done
- ` + "`delete <id>`" + ` (or ` + "`rm <id>`" + `) deletes a task
- ` + "`filter <all|active|completed>`" + ` changes the list filter
- ` + "`notify`" + ` enables reminders

Overdue tasks are reminded once a day. Tasks due today are reminded once
during the morning window.`

func (m Model) renderHelp() string {
	if !m.HelpVisible {
		return ""
	}
	keys := m.helpModel.FullHelpView(m.Keys.FullHelp())
	return strings.TrimSpace(keys + "\n\n" + views.RenderMarkdown(commandReference))
}

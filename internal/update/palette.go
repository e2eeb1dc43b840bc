package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/duetasks/internal/commands"
)

func (m *Model) openPalette(prefill string) {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		m.app.Engine.Stop()
		return m, tea.Quit
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.commandInput.CursorEnd()
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	cmd, err := commands.Parse(raw, m.app.Today())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.add(a.Text, a.Due)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Toggle: func(a commands.TargetArgs) (commands.Result, error) {
			if _, ok := m.app.Store.Get(a.ID); !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task with id %d", a.ID)}
			}
			m.toggle(a.ID)
			return commands.Result{Message: fmt.Sprintf("toggled task %d", a.ID)}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			if _, ok := m.app.Store.Get(a.ID); !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task with id %d", a.ID)}
			}
			m.remove(a.ID)
			return commands.Result{Message: fmt.Sprintf("deleted task %d", a.ID)}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.setFilter(a.Mode)
			return commands.Result{Message: fmt.Sprintf("showing %s tasks", a.Mode)}, nil
		},
		Notify: func() (commands.Result, error) {
			next, c := m.startPermissionRequest()
			m = next.(Model)
			follow = c
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}

func (m Model) renderPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return "command:\n" + m.commandInput.View() + "\n[enter] run  [esc] close"
}

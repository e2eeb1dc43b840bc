package update

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/notify"
	"github.com/sandeepkv93/duetasks/internal/scheduler"
	"github.com/sandeepkv93/duetasks/internal/views"
)

// Init starts the periodic check engine. Its first tick arrives right away,
// which gives the startup check.
func (m Model) Init() tea.Cmd {
	m.app.Engine.Start()
	return waitForTickCmd(m.app.Engine.C())
}

func waitForTickCmd(ch <-chan scheduler.Tick) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return engineStoppedMsg{}
		}
		return TickMsg{Tick: t}
	}
}

// requestPermissionCmd runs the permission prompt off the update loop since
// the platform may block on the user. Only the platform is touched here.
func requestPermissionCmd(ctx context.Context, p notify.Platform, dismissAfter time.Duration) tea.Cmd {
	return func() tea.Msg {
		outcome, err := notify.RequestFlow(ctx, p, dismissAfter)
		return PermissionResultMsg{Outcome: outcome, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		return m.handleKey(typed)
	case TickMsg:
		m.app.Logger.Debug("scheduler_tick", slog.String("reason", string(typed.Tick.Reason)))
		m.noteReminders(m.app.RunCheck(m.ctx))
		return m, waitForTickCmd(m.app.Engine.C())
	case engineStoppedMsg:
		return m, nil
	case PermissionResultMsg:
		return m.onPermissionResult(typed), nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		m.app.Engine.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.Keys.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.Keys.FilterActive):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, m.Keys.FilterCompleted):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Visible())-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Add):
		m.openPalette("add ")
	case key.Matches(msg, m.Keys.Palette):
		m.openPalette("")
	case key.Matches(msg, m.Keys.Toggle):
		if t, ok := m.Selected(); ok {
			m.toggle(t.ID)
		}
	case key.Matches(msg, m.Keys.Delete):
		if t, ok := m.Selected(); ok {
			m.remove(t.ID)
		}
	case key.Matches(msg, m.Keys.Notify):
		return m.startPermissionRequest()
	case key.Matches(msg, m.Keys.Check):
		// The check itself runs when the tick comes back through Update.
		m.app.Engine.Trigger()
		m.Status = StatusBar{Text: "checking reminders"}
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		m.helpModel.ShowAll = m.HelpVisible
	}
	return m, nil
}

func (m *Model) setFilter(mode model.FilterMode) {
	m.Filter = mode
	m.Cursor = 0
}

func (m *Model) add(text string, due *model.Date) {
	t, reminders, ok := m.app.AddTask(m.ctx, text, due)
	if !ok {
		m.Status = StatusBar{Text: "task text is empty", IsError: true}
		return
	}
	m.noteReminders(reminders)
	m.Cursor = 0
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", t.Text)}
}

func (m *Model) toggle(id int64) {
	reminders, ok := m.app.ToggleTask(m.ctx, id)
	if !ok {
		m.Status = StatusBar{Text: fmt.Sprintf("no task with id %d", id), IsError: true}
		return
	}
	m.noteReminders(reminders)
	m.clampCursor()
	m.Status = StatusBar{Text: "task updated"}
}

func (m *Model) remove(id int64) {
	reminders, ok := m.app.DeleteTask(m.ctx, id)
	if !ok {
		m.Status = StatusBar{Text: fmt.Sprintf("no task with id %d", id), IsError: true}
		return
	}
	m.noteReminders(reminders)
	m.clampCursor()
	m.Status = StatusBar{Text: "task deleted"}
}

func (m Model) startPermissionRequest() (tea.Model, tea.Cmd) {
	if m.Requesting {
		return m, nil
	}
	m.Requesting = true
	m.Status = StatusBar{Text: "requesting notification permission"}
	return m, requestPermissionCmd(m.ctx, m.app.Platform, m.app.dismissAfter)
}

func (m Model) onPermissionResult(res PermissionResultMsg) Model {
	m.Requesting = false
	if res.Err != nil {
		m.app.Logger.Warn("notification_request_failed", slog.String("error", res.Err.Error()))
	}
	m.app.Logger.Info("notification_request", slog.String("outcome", string(res.Outcome)))
	switch res.Outcome {
	case notify.OutcomeGranted, notify.OutcomeAlreadyEnabled:
		m.Status = StatusBar{Text: res.Outcome.Message()}
	default:
		m.Status = StatusBar{Text: res.Outcome.Message(), IsError: true}
	}
	if res.Outcome == notify.OutcomeGranted {
		m.noteReminders(m.app.RunCheck(m.ctx))
	}
	return m
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	today := m.app.Today()
	all := m.app.Store.All()
	stats := model.ComputeStats(all, today)

	visible := model.Filter(all, m.Filter)
	rows := make([]views.TaskRow, 0, len(visible))
	for i, t := range visible {
		rows = append(rows, views.TaskRow{
			ID:       t.ID,
			Text:     t.Text,
			DueLabel: model.DueLabel(t, today),
			State:    rowState(t, today),
			Selected: i == m.Cursor,
		})
	}

	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("duetasks | %s", today.Midnight(m.app.Clock.Now().Location()).Format("Mon Jan 2, 2006")),
		Stats:        views.RenderStats(model.RemainingLabel(stats.Active), stats.Overdue, m.app.PermissionLabel()),
		Filters:      views.RenderFilters(string(m.Filter), filterTabs),
		TaskList:     views.RenderTaskList(rows),
		Palette:      m.renderPalette(),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderRecentReminders(),
		Help:         m.renderHelp(),
		Footer:       m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}

var filterTabs = []views.FilterTab{
	{Key: "1", Name: string(model.FilterAll), Label: "All"},
	{Key: "2", Name: string(model.FilterActive), Label: "Active"},
	{Key: "3", Name: string(model.FilterCompleted), Label: "Completed"},
}

func rowState(t model.Task, today model.Date) views.RowState {
	if t.Completed {
		return views.RowCompleted
	}
	switch model.Classify(t, today) {
	case model.StatusOverdue:
		return views.RowOverdue
	case model.StatusDueToday:
		return views.RowDueToday
	default:
		return views.RowPlain
	}
}

func (m Model) renderRecentReminders() string {
	if len(m.RecentReminders) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.RecentReminders)+1)
	lines = append(lines, "recent reminders:")
	for _, r := range m.RecentReminders {
		lines = append(lines, fmt.Sprintf("- %s %s", r.Notification.Title, r.Notification.Body))
	}
	return strings.Join(lines, "\n")
}

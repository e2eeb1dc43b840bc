package update

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/notify"
	"github.com/sandeepkv93/duetasks/internal/scheduler"
)

const maxRecentReminders = 5

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type KeyMap struct {
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	Up              key.Binding
	Down            key.Binding
	Add             key.Binding
	Toggle          key.Binding
	Delete          key.Binding
	Notify          key.Binding
	Check           key.Binding
	Palette         key.Binding
	Help            key.Binding
	Quit            key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		FilterAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all tasks")),
		FilterActive:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active tasks")),
		FilterCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed tasks")),
		Up:              key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:            key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Add:             key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Toggle:          key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Delete:          key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Notify:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "enable notifications")),
		Check:           key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "check reminders now")),
		Palette:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Palette, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FilterAll, k.FilterActive, k.FilterCompleted},
		{k.Up, k.Down, k.Add, k.Toggle, k.Delete},
		{k.Notify, k.Check, k.Palette, k.Help, k.Quit},
	}
}

// Model is the bubbletea model. All reminder checks run inside Update, so
// they never overlap with each other or with a mutation.
type Model struct {
	app             *App
	ctx             context.Context
	Filter          model.FilterMode
	Cursor          int
	Palette         CommandPaletteState
	HelpVisible     bool
	Status          StatusBar
	Keys            KeyMap
	RecentReminders []scheduler.Reminder
	Requesting      bool
	Quitting        bool
	LastError       error

	commandInput textinput.Model
	helpModel    help.Model
}

type Option func(*Model)

func WithFilter(mode model.FilterMode) Option {
	return func(m *Model) {
		if mode.IsValid() {
			m.Filter = mode
		}
	}
}

func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.Keys = k }
}

func NewModel(ctx context.Context, app *App, opts ...Option) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		app:    app,
		ctx:    ctx,
		Filter: model.FilterAll,
		Keys:   DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add Buy milk due:tomorrow"
	m.commandInput.Prompt = "> "
	m.commandInput.CharLimit = 256
	m.helpModel = help.New()
	return m
}

func (m Model) App() *App { return m.app }

// Visible is the current filter applied to the task list, newest first.
func (m Model) Visible() []model.Task {
	return model.Filter(m.app.Store.All(), m.Filter)
}

func (m Model) Selected() (model.Task, bool) {
	visible := m.Visible()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.Visible())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) noteReminders(rs []scheduler.Reminder) {
	if len(rs) == 0 {
		return
	}
	m.RecentReminders = append(m.RecentReminders, rs...)
	if len(m.RecentReminders) > maxRecentReminders {
		m.RecentReminders = m.RecentReminders[len(m.RecentReminders)-maxRecentReminders:]
	}
}

type TickMsg struct {
	Tick scheduler.Tick
}

type engineStoppedMsg struct{}

type PermissionResultMsg struct {
	Outcome notify.Outcome
	Err     error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/calstate"
	"github.com/rnwolfe/reps/internal/ui"
)

type calendarKeyMap struct {
	Left, Right, Up, Down key.Binding
	NextMonth, PrevMonth  key.Binding
	Today                 key.Binding
	Dismiss               key.Binding
	Help                  key.Binding
	Quit                  key.Binding
}

var calendarKeys = calendarKeyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev day"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next day"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev week"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next week"),
	),
	NextMonth: key.NewBinding(
		key.WithKeys("n", "]"),
		key.WithHelp("n/]", "next month"),
	),
	PrevMonth: key.NewBinding(
		key.WithKeys("p", "["),
		key.WithHelp("p/[", "prev month"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss error"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k calendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Help, k.Quit}
}

func (k calendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.PrevMonth, k.NextMonth, k.Today},
		{k.Dismiss, k.Help, k.Quit},
	}
}

// Commands the calendar issues to its controller.
type calendarController interface {
	State() calstate.UIState
	Updates() <-chan calstate.UIState
	NavigateNext() error
	NavigatePrevious() error
	NavigateToday() error
	SelectDate(calendar.Date) error
	ClearError() error
	Refresh() error
}

type stateMsg calstate.UIState
type stateClosedMsg struct{}
type refreshMsg time.Time

// CalendarModel is the Bubbletea model for `reps cal`.
type CalendarModel struct {
	ctrl    calendarController
	state   calstate.UIState
	keys    calendarKeyMap
	help    help.Model
	spinner spinner.Model

	// refreshEvery re-derives the snapshot so "today" follows the clock.
	refreshEvery time.Duration

	width  int
	height int
	err    error
}

// NewCalendarModel creates a model that renders ctrl's snapshots.
func NewCalendarModel(ctrl calendarController) *CalendarModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(ui.Coral)

	return &CalendarModel{
		ctrl:         ctrl,
		state:        ctrl.State(),
		keys:         calendarKeys,
		help:         help.New(),
		spinner:      sp,
		refreshEvery: time.Minute,
		width:        80,
		height:       24,
	}
}

// RunCalendar runs the interactive calendar until the user quits.
func RunCalendar(ctrl calendarController) error {
	prog := tea.NewProgram(NewCalendarModel(ctrl), tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	if m, ok := result.(*CalendarModel); ok && m.err != nil && !errors.Is(m.err, calstate.ErrClosed) {
		return m.err
	}
	return nil
}

func waitForState(updates <-chan calstate.UIState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return stateClosedMsg{}
		}
		return stateMsg(st)
	}
}

func (m *CalendarModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// --- Bubbletea model interface ---

func (m *CalendarModel) Init() tea.Cmd {
	return tea.Batch(waitForState(m.ctrl.Updates()), m.spinner.Tick, m.scheduleRefresh())
}

func (m *CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		st := calstate.UIState(msg)
		// Commands already pulled a newer snapshot.
		if st.Version >= m.state.Version {
			m.state = st
		}
		return m, waitForState(m.ctrl.Updates())

	case stateClosedMsg:
		return m, tea.Quit

	case refreshMsg:
		if err := m.ctrl.Refresh(); err != nil {
			return m.fail(err)
		}
		m.state = m.ctrl.State()
		return m, m.scheduleRefresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *CalendarModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Left):
		err = m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		err = m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		err = m.moveSelection(-7)
	case key.Matches(msg, m.keys.Down):
		err = m.moveSelection(7)
	case key.Matches(msg, m.keys.NextMonth):
		err = m.ctrl.NavigateNext()
	case key.Matches(msg, m.keys.PrevMonth):
		err = m.ctrl.NavigatePrevious()
	case key.Matches(msg, m.keys.Today):
		err = m.ctrl.NavigateToday()
	case key.Matches(msg, m.keys.Dismiss):
		err = m.ctrl.ClearError()
	default:
		return m, nil
	}
	if err != nil {
		return m.fail(err)
	}
	m.state = m.ctrl.State()
	return m, nil
}

// moveSelection shifts the selection by days. With nothing selected it
// starts from the first of the visible month, or today when today is on it.
func (m *CalendarModel) moveSelection(days int) error {
	base := m.state.YearMonth.First()
	if m.state.YearMonth.Contains(m.state.Today) {
		base = m.state.Today
	}
	if m.state.SelectedDate != nil {
		base = *m.state.SelectedDate
	} else if days > 0 {
		days--
	} else {
		days++
	}
	return m.ctrl.SelectDate(base.AddDays(days))
}

func (m *CalendarModel) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	return m, tea.Quit
}

func (m *CalendarModel) View() string {
	st := m.state

	suffix := ""
	if st.IsLoadingMonth {
		suffix = m.spinner.View()
	}
	parts := []string{"", renderTitle(st.YearMonth, suffix)}
	if st.ErrorMessage != "" {
		banner := ui.Error.Render(ui.IconError+st.ErrorMessage) + ui.Muted.Render("  esc to dismiss")
		parts = append(parts, banner)
	}
	parts = append(parts,
		"",
		renderGrid(st.Grid),
		"",
		renderStreaks(st),
	)
	if st.SelectedDate != nil {
		parts = append(parts, "", renderDayPanel(st, m.spinner.View()+" loading"))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return place(m.width, body) + "\n\n" + "  " + m.help.View(m.keys) + "\n"
}

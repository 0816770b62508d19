package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/calstate"
	"github.com/rnwolfe/reps/internal/ui"
)

var (
	// workoutMark flags days with at least one workout. markWidth is its
	// terminal width, which may be two columns for emoji.
	workoutMark = ui.IconWorkout
	markWidth   = lipgloss.Width(workoutMark)

	// cellWidth is the visible width of one day cell: two digits and a marker.
	cellWidth = 2 + markWidth

	// gridWidth is the visible width of a full week row.
	gridWidth = 7*cellWidth + 6
)

// RenderMonth renders a snapshot as plain calendar text: the month title,
// the weekday grid, the streak line and the selected day's workouts.
// It has no interactive parts and is used for `reps cal --print`.
func RenderMonth(st calstate.UIState, width int) string {
	parts := []string{
		renderTitle(st.YearMonth, ""),
		renderGrid(st.Grid),
		"",
		renderStreaks(st),
	}
	if st.ErrorMessage != "" {
		parts = append(parts, "", ui.Error.Render(ui.IconError+st.ErrorMessage))
	}
	if st.SelectedDate != nil {
		parts = append(parts, "", renderDayPanel(st, ""))
	}
	return place(width, lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// place centers block when the terminal is wider than the calendar.
func place(width int, block string) string {
	if width <= gridWidth {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func renderTitle(ym calendar.YearMonth, suffix string) string {
	title := ui.Title.Render(ym.String())
	pad := (gridWidth - lipgloss.Width(ym.String())) / 2
	if pad < 0 {
		pad = 0
	}
	line := strings.Repeat(" ", pad) + title
	if suffix != "" {
		line += " " + suffix
	}
	return line
}

func renderGrid(m calendar.MonthData) string {
	var b strings.Builder

	headers := calendar.WeekdayHeaders()
	for i, h := range headers {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(ui.Muted.Render(fmt.Sprintf("%-*s", cellWidth, h)))
	}

	for _, week := range m.Weeks() {
		b.WriteString("\n")
		for i, day := range week {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(renderCell(day))
		}
	}
	return b.String()
}

func renderCell(day calendar.CalendarDay) string {
	mark := strings.Repeat(" ", markWidth)
	if day.HasWorkout {
		mark = workoutMark
	}
	text := fmt.Sprintf("%2d%s", day.Date.Day, mark)

	style := lipgloss.NewStyle()
	switch {
	case day.IsSelected:
		style = ui.DaySelected
	case !day.IsCurrentMonth:
		style = ui.DayOutside
	case day.HasWorkout:
		style = ui.DayWorkout
	}
	if day.IsToday && !day.IsSelected {
		style = style.Inherit(ui.DayToday)
	}
	return style.Render(text)
}

// renderStreaks renders the streak line. Partial streaks are flagged because
// they are computed from the visible month alone.
func renderStreaks(st calstate.UIState) string {
	s := st.Streaks
	current := fmt.Sprintf("%s %s", ui.IconFire, ui.Plural(s.Current, "day"))
	if s.Current == 0 {
		current = ui.Muted.Render("no current streak")
	} else {
		current = ui.Accent.Render(current)
	}
	longest := ui.Muted.Render(fmt.Sprintf("best %d", s.Longest))
	month := ui.Muted.Render(fmt.Sprintf("%d active this month", st.Grid.ActiveDays()))
	line := current + ui.Muted.Render(" "+ui.IconDot+" ") + longest + ui.Muted.Render(" "+ui.IconDot+" ") + month
	if st.StreaksPartial {
		line += ui.Warning.Render(" (this month only)")
	}
	return line
}

// renderDayPanel lists the selected day's workouts. loading replaces the
// list while the day stream has not emitted yet.
func renderDayPanel(st calstate.UIState, loading string) string {
	if st.SelectedDate == nil {
		return ""
	}
	var b strings.Builder
	heading := st.SelectedDate.Time().Format("Mon, Jan 2")
	if *st.SelectedDate == st.Today {
		heading += " (today)"
	}
	b.WriteString(ui.Subtitle.Render(heading))

	switch {
	case st.IsLoadingSelectedDate:
		if loading == "" {
			loading = "loading…"
		}
		b.WriteString("\n  " + ui.Muted.Render(loading))
	case len(st.SelectedDateWorkouts) == 0:
		b.WriteString("\n  " + ui.Muted.Render("rest day"))
	default:
		for _, w := range st.SelectedDateWorkouts {
			b.WriteString("\n  " + formatSummary(w))
		}
	}
	return b.String()
}

func formatSummary(w calstate.WorkoutSummary) string {
	detail := w.Kind
	if w.Minutes > 0 {
		detail += fmt.Sprintf(", %d min", w.Minutes)
	}
	return fmt.Sprintf("%s %s %s",
		ui.DayWorkout.Render(ui.IconWorkout),
		w.Title,
		ui.Muted.Render("("+detail+")"),
	)
}

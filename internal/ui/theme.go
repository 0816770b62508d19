package ui

import "github.com/charmbracelet/lipgloss"

// reps palette: warm effort reds, cool recovery blues, a quiet stone base.
var (
	Coral  = lipgloss.Color("#FF6F59")
	Ember  = lipgloss.Color("#F4A259")
	Stone  = lipgloss.Color("#8B8680")
	Mint   = lipgloss.Color("#5CC8A1")
	Ruby   = lipgloss.Color("#E0115F")
	Ocean  = lipgloss.Color("#3A86FF")
	Dim    = lipgloss.Color("#666666")
	Bright = lipgloss.Color("#FFFFFF")
	Subtle = lipgloss.Color("#AAAAAA")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Coral)

	Subtitle = lipgloss.NewStyle().
			Foreground(Ember)

	Success = lipgloss.NewStyle().
		Foreground(Mint)

	Error = lipgloss.NewStyle().
		Foreground(Ruby)

	Warning = lipgloss.NewStyle().
		Foreground(Ember)

	Info = lipgloss.NewStyle().
		Foreground(Ocean)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Coral).
		Bold(true)

	Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Coral).
		Padding(0, 1)

	Tag = lipgloss.NewStyle().
		Foreground(Bright).
		Background(Stone).
		Padding(0, 1).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Ember).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)

	// Calendar cell styles.
	DayWorkout = lipgloss.NewStyle().
			Foreground(Mint).
			Bold(true)

	DayToday = lipgloss.NewStyle().
			Underline(true)

	DaySelected = lipgloss.NewStyle().
			Foreground(Bright).
			Background(Coral).
			Bold(true)

	DayOutside = lipgloss.NewStyle().
			Foreground(Dim)
)

const (
	IconReps    = "🏋 "
	IconFire    = "🔥"
	IconGoal    = "🎯"
	IconDone    = "✅"
	IconCal     = "📅"
	IconTrophy  = "🏆"
	IconWarn    = "⚠️ "
	IconError   = "✗ "
	IconOk      = "✓ "
	IconArrow   = "→"
	IconDot     = "·"
	IconWorkout = "●"
)

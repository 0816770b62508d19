// Package tips rotates short hints about reps commands.
package tips

import "github.com/rnwolfe/reps/internal/calendar"

var all = []string{
	"`reps log \"Leg day\" -k strength -m 45` to record kind and minutes in one go.",
	"`reps log \"Run\" --date yesterday` when you forgot to log last night.",
	"`reps cal` to browse the month; `t` jumps back to today.",
	"`reps cal 2024-01` to open a specific month.",
	"`reps cal --print | less` to share the month without the interactive view.",
	"`reps streak` to see how long the current run is.",
	"`reps workout --month 2024-03` for a monthly total by kind.",
	"`reps workout show` without an ID to pick from recent workouts.",
	"`reps goal add \"20 sessions\" --target 20 --unit sessions` to set a count goal.",
	"`reps log \"Run\" --goal 1` to count a workout toward goal #1.",
	"`reps config set workout.default_kind strength` if most sessions are lifting.",
	"`reps config set calendar.poll_seconds 0` to stop the calendar polling the database.",
}

// All returns every tip.
func All() []string {
	return all
}

// Daily returns the tip for d. It is stable for the whole day.
func Daily(d calendar.Date) string {
	return all[d.Time().YearDay()%len(all)]
}

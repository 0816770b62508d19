package cmd

import (
	"fmt"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/ui"
	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current and longest workout streak",
	Long: `A streak is a run of consecutive days with at least one workout.
The current streak counts back from today, so it is 0 until today has a workout.`,
	RunE: runStreak,
}

func runStreak(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	history, err := a.workouts.AllDates()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	today := a.today()
	s := calendar.ComputeStreaks(history, today)

	fmt.Println()
	if s.Current > 0 {
		fmt.Printf("  %s %s\n", ui.IconFire, ui.Accent.Render(ui.Plural(s.Current, "day")+" in a row"))
	} else {
		ui.Inf("No current streak.")
	}
	ui.Kv("Longest", ui.Plural(s.Longest, "day"))
	ui.Kv("Active days", fmt.Sprintf("%d total", len(history)))

	if run := lapsedRun(history, today); run > 0 {
		ui.Tip(restartTip(run))
	}
	fmt.Println()
	return nil
}

// lapsedRun is the length of the run that ended yesterday when today has no
// workout yet, and 0 otherwise.
func lapsedRun(history calendar.WorkoutDates, today calendar.Date) int {
	if history.Has(today) || !history.Has(today.Prev()) {
		return 0
	}
	return calendar.ComputeStreaks(history, today.Prev()).Current
}

func restartTip(run int) string {
	return fmt.Sprintf("log today to restart your %d-day run.", run)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/ui"
	"github.com/rnwolfe/reps/internal/workout"
	"github.com/spf13/cobra"
)

// Flags for reps log.
var (
	logDate    dateFlag
	logKind    string
	logMinutes int
	logNote    string
	logGoal    int
)

var logCmd = &cobra.Command{
	Use:   "log <title>",
	Short: "Log a workout",
	Long: `Record a workout for today, or for another day with --date.

Examples:
  reps log "Leg day" --kind strength --minutes 45
  reps log "Easy run" --date yesterday --minutes 30 --goal 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLog,
}

func init() {
	logCmd.Flags().Var(&logDate, "date", "Workout date (YYYY-MM-DD, today, yesterday)")
	logCmd.Flags().StringVarP(&logKind, "kind", "k", "", "Workout kind (default from config)")
	logCmd.Flags().IntVarP(&logMinutes, "minutes", "m", 0, "Duration in minutes (default from config)")
	logCmd.Flags().StringVar(&logNote, "note", "", "Free-form note")
	logCmd.Flags().IntVar(&logGoal, "goal", 0, "Count this workout toward a goal ID")
}

func runLog(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	nw := workout.NewWorkout{
		Date:    logDate.orToday(),
		Title:   strings.Join(args, " "),
		Kind:    logKind,
		Minutes: logMinutes,
		Note:    logNote,
	}
	if nw.Kind == "" {
		nw.Kind = a.cfg.Workout.DefaultKind
	}
	if nw.Minutes == 0 {
		nw.Minutes = a.cfg.Workout.DefaultMinutes
	}
	if logGoal > 0 {
		id := logGoal
		nw.GoalID = &id
	}

	w, err := a.workouts.Log(nw)
	if err != nil {
		return err
	}
	a.log.WithField("id", w.ID).WithField("day", w.Date.String()).Info("workout logged")

	fmt.Printf("  %s Logged %s\n", ui.Success.Render(ui.IconOk), ui.Accent.Render(fmt.Sprintf("#%d", w.ID)))
	fmt.Printf("    %s %s\n", w.Title, ui.Muted.Render(workoutDetail(*w)))
	if w.Date != a.today() {
		fmt.Printf("    Date: %s\n", ui.Muted.Render(w.Date.Time().Format("Mon, Jan 2 2006")))
	}
	if w.GoalID != nil {
		if g, err := a.workouts.GetGoal(*w.GoalID); err == nil {
			fmt.Printf("    Goal %s: %s\n", ui.Accent.Render(fmt.Sprintf("#%d", g.ID)), goalProgress(*g))
		}
	}

	history, err := a.workouts.AllDates()
	if err == nil {
		if s := calendar.ComputeStreaks(history, a.today()); s.Current > 0 {
			fmt.Printf("    Streak: %s %s\n", ui.Accent.Render(ui.Plural(s.Current, "day")), ui.IconFire)
		}
	}
	fmt.Println()
	return nil
}

// workoutDetail renders "(kind, 45 min)" for a workout.
func workoutDetail(w workout.Workout) string {
	if w.Minutes > 0 {
		return fmt.Sprintf("(%s, %d min)", w.Kind, w.Minutes)
	}
	return "(" + w.Kind + ")"
}

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/tui"
	"github.com/rnwolfe/reps/internal/ui"
	"github.com/rnwolfe/reps/internal/workout"
	"github.com/spf13/cobra"
)

// Flags for workout commands.
var (
	workoutListFrom  dateFlag
	workoutListTo    dateFlag
	workoutListKind  string
	workoutListMonth string
	workoutListLimit int
)

// pickerLimit caps how many recent workouts the interactive picker offers.
const pickerLimit = 50

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "List, inspect and remove logged workouts",
	RunE:    runWorkoutList,
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts, newest first",
	Long: `List logged workouts. With --month, also prints totals per kind.

Examples:
  reps workout list --month 2024-03
  reps workout list --from 2024-03-01 --kind cardio`,
	RunE: runWorkoutList,
}

var workoutShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one workout (pick interactively when no ID is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkoutShow,
}

var workoutRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a workout (pick interactively when no ID is given)",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runWorkoutRm,
}

func init() {
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutRmCmd)

	for _, c := range []*cobra.Command{workoutCmd, workoutListCmd} {
		c.Flags().Var(&workoutListFrom, "from", "Earliest date (YYYY-MM-DD)")
		c.Flags().Var(&workoutListTo, "to", "Latest date (YYYY-MM-DD)")
		c.Flags().StringVar(&workoutListKind, "kind", "", "Only this kind")
		c.Flags().StringVar(&workoutListMonth, "month", "", "Only this month (YYYY-MM), with totals")
		c.Flags().IntVarP(&workoutListLimit, "limit", "n", 20, "Maximum rows (0 for all)")
	}
}

func runWorkoutList(_ *cobra.Command, _ []string) error {
	opts := workout.ListOptions{
		From:  workoutListFrom.date,
		To:    workoutListTo.date,
		Kind:  workoutListKind,
		Limit: workoutListLimit,
	}
	var month *calendar.YearMonth
	if workoutListMonth != "" {
		ym, err := calendar.ParseYearMonth(workoutListMonth)
		if err != nil {
			return fmt.Errorf("invalid --month %q: expected %s", workoutListMonth, ui.Accent.Render("YYYY-MM"))
		}
		month = &ym
		opts.From, opts.To, opts.Limit = ym.First(), ym.Last(), 0
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ws, err := a.workouts.List(opts)
	if err != nil {
		return fmt.Errorf("listing workouts: %w", err)
	}

	if len(ws) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No workouts found."))
		fmt.Printf("  Log one: %s\n", ui.Accent.Render(`reps log "Morning run" --minutes 30`))
		fmt.Println()
		return nil
	}

	fmt.Println()
	var last calendar.Date
	for _, w := range ws {
		if w.Date != last {
			fmt.Println("  " + ui.Subtitle.Render(w.Date.Time().Format("Mon, Jan 2 2006")))
			last = w.Date
		}
		printWorkoutLine(w)
	}

	if month != nil {
		sum, err := a.workouts.Summary(month.First(), month.Last())
		if err != nil {
			return err
		}
		printSummary(*month, sum)
	}
	fmt.Println()
	return nil
}

func printWorkoutLine(w workout.Workout) {
	id := ui.Muted.Render(fmt.Sprintf("#%-4d", w.ID))
	fmt.Printf("    %s %s %s\n", id, w.Title, ui.Muted.Render(workoutDetail(w)))
}

func printSummary(ym calendar.YearMonth, sum *workout.Summary) {
	ui.Header(ym.String())
	ui.Kv("Workouts", strconv.Itoa(sum.Workouts))
	ui.Kv("Minutes", strconv.Itoa(sum.Minutes))
	ui.Kv("Active days", fmt.Sprintf("%d/%d", sum.ActiveDays, ym.Days()))
	for _, k := range sum.Kinds {
		ui.Kv("  "+k.Kind, fmt.Sprintf("%s, %d min", ui.Plural(k.Workouts, "workout"), k.Minutes))
	}
}

func runWorkoutShow(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id, ok, err := workoutIDFromArgs(a, args, "Show workout")
	if err != nil || !ok {
		return err
	}

	w, err := a.workouts.Get(id)
	if err != nil {
		return notFoundHint(err, "reps workout list")
	}

	fmt.Println()
	fmt.Printf("  %s %s\n", ui.Accent.Render(fmt.Sprintf("#%d", w.ID)), ui.Title.Render(w.Title))
	ui.Kv("Date", w.Date.Time().Format("Monday, January 2 2006"))
	ui.Kv("Kind", w.Kind)
	if w.Minutes > 0 {
		ui.Kv("Minutes", strconv.Itoa(w.Minutes))
	}
	if w.Note != "" {
		ui.Kv("Note", w.Note)
	}
	if w.GoalID != nil {
		if g, err := a.workouts.GetGoal(*w.GoalID); err == nil {
			ui.Kv("Goal", fmt.Sprintf("#%d %s", g.ID, g.Title))
		}
	}
	ui.Kv("UID", ui.Muted.Render(w.UID))
	fmt.Println()
	return nil
}

func runWorkoutRm(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id, ok, err := workoutIDFromArgs(a, args, "Delete workout")
	if err != nil || !ok {
		return err
	}

	w, err := a.workouts.Get(id)
	if err != nil {
		return notFoundHint(err, "reps workout list")
	}
	if err := a.workouts.Delete(id); err != nil {
		return err
	}
	a.log.WithField("id", id).Info("workout deleted")

	fmt.Printf("  %s Deleted %s %s\n", ui.Success.Render(ui.IconOk), ui.Accent.Render(fmt.Sprintf("#%d", w.ID)), ui.Muted.Render(w.Title))
	fmt.Println()
	return nil
}

// workoutIDFromArgs parses the ID argument or, on a terminal, lets the user
// pick one of the recent workouts. ok is false when the user canceled.
func workoutIDFromArgs(a *app, args []string, title string) (id int, ok bool, err error) {
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, false, fmt.Errorf("%q is not a valid workout ID (use %s to see IDs)",
				args[0], ui.Accent.Render("reps workout list"))
		}
		return id, true, nil
	}
	if !ui.IsStdoutTTY() {
		return 0, false, fmt.Errorf("a workout ID is required when not running in a terminal")
	}

	recent, err := a.workouts.List(workout.ListOptions{Limit: pickerLimit})
	if err != nil {
		return 0, false, err
	}
	if len(recent) == 0 {
		return 0, false, fmt.Errorf("no workouts logged yet")
	}
	items := make([]tui.PickerItem, len(recent))
	for i, w := range recent {
		items[i] = tui.PickerItem{
			ID:     w.ID,
			Label:  w.Title,
			Detail: w.Date.String() + " " + workoutDetail(w),
		}
	}
	chosen, err := tui.RunPicker(title, items)
	if err != nil || chosen == nil {
		return 0, false, err
	}
	return chosen.ID, true, nil
}

// notFoundHint adds a pointer to the list command to not-found errors.
func notFoundHint(err error, listCmd string) error {
	if errors.Is(err, workout.ErrNotFound) {
		return fmt.Errorf("%w (use %s to see IDs)", err, ui.Accent.Render(listCmd))
	}
	return err
}

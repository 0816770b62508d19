package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/rnwolfe/reps/internal/ui"
	"github.com/rnwolfe/reps/internal/workout"
	"github.com/spf13/cobra"
)

// Flags for goal commands.
var (
	goalDeadline dateFlag
	goalTarget   int
	goalUnit     string
	goalListAll  bool
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Set targets that logged workouts count toward",
	RunE:  runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a goal",
	Long: `Add a goal measured in minutes or sessions. Link workouts with ` + "`reps log --goal <id>`" + `.

Examples:
  reps goal add "Run 600 minutes in spring" --target 600 --deadline 2024-06-20
  reps goal add "20 yoga sessions" --target 20 --unit sessions`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGoalAdd,
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show goals with progress",
	RunE:    runGoalList,
}

var goalDoneCmd = &cobra.Command{
	Use:     "done <id>",
	Aliases: []string{"complete"},
	Short:   "Mark a goal complete",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalDone,
}

var goalRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a goal (its workouts are kept)",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalRm,
}

func init() {
	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalDoneCmd)
	goalCmd.AddCommand(goalRmCmd)

	goalAddCmd.Flags().Var(&goalDeadline, "deadline", "Deadline (YYYY-MM-DD)")
	goalAddCmd.Flags().IntVar(&goalTarget, "target", 0, "Target amount (required)")
	goalAddCmd.Flags().StringVar(&goalUnit, "unit", workout.UnitMinutes, "Unit: min or sessions")

	goalListCmd.Flags().BoolVarP(&goalListAll, "all", "a", false, "Include completed goals")
}

func runGoalAdd(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	title := strings.Join(args, " ")
	id, err := a.workouts.AddGoal(title, goalTarget, goalUnit, goalDeadline.ptr())
	if err != nil {
		return err
	}

	g, err := a.workouts.GetGoal(id)
	if err != nil {
		return err
	}
	fmt.Printf("  %s Goal added %s\n", ui.Success.Render(ui.IconOk), ui.Accent.Render(fmt.Sprintf("#%d", id)))
	fmt.Printf("    %s\n", g.Title)
	fmt.Printf("    Target: %s\n", ui.Muted.Render(fmt.Sprintf("%d %s", g.Target, g.Unit)))
	if g.Deadline != nil {
		fmt.Printf("    Deadline: %s\n", ui.Muted.Render(g.Deadline.Time().Format("Jan 2, 2006")))
	}
	fmt.Println()
	return nil
}

func runGoalList(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	goals, err := a.workouts.ListGoals(goalListAll)
	if err != nil {
		return fmt.Errorf("listing goals: %w", err)
	}

	if len(goals) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No goals yet."))
		fmt.Printf("  Add one: %s\n", ui.Accent.Render(`reps goal add "Run 600 minutes" --target 600`))
		fmt.Println()
		return nil
	}

	fmt.Println()
	for _, g := range goals {
		printGoalLine(g, a)
	}
	fmt.Println()
	return nil
}

func printGoalLine(g workout.Goal, a *app) {
	icon := ui.IconGoal
	if g.Done {
		icon = ui.IconDone
	}
	line := fmt.Sprintf("  %s %s %s", icon, ui.Muted.Render(fmt.Sprintf("#%d", g.ID)), g.Title)
	if g.Deadline != nil {
		due := ui.Muted.Render(" due " + g.Deadline.Time().Format("Jan 2"))
		if !g.Done && g.Deadline.Before(a.today()) {
			due = ui.Error.Render(" overdue " + g.Deadline.Time().Format("Jan 2"))
		}
		line += due
	}
	fmt.Println(line)
	fmt.Printf("      %s %s\n", progressBar(g.Percent(), 20), goalProgress(g))
}

// goalProgress renders "75/100 min (75%)".
func goalProgress(g workout.Goal) string {
	return fmt.Sprintf("%d/%d %s (%d%%)", g.Progress, g.Target, g.Unit, g.Percent())
}

func progressBar(pct, width int) string {
	bar := progress.New(
		progress.WithSolidFill(string(ui.Mint)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return bar.ViewAs(float64(pct) / 100)
}

func parseGoalID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid goal ID (use %s to see IDs)", s, ui.Accent.Render("reps goal list"))
	}
	return id, nil
}

func runGoalDone(_ *cobra.Command, args []string) error {
	id, err := parseGoalID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.workouts.GetGoal(id)
	if err != nil {
		return notFoundHint(err, "reps goal list")
	}
	if err := a.workouts.DoneGoal(id); err != nil {
		return err
	}

	fmt.Printf("  %s Goal complete! %s\n", ui.Success.Render(ui.IconOk), ui.Muted.Render(g.Title))
	fmt.Println()
	return nil
}

func runGoalRm(_ *cobra.Command, args []string) error {
	id, err := parseGoalID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.workouts.DeleteGoal(id); err != nil {
		return notFoundHint(err, "reps goal list")
	}
	fmt.Printf("  %s Deleted goal %s\n", ui.Success.Render(ui.IconOk), ui.Accent.Render(fmt.Sprintf("#%d", id)))
	fmt.Println()
	return nil
}

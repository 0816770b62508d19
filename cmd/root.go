package cmd

import (
	"fmt"
	"os"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/config"
	"github.com/rnwolfe/reps/internal/tips"
	"github.com/rnwolfe/reps/internal/ui"
	"github.com/rnwolfe/reps/internal/version"
	"github.com/spf13/cobra"
)

// kvWelcomed marks that the first-run welcome has been shown.
const kvWelcomed = "welcomed"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "reps",
	Short: "A local-first workout log with a streak calendar",
	Long:  `reps: log workouts from the terminal, keep the streak alive, see the month at a glance.`,
	RunE:  runDashboard,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor || ui.ColorDisabled() {
			ui.DisableColor()
		}
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colors and styling")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(workoutCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(calCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// runDashboard shows the at-a-glance status when you just type `reps`.
func runDashboard(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println(ui.Greet(a.cfg.User.Name))
	fmt.Println()

	today := a.today()
	todays, err := a.workouts.ByDate(today)
	if err != nil {
		return fmt.Errorf("loading today's workouts: %w", err)
	}
	history, err := a.workouts.AllDates()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	streaks := calendar.ComputeStreaks(history, today)

	month, err := a.workouts.DatesForMonth(today.YearMonth())
	if err != nil {
		return fmt.Errorf("loading month: %w", err)
	}

	ui.Kv(ui.IconCal+" Today", today.Time().Format("Monday, January 2"))
	if len(todays) == 0 {
		ui.Kv("   Logged", ui.Muted.Render("nothing yet"))
	} else {
		minutes := 0
		for _, w := range todays {
			minutes += w.Minutes
		}
		ui.Kv("   Logged", fmt.Sprintf("%s, %d min", ui.Plural(len(todays), "workout"), minutes))
	}
	ui.Kv(ui.IconFire+" Streak", fmt.Sprintf("%s (best %d)", ui.Plural(streaks.Current, "day"), streaks.Longest))
	ui.Kv(ui.IconTrophy+" Month", fmt.Sprintf("%s in %s", ui.Plural(len(month), "active day"), today.YearMonth()))
	ui.Kv("   reps", version.Short())

	welcomed, err := a.db.GetKV(kvWelcomed)
	if err != nil {
		return err
	}
	lapsed := lapsedRun(history, today)
	switch {
	case welcomed == "":
		ui.Tip("`reps log \"Morning run\" --minutes 30` to log your first workout.")
		if err := a.db.SetKV(kvWelcomed, today.String()); err != nil {
			a.log.WithError(err).Warn("recording first run")
			ui.Warn("could not record the first-run welcome: " + err.Error())
		}
	case lapsed > 0:
		ui.Tip(restartTip(lapsed))
	default:
		ui.Tip(tips.Daily(today))
	}

	if !config.Initialized() {
		fmt.Println(ui.Muted.Render("  settings: reps config set user.name <you>"))
	}
	fmt.Println()
	return nil
}

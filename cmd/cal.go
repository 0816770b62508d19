package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/calstate"
	"github.com/rnwolfe/reps/internal/tui"
	"github.com/rnwolfe/reps/internal/ui"
	"github.com/rnwolfe/reps/internal/workout"
	"github.com/spf13/cobra"
)

var calPrint bool

// calSettleTimeout bounds how long --print waits for the first data.
const calSettleTimeout = 5 * time.Second

var calCmd = &cobra.Command{
	Use:   "cal [YYYY-MM]",
	Short: "Browse workouts on a month calendar",
	Long: `Opens an interactive month calendar. Days with workouts are marked and the
current and longest streaks are shown below the grid.

The calendar stays live: workouts logged from another terminal appear
without a restart. When stdout is not a terminal, or with --print, the
month is printed once instead.

Keys:
  ←/→ h/l    previous / next day
  ↑/↓ k/j    previous / next week
  p/n [/]    previous / next month
  t          jump to today
  esc        dismiss an error
  q          quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCal,
}

func init() {
	calCmd.Flags().BoolVar(&calPrint, "print", false, "Print the month and exit")
}

func runCal(_ *cobra.Command, args []string) error {
	var month *calendar.YearMonth
	if len(args) == 1 {
		ym, err := calendar.ParseYearMonth(args[0])
		if err != nil {
			return fmt.Errorf("invalid month %q: expected %s", args[0], ui.Accent.Render("YYYY-MM"))
		}
		month = &ym
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	feed := workout.NewFeed(a.workouts,
		workout.WithPollInterval(a.cfg.Calendar.PollInterval()),
		workout.WithLogger(a.log),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl := calstate.New(ctx, feed, calstate.WithClock(clock), calstate.WithLogger(a.log))
	defer ctrl.Close()

	if month != nil && *month != ctrl.State().YearMonth {
		if err := ctrl.SelectDate(month.First()); err != nil {
			return err
		}
	}

	if calPrint || !ui.IsStdoutTTY() {
		st, err := settle(ctx, ctrl, calSettleTimeout)
		if err != nil {
			return err
		}
		fmt.Println(tui.RenderMonth(st, ui.TermWidth()))
		return nil
	}
	return tui.RunCalendar(ctrl)
}

// settle waits until every stream has delivered once, so a one-shot print
// never shows a loading state.
func settle(ctx context.Context, ctrl *calstate.Controller, timeout time.Duration) (calstate.UIState, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	since := ctrl.State().Version
	loaded := func(st calstate.UIState) bool {
		return st.Version >= since && !st.IsLoadingMonth && !st.IsLoadingSelectedDate && (st.History != nil || st.ErrorMessage != "")
	}
	if st := ctrl.State(); loaded(st) {
		return st, nil
	}
	for {
		select {
		case st, ok := <-ctrl.Updates():
			if !ok {
				return calstate.UIState{}, calstate.ErrClosed
			}
			if loaded(st) {
				return st, nil
			}
		case <-ctx.Done():
			return calstate.UIState{}, fmt.Errorf("calendar data did not load within %s", timeout)
		}
	}
}

package calstate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain verifies no stream goroutine outlives its controller.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

var (
	march2024 = calendar.YearMonth{Year: 2024, Month: time.March}
	april2024 = calendar.YearMonth{Year: 2024, Month: time.April}
)

func d(s string) calendar.Date {
	date, err := calendar.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return date
}

func newTestController(t *testing.T, src DataSource) *Controller {
	t.Helper()
	clock := calendar.FixedClock(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))
	c := New(context.Background(), src, WithClock(clock))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_InitialState(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	s := c.State()
	assert.Equal(t, march2024, s.YearMonth)
	assert.Equal(t, d("2024-03-15"), s.Today)
	require.NotNil(t, s.SelectedDate)
	assert.Equal(t, d("2024-03-15"), *s.SelectedDate)
	assert.True(t, s.IsLoadingMonth)
	assert.True(t, s.IsLoadingSelectedDate)
	assert.Len(t, s.Grid.Days, 42)

	require.NotNil(t, src.month(march2024), "month stream not subscribed")
	require.NotNil(t, src.day(d("2024-03-15")), "today's workouts not subscribed")
	require.NotNil(t, src.historyStream(), "history not subscribed")
}

func TestMonthEmission_RebuildsGridAndStreaks(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	src.month(march2024).emit(calendar.DateSet(d("2024-03-13"), d("2024-03-14"), d("2024-03-15")))

	require.Eventually(t, func() bool { return !c.State().IsLoadingMonth }, waitFor, tick)
	s := c.State()
	cell, ok := s.Grid.Day(d("2024-03-14"))
	require.True(t, ok)
	assert.True(t, cell.HasWorkout)
	assert.Equal(t, calendar.StreakResult{Current: 3, Longest: 3}, s.Streaks)
}

func TestHistory_DrivesStreaksAcrossMonths(t *testing.T) {
	src := newFakeSource()
	src.history = calendar.DateSet(d("2024-02-28"), d("2024-02-29"), d("2024-03-01"))
	src.monthData[march2024] = calendar.DateSet(d("2024-03-01"))
	clock := calendar.FixedClock(time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
	c := New(context.Background(), src, WithClock(clock))
	defer c.Close()

	require.Eventually(t, func() bool {
		s := c.State()
		return s.History != nil && !s.IsLoadingMonth
	}, waitFor, tick)
	assert.Equal(t, calendar.StreakResult{Current: 3, Longest: 3}, c.State().Streaks)
}

func TestNavigateNext_ClearsSelectionAndCancelsOldMonth(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)
	old := src.month(march2024)
	oldDay := src.day(d("2024-03-15"))

	require.NoError(t, c.NavigateNext())

	s := c.State()
	assert.Equal(t, april2024, s.YearMonth)
	assert.Nil(t, s.SelectedDate)
	assert.Nil(t, s.SelectedDateWorkouts)
	assert.False(t, s.IsLoadingSelectedDate)
	assert.True(t, s.IsLoadingMonth)
	for _, cell := range s.Grid.Days {
		assert.False(t, cell.IsSelected, "cell %s selected after navigation", cell.Date)
	}

	assert.True(t, old.canceled(), "old month stream still active")
	assert.True(t, oldDay.canceled(), "old day stream still active")
	require.NotNil(t, src.month(april2024))
}

func TestNavigate_AlwaysClearsSelection(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	steps := []func() error{c.NavigateNext, c.NavigatePrevious, c.NavigatePrevious, c.NavigateNext}
	for i, step := range steps {
		require.NoError(t, c.SelectDate(d("2024-03-10")))
		require.NoError(t, step())
		assert.Nil(t, c.State().SelectedDate, "step %d left a selection", i)
	}
}

func TestNavigatePrevious_YearRollover(t *testing.T) {
	src := newFakeSource()
	clock := calendar.FixedClock(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC))
	c := New(context.Background(), src, WithClock(clock))
	defer c.Close()

	require.NoError(t, c.NavigatePrevious())
	assert.Equal(t, calendar.YearMonth{Year: 2023, Month: time.December}, c.State().YearMonth)
}

func TestStaleMonthEmissionIgnored(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)
	old := src.month(march2024)

	require.NoError(t, c.NavigateNext())
	src.month(april2024).emit(calendar.DateSet(d("2024-04-02")))
	require.Eventually(t, func() bool { return !c.State().IsLoadingMonth }, waitFor, tick)

	// The March stream was canceled, so nothing it could still hold reaches
	// the state.
	assert.True(t, old.canceled())
	s := c.State()
	assert.True(t, s.WorkoutDates.Has(d("2024-04-02")))
	assert.False(t, s.WorkoutDates.Has(d("2024-03-15")))
}

func TestNavigateToday_SelectsTodayAndFetches(t *testing.T) {
	src := newFakeSource()
	src.dayData[d("2024-03-15")] = []WorkoutSummary{{ID: 1, Title: "Push day", Kind: "strength", Minutes: 45}}
	c := newTestController(t, src)

	require.NoError(t, c.NavigateNext())
	require.NoError(t, c.NavigateNext())
	require.NoError(t, c.NavigateToday())

	s := c.State()
	assert.Equal(t, march2024, s.YearMonth)
	require.NotNil(t, s.SelectedDate)
	assert.Equal(t, d("2024-03-15"), *s.SelectedDate)

	require.Eventually(t, func() bool { return len(c.State().SelectedDateWorkouts) == 1 }, waitFor, tick)
	assert.Equal(t, "Push day", c.State().SelectedDateWorkouts[0].Title)
}

func TestSelectDate_LoadsWorkouts(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	require.NoError(t, c.SelectDate(d("2024-03-10")))
	s := c.State()
	assert.True(t, s.IsLoadingSelectedDate)
	assert.True(t, s.IsSelected(d("2024-03-10")))
	cell, _ := s.Grid.Day(d("2024-03-10"))
	assert.True(t, cell.IsSelected)

	src.day(d("2024-03-10")).emit([]WorkoutSummary{{ID: 7, Title: "Run", Kind: "cardio", Minutes: 30}})
	require.Eventually(t, func() bool { return !c.State().IsLoadingSelectedDate }, waitFor, tick)
	assert.Len(t, c.State().SelectedDateWorkouts, 1)
}

func TestSelectDate_FillDayStaysOnMonth(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	// Feb 26 2024 is a leading fill cell of the March grid.
	require.NoError(t, c.SelectDate(d("2024-02-26")))
	s := c.State()
	assert.Equal(t, march2024, s.YearMonth)
	assert.True(t, s.IsSelected(d("2024-02-26")))
}

func TestSelectDate_OffGridNavigates(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	require.NoError(t, c.SelectDate(d("2024-07-04")))
	s := c.State()
	assert.Equal(t, calendar.YearMonth{Year: 2024, Month: time.July}, s.YearMonth)
	assert.True(t, s.IsSelected(d("2024-07-04")))
	require.NotNil(t, src.month(calendar.YearMonth{Year: 2024, Month: time.July}))
}

func TestMonthFailure_KeepsLastGoodDates(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)
	stream := src.month(march2024)

	stream.emit(calendar.DateSet(d("2024-03-05")))
	require.Eventually(t, func() bool { return c.State().WorkoutDates.Has(d("2024-03-05")) }, waitFor, tick)

	stream.fail(errors.New("disk on fire"))
	require.Eventually(t, func() bool { return c.State().ErrorMessage != "" }, waitFor, tick)

	s := c.State()
	assert.False(t, s.IsLoadingMonth)
	assert.True(t, s.WorkoutDates.Has(d("2024-03-05")), "last good dates dropped")
	cell, _ := s.Grid.Day(d("2024-03-05"))
	assert.True(t, cell.HasWorkout)
	assert.True(t, strings.Contains(s.ErrorMessage, "March 2024"), "message = %q", s.ErrorMessage)
	assert.True(t, strings.Contains(s.ErrorMessage, "disk on fire"), "message = %q", s.ErrorMessage)

	// The stream survives the failure.
	stream.emit(calendar.DateSet(d("2024-03-05"), d("2024-03-06")))
	require.Eventually(t, func() bool { return c.State().WorkoutDates.Has(d("2024-03-06")) }, waitFor, tick)

	require.NoError(t, c.ClearError())
	assert.Empty(t, c.State().ErrorMessage)
}

func TestDayFailure_KeepsLastWorkouts(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)
	stream := src.day(d("2024-03-15"))

	stream.fail(errors.New("locked"))
	require.Eventually(t, func() bool { return c.State().ErrorMessage != "" }, waitFor, tick)

	s := c.State()
	assert.False(t, s.IsLoadingSelectedDate)
	assert.Empty(t, s.SelectedDateWorkouts)
	assert.Contains(t, s.ErrorMessage, "2024-03-15")
}

func TestUpdates_DeliversLatestSnapshot(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	require.NoError(t, c.NavigateNext())
	require.NoError(t, c.NavigateNext())

	var last UIState
	require.Eventually(t, func() bool {
		select {
		case s := <-c.Updates():
			last = s
		default:
		}
		return last.YearMonth == (calendar.YearMonth{Year: 2024, Month: time.May})
	}, waitFor, tick)
	assert.Equal(t, c.State().Version, last.Version)
}

func TestSnapshotsAreIndependent(t *testing.T) {
	src := newFakeSource()
	c := newTestController(t, src)

	before := c.State()
	require.NoError(t, c.NavigateNext())
	after := c.State()

	assert.Equal(t, march2024, before.YearMonth)
	assert.NotNil(t, before.SelectedDate)
	assert.Equal(t, april2024, after.YearMonth)
	assert.Greater(t, after.Version, before.Version)
}

func TestClose_StopsCommandsAndStreams(t *testing.T) {
	src := newFakeSource()
	clock := calendar.FixedClock(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))
	c := New(context.Background(), src, WithClock(clock))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.NavigateNext(), ErrClosed)
	assert.True(t, src.month(march2024).canceled())
	assert.True(t, src.historyStream().canceled())

	for range c.Updates() {
	}
}

func TestParentContextCancel(t *testing.T) {
	src := newFakeSource()
	ctx, cancel := context.WithCancel(context.Background())
	c := New(ctx, src)
	cancel()

	require.Eventually(t, func() bool { return errors.Is(c.ClearError(), ErrClosed) }, waitFor, tick)
	require.NoError(t, c.Close())
}

func TestHistoryFailure_MarksStreaksPartial(t *testing.T) {
	src := newFakeSource()
	src.monthData[march2024] = calendar.DateSet(d("2024-03-01"))
	clock := calendar.FixedClock(time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
	c := New(context.Background(), src, WithClock(clock))
	defer c.Close()

	src.historyStream().fail(errors.New("locked"))
	require.Eventually(t, func() bool {
		s := c.State()
		return s.StreaksPartial && !s.IsLoadingMonth
	}, waitFor, tick)

	s := c.State()
	assert.Equal(t, calendar.StreakResult{Current: 1, Longest: 1}, s.Streaks)
	assert.Contains(t, s.ErrorMessage, "this month only")

	src.historyStream().emit(calendar.DateSet(d("2024-02-28"), d("2024-02-29"), d("2024-03-01")))
	require.Eventually(t, func() bool { return c.State().History != nil }, waitFor, tick)

	s = c.State()
	assert.False(t, s.StreaksPartial)
	assert.Equal(t, calendar.StreakResult{Current: 3, Longest: 3}, s.Streaks)
}

func TestHistoryFailure_AfterDeliveryKeepsFullStreaks(t *testing.T) {
	src := newFakeSource()
	src.history = calendar.DateSet(d("2024-03-14"), d("2024-03-15"))
	c := newTestController(t, src)
	require.Eventually(t, func() bool { return c.State().History != nil }, waitFor, tick)

	src.historyStream().fail(errors.New("locked"))
	require.Eventually(t, func() bool { return c.State().ErrorMessage != "" }, waitFor, tick)

	s := c.State()
	assert.False(t, s.StreaksPartial)
	assert.NotContains(t, s.ErrorMessage, "this month only")
	assert.Equal(t, 2, s.Streaks.Current)
}

func TestNew_DefaultLoggerDiscards(t *testing.T) {
	c := newTestController(t, newFakeSource())
	_, ok := c.log.(*logging.Logger)
	assert.True(t, ok, "default logger is %T", c.log)
}

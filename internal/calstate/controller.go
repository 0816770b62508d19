// Package calstate binds the pure calendar components to a live data source
// and publishes one immutable UIState snapshot for the UI to render.
package calstate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/logging"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("calendar state closed")

// UIState is a complete, read-only view of the calendar screen. Snapshots are
// never modified after publication; its maps and slices must be treated as
// immutable by readers.
type UIState struct {
	// Version increases by one with every published snapshot.
	Version int64

	YearMonth    calendar.YearMonth
	Today        calendar.Date
	SelectedDate *calendar.Date

	WorkoutDates calendar.WorkoutDates
	History      calendar.WorkoutDates

	Grid    calendar.MonthData
	Streaks calendar.StreakResult
	// StreaksPartial is set while the history stream has failed without ever
	// delivering. Streaks then cover the visible month only.
	StreaksPartial bool

	SelectedDateWorkouts []WorkoutSummary

	IsLoadingMonth        bool
	IsLoadingSelectedDate bool
	ErrorMessage          string
}

// IsSelected reports whether d is the selected date.
func (s UIState) IsSelected(d calendar.Date) bool {
	return s.SelectedDate != nil && *s.SelectedDate == d
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock "today" is read from.
func WithClock(clock calendar.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the logger for data source failures and subscription churn.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

// Controller owns the calendar screen state. A single goroutine applies
// commands and stream emissions in order; everyone else reads snapshots.
type Controller struct {
	src   DataSource
	clock calendar.Clock
	log   logrus.FieldLogger

	snapshot atomic.Pointer[UIState]
	updates  chan UIState
	cmds     chan command

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

type command struct {
	apply func(*loop)
	ack   chan struct{}
}

// New creates a Controller showing the current month with today selected,
// and subscribes to the month, today's workouts and the workout history
// before returning. The controller stops when ctx is canceled or Close is
// called.
func New(ctx context.Context, src DataSource, opts ...Option) *Controller {
	c := &Controller{
		src:     src,
		clock:   calendar.SystemClock,
		updates: make(chan UIState, 1),
		cmds:    make(chan command),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}

	ctx, c.cancel = context.WithCancel(ctx)
	l := &loop{c: c, ctx: ctx}

	today := c.clock.CurrentDate()
	l.state.YearMonth = today.YearMonth()
	l.subscribeMonth()
	l.subscribeDay(today)
	l.history.replace(ctx, c.src.WorkoutHistory)
	l.publish()

	go l.run()
	return c
}

// State returns the latest snapshot.
func (c *Controller) State() UIState {
	return *c.snapshot.Load()
}

// Updates delivers snapshots as they are published. Only the most recent
// unread snapshot is kept; the channel is closed once the controller stops.
func (c *Controller) Updates() <-chan UIState {
	return c.updates
}

// NavigateNext moves to the following month and clears the selection.
func (c *Controller) NavigateNext() error {
	return c.do(func(l *loop) { l.navigate(calendar.NextMonth(l.state.YearMonth)) })
}

// NavigatePrevious moves to the preceding month and clears the selection.
func (c *Controller) NavigatePrevious() error {
	return c.do(func(l *loop) { l.navigate(calendar.PreviousMonth(l.state.YearMonth)) })
}

// NavigateToday shows the current month with today selected, fetching
// today's workouts right away.
func (c *Controller) NavigateToday() error {
	return c.do(func(l *loop) {
		today := l.c.clock.CurrentDate()
		if ym := today.YearMonth(); ym != l.state.YearMonth {
			l.navigate(ym)
		}
		l.subscribeDay(today)
	})
}

// SelectDate selects d and loads its workouts. A date that is not on the
// visible grid moves the calendar to d's month first.
func (c *Controller) SelectDate(d calendar.Date) error {
	return c.do(func(l *loop) {
		if _, onGrid := l.state.Grid.Day(d); !onGrid {
			l.navigate(d.YearMonth())
		}
		l.subscribeDay(d)
	})
}

// ClearError dismisses the current error message.
func (c *Controller) ClearError() error {
	return c.do(func(l *loop) { l.state.ErrorMessage = "" })
}

// Refresh re-derives the snapshot against the current clock, moving the
// "today" marker and current streak across midnight.
func (c *Controller) Refresh() error {
	return c.do(func(*loop) {})
}

// Close stops all subscriptions and waits for the state loop to exit.
func (c *Controller) Close() error {
	c.closeOnce.Do(c.cancel)
	<-c.done
	return nil
}

// do runs fn on the state loop and waits until its snapshot is published.
func (c *Controller) do(fn func(*loop)) error {
	cmd := command{apply: fn, ack: make(chan struct{})}
	select {
	case c.cmds <- cmd:
	case <-c.done:
		return ErrClosed
	}
	<-cmd.ack
	return nil
}

// notify hands s to the Updates channel, replacing any snapshot the reader
// has not picked up yet.
func (c *Controller) notify(s UIState) {
	for {
		select {
		case c.updates <- s:
			return
		default:
		}
		select {
		case <-c.updates:
		default:
		}
	}
}

// loop is the state owned by the controller goroutine.
type loop struct {
	c     *Controller
	ctx   context.Context
	state UIState

	month   subscription[calendar.WorkoutDates]
	day     subscription[[]WorkoutSummary]
	history subscription[calendar.WorkoutDates]

	historyFailed bool
}

func (l *loop) run() {
	defer close(l.c.done)
	defer close(l.c.updates)
	defer l.stopAll()

	for {
		select {
		case <-l.ctx.Done():
			return

		case cmd := <-l.c.cmds:
			cmd.apply(l)
			l.publish()
			close(cmd.ack)

		case e, ok := <-l.month.ch:
			if !ok {
				l.month.ch = nil
				continue
			}
			l.onMonth(e)
			l.publish()

		case e, ok := <-l.day.ch:
			if !ok {
				l.day.ch = nil
				continue
			}
			l.onDay(e)
			l.publish()

		case e, ok := <-l.history.ch:
			if !ok {
				l.history.ch = nil
				continue
			}
			l.onHistory(e)
			l.publish()
		}
	}
}

func (l *loop) stopAll() {
	l.month.stop()
	l.day.stop()
	l.history.stop()
}

// navigate switches months. The selection never survives a month change.
func (l *loop) navigate(ym calendar.YearMonth) {
	l.day.stop()
	l.state.SelectedDate = nil
	l.state.SelectedDateWorkouts = nil
	l.state.IsLoadingSelectedDate = false

	l.state.YearMonth = ym
	l.subscribeMonth()
}

func (l *loop) subscribeMonth() {
	ym := l.state.YearMonth
	l.state.WorkoutDates = nil
	l.state.IsLoadingMonth = true
	l.c.log.WithField("stream", StreamMonth).WithField("month", ym.Key()).Debug("subscribing")
	l.month.replace(l.ctx, func(ctx context.Context) <-chan Emission[calendar.WorkoutDates] {
		return l.c.src.WorkoutDatesForMonth(ctx, ym)
	})
}

func (l *loop) subscribeDay(d calendar.Date) {
	l.state.SelectedDate = &d
	l.state.SelectedDateWorkouts = nil
	l.state.IsLoadingSelectedDate = true
	l.c.log.WithField("stream", StreamDay).WithField("date", d.String()).Debug("subscribing")
	l.day.replace(l.ctx, func(ctx context.Context) <-chan Emission[[]WorkoutSummary] {
		return l.c.src.WorkoutsByDate(ctx, d)
	})
}

// onMonth applies a month emission. A failure keeps the last good dates.
func (l *loop) onMonth(e Emission[calendar.WorkoutDates]) {
	l.state.IsLoadingMonth = false
	if e.Err != nil {
		l.fail(StreamMonth, "workouts for "+l.state.YearMonth.String(), e.Err)
		return
	}
	l.state.WorkoutDates = e.Value
}

// onDay applies a selected-date emission. A failure keeps the last workouts.
func (l *loop) onDay(e Emission[[]WorkoutSummary]) {
	l.state.IsLoadingSelectedDate = false
	if e.Err != nil {
		subject := "workouts"
		if l.state.SelectedDate != nil {
			subject += " on " + l.state.SelectedDate.String()
		}
		l.fail(StreamDay, subject, e.Err)
		return
	}
	l.state.SelectedDateWorkouts = e.Value
}

func (l *loop) onHistory(e Emission[calendar.WorkoutDates]) {
	if e.Err != nil {
		l.historyFailed = true
		subject := "workout history"
		if l.state.History == nil {
			subject += " (streaks cover this month only)"
		}
		l.fail(StreamHistory, subject, e.Err)
		return
	}
	l.historyFailed = false
	l.state.History = e.Value
}

func (l *loop) fail(stream, subject string, err error) {
	serr := &SourceError{Stream: stream, Subject: subject, Err: err}
	l.c.log.WithField("stream", stream).WithError(err).Warn("data source failure")
	l.state.ErrorMessage = serr.Error()
}

// publish derives the grid and streaks from the working state and swaps in
// the result as the new snapshot.
func (l *loop) publish() {
	s := &l.state
	s.Version++
	s.Today = l.c.clock.CurrentDate()
	s.Grid = calendar.BuildMonthGrid(s.YearMonth, s.WorkoutDates, s.SelectedDate, s.Today)

	history := s.History
	if history == nil {
		history = s.WorkoutDates
	}
	s.StreaksPartial = s.History == nil && l.historyFailed
	s.Streaks = calendar.ComputeStreaks(history, s.Today)

	snap := *s
	l.c.snapshot.Store(&snap)
	l.c.notify(snap)
}

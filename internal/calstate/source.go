package calstate

import (
	"context"
	"fmt"

	"github.com/rnwolfe/reps/internal/calendar"
)

// WorkoutSummary is the per-workout row shown for the selected day.
type WorkoutSummary struct {
	ID      int
	Title   string
	Kind    string
	Minutes int
}

// Emission is one element of a data stream: a value, or the error that
// replaced it.
type Emission[T any] struct {
	Value T
	Err   error
}

// DataSource supplies the live data the calendar is built from.
//
// Every method returns a stream that emits the current value on subscribe and
// again whenever the underlying data changes. A stream ends, and its channel
// is closed, once ctx is canceled. Failures are delivered in-band as an
// Emission with Err set; the stream may keep emitting afterwards.
type DataSource interface {
	WorkoutDatesForMonth(ctx context.Context, ym calendar.YearMonth) <-chan Emission[calendar.WorkoutDates]
	WorkoutsByDate(ctx context.Context, d calendar.Date) <-chan Emission[[]WorkoutSummary]
	WorkoutHistory(ctx context.Context) <-chan Emission[calendar.WorkoutDates]
}

// Stream names, used in SourceError and log fields.
const (
	StreamMonth   = "month"
	StreamDay     = "day"
	StreamHistory = "history"
)

// SourceError is a data source failure surfaced to the user.
type SourceError struct {
	Stream  string
	Subject string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("couldn't load %s: %v", e.Subject, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// subscription is a latest-wins handle on one stream. Replacing it cancels
// the previous stream before the new channel is ever read.
type subscription[T any] struct {
	ch     <-chan Emission[T]
	cancel context.CancelFunc
}

func (s *subscription[T]) replace(parent context.Context, open func(context.Context) <-chan Emission[T]) {
	s.stop()
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.ch = open(ctx)
}

// stop cancels the stream. A nil channel blocks forever in select, which
// takes the stream out of the loop.
func (s *subscription[T]) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.ch = nil
}

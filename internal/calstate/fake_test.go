package calstate

import (
	"context"
	"sync"

	"github.com/rnwolfe/reps/internal/calendar"
)

// fakeStream is one subscription handed out by fakeSource. Values pushed
// into in are forwarded until the subscriber cancels.
type fakeStream[T any] struct {
	ctx context.Context
	in  chan Emission[T]
}

func openFake[T any](ctx context.Context, initial *Emission[T]) (*fakeStream[T], <-chan Emission[T]) {
	s := &fakeStream[T]{ctx: ctx, in: make(chan Emission[T], 16)}
	if initial != nil {
		s.in <- *initial
	}
	out := make(chan Emission[T])
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-s.in:
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return s, out
}

func (s *fakeStream[T]) emit(v T) { s.in <- Emission[T]{Value: v} }

func (s *fakeStream[T]) fail(err error) { s.in <- Emission[T]{Err: err} }

func (s *fakeStream[T]) canceled() bool { return s.ctx.Err() != nil }

// fakeSource records every subscription. Data registered up front is
// emitted on subscribe, like the real feed does.
type fakeSource struct {
	mu sync.Mutex

	monthData map[calendar.YearMonth]calendar.WorkoutDates
	dayData   map[calendar.Date][]WorkoutSummary
	history   calendar.WorkoutDates

	months    map[calendar.YearMonth][]*fakeStream[calendar.WorkoutDates]
	days      map[calendar.Date][]*fakeStream[[]WorkoutSummary]
	histories []*fakeStream[calendar.WorkoutDates]
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		monthData: make(map[calendar.YearMonth]calendar.WorkoutDates),
		dayData:   make(map[calendar.Date][]WorkoutSummary),
		months:    make(map[calendar.YearMonth][]*fakeStream[calendar.WorkoutDates]),
		days:      make(map[calendar.Date][]*fakeStream[[]WorkoutSummary]),
	}
}

func (f *fakeSource) WorkoutDatesForMonth(ctx context.Context, ym calendar.YearMonth) <-chan Emission[calendar.WorkoutDates] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var initial *Emission[calendar.WorkoutDates]
	if v, ok := f.monthData[ym]; ok {
		initial = &Emission[calendar.WorkoutDates]{Value: v}
	}
	s, out := openFake(ctx, initial)
	f.months[ym] = append(f.months[ym], s)
	return out
}

func (f *fakeSource) WorkoutsByDate(ctx context.Context, d calendar.Date) <-chan Emission[[]WorkoutSummary] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var initial *Emission[[]WorkoutSummary]
	if v, ok := f.dayData[d]; ok {
		initial = &Emission[[]WorkoutSummary]{Value: v}
	}
	s, out := openFake(ctx, initial)
	f.days[d] = append(f.days[d], s)
	return out
}

func (f *fakeSource) WorkoutHistory(ctx context.Context) <-chan Emission[calendar.WorkoutDates] {
	f.mu.Lock()
	defer f.mu.Unlock()
	var initial *Emission[calendar.WorkoutDates]
	if f.history != nil {
		initial = &Emission[calendar.WorkoutDates]{Value: f.history}
	}
	s, out := openFake(ctx, initial)
	f.histories = append(f.histories, s)
	return out
}

func (f *fakeSource) month(ym calendar.YearMonth) *fakeStream[calendar.WorkoutDates] {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := f.months[ym]
	if len(subs) == 0 {
		return nil
	}
	return subs[len(subs)-1]
}

func (f *fakeSource) day(d calendar.Date) *fakeStream[[]WorkoutSummary] {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := f.days[d]
	if len(subs) == 0 {
		return nil
	}
	return subs[len(subs)-1]
}

func (f *fakeSource) historyStream() *fakeStream[calendar.WorkoutDates] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.histories) == 0 {
		return nil
	}
	return f.histories[len(f.histories)-1]
}

package workout

import (
	"context"
	"database/sql"
	"time"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/calstate"
	"github.com/rnwolfe/reps/internal/logging"
	"github.com/sirupsen/logrus"
)

// Feed streams a Store's workouts to the calendar controller.
//
// A stream re-queries after every write made through the Store and, when a
// poll interval is set, after any commit made by another connection or
// process, detected through SQLite's data_version counter.
type Feed struct {
	store *Store
	poll  time.Duration
	log   logrus.FieldLogger
}

var _ calstate.DataSource = (*Feed)(nil)

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithPollInterval enables cross-process change detection. Zero disables it.
func WithPollInterval(d time.Duration) FeedOption {
	return func(f *Feed) { f.poll = d }
}

// WithLogger sets the logger used for query and poll failures.
func WithLogger(log logrus.FieldLogger) FeedOption {
	return func(f *Feed) { f.log = log }
}

// NewFeed returns a data source backed by s.
func NewFeed(s *Store, opts ...FeedOption) *Feed {
	f := &Feed{store: s, log: logging.Discard()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Feed) WorkoutDatesForMonth(ctx context.Context, ym calendar.YearMonth) <-chan calstate.Emission[calendar.WorkoutDates] {
	return stream(ctx, f, calstate.StreamMonth, func(ctx context.Context) (calendar.WorkoutDates, error) {
		return f.store.datesBetween(ctx, ym.First(), ym.Last())
	})
}

func (f *Feed) WorkoutsByDate(ctx context.Context, d calendar.Date) <-chan calstate.Emission[[]calstate.WorkoutSummary] {
	return stream(ctx, f, calstate.StreamDay, func(ctx context.Context) ([]calstate.WorkoutSummary, error) {
		ws, err := f.store.byDate(ctx, d)
		if err != nil {
			return nil, err
		}
		out := make([]calstate.WorkoutSummary, 0, len(ws))
		for _, w := range ws {
			out = append(out, calstate.WorkoutSummary{ID: w.ID, Title: w.Title, Kind: w.Kind, Minutes: w.Minutes})
		}
		return out, nil
	})
}

func (f *Feed) WorkoutHistory(ctx context.Context) <-chan calstate.Emission[calendar.WorkoutDates] {
	return stream(ctx, f, calstate.StreamHistory, func(ctx context.Context) (calendar.WorkoutDates, error) {
		return f.store.datesBetween(ctx, calendar.Date{}, calendar.Date{})
	})
}

// stream runs load on subscribe and after every change until ctx ends.
// The returned channel is unbuffered and closed when the goroutine exits.
func stream[T any](ctx context.Context, f *Feed, name string, load func(context.Context) (T, error)) <-chan calstate.Emission[T] {
	out := make(chan calstate.Emission[T])
	changes, unsubscribe := f.store.changes.subscribe()
	log := f.log.WithField("stream", name)

	go func() {
		defer close(out)
		defer unsubscribe()

		var w *versionWatcher
		var tick <-chan time.Time
		if f.poll > 0 {
			w = newVersionWatcher(ctx, f.store.db, log)
			defer w.close()
			t := time.NewTicker(f.poll)
			defer t.Stop()
			tick = t.C
		}

		for {
			v, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.WithError(err).Warn("query failed")
			}
			select {
			case out <- calstate.Emission[T]{Value: v, Err: err}:
			case <-ctx.Done():
				return
			}

			if !waitForChange(ctx, changes, tick, w) {
				return
			}
			log.Debug("change detected, reloading")
		}
	}()
	return out
}

// waitForChange blocks until a change is signaled or ctx ends. It reports
// false when ctx ended.
func waitForChange(ctx context.Context, changes <-chan struct{}, tick <-chan time.Time, w *versionWatcher) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-changes:
			// Our own write also bumps data_version on the watcher's
			// connection; resync so the next tick doesn't reload twice.
			if w != nil {
				w.changed(ctx)
			}
			return true
		case <-tick:
			if w.changed(ctx) {
				return true
			}
		}
	}
}

// versionWatcher polls PRAGMA data_version on a dedicated connection. The
// counter only moves when another connection commits, so each watcher needs
// its own *sql.Conn.
type versionWatcher struct {
	conn    *sql.Conn
	log     logrus.FieldLogger
	version int64
}

func newVersionWatcher(ctx context.Context, db *sql.DB, log logrus.FieldLogger) *versionWatcher {
	w := &versionWatcher{log: log}
	conn, err := db.Conn(ctx)
	if err != nil {
		log.WithError(err).Warn("data_version watcher disabled")
		return w
	}
	w.conn = conn
	w.version, _ = w.read(ctx)
	return w
}

func (w *versionWatcher) read(ctx context.Context) (int64, error) {
	var v int64
	err := w.conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v)
	return v, err
}

// changed reports whether data_version moved since the last call.
func (w *versionWatcher) changed(ctx context.Context) bool {
	if w.conn == nil {
		return false
	}
	v, err := w.read(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.WithError(err).Debug("polling data_version")
		}
		return false
	}
	if v == w.version {
		return false
	}
	w.version = v
	return true
}

func (w *versionWatcher) close() {
	if w.conn == nil {
		return
	}
	if err := w.conn.Close(); err != nil {
		w.log.WithError(err).Debug("closing watcher connection")
	}
}

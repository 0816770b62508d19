// Package workout persists logged workouts and goals, and streams them to
// the calendar.
package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rnwolfe/reps/internal/calendar"
)

// ErrNotFound is returned when a workout or goal does not exist.
var ErrNotFound = errors.New("not found")

// KindGeneral is used when a workout is logged without a kind.
const KindGeneral = "general"

// Workout is a single logged session.
type Workout struct {
	ID        int
	UID       string
	Date      calendar.Date
	Title     string
	Kind      string
	Minutes   int
	Note      string
	GoalID    *int
	CreatedAt time.Time
}

// NewWorkout holds the fields needed to log a workout.
type NewWorkout struct {
	Date    calendar.Date
	Title   string
	Kind    string
	Minutes int
	Note    string
	// GoalID links the workout to a goal's progress. nil means no goal.
	GoalID *int
}

// ListOptions filters List. Zero dates leave that end of the range open.
type ListOptions struct {
	From  calendar.Date
	To    calendar.Date
	Kind  string
	Limit int
}

// Store handles workout and goal persistence.
type Store struct {
	db      *sql.DB
	changes *hub
}

// NewStore creates a new workout store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, changes: newHub()}
}

// Log validates and inserts a workout.
func (s *Store) Log(nw NewWorkout) (*Workout, error) {
	title := strings.TrimSpace(nw.Title)
	if title == "" {
		return nil, fmt.Errorf("workout title cannot be empty")
	}
	if nw.Date.IsZero() {
		return nil, fmt.Errorf("workout date is required")
	}
	if nw.Minutes < 0 {
		return nil, fmt.Errorf("minutes cannot be negative (got %d)", nw.Minutes)
	}
	kind := normalizeKind(nw.Kind)
	if nw.GoalID != nil {
		if _, err := s.GetGoal(*nw.GoalID); err != nil {
			return nil, err
		}
	}

	uid := uuid.NewString()
	res, err := s.db.Exec(
		`INSERT INTO workouts (uid, day, title, kind, minutes, note, goal_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uid, nw.Date.String(), title, kind, nw.Minutes, nw.Note, nw.GoalID,
	)
	if err != nil {
		return nil, fmt.Errorf("logging workout: %w", err)
	}
	s.changes.notify()

	id, _ := res.LastInsertId()
	return s.Get(int(id))
}

// Get returns a workout by ID.
func (s *Store) Get(id int) (*Workout, error) {
	row := s.db.QueryRow(
		`SELECT id, uid, day, title, kind, minutes, note, goal_id, created_at FROM workouts WHERE id = ?`, id,
	)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workout #%d %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Delete removes a workout.
func (s *Store) Delete(id int) error {
	res, err := s.db.Exec(`DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("workout #%d %w", id, ErrNotFound)
	}
	s.changes.notify()
	return nil
}

// List returns workouts matching opts, newest first.
func (s *Store) List(opts ListOptions) ([]Workout, error) {
	query := `SELECT id, uid, day, title, kind, minutes, note, goal_id, created_at FROM workouts`

	var conditions []string
	var args []any
	if !opts.From.IsZero() {
		conditions = append(conditions, "day >= ?")
		args = append(args, opts.From.String())
	}
	if !opts.To.IsZero() {
		conditions = append(conditions, "day <= ?")
		args = append(args, opts.To.String())
	}
	if opts.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, normalizeKind(opts.Kind))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY day DESC, id DESC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	return s.queryWorkouts(context.Background(), query, args...)
}

// ByDate returns the workouts logged on d, in the order they were logged.
func (s *Store) ByDate(d calendar.Date) ([]Workout, error) {
	return s.byDate(context.Background(), d)
}

func (s *Store) byDate(ctx context.Context, d calendar.Date) ([]Workout, error) {
	return s.queryWorkouts(ctx,
		`SELECT id, uid, day, title, kind, minutes, note, goal_id, created_at FROM workouts WHERE day = ? ORDER BY id`,
		d.String(),
	)
}

// DatesForMonth returns the workout count for each day of ym that has one.
func (s *Store) DatesForMonth(ym calendar.YearMonth) (calendar.WorkoutDates, error) {
	return s.datesBetween(context.Background(), ym.First(), ym.Last())
}

// AllDates returns the workout count for every day that has one.
func (s *Store) AllDates() (calendar.WorkoutDates, error) {
	return s.datesBetween(context.Background(), calendar.Date{}, calendar.Date{})
}

func (s *Store) datesBetween(ctx context.Context, from, to calendar.Date) (calendar.WorkoutDates, error) {
	query := `SELECT day, COUNT(*) FROM workouts`
	var args []any
	if !from.IsZero() && !to.IsZero() {
		query += ` WHERE day BETWEEN ? AND ?`
		args = append(args, from.String(), to.String())
	}
	query += ` GROUP BY day`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(calendar.WorkoutDates)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		d, err := calendar.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("bad stored date %q: %w", day, err)
		}
		dates[d] = n
	}
	return dates, rows.Err()
}

func (s *Store) queryWorkouts(ctx context.Context, query string, args ...any) ([]Workout, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(sc scanner) (Workout, error) {
	var w Workout
	var day, createdStr string
	var note sql.NullString
	var goalID sql.NullInt64
	if err := sc.Scan(&w.ID, &w.UID, &day, &w.Title, &w.Kind, &w.Minutes, &note, &goalID, &createdStr); err != nil {
		return Workout{}, err
	}
	d, err := calendar.ParseDate(day)
	if err != nil {
		return Workout{}, fmt.Errorf("bad stored date %q: %w", day, err)
	}
	w.Date = d
	w.Note = note.String
	if goalID.Valid {
		id := int(goalID.Int64)
		w.GoalID = &id
	}
	w.CreatedAt = parseTimestamp(createdStr)
	return w, nil
}

func normalizeKind(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	if k == "" {
		return KindGeneral
	}
	return k
}

// parseTimestamp accepts both RFC 3339 and SQLite's CURRENT_TIMESTAMP layout.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}

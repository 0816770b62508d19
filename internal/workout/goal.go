package workout

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rnwolfe/reps/internal/calendar"
)

// Goal units. Progress toward a minutes goal sums linked workout minutes;
// a sessions goal counts linked workouts.
const (
	UnitMinutes  = "min"
	UnitSessions = "sessions"
)

// Goal is a target that logged workouts count toward.
type Goal struct {
	ID       int
	Title    string
	Deadline *calendar.Date
	Target   int
	Unit     string
	Done     bool
	// Progress is derived from the workouts linked to the goal.
	Progress  int
	CreatedAt time.Time
}

// Percent returns progress as a whole percentage, capped at 100.
func (g Goal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	p := g.Progress * 100 / g.Target
	if p > 100 {
		p = 100
	}
	return p
}

// ParseUnit validates a goal unit. Accepts min/minutes and s/session/sessions.
func ParseUnit(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "min", "mins", "minutes":
		return UnitMinutes, nil
	case "s", "session", "sessions":
		return UnitSessions, nil
	default:
		return "", fmt.Errorf("invalid unit %q (use min or sessions)", s)
	}
}

const goalColumns = `g.id, g.title, g.deadline, g.target, g.unit, g.done, g.created_at,
	COALESCE((SELECT CASE WHEN g.unit = 'sessions' THEN COUNT(*) ELSE SUM(w.minutes) END
	          FROM workouts w WHERE w.goal_id = g.id), 0)`

// AddGoal creates a goal and returns its ID.
func (s *Store) AddGoal(title string, target int, unit string, deadline *calendar.Date) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("goal title cannot be empty")
	}
	if target <= 0 {
		return 0, fmt.Errorf("goal target must be positive (got %d)", target)
	}
	unit, err := ParseUnit(unit)
	if err != nil {
		return 0, err
	}
	var dl *string
	if deadline != nil {
		v := deadline.String()
		dl = &v
	}

	res, err := s.db.Exec(
		`INSERT INTO goals (title, deadline, target, unit) VALUES (?, ?, ?, ?)`,
		title, dl, target, unit,
	)
	if err != nil {
		return 0, fmt.Errorf("adding goal: %w", err)
	}
	s.changes.notify()
	id, _ := res.LastInsertId()
	return int(id), nil
}

// GetGoal returns a goal with its progress.
func (s *Store) GetGoal(id int) (*Goal, error) {
	row := s.db.QueryRow(`SELECT `+goalColumns+` FROM goals g WHERE g.id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal #%d %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGoals returns open goals, or all goals when showDone is set.
// Goals with the nearest deadline come first.
func (s *Store) ListGoals(showDone bool) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals g`
	if !showDone {
		query += ` WHERE g.done = 0`
	}
	query += ` ORDER BY g.done, g.deadline IS NULL, g.deadline, g.id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DoneGoal marks a goal as finished.
func (s *Store) DoneGoal(id int) error {
	res, err := s.db.Exec(`UPDATE goals SET done = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("goal #%d %w", id, ErrNotFound)
	}
	s.changes.notify()
	return nil
}

// DeleteGoal removes a goal. Linked workouts are kept and unlinked.
func (s *Store) DeleteGoal(id int) error {
	res, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("goal #%d %w", id, ErrNotFound)
	}
	s.changes.notify()
	return nil
}

func scanGoal(sc scanner) (Goal, error) {
	var g Goal
	var deadline sql.NullString
	var doneInt int
	var createdStr string
	if err := sc.Scan(&g.ID, &g.Title, &deadline, &g.Target, &g.Unit, &doneInt, &createdStr, &g.Progress); err != nil {
		return Goal{}, err
	}
	g.Done = doneInt == 1
	if deadline.Valid && deadline.String != "" {
		if d, err := calendar.ParseDate(deadline.String); err == nil {
			g.Deadline = &d
		}
	}
	g.CreatedAt = parseTimestamp(createdStr)
	return g, nil
}

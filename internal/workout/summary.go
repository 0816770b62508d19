package workout

import (
	"fmt"

	"github.com/rnwolfe/reps/internal/calendar"
)

// KindTotal is the per-kind share of a Summary.
type KindTotal struct {
	Kind     string
	Workouts int
	Minutes  int
}

// Summary aggregates workouts over a date range.
type Summary struct {
	From       calendar.Date
	To         calendar.Date
	Workouts   int
	Minutes    int
	ActiveDays int
	Kinds      []KindTotal
}

// Summary totals the workouts logged between from and to, inclusive.
// Kinds are ordered by minutes, then by workout count.
func (s *Store) Summary(from, to calendar.Date) (*Summary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("summary range ends (%s) before it starts (%s)", to, from)
	}
	sum := &Summary{From: from, To: to}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(minutes), 0), COUNT(DISTINCT day) FROM workouts WHERE day BETWEEN ? AND ?`,
		from.String(), to.String(),
	).Scan(&sum.Workouts, &sum.Minutes, &sum.ActiveDays)
	if err != nil {
		return nil, fmt.Errorf("summarizing workouts: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT kind, COUNT(*), COALESCE(SUM(minutes), 0) FROM workouts
		 WHERE day BETWEEN ? AND ?
		 GROUP BY kind
		 ORDER BY 3 DESC, 2 DESC, kind`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("summarizing kinds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k KindTotal
		if err := rows.Scan(&k.Kind, &k.Workouts, &k.Minutes); err != nil {
			return nil, err
		}
		sum.Kinds = append(sum.Kinds, k)
	}
	return sum, rows.Err()
}

package calendar

import (
	"fmt"
	"sort"
	"time"
)

// WeekStart is the weekday every grid row begins on.
const WeekStart = time.Sunday

// WorkoutDates is the set of days with at least one workout, keyed by date,
// with the number of workouts logged that day as the value. A present key
// means "has workout" even when the count is unknown (zero).
type WorkoutDates map[Date]int

// DateSet builds a WorkoutDates with a count of one per date.
func DateSet(dates ...Date) WorkoutDates {
	set := make(WorkoutDates, len(dates))
	for _, d := range dates {
		set[d]++
	}
	return set
}

// Has reports whether d is in the set.
func (w WorkoutDates) Has(d Date) bool {
	_, ok := w[d]
	return ok
}

// Count returns the workout count for d: 0 when absent, at least 1 when present.
func (w WorkoutDates) Count(d Date) int {
	n, ok := w[d]
	if !ok {
		return 0
	}
	if n < 1 {
		return 1
	}
	return n
}

// Sorted returns the member dates in ascending order.
func (w WorkoutDates) Sorted() []Date {
	dates := make([]Date, 0, len(w))
	for d := range w {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Total returns the sum of workout counts across all dates.
func (w WorkoutDates) Total() int {
	total := 0
	for d := range w {
		total += w.Count(d)
	}
	return total
}

// CalendarDay is one rendered grid cell.
type CalendarDay struct {
	Date           Date
	HasWorkout     bool
	WorkoutCount   int
	IsToday        bool
	IsSelected     bool
	IsCurrentMonth bool
}

// MonthData is a whole-week grid for one month. Days is ascending, has no
// duplicates, and its length is a multiple of seven between 28 and 42.
type MonthData struct {
	YearMonth    YearMonth
	Days         []CalendarDay
	WorkoutDates WorkoutDates
}

// BuildMonthGrid lays out ym as whole weeks starting on WeekStart, borrowing
// days from the neighbouring months to fill the first and last rows.
//
// selected may be nil. selected and today are compared against every cell,
// including fill cells from adjacent months.
func BuildMonthGrid(ym YearMonth, workouts WorkoutDates, selected *Date, today Date) MonthData {
	if !ym.Valid() {
		panic(fmt.Sprintf("calendar: month out of range: %d", int(ym.Month)))
	}

	first := ym.First()
	days := ym.Days()
	leading := (int(first.Weekday()) - int(WeekStart) + 7) % 7
	trailing := (7 - (leading+days)%7) % 7
	total := leading + days + trailing

	cells := make([]CalendarDay, 0, total)
	d := first.AddDays(-leading)
	for i := 0; i < total; i++ {
		cells = append(cells, CalendarDay{
			Date:           d,
			HasWorkout:     workouts.Has(d),
			WorkoutCount:   workouts.Count(d),
			IsToday:        d == today,
			IsSelected:     selected != nil && d == *selected,
			IsCurrentMonth: ym.Contains(d),
		})
		d = d.Next()
	}

	return MonthData{
		YearMonth:    ym,
		Days:         cells,
		WorkoutDates: workouts,
	}
}

// Weeks splits the grid into rows of seven.
func (m MonthData) Weeks() [][]CalendarDay {
	weeks := make([][]CalendarDay, 0, len(m.Days)/7)
	for i := 0; i+7 <= len(m.Days); i += 7 {
		weeks = append(weeks, m.Days[i:i+7])
	}
	return weeks
}

// Day returns the cell for d, if d is on the grid.
func (m MonthData) Day(d Date) (CalendarDay, bool) {
	if len(m.Days) == 0 {
		return CalendarDay{}, false
	}
	start := m.Days[0].Date
	if d.Before(start) {
		return CalendarDay{}, false
	}
	idx := int(d.Time().Sub(start.Time()).Hours() / 24)
	if idx >= len(m.Days) {
		return CalendarDay{}, false
	}
	return m.Days[idx], true
}

// CurrentMonthCells counts the cells that belong to the requested month.
func (m MonthData) CurrentMonthCells() int {
	n := 0
	for _, c := range m.Days {
		if c.IsCurrentMonth {
			n++
		}
	}
	return n
}

// ActiveDays counts in-month cells with at least one workout.
func (m MonthData) ActiveDays() int {
	n := 0
	for _, c := range m.Days {
		if c.IsCurrentMonth && c.HasWorkout {
			n++
		}
	}
	return n
}

// WeekdayHeaders returns short weekday names in grid column order.
func WeekdayHeaders() []string {
	headers := make([]string, 7)
	for i := range headers {
		headers[i] = time.Weekday((int(WeekStart) + i) % 7).String()[:2]
	}
	return headers
}

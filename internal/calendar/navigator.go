package calendar

import (
	"fmt"
	"time"
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Valid reports whether the month number is in 1..12.
func (ym YearMonth) Valid() bool {
	return ym.Month >= time.January && ym.Month <= time.December
}

// First returns the first day of the month.
func (ym YearMonth) First() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// Last returns the last day of the month.
func (ym YearMonth) Last() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: ym.Days()}
}

// Days returns the length of the month.
func (ym YearMonth) Days() int {
	return DaysInMonth(ym.Year, ym.Month)
}

// Contains reports whether d falls inside the month.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year == ym.Year && d.Month == ym.Month
}

// Key returns the YYYY-MM form, the inverse of ParseYearMonth.
func (ym YearMonth) Key() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%s %d", ym.Month, ym.Year)
}

// NextMonth returns the month after ym, rolling December into January.
func NextMonth(ym YearMonth) YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// PreviousMonth returns the month before ym, rolling January into December.
func PreviousMonth(ym YearMonth) YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Clock is the single place the calendar code reads wall-clock time.
type Clock func() time.Time

// SystemClock reads the local system time.
var SystemClock Clock = time.Now

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// CurrentDate returns today's date in the clock's location.
func (c Clock) CurrentDate() Date {
	return DateOf(c())
}

// CurrentMonth returns the month containing today.
func (c Clock) CurrentMonth() YearMonth {
	return c.CurrentDate().YearMonth()
}

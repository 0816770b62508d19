package cmd

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/spf13/pflag"
)

// dateFlag is a pflag.Value holding a calendar date. It accepts YYYY-MM-DD,
// "today" and "yesterday".
type dateFlag struct {
	date calendar.Date
}

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string {
	if f.date.IsZero() {
		return ""
	}
	return f.date.String()
}

func (f *dateFlag) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "t":
		f.date = clock.CurrentDate()
		return nil
	case "yesterday", "y":
		f.date = clock.CurrentDate().Prev()
		return nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD, today or yesterday")
	}
	f.date = d
	return nil
}

func (f *dateFlag) Type() string { return "date" }

// orToday returns the flag's date, or today when it was not set.
func (f *dateFlag) orToday() calendar.Date {
	if f.date.IsZero() {
		return clock.CurrentDate()
	}
	return f.date
}

// ptr returns the date, or nil when it was not set.
func (f *dateFlag) ptr() *calendar.Date {
	if f.date.IsZero() {
		return nil
	}
	d := f.date
	return &d
}

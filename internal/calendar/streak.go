package calendar

// StreakResult holds current and longest streak values, in days.
type StreakResult struct {
	Current int
	Longest int
}

// ComputeStreaks calculates the current and longest workout streaks.
//
// A streak is a run of consecutive calendar days with at least one workout.
// The current streak ends at today and is zero when today has no workout,
// even if a run ended yesterday. The longest streak is the longest run
// anywhere in workouts, regardless of today.
func ComputeStreaks(workouts WorkoutDates, today Date) StreakResult {
	if len(workouts) == 0 {
		return StreakResult{}
	}

	var current int
	for d := today; workouts.Has(d); d = d.Prev() {
		current++
	}

	asc := workouts.Sorted()
	longest := 1
	run := 1
	for i := 1; i < len(asc); i++ {
		if asc[i-1].Next() == asc[i] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	if current > longest {
		longest = current
	}

	return StreakResult{Current: current, Longest: longest}
}

// Package streak computes a style's punch-card statistics from its full
// record history. The fold is pure: persistence and error handling live
// with the callers.
package streak

import "time"

// Day is one submitted record: its calendar date and the completion flags
// actually stored for it. A task with no stored flag is simply absent.
type Day struct {
	Date  time.Time
	Flags []bool
}

// Stats are the four aggregates cached on a style.
type Stats struct {
	ValidCheckins      int
	FullyDone          int
	LongestStreak      int
	LongestFullyStreak int
}

// Compute folds over a style's record history, ordered ascending by date.
// Every record counts as a valid check-in. A record is fully done only when
// it carries a flag for every one of the totalTasks catalog tasks and all
// of them are true — a partially recorded day counts the same as a
// partially completed one. Streaks extend on a gap of exactly one whole
// day and reset on larger gaps. An empty history yields all zeros.
func Compute(totalTasks int, days []Day) Stats {
	var s Stats
	currentStreak := 0
	currentFully := 0
	var prev time.Time

	for i, day := range days {
		s.ValidCheckins++

		fullyDone := len(day.Flags) == totalTasks
		for _, done := range day.Flags {
			if !done {
				fullyDone = false
				break
			}
		}
		if fullyDone {
			s.FullyDone++
		}

		if i == 0 {
			currentStreak = 1
			if fullyDone {
				currentFully = 1
			} else {
				currentFully = 0
			}
		} else {
			gap := wholeDays(prev, day.Date)
			// gap == 0 cannot occur while (style, date) stays unique;
			// leave the streak counter untouched if it does.
			if gap == 1 {
				currentStreak++
			} else if gap > 1 {
				currentStreak = 1
			}

			if gap == 1 && fullyDone {
				currentFully++
			} else if fullyDone {
				currentFully = 1
			} else {
				currentFully = 0
			}
		}

		if currentStreak > s.LongestStreak {
			s.LongestStreak = currentStreak
		}
		if currentFully > s.LongestFullyStreak {
			s.LongestFullyStreak = currentFully
		}

		prev = day.Date
	}

	return s
}

// wholeDays returns the number of whole days from a to b, ignoring the
// time-of-day component.
func wholeDays(a, b time.Time) int {
	a = a.Truncate(24 * time.Hour)
	b = b.Truncate(24 * time.Hour)
	return int(b.Sub(a).Hours() / 24)
}

// Package streak finds runs of consecutive successful days in sparse
// date-keyed histories.
package streak

import (
	"sort"

	"github.com/julianstephens/tracklit/internal/models"
)

// Streak is a maximal run of consecutive days, inclusive of Start and End.
type Streak struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// Runs returns every maximal run of consecutive days whose value satisfies
// done, longest first. Runs shorter than minLength are dropped. Keys that are
// not valid DateKeys are ignored.
//
// Ties keep chronological order.
func Runs[V any](history map[string]V, done func(V) bool, minLength int) []Streak {
	days := make([]string, 0, len(history))
	for day, v := range history {
		if done(v) && models.ValidDateKey(day) {
			days = append(days, day)
		}
	}
	// DateKeys are zero-padded, so lexical order is chronological order.
	sort.Strings(days)

	streaks := []Streak{}
	var open *Streak
	for _, day := range days {
		if open != nil {
			if next, err := models.AddDays(open.End, 1); err == nil && next == day {
				open.End = day
				open.Length++
				continue
			}
			if open.Length >= minLength {
				streaks = append(streaks, *open)
			}
		}
		open = &Streak{Start: day, End: day, Length: 1}
	}
	if open != nil && open.Length >= minLength {
		streaks = append(streaks, *open)
	}

	sort.SliceStable(streaks, func(i, j int) bool {
		return streaks[i].Length > streaks[j].Length
	})
	return streaks
}

// Compute returns the streaks of "done" days in a habit status history.
func Compute(history map[string]models.Status) []Streak {
	return Runs(history, func(s models.Status) bool { return s == models.StatusDone }, 0)
}

// ForHabit returns a habit's streaks of at least minLength days.
func ForHabit(h models.Habit, minLength int) []Streak {
	return Runs(h.History, func(s models.Status) bool { return s == models.StatusDone }, minLength)
}

// ForWorkouts returns streaks of days with at least one workout entry. When
// workoutType is non-empty only entries of that type count.
func ForWorkouts(history map[string][]models.WorkoutEntry, workoutType string, minLength int) []Streak {
	return Runs(history, func(entries []models.WorkoutEntry) bool {
		for _, e := range entries {
			if workoutType == "" || e.Type == workoutType {
				return true
			}
		}
		return false
	}, minLength)
}

// ForIntake returns streaks of days on which the logged total reached the goal.
// A tracker without a valid positive goal has no streaks.
func ForIntake(t models.IntakeTracker, minLength int) []Streak {
	goal := t.Goal.Or(0)
	if goal <= 0 {
		return []Streak{}
	}
	return Runs(t.History, func(entries []models.IntakeEntry) bool {
		total := 0
		for _, e := range entries {
			total += e.Amount.Or(0)
		}
		return total >= goal
	}, minLength)
}

// Longest returns the first (longest) streak, if any.
func Longest(streaks []Streak) (Streak, bool) {
	if len(streaks) == 0 {
		return Streak{}, false
	}
	return streaks[0], true
}

// BestByType returns the workout type with the longest single-type streak.
// Ties go to the alphabetically first type.
func BestByType(history map[string][]models.WorkoutEntry) (string, Streak, bool) {
	types := make(map[string]struct{})
	for _, entries := range history {
		for _, e := range entries {
			types[e.Type] = struct{}{}
		}
	}
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)

	var bestType string
	var best Streak
	found := false
	for _, t := range names {
		s, ok := Longest(ForWorkouts(history, t, 0))
		if ok && (!found || s.Length > best.Length) {
			bestType, best, found = t, s, true
		}
	}
	return bestType, best, found
}

// Current returns the length of the streak that is still alive on today:
// one ending today, or ending yesterday and not yet broken.
func Current(streaks []Streak, today string) int {
	yesterday, err := models.AddDays(today, -1)
	if err != nil {
		return 0
	}
	for _, s := range streaks {
		if s.End == today || s.End == yesterday {
			return s.Length
		}
	}
	return 0
}

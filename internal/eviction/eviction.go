// Package eviction trims date-keyed histories to a retention window.
package eviction

import (
	"github.com/julianstephens/tracklit/internal/models"
)

// Policy keeps the most recent KeepDays calendar days, today included.
// KeepDays <= 0 keeps everything.
type Policy struct {
	KeepDays int
}

func (p Policy) Enabled() bool {
	return p.KeepDays > 0
}

// Cutoff returns the oldest DateKey the policy keeps for today.
func (p Policy) Cutoff(today string) (string, error) {
	return models.AddDays(today, -(p.KeepDays - 1))
}

// Truncate returns the entries of history dated within the last keepDays
// days counting today, plus the number removed. Keys that are not valid
// DateKeys are kept. The input map is not modified.
func Truncate[V any](history map[string]V, keepDays int, today string) (map[string]V, int) {
	out := make(map[string]V, len(history))
	cutoff, err := Policy{KeepDays: keepDays}.Cutoff(today)
	if keepDays <= 0 || err != nil {
		for k, v := range history {
			out[k] = v
		}
		return out, 0
	}

	removed := 0
	for k, v := range history {
		if models.ValidDateKey(k) && k < cutoff {
			removed++
			continue
		}
		out[k] = v
	}
	return out, removed
}

// Apply truncates every history in s and reports how many day entries went away.
func (p Policy) Apply(s models.Snapshot, today string) (models.Snapshot, int) {
	if !p.Enabled() {
		return s, 0
	}

	total := 0
	var n int
	s.Water.History, n = Truncate(s.Water.History, p.KeepDays, today)
	total += n
	s.Protein.History, n = Truncate(s.Protein.History, p.KeepDays, today)
	total += n
	s.Workout.History, n = Truncate(s.Workout.History, p.KeepDays, today)
	total += n

	habits := make([]models.Habit, len(s.Habits))
	for i, h := range s.Habits {
		h.History, n = Truncate(h.History, p.KeepDays, today)
		total += n
		habits[i] = h
	}
	s.Habits = habits
	return s, total
}

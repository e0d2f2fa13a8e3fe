package models

import "github.com/julianstephens/tracklit/internal/constants"

// Status is a habit's outcome for one day
type Status string

const (
	StatusDone Status = constants.StatusDone
	StatusFail Status = constants.StatusFail
)

// Habit is a named practice with a per-day status history. Habits are
// identified by their position in the habit list, not by name.
type Habit struct {
	Name    string            `json:"name"`
	Color   string            `json:"color"`
	History map[string]Status `json:"history"`
}

// NewHabit returns a habit with an empty history.
func NewHabit(name, color string) Habit {
	return Habit{
		Name:    name,
		Color:   color,
		History: make(map[string]Status),
	}
}

// StatusOn returns the status recorded for day; a missing day reads as fail.
func (h Habit) StatusOn(day string) Status {
	if s, ok := h.History[day]; ok {
		return s
	}
	return StatusFail
}

// DoneOn reports whether the habit was completed on day.
func (h Habit) DoneOn(day string) bool {
	return h.StatusOn(day) == StatusDone
}

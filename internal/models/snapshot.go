package models

import "github.com/julianstephens/tracklit/internal/constants"

// IntakeEntry is one logged amount (ml of water, grams of protein).
type IntakeEntry struct {
	Amount    NullInt `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

// IntakeTracker holds the state of a water or protein tracker.
type IntakeTracker struct {
	Goal    NullInt
	Intake  NullInt
	History map[string][]IntakeEntry
}

// TotalOn sums the valid amounts logged on day.
func (t IntakeTracker) TotalOn(day string) int {
	total := 0
	for _, e := range t.History[day] {
		total += e.Amount.Or(0)
	}
	return total
}

// WorkoutState is the per-type checklist state.
type WorkoutState struct {
	Completed bool    `json:"completed"`
	Order     NullInt `json:"order"`
}

// WorkoutEntry is one logged set of a workout type.
type WorkoutEntry struct {
	Type      string  `json:"type"`
	Count     NullInt `json:"count"`
	Timestamp string  `json:"timestamp"`
}

// WorkoutTracker holds workout checklist state, running counts and history.
type WorkoutTracker struct {
	State   map[string]WorkoutState
	Count   map[string]NullInt
	History map[string][]WorkoutEntry
}

// Settings holds user preferences. An empty Theme means no theme is set.
type Settings struct {
	Theme    string
	Reminder NullInt // minutes
}

// Snapshot is the full in-memory representation of all tracked data at one instant.
type Snapshot struct {
	Water    IntakeTracker
	Protein  IntakeTracker
	Workout  WorkoutTracker
	Habits   []Habit
	Settings Settings
}

// NewSnapshot returns an empty snapshot with every map initialized.
func NewSnapshot() Snapshot {
	return Snapshot{
		Water:   IntakeTracker{History: make(map[string][]IntakeEntry)},
		Protein: IntakeTracker{History: make(map[string][]IntakeEntry)},
		Workout: WorkoutTracker{
			State:   make(map[string]WorkoutState),
			Count:   make(map[string]NullInt),
			History: make(map[string][]WorkoutEntry),
		},
		Habits: []Habit{},
	}
}

// Tracker returns the intake tracker for kind.
func (s *Snapshot) Tracker(kind constants.TrackerKind) *IntakeTracker {
	if kind == constants.TrackerProtein {
		return &s.Protein
	}
	return &s.Water
}

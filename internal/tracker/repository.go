package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// Repository performs the day-to-day saves. Each save rewrites only the
// keys it touches, so a rejected write never puts other trackers at risk.
type Repository struct {
	store storage.Provider
}

func New(store storage.Provider) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Store() storage.Provider {
	return r.store
}

// Snapshot reads the current state of every tracker.
func (r *Repository) Snapshot() (models.Snapshot, error) {
	return Read(r.store)
}

// update reads the snapshot, lets fn mutate it and persists only keys.
func (r *Repository) update(fn func(*models.Snapshot) error, keys ...string) error {
	snap, err := Read(r.store)
	if err != nil {
		return err
	}
	if err := fn(&snap); err != nil {
		return err
	}
	all, err := Writes(snap)
	if err != nil {
		return err
	}
	writes := make(map[string]*string, len(keys))
	for _, k := range keys {
		writes[k] = all[k]
	}
	if err := Apply(r.store, writes); err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			logger.Warn("Save rejected by storage quota", "keys", keys, "error", err)
		}
		return err
	}
	return nil
}

func timestamp(at time.Time) string {
	return at.UTC().Format(constants.TimestampFormat)
}

// AddIntake logs amount against the tracker for at's local day. The
// running intake counter restarts with the first entry of each day.
func (r *Repository) AddIntake(kind constants.TrackerKind, amount int, at time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	_, intakeKey, historyKey := constants.TrackerKeys(kind)
	day := models.DateKey(at)

	return r.update(func(s *models.Snapshot) error {
		t := s.Tracker(kind)
		if len(t.History[day]) == 0 {
			t.Intake = models.IntOf(0)
		}
		t.Intake = models.IntOf(t.Intake.Or(0) + amount)
		t.History[day] = append(t.History[day], models.IntakeEntry{
			Amount:    models.IntOf(amount),
			Timestamp: timestamp(at),
		})
		return nil
	}, intakeKey, historyKey)
}

func (r *Repository) SetGoal(kind constants.TrackerKind, goal int) error {
	if goal <= 0 {
		return fmt.Errorf("%w: goal must be positive", ErrInvalidInput)
	}
	goalKey, _, _ := constants.TrackerKeys(kind)
	return r.update(func(s *models.Snapshot) error {
		s.Tracker(kind).Goal = models.IntOf(goal)
		return nil
	}, goalKey)
}

// ResetIntake zeroes the counter and drops the entries logged on day.
func (r *Repository) ResetIntake(kind constants.TrackerKind, day string) error {
	_, intakeKey, historyKey := constants.TrackerKeys(kind)
	return r.update(func(s *models.Snapshot) error {
		t := s.Tracker(kind)
		t.Intake = models.IntOf(0)
		delete(t.History, day)
		return nil
	}, intakeKey, historyKey)
}

// LogWorkout records count repetitions of workoutType and marks it completed.
func (r *Repository) LogWorkout(workoutType string, count int, at time.Time) error {
	workoutType = strings.TrimSpace(workoutType)
	if workoutType == "" {
		return fmt.Errorf("%w: workout type cannot be empty", ErrInvalidInput)
	}
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", ErrInvalidInput)
	}
	day := models.DateKey(at)

	return r.update(func(s *models.Snapshot) error {
		w := &s.Workout
		st, ok := w.State[workoutType]
		if !ok {
			st.Order = models.IntOf(len(w.State))
		}
		st.Completed = true
		w.State[workoutType] = st
		w.Count[workoutType] = models.IntOf(w.Count[workoutType].Or(0) + count)
		w.History[day] = append(w.History[day], models.WorkoutEntry{
			Type:      workoutType,
			Count:     models.IntOf(count),
			Timestamp: timestamp(at),
		})
		return nil
	}, constants.KeyWorkoutState, constants.KeyWorkoutCount, constants.KeyWorkoutHistory)
}

// ToggleWorkout flips the completed flag, adding the type to the checklist if needed.
func (r *Repository) ToggleWorkout(workoutType string) (bool, error) {
	workoutType = strings.TrimSpace(workoutType)
	if workoutType == "" {
		return false, fmt.Errorf("%w: workout type cannot be empty", ErrInvalidInput)
	}
	var completed bool
	err := r.update(func(s *models.Snapshot) error {
		st, ok := s.Workout.State[workoutType]
		if !ok {
			st.Order = models.IntOf(len(s.Workout.State))
		}
		st.Completed = !st.Completed
		completed = st.Completed
		s.Workout.State[workoutType] = st
		return nil
	}, constants.KeyWorkoutState)
	return completed, err
}

// AddHabit appends a habit and returns its index. Names are stored in NFC
// so visually identical names compare equal.
func (r *Repository) AddHabit(name, color string) (int, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("%w: habit name cannot be empty", ErrInvalidInput)
	}
	if color != "" && !models.ValidColor(color) {
		return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidInput, color)
	}

	var idx int
	err := r.update(func(s *models.Snapshot) error {
		if len(s.Habits) >= constants.MaxHabitIndex {
			return fmt.Errorf("%w: at most %d habits", ErrInvalidInput, constants.MaxHabitIndex)
		}
		for _, h := range s.Habits {
			if h.Name == name {
				return fmt.Errorf("%w: habit %q already exists", ErrInvalidInput, name)
			}
		}
		idx = len(s.Habits)
		s.Habits = append(s.Habits, models.NewHabit(name, models.NormalizeColor(color)))
		return nil
	}, constants.KeyHabitsData)
	return idx, err
}

func checkHabit(s *models.Snapshot, index int) error {
	if index < 0 || index >= len(s.Habits) {
		return fmt.Errorf("%w: index %d", ErrHabitNotFound, index)
	}
	return nil
}

// MarkHabit records status for the habit at index on day.
func (r *Repository) MarkHabit(index int, day string, status models.Status) error {
	if !models.ValidDateKey(day) {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, day)
	}
	if status != models.StatusDone && status != models.StatusFail {
		return fmt.Errorf("%w: status must be %q or %q", ErrInvalidInput, models.StatusDone, models.StatusFail)
	}
	return r.update(func(s *models.Snapshot) error {
		if err := checkHabit(s, index); err != nil {
			return err
		}
		s.Habits[index].History[day] = status
		return nil
	}, constants.KeyHabitsData)
}

// RemoveHabit deletes the habit at index. Later habits shift down by one.
func (r *Repository) RemoveHabit(index int) (models.Habit, error) {
	var removed models.Habit
	err := r.update(func(s *models.Snapshot) error {
		if err := checkHabit(s, index); err != nil {
			return err
		}
		removed = s.Habits[index]
		s.Habits = append(s.Habits[:index], s.Habits[index+1:]...)
		return nil
	}, constants.KeyHabitsData)
	return removed, err
}

// FindHabit returns the index of the habit named name.
func (r *Repository) FindHabit(name string) (int, error) {
	snap, err := Read(r.store)
	if err != nil {
		return 0, err
	}
	name = norm.NFC.String(strings.TrimSpace(name))
	for i, h := range snap.Habits {
		if h.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrHabitNotFound, name)
}

// SetTheme stores a palette color. An empty tag clears the theme.
func (r *Repository) SetTheme(tag string) error {
	if tag != "" && !models.ValidColor(tag) {
		return fmt.Errorf("%w: unknown color %q", ErrInvalidInput, tag)
	}
	return r.update(func(s *models.Snapshot) error {
		s.Settings.Theme = tag
		return nil
	}, constants.KeyTheme)
}

// SetReminder sets the reminder interval in minutes. Zero turns reminders off.
func (r *Repository) SetReminder(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("%w: reminder interval cannot be negative", ErrInvalidInput)
	}
	return r.update(func(s *models.Snapshot) error {
		if minutes == 0 {
			s.Settings.Reminder = models.NullInt{}
		} else {
			s.Settings.Reminder = models.IntOf(minutes)
		}
		return nil
	}, constants.KeyReminderMinutes)
}

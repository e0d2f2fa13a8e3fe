// Package tracker maps the tracked data onto store keys and back.
package tracker

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage"
)

var intakeKinds = []constants.TrackerKind{constants.TrackerWater, constants.TrackerProtein}

// Read loads the full snapshot with a single All call so the result never
// mixes values from different moments. Malformed values read as empty.
func Read(store storage.Provider) (models.Snapshot, error) {
	entries, err := store.All()
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read store: %w", err)
	}
	return FromEntries(entries), nil
}

// FromEntries builds a snapshot from raw store entries.
func FromEntries(entries map[string]string) models.Snapshot {
	s := models.NewSnapshot()

	for _, kind := range intakeKinds {
		goalKey, intakeKey, historyKey := constants.TrackerKeys(kind)
		t := s.Tracker(kind)
		if v, ok := entries[goalKey]; ok {
			t.Goal = models.ParseOptionalInt(v)
		}
		if v, ok := entries[intakeKey]; ok {
			t.Intake = models.ParseOptionalInt(v)
		}
		decodeInto(entries, historyKey, &t.History)
	}

	decodeInto(entries, constants.KeyWorkoutState, &s.Workout.State)
	decodeInto(entries, constants.KeyWorkoutCount, &s.Workout.Count)
	decodeInto(entries, constants.KeyWorkoutHistory, &s.Workout.History)

	decodeInto(entries, constants.KeyHabitsData, &s.Habits)
	for i := range s.Habits {
		if s.Habits[i].History == nil {
			s.Habits[i].History = map[string]models.Status{}
		}
	}

	s.Settings.Theme = entries[constants.KeyTheme]
	if v, ok := entries[constants.KeyReminderMinutes]; ok {
		s.Settings.Reminder = models.ParseOptionalInt(v)
	}
	return s
}

// decodeInto unmarshals entries[key] over dst. A missing key leaves dst
// alone, as does JSON null; a malformed value is logged and ignored.
func decodeInto[T any](entries map[string]string, key string, dst *T) {
	raw, ok := entries[key]
	if !ok || raw == "null" {
		return
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger.Warn("Ignoring malformed stored value", "key", key, "error", err)
		return
	}
	*dst = v
}

// Writes returns the value each key should hold for s. A nil value means
// the key is deleted.
func Writes(s models.Snapshot) (map[string]*string, error) {
	out := map[string]*string{}

	scalar := func(key string, n models.NullInt) {
		if n.IsNull() {
			out[key] = nil
			return
		}
		v := n.String()
		out[key] = &v
	}
	var encErr error
	encode := func(key string, v any) {
		if encErr != nil {
			return
		}
		data, err := json.Marshal(v)
		if err != nil {
			encErr = fmt.Errorf("failed to encode %s: %w", key, err)
			return
		}
		str := string(data)
		out[key] = &str
	}

	for _, kind := range intakeKinds {
		goalKey, intakeKey, historyKey := constants.TrackerKeys(kind)
		t := s.Tracker(kind)
		scalar(goalKey, t.Goal)
		scalar(intakeKey, t.Intake)
		encode(historyKey, nonNilMap(t.History))
	}

	encode(constants.KeyWorkoutState, nonNilMap(s.Workout.State))
	encode(constants.KeyWorkoutCount, nonNilMap(s.Workout.Count))
	encode(constants.KeyWorkoutHistory, nonNilMap(s.Workout.History))

	habits := make([]models.Habit, len(s.Habits))
	for i, h := range s.Habits {
		h.History = nonNilMap(h.History)
		habits[i] = h
	}
	encode(constants.KeyHabitsData, habits)

	if s.Settings.Theme == "" {
		out[constants.KeyTheme] = nil
	} else {
		theme := s.Settings.Theme
		out[constants.KeyTheme] = &theme
	}
	scalar(constants.KeyReminderMinutes, s.Settings.Reminder)

	if encErr != nil {
		return nil, encErr
	}
	return out, nil
}

func nonNilMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}

// Apply performs writes against store in key order, stopping at the first failure.
func Apply(store storage.Provider, writes map[string]*string) error {
	keys := make([]string, 0, len(writes))
	for k := range writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var err error
		if v := writes[k]; v == nil {
			err = store.Delete(k)
		} else {
			err = store.Set(k, *v)
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", k, err)
		}
	}
	return nil
}

// Write stores every field of s.
func Write(store storage.Provider, s models.Snapshot) error {
	writes, err := Writes(s)
	if err != nil {
		return err
	}
	return Apply(store, writes)
}

// WriteSize is the number of bytes writes would occupy once applied.
func WriteSize(writes map[string]*string) int {
	n := 0
	for k, v := range writes {
		if v != nil {
			n += storage.EntrySize(k, *v)
		}
	}
	return n
}

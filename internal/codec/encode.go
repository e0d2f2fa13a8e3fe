// Package codec converts a tracker Snapshot to and from the flat CSV table
// used for backups.
//
// Every row has the same twelve columns (constants.CSVHeader). The data_type
// column names the row family; unused columns are empty.
package codec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/csvrow"
	"github.com/julianstephens/tracklit/internal/models"
)

var columnIndex = func() map[string]int {
	idx := make(map[string]int, len(constants.CSVHeader))
	for i, name := range constants.CSVHeader {
		idx[name] = i
	}
	return idx
}()

type row []string

func newRow(dataType string) row {
	r := make(row, len(constants.CSVHeader))
	r[columnIndex[constants.ColDataType]] = dataType
	return r
}

func (r row) set(col, value string) row {
	r[columnIndex[col]] = value
	return r
}

type encoder struct {
	lines []string
}

func (e *encoder) emit(r row) {
	e.lines = append(e.lines, csvrow.FormatRow(r))
}

// Encode serializes s into CSV text: the header followed by one row per
// record, joined with LF. Map-keyed sections are emitted in sorted key order
// so that output is deterministic.
func Encode(s models.Snapshot, exportedAt time.Time) string {
	e := &encoder{}
	e.lines = append(e.lines, csvrow.FormatRow(constants.CSVHeader))

	e.emit(newRow(constants.RowMeta).
		set(constants.ColKey, constants.MetaVersion).
		set(constants.ColValue, constants.ExportVersion))
	e.emit(newRow(constants.RowMeta).
		set(constants.ColKey, constants.MetaExportDate).
		set(constants.ColValue, exportedAt.UTC().Format(constants.TimestampFormat)))

	e.intake(constants.RowWater, constants.RowWaterHistory, s.Water)
	e.intake(constants.RowProtein, constants.RowProteinHistory, s.Protein)
	e.workout(s.Workout)
	e.habits(s.Habits)

	e.emit(newRow(constants.RowSettings).
		set(constants.ColKey, constants.SettingTheme).
		set(constants.ColValue, s.Settings.Theme))
	e.emit(newRow(constants.RowSettings).
		set(constants.ColKey, constants.SettingReminder).
		set(constants.ColValue, s.Settings.Reminder.String()))

	return strings.Join(e.lines, "\n")
}

func (e *encoder) intake(scalarType, historyType string, t models.IntakeTracker) {
	e.emit(newRow(scalarType).
		set(constants.ColKey, constants.FieldGoal).
		set(constants.ColValue, t.Goal.String()))
	e.emit(newRow(scalarType).
		set(constants.ColKey, constants.FieldIntake).
		set(constants.ColValue, t.Intake.String()))

	for _, date := range sortedKeys(t.History) {
		for i, entry := range t.History[date] {
			e.emit(newRow(historyType).
				set(constants.ColKey, fmt.Sprintf("%s_%d", date, i)).
				set(constants.ColDate, date).
				set(constants.ColAmount, entry.Amount.String()).
				set(constants.ColTimestamp, entry.Timestamp))
		}
	}
}

func (e *encoder) workout(w models.WorkoutTracker) {
	for _, typ := range sortedKeys(w.State) {
		st := w.State[typ]
		e.emit(newRow(constants.RowWorkoutState).
			set(constants.ColKey, typ).
			set(constants.ColType, typ).
			set(constants.ColCompleted, strconv.FormatBool(st.Completed)).
			set(constants.ColOrder, st.Order.String()))
	}

	for _, typ := range sortedKeys(w.Count) {
		e.emit(newRow(constants.RowWorkoutCount).
			set(constants.ColKey, typ).
			set(constants.ColType, typ).
			set(constants.ColCount, w.Count[typ].String()))
	}

	for _, date := range sortedKeys(w.History) {
		for i, entry := range w.History[date] {
			e.emit(newRow(constants.RowWorkoutHistory).
				set(constants.ColKey, fmt.Sprintf("%s_%d", date, i)).
				set(constants.ColDate, date).
				set(constants.ColTimestamp, entry.Timestamp).
				set(constants.ColType, entry.Type).
				set(constants.ColCount, entry.Count.String()))
		}
	}
}

func (e *encoder) habits(habits []models.Habit) {
	for i, h := range habits {
		e.emit(newRow(constants.RowHabit).
			set(constants.ColKey, strconv.Itoa(i)).
			set(constants.ColName, h.Name).
			set(constants.ColColor, h.Color))
	}

	for i, h := range habits {
		for _, date := range sortedKeys(h.History) {
			e.emit(newRow(constants.RowHabitHistory).
				set(constants.ColKey, fmt.Sprintf("%d_%s", i, date)).
				set(constants.ColValue, string(h.History[date])).
				set(constants.ColDate, date))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

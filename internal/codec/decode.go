package codec

import (
	"strconv"
	"strings"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/csvrow"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
)

const utf8BOM = "\ufeff"

type decoder struct {
	header   map[string]int
	snapshot models.Snapshot
	skipped  int
}

// Decode parses CSV text produced by Encode back into a Snapshot.
//
// Rows are dispatched on data_type; unknown types and blank lines are
// ignored. Integer columns that fail to parse become NaN rather than errors.
// A FormatError is returned when the text has no data rows or the header
// lacks a required column.
func Decode(text string) (models.Snapshot, error) {
	lines := csvrow.Lines(strings.TrimPrefix(text, utf8BOM))
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 2 {
		return models.Snapshot{}, &FormatError{Reason: "expected a header row and at least one data row"}
	}

	d := &decoder{
		header:   make(map[string]int),
		snapshot: models.NewSnapshot(),
	}
	for i, name := range csvrow.ParseRow(lines[0]) {
		d.header[strings.TrimSpace(name)] = i
	}
	for _, col := range constants.CSVHeader {
		if _, ok := d.header[col]; !ok {
			return models.Snapshot{}, &FormatError{Line: 1, Reason: "missing column " + strconv.Quote(col)}
		}
	}

	for n, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		d.dispatch(n+2, csvrow.ParseRow(line))
	}

	if d.skipped > 0 {
		logger.Debug("Skipped CSV rows during decode", "count", d.skipped)
	}
	return d.snapshot, nil
}

func (d *decoder) get(fields []string, col string) string {
	i := d.header[col]
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

func (d *decoder) dispatch(lineNo int, f []string) {
	s := &d.snapshot
	switch dataType := d.get(f, constants.ColDataType); dataType {
	case constants.RowMeta:
		// informational only
	case constants.RowWater:
		d.intakeScalar(&s.Water, f)
	case constants.RowProtein:
		d.intakeScalar(&s.Protein, f)
	case constants.RowWaterHistory:
		d.intakeHistory(&s.Water, f)
	case constants.RowProteinHistory:
		d.intakeHistory(&s.Protein, f)
	case constants.RowWorkoutState:
		s.Workout.State[d.get(f, constants.ColType)] = models.WorkoutState{
			Completed: d.get(f, constants.ColCompleted) == "true",
			Order:     models.ParseInt(d.get(f, constants.ColOrder)),
		}
	case constants.RowWorkoutCount:
		s.Workout.Count[d.get(f, constants.ColType)] = models.ParseInt(d.get(f, constants.ColCount))
	case constants.RowWorkoutHistory:
		date := d.get(f, constants.ColDate)
		s.Workout.History[date] = append(s.Workout.History[date], models.WorkoutEntry{
			Type:      d.get(f, constants.ColType),
			Count:     models.ParseInt(d.get(f, constants.ColCount)),
			Timestamp: d.get(f, constants.ColTimestamp),
		})
	case constants.RowHabit:
		idx, ok := habitIndex(d.get(f, constants.ColKey))
		if !ok {
			d.skip(lineNo, dataType)
			return
		}
		h := d.habit(idx)
		h.Name = d.get(f, constants.ColName)
		h.Color = d.get(f, constants.ColColor)
	case constants.RowHabitHistory:
		key := d.get(f, constants.ColKey)
		sep := strings.IndexByte(key, '_')
		if sep < 0 {
			d.skip(lineNo, dataType)
			return
		}
		idx, ok := habitIndex(key[:sep])
		if !ok {
			d.skip(lineNo, dataType)
			return
		}
		d.habit(idx).History[key[sep+1:]] = models.Status(d.get(f, constants.ColValue))
	case constants.RowSettings:
		value := d.get(f, constants.ColValue)
		switch d.get(f, constants.ColKey) {
		case constants.SettingTheme:
			s.Settings.Theme = value
		case constants.SettingReminder:
			s.Settings.Reminder = models.ParseOptionalInt(value)
		}
	default:
		d.skip(lineNo, dataType)
	}
}

func (d *decoder) intakeScalar(t *models.IntakeTracker, f []string) {
	value := d.get(f, constants.ColValue)
	switch d.get(f, constants.ColKey) {
	case constants.FieldGoal:
		t.Goal = models.ParseOptionalInt(value)
	case constants.FieldIntake:
		t.Intake = models.ParseOptionalInt(value)
	}
}

func (d *decoder) intakeHistory(t *models.IntakeTracker, f []string) {
	date := d.get(f, constants.ColDate)
	t.History[date] = append(t.History[date], models.IntakeEntry{
		Amount:    models.ParseInt(d.get(f, constants.ColAmount)),
		Timestamp: d.get(f, constants.ColTimestamp),
	})
}

// habit returns the habit at idx, padding the list with empty placeholders
// so that rows may arrive in any order.
func (d *decoder) habit(idx int) *models.Habit {
	for len(d.snapshot.Habits) <= idx {
		d.snapshot.Habits = append(d.snapshot.Habits, models.Habit{History: make(map[string]models.Status)})
	}
	h := &d.snapshot.Habits[idx]
	if h.History == nil {
		h.History = make(map[string]models.Status)
	}
	return h
}

func (d *decoder) skip(lineNo int, dataType string) {
	d.skipped++
	logger.Debug("Ignoring CSV row", "line", lineNo, "data_type", dataType)
}

func habitIndex(s string) (int, bool) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 || idx >= constants.MaxHabitIndex {
		return 0, false
	}
	return idx, true
}

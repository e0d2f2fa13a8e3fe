package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/models"
)

var exportedAt = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

func fullSnapshot() models.Snapshot {
	s := models.NewSnapshot()
	s.Water.Goal = models.IntOf(2000)
	s.Water.Intake = models.IntOf(750)
	s.Water.History["2024-01-01"] = []models.IntakeEntry{
		{Amount: models.IntOf(250), Timestamp: "2024-01-01T08:00:00.000Z"},
		{Amount: models.IntOf(500), Timestamp: "2024-01-01T12:30:00.000Z"},
	}
	s.Protein.Goal = models.IntOf(120)
	s.Protein.History["2024-01-02"] = []models.IntakeEntry{
		{Amount: models.IntOf(30), Timestamp: "2024-01-02T09:15:00.000Z"},
	}
	s.Workout.State["pushups"] = models.WorkoutState{Completed: true, Order: models.IntOf(0)}
	s.Workout.State["squats"] = models.WorkoutState{Completed: false, Order: models.IntOf(1)}
	s.Workout.Count["pushups"] = models.IntOf(40)
	s.Workout.Count["squats"] = models.IntOf(0)
	s.Workout.History["2024-01-01"] = []models.WorkoutEntry{
		{Type: "pushups", Count: models.IntOf(20), Timestamp: "2024-01-01T07:00:00.000Z"},
	}
	read := models.NewHabit("Read, 20 pages", "green")
	read.History["2024-01-01"] = models.StatusDone
	read.History["2024-01-02"] = models.StatusFail
	s.Habits = []models.Habit{read, models.NewHabit(`Say "no"`, constants.DefaultColor)}
	s.Settings.Theme = "violet"
	s.Settings.Reminder = models.IntOf(45)
	return s
}

func TestEncode_Golden(t *testing.T) {
	out := Encode(fullSnapshot(), exportedAt)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "full_snapshot", []byte(out))
}

func TestEncode_RowShape(t *testing.T) {
	out := Encode(fullSnapshot(), exportedAt)
	lines := strings.Split(out, "\n")

	if lines[0] != strings.Join(constants.CSVHeader, ",") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("output must not end with a newline")
	}
	if strings.Contains(out, "\r") {
		t.Error("output must use LF line endings")
	}

	order := []string{
		constants.RowMeta, constants.RowWater, constants.RowWaterHistory,
		constants.RowProtein, constants.RowProteinHistory,
		constants.RowWorkoutState, constants.RowWorkoutCount, constants.RowWorkoutHistory,
		constants.RowHabit, constants.RowHabitHistory, constants.RowSettings,
	}
	rank := make(map[string]int, len(order))
	for i, typ := range order {
		rank[typ] = i
	}

	last := -1
	for _, line := range lines[1:] {
		typ := line[:strings.IndexByte(line, ',')]
		r, ok := rank[typ]
		if !ok {
			t.Fatalf("unexpected row family %q", typ)
		}
		if r < last {
			t.Errorf("row family %q emitted out of order", typ)
		}
		last = r
	}
}

func TestEncode_EmptySnapshot(t *testing.T) {
	out := Encode(models.NewSnapshot(), exportedAt)
	lines := strings.Split(out, "\n")

	// header, 2 meta, 2 water, 2 protein, 2 settings
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), out)
	}
	if lines[4] != "water,intake,,,,,,,,,," {
		t.Errorf("null intake should encode as empty value, got %q", lines[4])
	}
}

func TestRoundTrip(t *testing.T) {
	want := fullSnapshot()
	got, err := Decode(Encode(want, exportedAt))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !reflect.DeepEqual(got.Water, want.Water) {
		t.Errorf("water mismatch:\n got %+v\nwant %+v", got.Water, want.Water)
	}
	if !reflect.DeepEqual(got.Protein, want.Protein) {
		t.Errorf("protein mismatch:\n got %+v\nwant %+v", got.Protein, want.Protein)
	}
	if !reflect.DeepEqual(got.Workout, want.Workout) {
		t.Errorf("workout mismatch:\n got %+v\nwant %+v", got.Workout, want.Workout)
	}
	if !reflect.DeepEqual(got.Habits, want.Habits) {
		t.Errorf("habits mismatch:\n got %+v\nwant %+v", got.Habits, want.Habits)
	}
	if got.Settings != want.Settings {
		t.Errorf("settings mismatch: got %+v want %+v", got.Settings, want.Settings)
	}
}

func TestRoundTrip_NullConventions(t *testing.T) {
	s := models.NewSnapshot()
	s.Water.History["2024-05-05"] = []models.IntakeEntry{{Timestamp: "t"}}
	s.Workout.State["plank"] = models.WorkoutState{}

	got, err := Decode(Encode(s, exportedAt))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// Null goals and reminders come back null...
	if !got.Water.Goal.IsNull() || !got.Water.Intake.IsNull() || !got.Settings.Reminder.IsNull() {
		t.Errorf("expected null scalars, got goal=%+v intake=%+v reminder=%+v",
			got.Water.Goal, got.Water.Intake, got.Settings.Reminder)
	}
	// ...but null amounts and orders come back NaN.
	if amt := got.Water.History["2024-05-05"][0].Amount; !amt.NaN {
		t.Errorf("expected NaN amount, got %+v", amt)
	}
	if order := got.Workout.State["plank"].Order; !order.NaN {
		t.Errorf("expected NaN order, got %+v", order)
	}
}

func TestDecode_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header only", strings.Join(constants.CSVHeader, ",")},
		{"header with trailing blank lines", strings.Join(constants.CSVHeader, ",") + "\n\n  \n"},
		{"missing column", "data_type,key,value\nwater,goal,100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("expected *FormatError, got %T", err)
			}
		})
	}
}

func csvOf(rows ...string) string {
	return strings.Join(append([]string{strings.Join(constants.CSVHeader, ",")}, rows...), "\n")
}

func TestDecode_OutOfOrderHabits(t *testing.T) {
	in := csvOf(
		"habit_history,2_2024-01-01,done,2024-01-01,,,,,,,,",
		"habit,0,,,,,,,Walk,green,,",
	)

	s, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s.Habits) != 3 {
		t.Fatalf("expected 3 habits, got %d", len(s.Habits))
	}
	if s.Habits[0].Name != "Walk" || s.Habits[0].Color != "green" {
		t.Errorf("habit 0 = %+v", s.Habits[0])
	}
	if s.Habits[1].Name != "" || len(s.Habits[1].History) != 0 || s.Habits[1].History == nil {
		t.Errorf("habit 1 should be an empty placeholder, got %+v", s.Habits[1])
	}
	if s.Habits[2].History["2024-01-01"] != models.StatusDone {
		t.Errorf("habit 2 history = %+v", s.Habits[2].History)
	}
}

func TestDecode_PlaceholdersBeforeOwnRows(t *testing.T) {
	in := csvOf("habit_history,2_2024-01-01,done,2024-01-01,,,,,,,,")

	s, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s.Habits) != 3 {
		t.Fatalf("expected 3 habits, got %d", len(s.Habits))
	}
	for i := 0; i < 2; i++ {
		if s.Habits[i].Name != "" || len(s.Habits[i].History) != 0 {
			t.Errorf("habit %d should be default-initialized, got %+v", i, s.Habits[i])
		}
	}
}

func TestDecode_Tolerance(t *testing.T) {
	in := csvOf(
		"",
		"future_family,x,y,,,,,,,,,",
		"water_history,k,,2024-01-01,abc,ts,,,,,,",
		"  ",
		"workout_state,,,,,,run,,,,yes,",
		"habit,notanumber,,,,,,,Bad,red,,",
		"habit,99999,,,,,,,Huge,red,,",
		"habit_history,nounderscore,done,,,,,,,,,",
		"water,goal,12x,,,,,,,,,",
	)

	s, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if e := s.Water.History["2024-01-01"]; len(e) != 1 || !e[0].Amount.NaN {
		t.Errorf("expected a NaN amount entry, got %+v", e)
	}
	if st := s.Workout.State["run"]; st.Completed || !st.Order.NaN {
		t.Errorf("completed must only accept \"true\" and order must be NaN, got %+v", st)
	}
	if len(s.Habits) != 0 {
		t.Errorf("invalid habit rows should be ignored, got %d habits", len(s.Habits))
	}
	if !s.Water.Goal.NaN {
		t.Errorf("malformed goal should be NaN, got %+v", s.Water.Goal)
	}
}

func TestDecode_CRLFAndBOM(t *testing.T) {
	in := "\ufeff" + strings.ReplaceAll(Encode(fullSnapshot(), exportedAt), "\n", "\r\n") + "\r\n"

	s, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Settings.Theme != "violet" {
		t.Errorf("theme = %q, want violet", s.Settings.Theme)
	}
	if len(s.Habits) != 2 || s.Habits[1].Name != `Say "no"` {
		t.Errorf("unexpected habits: %+v", s.Habits)
	}
}

func TestDecode_HabitHistorySplitsAtFirstUnderscore(t *testing.T) {
	in := csvOf("habit_history,0_odd_key,done,,,,,,,,,")

	s, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Habits[0].History["odd_key"] != models.StatusDone {
		t.Errorf("expected date part %q, got %+v", "odd_key", s.Habits[0].History)
	}
}

func TestDecode_ColumnsByHeaderName(t *testing.T) {
	header := []string{"order", "completed", "color", "name", "count", "type", "timestamp", "amount", "date", "value", "key", "data_type"}
	in := strings.Join(header, ",") + "\n" + ",,,,,,,,,2500,goal,water"

	s, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Water.Goal != models.IntOf(2500) {
		t.Errorf("goal = %+v, want 2500", s.Water.Goal)
	}
}

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/julianstephens/tracklit/internal/constants"
)

func TestNullInt_String(t *testing.T) {
	tests := []struct {
		name string
		in   NullInt
		want string
	}{
		{"valid", IntOf(250), "250"},
		{"zero", IntOf(0), "0"},
		{"negative", IntOf(-3), "-3"},
		{"null", NullInt{}, ""},
		{"nan", NaN, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want NullInt
	}{
		{"42", IntOf(42)},
		{" 7 ", IntOf(7)},
		{"", NaN},
		{"abc", NaN},
		{"NaN", NaN},
		{"1.5", NaN},
	}

	for _, tt := range tests {
		if got := ParseInt(tt.in); got != tt.want {
			t.Errorf("ParseInt(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseOptionalInt(t *testing.T) {
	if got := ParseOptionalInt(""); !got.IsNull() {
		t.Errorf("ParseOptionalInt(\"\") = %+v, want null", got)
	}
	if got := ParseOptionalInt("x"); !got.NaN {
		t.Errorf("ParseOptionalInt(\"x\") = %+v, want NaN", got)
	}
	if got := ParseOptionalInt("2000"); got != IntOf(2000) {
		t.Errorf("ParseOptionalInt(\"2000\") = %+v, want 2000", got)
	}
}

func TestNullInt_JSON(t *testing.T) {
	entry := IntakeEntry{Amount: NaN, Timestamp: "2024-01-01T08:00:00.000Z"}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"amount":null,"timestamp":"2024-01-01T08:00:00.000Z"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var back IntakeEntry
	if err := json.Unmarshal([]byte(`{"amount":300,"timestamp":"t"}`), &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Amount != IntOf(300) {
		t.Errorf("Amount = %+v, want 300", back.Amount)
	}

	if err := json.Unmarshal([]byte(`{"amount":null}`), &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !back.Amount.IsNull() {
		t.Errorf("Amount = %+v, want null", back.Amount)
	}
}

func TestDateKeyArithmetic(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-10", 1, "2024-03-11"},
		{"2024-01-01", -1, "2023-12-31"},
	}

	for _, tt := range tests {
		got, err := AddDays(tt.key, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d) error: %v", tt.key, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.key, tt.n, got, tt.want)
		}
	}

	if _, err := AddDays("2024-13-01", 1); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestValidDateKey(t *testing.T) {
	valid := []string{"2024-01-01", "2024-02-29"}
	invalid := []string{"", "2024-1-1", "2023-02-29", "01/02/2024", "2024-01-01T00:00"}

	for _, k := range valid {
		if !ValidDateKey(k) {
			t.Errorf("ValidDateKey(%q) = false, want true", k)
		}
	}
	for _, k := range invalid {
		if ValidDateKey(k) {
			t.Errorf("ValidDateKey(%q) = true, want false", k)
		}
	}
}

func TestDateKeyUsesLocalDate(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	if got := DateKey(ts); got != "2024-06-01" {
		t.Errorf("DateKey() = %s, want 2024-06-01", got)
	}
}

func TestHabitStatusDefaultsToFail(t *testing.T) {
	h := NewHabit("Read", "green")
	h.History["2024-01-01"] = StatusDone

	if !h.DoneOn("2024-01-01") {
		t.Error("expected done on 2024-01-01")
	}
	if got := h.StatusOn("2024-01-02"); got != StatusFail {
		t.Errorf("StatusOn(missing) = %s, want fail", got)
	}
}

func TestIntakeTracker_TotalOn(t *testing.T) {
	s := NewSnapshot()
	water := s.Tracker(constants.TrackerWater)
	water.History["2024-01-01"] = []IntakeEntry{
		{Amount: IntOf(250)},
		{Amount: NaN},
		{Amount: IntOf(500)},
	}

	if got := s.Water.TotalOn("2024-01-01"); got != 750 {
		t.Errorf("TotalOn() = %d, want 750", got)
	}
	if got := s.Water.TotalOn("2024-01-02"); got != 0 {
		t.Errorf("TotalOn(empty day) = %d, want 0", got)
	}
}

func TestColorHelpers(t *testing.T) {
	if got := NormalizeColor("nope"); got != constants.DefaultColor {
		t.Errorf("NormalizeColor(unknown) = %s, want default", got)
	}
	if got := ColorHex("red"); got != constants.Palette["red"] {
		t.Errorf("ColorHex(red) = %s", got)
	}
	if len(ColorNames()) < 20 {
		t.Errorf("palette has %d colors, want at least 20", len(ColorNames()))
	}
}

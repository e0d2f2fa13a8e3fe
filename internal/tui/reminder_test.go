package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/internal/tracker"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestModel(t *testing.T) (ReminderModel, *testClock, *[]string) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)}
	sent := &[]string{}
	repo := tracker.New(storage.NewMemoryStore(0))
	if err := repo.SetGoal(constants.TrackerWater, 1000); err != nil {
		t.Fatal(err)
	}
	m, err := NewReminderModel(ReminderOptions{
		Repo:     repo,
		Interval: 10 * time.Minute,
		Message:  "Drink up",
		Notify: func(text string) error {
			*sent = append(*sent, text)
			return nil
		},
		Now: clock.Now,
	})
	if err != nil {
		t.Fatalf("NewReminderModel failed: %v", err)
	}
	return m, clock, sent
}

func update(t *testing.T, m ReminderModel, msg tea.Msg) ReminderModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(ReminderModel)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReminderFiresOnTick(t *testing.T) {
	m, clock, sent := newTestModel(t)

	clock.t = clock.t.Add(5 * time.Minute)
	m = update(t, m, tickMsg(clock.t))
	if len(*sent) != 0 {
		t.Fatalf("reminder fired early: %v", *sent)
	}
	if !strings.Contains(m.View(), "05:00") {
		t.Errorf("view should show 05:00 remaining:\n%s", m.View())
	}

	clock.t = clock.t.Add(5 * time.Minute)
	m = update(t, m, tickMsg(clock.t))
	if len(*sent) != 1 || (*sent)[0] != "Drink up" {
		t.Errorf("sent = %v", *sent)
	}
	if !strings.Contains(m.View(), "Reminders sent: 1") {
		t.Errorf("view should count the reminder:\n%s", m.View())
	}
}

func TestReminderLogKeyAddsWater(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = update(t, m, keyMsg("w"))
	if m.water != GlassML {
		t.Errorf("water = %d, want %d", m.water, GlassML)
	}
	if !strings.Contains(m.View(), "of 1000 ml") {
		t.Errorf("view should show the goal:\n%s", m.View())
	}
}

func TestReminderPauseAndSnooze(t *testing.T) {
	m, clock, sent := newTestModel(t)

	m = update(t, m, keyMsg("p"))
	clock.t = clock.t.Add(time.Hour)
	m = update(t, m, tickMsg(clock.t))
	if len(*sent) != 0 {
		t.Error("paused reminder must not fire")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view should say paused")
	}

	m = update(t, m, keyMsg("p"))
	clock.t = clock.t.Add(9 * time.Minute)
	m = update(t, m, keyMsg("s"))
	clock.t = clock.t.Add(9 * time.Minute)
	m = update(t, m, tickMsg(clock.t))
	if len(*sent) != 0 {
		t.Error("snooze should restart the full interval")
	}
	if m.sched.Len() != 1 {
		t.Errorf("expected one scheduled task, got %d", m.sched.Len())
	}
}

func TestReminderQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if next.(ReminderModel).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestReminderRejectsZeroInterval(t *testing.T) {
	if _, err := NewReminderModel(ReminderOptions{}); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{90 * time.Second, "01:30"},
		{time.Hour + 5*time.Second, "1:00:05"},
	}
	for _, tt := range tests {
		if got := formatRemaining(tt.d); got != tt.want {
			t.Errorf("formatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

package habits

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/sqlite"
	"github.com/julianstephens/tracklit/internal/tracker"
)

var fixedNow = time.Date(2024, 3, 10, 21, 0, 0, 0, time.Local)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"), 0)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store: store,
		Out:   out,
		Now:   func() time.Time { return fixedNow },
	}, out
}

func addHabits(t *testing.T, ctx *cli.Context, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := (&HabitAddCmd{Name: name, Color: "green"}).Run(ctx); err != nil {
			t.Fatalf("add %q failed: %v", name, err)
		}
	}
}

func TestHabitAddCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabits(t, ctx, "Read")

	if !strings.Contains(out.String(), "Added habit #1: Read") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if err := (&HabitAddCmd{Name: "Read"}).Run(ctx); err == nil {
		t.Error("expected duplicate name to fail")
	}
	if err := (&HabitAddCmd{Name: "Walk", Color: "plaid"}).Run(ctx); err == nil {
		t.Error("expected unknown color to fail")
	}
}

func TestResolve(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabits(t, ctx, "Read", "Walk")

	tests := []struct {
		ref     string
		want    int
		wantErr bool
	}{
		{"Walk", 1, false},
		{"1", 0, false},
		{" 2 ", 1, false},
		{"3", 0, true},
		{"0", 0, true},
		{"Swim", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			idx, _, err := resolve(ctx, tt.ref)
			if tt.wantErr {
				if !errors.Is(err, tracker.ErrHabitNotFound) {
					t.Errorf("expected ErrHabitNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx != tt.want {
				t.Errorf("expected index %d, got %d", tt.want, idx)
			}
		})
	}
}

func TestHabitMarkAndStreaks(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabits(t, ctx, "Read")

	for _, day := range []string{"2024-03-08", "2024-03-09", ""} {
		if err := (&HabitMarkCmd{Habit: "Read", Date: day}).Run(ctx); err != nil {
			t.Fatalf("mark %q failed: %v", day, err)
		}
	}
	if err := (&HabitMarkCmd{Habit: "Read", Date: "2024-03-05", Fail: true}).Run(ctx); err != nil {
		t.Fatalf("mark fail failed: %v", err)
	}

	snap, _ := ctx.Repo().Snapshot()
	h := snap.Habits[0]
	if h.StatusOn("2024-03-10") != models.StatusDone {
		t.Error("expected today marked done")
	}
	if h.StatusOn("2024-03-05") != models.StatusFail {
		t.Error("expected 2024-03-05 marked fail")
	}

	out.Reset()
	if err := (&HabitStreaksCmd{Habit: "Read", Min: 2}).Run(ctx); err != nil {
		t.Fatalf("streaks failed: %v", err)
	}
	if !strings.Contains(out.String(), "Longest: 3 days") {
		t.Errorf("unexpected streaks output:\n%s", out.String())
	}

	out.Reset()
	if err := (&HabitStreaksCmd{Min: 2}).Run(ctx); err != nil {
		t.Fatalf("streaks failed: %v", err)
	}
	if !strings.Contains(out.String(), "current 3 days") {
		t.Errorf("unexpected summary output:\n%s", out.String())
	}

	if err := (&HabitMarkCmd{Habit: "Read", Date: "yesterday"}).Run(ctx); err == nil {
		t.Error("expected invalid date to fail")
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&HabitListCmd{Days: 7}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits yet") {
		t.Errorf("unexpected empty output:\n%s", out.String())
	}

	addHabits(t, ctx, "Read", "Walk")
	out.Reset()
	if err := (&HabitListCmd{Days: 3}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"2024-03-08 to 2024-03-10", "1  ", "Read", "Walk"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}
}

func TestHabitRemoveCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabits(t, ctx, "Read", "Walk", "Swim")

	ctx.Confirm = func(string, string) (bool, error) { return false, nil }
	if err := (&HabitRemoveCmd{Habit: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	snap, _ := ctx.Repo().Snapshot()
	if len(snap.Habits) != 3 {
		t.Fatalf("declined remove should keep habits, got %d", len(snap.Habits))
	}

	ctx.Confirm = func(string, string) (bool, error) { return true, nil }
	if err := (&HabitRemoveCmd{Habit: "2"}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	snap, _ = ctx.Repo().Snapshot()
	if len(snap.Habits) != 2 || snap.Habits[1].Name != "Swim" {
		t.Errorf("expected [Read Swim], got %+v", snap.Habits)
	}
}

package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/keyring"
	"github.com/julianstephens/tracklit/internal/migration"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/sqlite"
	"github.com/julianstephens/tracklit/internal/tracker"
	"github.com/julianstephens/tracklit/migrations"
)

// errSkipped marks a check that does not apply to the current store.
var errSkipped = errors.New("not applicable")

type check struct {
	name    string
	warning bool // failures are reported but do not fail the run
	run     func(ctx *cli.Context, entries map[string]string) error
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Storage quota", warning: true, run: checkQuota},
	{name: "Stored values", run: checkValues},
	{name: "Habit integrity", run: checkHabits},
	{name: "Backups present", warning: true, run: checkBackups},
	{name: "OS keyring", warning: true, run: checkKeyring},
	{name: "Clock/timezone", run: checkClock},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	entries, err := ctx.Store.All()
	if err != nil {
		ctx.Println("❌ Storage reachable: FAIL")
		ctx.Printf("   Error: %v\n", err)
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("✓ Storage reachable: OK")

	hasError := false
	for _, c := range checks {
		err := c.run(ctx, entries)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warning:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context, _ map[string]string) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("%w: not a SQLite store", errSkipped)
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	runner := migration.NewRunner(store.GetDB(), sub, migration.SQLite)
	if err := runner.Validate(); err != nil {
		return err
	}
	current, err := runner.CurrentVersion()
	if err != nil {
		return err
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d, latest %d; reload the store to migrate", current, latest)
	}
	return nil
}

func checkQuota(ctx *cli.Context, _ map[string]string) error {
	capacity := ctx.Store.Capacity()
	if capacity <= 0 {
		return nil
	}
	usage, err := ctx.Store.Usage()
	if err != nil {
		return err
	}
	if usage*10 >= capacity*9 {
		return fmt.Errorf("%d of %d bytes used; consider 'tracklit prune'", usage, capacity)
	}
	return nil
}

var jsonKeys = []string{
	constants.KeyWaterHistory, constants.KeyProteinHistory,
	constants.KeyWorkoutState, constants.KeyWorkoutCount, constants.KeyWorkoutHistory,
	constants.KeyHabitsData,
}

var intKeys = []string{
	constants.KeyWaterGoal, constants.KeyWaterIntake,
	constants.KeyProteinGoal, constants.KeyProteinIntake,
	constants.KeyReminderMinutes,
}

// checkValues reports stored values that reads would silently ignore.
func checkValues(_ *cli.Context, entries map[string]string) error {
	var errs []error
	for _, k := range jsonKeys {
		if v, ok := entries[k]; ok && !json.Valid([]byte(v)) {
			errs = append(errs, fmt.Errorf("%s is not valid JSON", k))
		}
	}
	for _, k := range intKeys {
		v, ok := entries[k]
		if !ok || v == "NaN" {
			continue
		}
		if _, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("%s is not an integer: %q", k, v))
		}
	}
	if v, ok := entries[constants.KeyTheme]; ok && !models.ValidColor(v) {
		errs = append(errs, fmt.Errorf("theme %q is not a palette color", v))
	}
	return errors.Join(errs...)
}

func checkHabits(_ *cli.Context, entries map[string]string) error {
	snap := tracker.FromEntries(entries)
	seen := make(map[string]int, len(snap.Habits))
	var errs []error
	for i, h := range snap.Habits {
		if j, dup := seen[h.Name]; dup {
			errs = append(errs, fmt.Errorf("habits #%d and #%d share the name %q", j+1, i+1, h.Name))
		}
		seen[h.Name] = i
		for day, status := range h.History {
			if !models.ValidDateKey(day) {
				errs = append(errs, fmt.Errorf("habit %q has an invalid date %q", h.Name, day))
			}
			if status != models.StatusDone && status != models.StatusFail {
				errs = append(errs, fmt.Errorf("habit %q has an unknown status %q on %s", h.Name, status, day))
			}
		}
	}
	return errors.Join(errs...)
}

func checkBackups(ctx *cli.Context, _ map[string]string) error {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return fmt.Errorf("%w: not a SQLite store", errSkipped)
	}
	latest, err := mgr.Latest()
	if err != nil {
		return fmt.Errorf("%v in %s; run 'tracklit backup create'", err, mgr.Dir())
	}
	if age := ctx.Time().Sub(latest.Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkKeyring(_ *cli.Context, _ map[string]string) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClock(ctx *cli.Context, _ map[string]string) error {
	now := ctx.Time()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reads %s", now.Format(time.RFC3339))
	}
	if _, err := models.ParseDateKey(ctx.Today()); err != nil {
		return err
	}
	return nil
}

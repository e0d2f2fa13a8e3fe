// Package intake holds the water and protein tracker commands. Both trackers
// share one command tree; the parent command binds which one is in use.
package intake

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/streak"
)

type TrackerCmd struct {
	Add     AddCmd     `cmd:"" help:"Log an amount."`
	Goal    GoalCmd    `cmd:"" help:"Set the daily goal."`
	Reset   ResetCmd   `cmd:"" help:"Reset the intake counter and clear a day's entries."`
	Status  StatusCmd  `cmd:"" help:"Show progress toward the daily goal." default:"1"`
	Streaks StreaksCmd `cmd:"" help:"Show runs of days that met the goal."`
}

type WaterCmd struct {
	TrackerCmd `embed:""`
}

func (c *WaterCmd) AfterApply(kctx *kong.Context) error {
	kctx.Bind(constants.TrackerWater)
	return nil
}

type ProteinCmd struct {
	TrackerCmd `embed:""`
}

func (c *ProteinCmd) AfterApply(kctx *kong.Context) error {
	kctx.Bind(constants.TrackerProtein)
	return nil
}

type AddCmd struct {
	Amount int `arg:"" help:"Amount in ml (water) or g (protein)."`
}

func (c *AddCmd) Run(ctx *cli.Context, kind constants.TrackerKind) error {
	now := ctx.Time()
	if err := ctx.Repo().AddIntake(kind, c.Amount, now); err != nil {
		return fmt.Errorf("failed to log %s: %w", kind, err)
	}
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	t := snap.Tracker(kind)
	unit := cli.Unit(kind)
	ctx.Printf("✓ Logged %d %s of %s (%d/%d %s today)\n",
		c.Amount, unit, kind, t.TotalOn(models.DateKey(now)), t.Goal.Or(0), unit)
	return nil
}

type GoalCmd struct {
	Goal int `arg:"" help:"Daily goal in ml (water) or g (protein)."`
}

func (c *GoalCmd) Run(ctx *cli.Context, kind constants.TrackerKind) error {
	if err := ctx.Repo().SetGoal(kind, c.Goal); err != nil {
		return fmt.Errorf("failed to set %s goal: %w", kind, err)
	}
	ctx.Printf("✓ %s goal set to %d %s\n", kind, c.Goal, cli.Unit(kind))
	return nil
}

type ResetCmd struct {
	Date string `help:"Day to clear (YYYY-MM-DD). Defaults to today."`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context, kind constants.TrackerKind) error {
	day := c.Date
	if day == "" {
		day = ctx.Today()
	}
	if !models.ValidDateKey(day) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", day)
	}
	ok, err := ctx.Ask(c.Yes, fmt.Sprintf("Reset %s for %s?", kind, day), "The day's entries will be deleted.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Reset cancelled.")
		return nil
	}
	if err := ctx.Repo().ResetIntake(kind, day); err != nil {
		return fmt.Errorf("failed to reset %s: %w", kind, err)
	}
	ctx.Printf("✓ %s reset for %s\n", kind, day)
	return nil
}

type StatusCmd struct {
	Days int `help:"Also show totals for the previous N days." default:"0"`
}

func (c *StatusCmd) Run(ctx *cli.Context, kind constants.TrackerKind) error {
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	t := snap.Tracker(kind)
	today := ctx.Today()
	unit := cli.Unit(kind)
	goal := t.Goal.Or(0)
	total := t.TotalOn(today)

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("%s: %s", kind, today)))
	if goal > 0 {
		ctx.Printf("%s %d/%d %s (%d%%)\n", cli.Bar(total, goal, 30), total, goal, unit, cli.Percent(total, goal))
	} else {
		ctx.Printf("%d %s today, no goal set\n", total, unit)
	}
	ctx.Printf("Entries today: %d\n", len(t.History[today]))
	ctx.Printf("Current streak: %s\n", cli.Days(streak.Current(streak.ForIntake(*t, 0), today)))

	for i := 1; i <= c.Days; i++ {
		day, err := models.AddDays(today, -i)
		if err != nil {
			return err
		}
		n := t.TotalOn(day)
		ctx.Printf("  %s  %s %d %s\n", day, cli.Bar(n, goal, 20), n, unit)
	}
	return nil
}

type StreaksCmd struct {
	Min int `help:"Only show streaks of at least this many days." default:"2"`
}

func (c *StreaksCmd) Run(ctx *cli.Context, kind constants.TrackerKind) error {
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	t := snap.Tracker(kind)
	if t.Goal.Or(0) <= 0 {
		ctx.Printf("No %s goal set. Use 'tracklit %s goal' first.\n", kind, kind)
		return nil
	}
	cli.PrintStreaks(ctx, string(kind), streak.ForIntake(*t, c.Min))
	return nil
}

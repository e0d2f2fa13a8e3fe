package habits

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/streak"
	"github.com/julianstephens/tracklit/internal/tracker"
	"github.com/julianstephens/tracklit/internal/tui"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with recent history." default:"1"`
	Mark    HabitMarkCmd    `cmd:"" help:"Mark a habit done (or failed) for a day."`
	Remove  HabitRemoveCmd  `cmd:"" help:"Remove a habit and its history."`
	Streaks HabitStreaksCmd `cmd:"" help:"Show a habit's streaks."`
}

// resolve accepts a habit name or its 1-based position from 'habit list'.
func resolve(ctx *cli.Context, ref string) (int, models.Habit, error) {
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return 0, models.Habit{}, err
	}
	idx, err := ctx.Repo().FindHabit(ref)
	if err != nil {
		if !errors.Is(err, tracker.ErrHabitNotFound) {
			return 0, models.Habit{}, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(ref))
		if convErr != nil || n < 1 || n > len(snap.Habits) {
			return 0, models.Habit{}, err
		}
		idx = n - 1
	}
	return idx, snap.Habits[idx], nil
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Color string `help:"Palette color (see 'tracklit palette')."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	idx, err := ctx.Repo().AddHabit(c.Name, c.Color)
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	h := snap.Habits[idx]
	ctx.Printf("✓ Added habit #%d: %s\n", idx+1, tui.Swatch(h.Color, h.Name))
	return nil
}

type HabitListCmd struct {
	Days int `help:"Number of days of history to show." default:"7"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	if len(snap.Habits) == 0 {
		ctx.Println("No habits yet. Use 'tracklit habit add NAME'.")
		return nil
	}

	today := ctx.Today()
	days := make([]string, 0, c.Days)
	for i := c.Days - 1; i >= 0; i-- {
		day, err := models.AddDays(today, -i)
		if err != nil {
			return err
		}
		days = append(days, day)
	}

	if len(days) > 0 {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("%s to %s", days[0], days[len(days)-1])))
	}
	for i, h := range snap.Habits {
		var grid strings.Builder
		for _, day := range days {
			switch {
			case h.DoneOn(day):
				grid.WriteString(tui.Swatch(h.Color, "■"))
			default:
				grid.WriteString(cli.MutedStyle.Render("·"))
			}
		}
		current := streak.Current(streak.ForHabit(h, 0), today)
		ctx.Printf("%3d  %s  %s  %s\n", i+1, grid.String(), tui.Swatch(h.Color, h.Name), cli.MutedStyle.Render(cli.Days(current)))
	}
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit name or number."`
	Date  string `help:"Day to mark (YYYY-MM-DD). Defaults to today."`
	Fail  bool   `help:"Record the day as failed instead of done."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	idx, h, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	day := c.Date
	if day == "" {
		day = ctx.Today()
	}
	status := models.StatusDone
	if c.Fail {
		status = models.StatusFail
	}
	if err := ctx.Repo().MarkHabit(idx, day, status); err != nil {
		return fmt.Errorf("failed to mark habit: %w", err)
	}
	ctx.Printf("✓ %s: %s on %s\n", tui.Swatch(h.Color, h.Name), status, day)
	return nil
}

type HabitRemoveCmd struct {
	Habit string `arg:"" help:"Habit name or number."`
	Yes   bool   `short:"y" help:"Skip confirmation."`
}

func (c *HabitRemoveCmd) Run(ctx *cli.Context) error {
	idx, h, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	ok, err := ctx.Ask(c.Yes, fmt.Sprintf("Remove habit %q?", h.Name), "Its history will be deleted.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Remove cancelled.")
		return nil
	}
	if _, err := ctx.Repo().RemoveHabit(idx); err != nil {
		return fmt.Errorf("failed to remove habit: %w", err)
	}
	ctx.Printf("✓ Removed habit: %s\n", h.Name)
	return nil
}

type HabitStreaksCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name or number. Defaults to all habits."`
	Min   int    `help:"Only show streaks of at least this many days." default:"2"`
}

func (c *HabitStreaksCmd) Run(ctx *cli.Context) error {
	if c.Habit != "" {
		_, h, err := resolve(ctx, c.Habit)
		if err != nil {
			return err
		}
		cli.PrintStreaks(ctx, h.Name, streak.ForHabit(h, c.Min))
		return nil
	}

	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	today := ctx.Today()
	for i, h := range snap.Habits {
		streaks := streak.ForHabit(h, c.Min)
		best, _ := streak.Longest(streaks)
		ctx.Printf("%3d  %-24s longest %-9s current %s\n",
			i+1, h.Name, cli.Days(best.Length), cli.Days(streak.Current(streak.ForHabit(h, 0), today)))
	}
	return nil
}

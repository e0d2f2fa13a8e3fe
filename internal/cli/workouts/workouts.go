package workouts

import (
	"fmt"
	"sort"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/streak"
)

type WorkoutCmd struct {
	Log     LogCmd     `cmd:"" help:"Log a set of a workout type."`
	Toggle  ToggleCmd  `cmd:"" help:"Toggle a workout type on the checklist."`
	Status  StatusCmd  `cmd:"" help:"Show the workout checklist and today's sets." default:"1"`
	Streaks StreaksCmd `cmd:"" help:"Show runs of days with a workout."`
}

type LogCmd struct {
	Type  string `arg:"" help:"Workout type, e.g. pushups."`
	Count int    `arg:"" optional:"" help:"Repetitions." default:"1"`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Repo().LogWorkout(c.Type, c.Count, ctx.Time()); err != nil {
		return fmt.Errorf("failed to log workout: %w", err)
	}
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	ctx.Printf("✓ Logged %d %s (%d total)\n", c.Count, c.Type, snap.Workout.Count[c.Type].Or(0))
	return nil
}

type ToggleCmd struct {
	Type string `arg:"" help:"Workout type."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	done, err := ctx.Repo().ToggleWorkout(c.Type)
	if err != nil {
		return fmt.Errorf("failed to toggle workout: %w", err)
	}
	mark := "[ ]"
	if done {
		mark = "[x]"
	}
	ctx.Printf("%s %s\n", mark, c.Type)
	return nil
}

// ordered returns checklist types by their recorded order, unordered ones last by name.
func ordered(state map[string]models.WorkoutState) []string {
	types := make([]string, 0, len(state))
	for t := range state {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		oi, oj := state[types[i]].Order, state[types[j]].Order
		switch {
		case oi.Valid && oj.Valid && oi.Int != oj.Int:
			return oi.Int < oj.Int
		case oi.Valid != oj.Valid:
			return oi.Valid
		}
		return types[i] < types[j]
	})
	return types
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	w := snap.Workout
	today := ctx.Today()

	ctx.Println(cli.HeaderStyle.Render("Workouts: " + today))
	if len(w.State) == 0 {
		ctx.Println(cli.MutedStyle.Render("No workouts yet. Use 'tracklit workout log TYPE'."))
		return nil
	}
	for _, t := range ordered(w.State) {
		mark := "[ ]"
		if w.State[t].Completed {
			mark = cli.SuccessStyle.Render("[x]")
		}
		ctx.Printf("%s %-16s %d total\n", mark, t, w.Count[t].Or(0))
	}

	entries := w.History[today]
	ctx.Printf("\nSets today: %d\n", len(entries))
	for _, e := range entries {
		ctx.Printf("  %s  %s x%s\n", e.Timestamp, e.Type, e.Count)
	}
	return nil
}

type StreaksCmd struct {
	Type string `help:"Only count days with this workout type."`
	Min  int    `help:"Only show streaks of at least this many days." default:"2"`
}

func (c *StreaksCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	history := snap.Workout.History
	label := "workout"
	if c.Type != "" {
		label = c.Type
	}
	cli.PrintStreaks(ctx, label, streak.ForWorkouts(history, c.Type, c.Min))

	if c.Type == "" {
		if best, s, ok := streak.BestByType(history); ok {
			ctx.Printf("Best single type: %s (%s, %s to %s)\n", best, cli.Days(s.Length), s.Start, s.End)
		}
	}
	return nil
}

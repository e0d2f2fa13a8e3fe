package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete the existing store before initializing. File stores only."`
}

// filePath returns the on-disk path of file-backed stores.
func filePath(store storage.Provider) (string, bool) {
	switch store.(type) {
	case *sqlite.Store, *storage.JSONStore:
		path := store.GetConfigPath()
		return path, path != ":memory:"
	}
	return "", false
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		path, ok := filePath(ctx.Store)
		if !ok {
			return fmt.Errorf("--force only applies to file stores, not %s", ctx.Store.GetConfigPath())
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized tracklit storage at: %s\n", ctx.Store.GetConfigPath())

	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	goals := []struct {
		kind constants.TrackerKind
		goal int
	}{
		{constants.TrackerWater, ctx.Config.DefaultWaterGoal},
		{constants.TrackerProtein, ctx.Config.DefaultProteinGoal},
	}
	for _, g := range goals {
		if g.goal <= 0 || snap.Tracker(g.kind).Goal.Valid {
			continue
		}
		if err := ctx.Repo().SetGoal(g.kind, g.goal); err != nil {
			return fmt.Errorf("failed to set default %s goal: %w", g.kind, err)
		}
		ctx.Printf("  %s goal: %d %s\n", g.kind, g.goal, cli.Unit(g.kind))
	}
	return nil
}

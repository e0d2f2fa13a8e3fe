package transfers

import (
	"fmt"
	"os"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/eviction"
	"github.com/julianstephens/tracklit/internal/tracker"
	"github.com/julianstephens/tracklit/internal/transfer"
)

type ExportCmd struct {
	Out string `short:"o" help:"Output file. Defaults to tracklit-backup-DATE.csv; '-' writes to stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	now := ctx.Time()
	text, err := transfer.Export(ctx.Store, now)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if c.Out == "-" {
		ctx.Printf("%s", text)
		return nil
	}

	path := c.Out
	if path == "" {
		path = transfer.FileName(now)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("✓ Exported %d bytes (%s) to %s\n", len(text), transfer.MIMEType, path)
	return nil
}

type ImportCmd struct {
	File     string `arg:"" type:"existingfile" help:"CSV export to import."`
	Yes      bool   `short:"y" help:"Skip confirmation."`
	KeepDays *int   `help:"Drop history older than N days while importing. Overrides retention_days."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	ok, err := ctx.Ask(c.Yes, fmt.Sprintf("Import %s?", c.File), "All tracked data will be replaced by the file's contents.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Import cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	keep := ctx.Config.RetentionDays
	if c.KeepDays != nil {
		keep = *c.KeepDays
	}
	res, err := transfer.Import(ctx.Store, string(data), transfer.Options{
		Capacity:  ctx.Config.CapacityBytes,
		Retention: eviction.Policy{KeepDays: keep},
		Today:     ctx.Today(),
	})
	if err != nil {
		return err
	}

	ctx.Printf("✓ Imported %s (%d keys, %d bytes)\n", c.File, res.Keys, res.Bytes)
	ctx.Printf("  %d habits, %d workout types\n", len(res.Snapshot.Habits), len(res.Snapshot.Workout.State))
	if res.Evicted > 0 {
		ctx.Printf("  dropped %d day entries outside the last %d days\n", res.Evicted, keep)
	}
	ctx.Println(cli.MutedStyle.Render("import " + res.ID))
	return nil
}

type PruneCmd struct {
	Days int  `required:"" help:"Keep this many days of history, counting today."`
	Yes  bool `short:"y" help:"Skip confirmation."`
}

func (c *PruneCmd) Run(ctx *cli.Context) error {
	policy := eviction.Policy{KeepDays: c.Days}
	if !policy.Enabled() {
		return fmt.Errorf("--days must be positive")
	}
	cutoff, err := policy.Cutoff(ctx.Today())
	if err != nil {
		return err
	}

	snap, err := ctx.Repo().Snapshot()
	if err != nil {
		return err
	}
	pruned, n := policy.Apply(snap, ctx.Today())
	if n == 0 {
		ctx.Printf("Nothing older than %s.\n", cutoff)
		return nil
	}

	ok, err := ctx.Ask(c.Yes, fmt.Sprintf("Delete %d day entries dated before %s?", n, cutoff), "This cannot be undone without a backup.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Prune cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := tracker.Write(ctx.Store, pruned); err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}
	ctx.Printf("✓ Removed %d day entries dated before %s\n", n, cutoff)
	return nil
}

package settings

import (
	"fmt"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/tui"
)

type SettingsCmd struct {
	List     bool    `help:"List current settings."`
	Theme    *string `help:"Accent color from the palette. Empty clears it."`
	Reminder *int    `help:"Reminder interval in minutes. 0 turns reminders off."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.Theme == nil && c.Reminder == nil {
		c.List = true
	}

	repo := ctx.Repo()
	if c.Theme != nil {
		if err := repo.SetTheme(*c.Theme); err != nil {
			return fmt.Errorf("failed to set theme: %w", err)
		}
		if *c.Theme == "" {
			ctx.Println("✓ Theme cleared")
		} else {
			ctx.Printf("✓ Theme set to %s\n", tui.Swatch(*c.Theme, *c.Theme))
		}
	}
	if c.Reminder != nil {
		if err := repo.SetReminder(*c.Reminder); err != nil {
			return fmt.Errorf("failed to set reminder: %w", err)
		}
		if *c.Reminder == 0 {
			ctx.Println("✓ Reminders turned off")
		} else {
			ctx.Printf("✓ Reminder every %d minutes\n", *c.Reminder)
		}
	}

	if !c.List {
		return nil
	}

	snap, err := repo.Snapshot()
	if err != nil {
		return err
	}
	usage, err := ctx.Store.Usage()
	if err != nil {
		return err
	}

	theme := "(none)"
	if snap.Settings.Theme != "" {
		theme = tui.Swatch(snap.Settings.Theme, snap.Settings.Theme)
	}
	reminder := "off"
	if n := snap.Settings.Reminder.Or(0); n > 0 {
		reminder = fmt.Sprintf("every %d minutes", n)
	}
	capacity := "unlimited"
	if limit := ctx.Store.Capacity(); limit > 0 {
		capacity = fmt.Sprintf("%d bytes", limit)
	}

	ctx.Println(cli.HeaderStyle.Render("Settings"))
	ctx.Printf("  theme:            %s\n", theme)
	ctx.Printf("  reminder:         %s\n", reminder)
	ctx.Printf("  water goal:       %d ml\n", snap.Water.Goal.Or(0))
	ctx.Printf("  protein goal:     %d g\n", snap.Protein.Goal.Or(0))
	ctx.Println(cli.HeaderStyle.Render("Storage"))
	ctx.Printf("  location:         %s\n", ctx.Store.GetConfigPath())
	ctx.Printf("  usage:            %d bytes\n", usage)
	ctx.Printf("  capacity:         %s\n", capacity)
	ctx.Printf("  retention:        %s\n", retention(ctx.Config.RetentionDays))
	return nil
}

func retention(days int) string {
	if days <= 0 {
		return "keep everything"
	}
	return fmt.Sprintf("%d days", days)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/cli/backups"
	"github.com/julianstephens/tracklit/internal/cli/habits"
	"github.com/julianstephens/tracklit/internal/cli/intake"
	"github.com/julianstephens/tracklit/internal/cli/settings"
	"github.com/julianstephens/tracklit/internal/cli/system"
	"github.com/julianstephens/tracklit/internal/cli/transfers"
	"github.com/julianstephens/tracklit/internal/cli/workouts"
	"github.com/julianstephens/tracklit/internal/config"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite path, .json path, or PostgreSQL URL without a password. Use 'postgres' to read the URL from ${env} or the OS keyring." default:"${db}" env:"TRACKLIT_DB"`
	Config  string `help:"YAML config file." default:"${config}" type:"path"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize tracklit storage."`
	Water    intake.WaterCmd      `cmd:"" help:"Track water intake (ml)."`
	Protein  intake.ProteinCmd    `cmd:"" help:"Track protein intake (g)."`
	Workout  workouts.WorkoutCmd  `cmd:"" help:"Track workouts."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and habit tracking."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage theme and reminder settings."`
	Export   transfers.ExportCmd  `cmd:"" help:"Export all data to CSV."`
	Import   transfers.ImportCmd  `cmd:"" help:"Replace all data with a CSV export."`
	Prune    transfers.PruneCmd   `cmd:"" help:"Delete history older than N days."`
	Remind   system.RemindCmd     `cmd:"" help:"Send water reminders on the stored interval."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Conf    system.ConfigCmd  `cmd:"" name:"config" help:"Show or create the config file."`
	Palette system.PaletteCmd `cmd:"" help:"List habit and theme colors."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
}

// storeless commands run without loading the store.
var storeless = map[string]bool{
	"init":    true,
	"keyring": true,
	"config":  true,
	"palette": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Water, protein, workout and habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"db":      constants.DefaultDBPath,
			"config":  constants.DefaultConfigFile,
			"env":     constants.EnvDBConnection,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	configDir := filepath.Dir(CLI.Config)
	if expanded, err := config.ExpandPath(CLI.Config); err == nil {
		configDir = filepath.Dir(expanded)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logger.Close()

	store, err := openStore(CLI.DB, cfg.CapacityBytes)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: CLI.Config,
		Out:        os.Stdout,
	}

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !storeless[command[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	if err != nil {
		errors.Report(os.Stderr, err)
		logger.Close()
		os.Exit(1)
	}
}

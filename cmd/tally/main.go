package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/cli/backups"
	"github.com/julianstephens/tally/internal/cli/categories"
	"github.com/julianstephens/tally/internal/cli/settings"
	"github.com/julianstephens/tally/internal/cli/stats"
	"github.com/julianstephens/tally/internal/cli/system"
	"github.com/julianstephens/tally/internal/cli/trackers"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store path (.db for SQLite, .json for a plain file) or PostgreSQL connection string without a password." type:"string" default:"${default_config}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize tally storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today   trackers.TodayCmd `cmd:"" help:"Show the trackers scheduled for a day."`

	Tracker struct {
		Add    trackers.TrackerAddCmd    `cmd:"" help:"Add a habit or an event."`
		Edit   trackers.TrackerEditCmd   `cmd:"" help:"Edit a tracker."`
		Delete trackers.TrackerDeleteCmd `cmd:"" help:"Delete a tracker and its history."`
		Pin    trackers.TrackerPinCmd    `cmd:"" help:"Pin a tracker to the top of the day view."`
		Unpin  trackers.TrackerUnpinCmd  `cmd:"" help:"Unpin a tracker."`
		List   trackers.TrackerListCmd   `cmd:"" help:"List all trackers." default:"1"`
	} `cmd:"" help:"Manage trackers."`
	Category struct {
		Add    categories.CategoryAddCmd    `cmd:"" help:"Add a category."`
		Rename categories.CategoryRenameCmd `cmd:"" help:"Rename a category."`
		List   categories.CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	} `cmd:"" help:"Manage categories."`

	Mark   trackers.MarkCmd   `cmd:"" help:"Mark a tracker completed."`
	Unmark trackers.UnmarkCmd `cmd:"" help:"Remove a completion."`
	Toggle trackers.ToggleCmd `cmd:"" help:"Flip a tracker's completion."`

	Stats    stats.StatsCmd       `cmd:"" help:"Show completion statistics."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Remind  system.RemindCmd `cmd:"" help:"Send a reminder for trackers still open today."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string, masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report where the connection string comes from." default:"1"`
	} `cmd:"" help:"Manage the stored PostgreSQL connection string."`
}

// Commands that open the store themselves or never touch it.
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit and event tracker for the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir(CLI.Config)}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := storage.New(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	command := ctx.Command()
	if root := rootCommand(ctx); !selfLoading[root] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	logger.Debug("Running command", "command", command, "store", store.GetConfigPath())

	errors.Fatal(ctx.Run(&cli.Context{Store: store}))
}

func rootCommand(ctx *kong.Context) string {
	for _, p := range ctx.Path {
		if p.Command != nil {
			return p.Command.Name
		}
	}
	// a bare invocation selects the default tui command
	return "tui"
}

// configDir places logs beside a file store; PostgreSQL users get the
// directory of the default path.
func configDir(config string) string {
	path := config
	if storage.IsPostgres(config) {
		path = constants.DefaultConfigPath
	}
	expanded, err := storage.ExpandPath(path)
	if err != nil {
		return "."
	}
	return filepath.Dir(expanded)
}

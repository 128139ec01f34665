package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

// schemaVersioner is implemented by the SQL stores.
type schemaVersioner interface {
	SchemaVersions() (current, latest int, err error)
}

type DoctorCmd struct {
	Fix bool `help:"Remove completion records whose tracker no longer exists."`
}

type check struct {
	name       string
	run        func(*cli.Context) error
	needsStore bool
	warnOnly   bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Schema version", run: checkSchemaVersion, needsStore: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Settings", run: checkSettings, needsStore: true},
		{name: "Data validation", run: cmd.checkValidation, needsStore: true},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	reachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsStore && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersions()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'tally migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsFileStore() {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'tally backup create'")
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	if settings.ReminderHour < 0 || settings.ReminderHour > 23 {
		return fmt.Errorf("reminder hour %d is out of range 0-23", settings.ReminderHour)
	}
	return nil
}

func (cmd *DoctorCmd) checkValidation(ctx *cli.Context) error {
	result, err := validate(ctx)
	if err != nil {
		return err
	}
	if !result.HasConflicts() {
		return nil
	}

	if cmd.Fix && result.Count(validation.ConflictOrphanRecord) > 0 {
		for _, action := range validation.AutoFixOrphanRecords(result.Conflicts, ctx.Store.DeleteCompletionRecord) {
			fmt.Printf("   fix: %s\n", action.Action)
		}
		if result, err = validate(ctx); err != nil {
			return err
		}
		if !result.HasConflicts() {
			return nil
		}
	}
	return fmt.Errorf("found %d problem(s):\n%s", len(result.Conflicts), result.FormatReport())
}

func validate(ctx *cli.Context) (validation.Result, error) {
	settings, err := ctx.Settings()
	if err != nil {
		return validation.Result{}, err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		loc = time.Local
	}

	categories, err := ctx.Store.GetAllCategories()
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to get categories: %w", err)
	}
	trackers, err := ctx.Store.GetAllTrackers()
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to get trackers: %w", err)
	}
	records, err := ctx.Store.GetAllCompletionRecords()
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to get completion records: %w", err)
	}

	today := utils.DayKey(ctx.Today(loc), loc)
	return validation.New(today).Validate(categories, trackers, records), nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

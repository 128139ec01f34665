package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing database file before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && ctx.IsFileStore() {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDB, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDB
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized tally storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if storage.IsPostgres(source) {
		// The source URL is used as given; the environment and keyring
		// describe the destination.
		if ok, err := postgres.ValidateConnString(source); !ok {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return storage.New(source)
}

func (c *InitCmd) copyData(ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()
	dst := ctx.Store

	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying categories...")
	categories, err := src.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to get categories from source: %w", err)
	}
	titles := make(map[string]string, len(categories))
	for _, cat := range categories {
		if err := dst.SaveCategory(cat); err != nil {
			return fmt.Errorf("failed to save category %q: %w", cat.Title, err)
		}
		titles[cat.ID] = cat.Title
	}
	fmt.Printf("    Copied %d categories\n", len(categories))

	fmt.Println("  Copying trackers...")
	trackers, err := src.GetAllTrackers()
	if err != nil {
		return fmt.Errorf("failed to get trackers from source: %w", err)
	}
	for _, t := range trackers {
		title, ok := titles[t.CategoryID]
		if !ok {
			return fmt.Errorf("tracker %s references unknown category %s; run 'tally doctor' on the source first", t.ID, t.CategoryID)
		}
		if err := dst.SaveTracker(t, title); err != nil {
			return fmt.Errorf("failed to save tracker %s: %w", t.ID, err)
		}
	}
	fmt.Printf("    Copied %d trackers\n", len(trackers))

	fmt.Println("  Copying completion records...")
	records, err := src.GetAllCompletionRecords()
	if err != nil {
		return fmt.Errorf("failed to get completion records from source: %w", err)
	}
	for _, r := range records {
		if err := dst.SaveCompletionRecord(r); err != nil {
			return fmt.Errorf("failed to save completion of %s on %s: %w", r.TrackerID, r.Day, err)
		}
	}
	fmt.Printf("    Copied %d completion records\n", len(records))

	return nil
}

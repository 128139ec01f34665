// Package cli holds the state shared by every tally command and the
// helpers they use to turn flags into coordinator calls.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/coordinator"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/postgres"
	"github.com/julianstephens/tally/internal/utils"
)

type Context struct {
	Store storage.Provider
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time

	coord *coordinator.Coordinator
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Coordinator builds the coordinator from the stored settings on first use.
func (c *Context) Coordinator() (*coordinator.Coordinator, error) {
	if c.coord != nil {
		return c.coord, nil
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	opts, err := coordinator.OptionsFromSettings(settings)
	if err != nil {
		return nil, err
	}
	opts.Now = c.Now

	coord, err := coordinator.New(c.Store, opts)
	if err != nil {
		return nil, err
	}
	c.coord = coord
	return coord, nil
}

// Settings returns the stored settings with defaults filled in.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// Location is the configured timezone.
func (c *Context) Location() (*time.Location, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return utils.LoadLocation(settings.Timezone)
}

// Today is midnight of the current day in loc.
func (c *Context) Today(loc *time.Location) time.Time {
	return utils.StartOfDay(c.now(), loc)
}

// ParseDate accepts "", "today", "yesterday", "tomorrow" or YYYY-MM-DD and
// returns midnight of that day in loc.
func (c *Context) ParseDate(value string, loc *time.Location) (time.Time, error) {
	today := c.Today(loc)
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	t, err := utils.ParseDateInLocation(strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// IsFileStore reports whether the store lives in a local file that the
// backup manager and the file watcher can work with.
func (c *Context) IsFileStore() bool {
	_, ok := c.Store.(*postgres.Store)
	return !ok
}

// PerformAutomaticBackup snapshots file-based stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsFileStore() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Package storage defines the repository contract shared by the SQLite,
// PostgreSQL and JSON backends, and watches backing files for changes made
// by other processes.
package storage

import "github.com/julianstephens/tally/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	// Migrate applies pending schema migrations and reports how many ran.
	Migrate(logFn func(string)) (int, error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Categories
	GetAllCategories() ([]models.Category, error)
	SaveCategory(models.Category) error

	// Trackers
	GetAllTrackers() ([]models.Tracker, error)
	// SaveTracker upserts t and links it to the category titled categoryTitle.
	SaveTracker(t models.Tracker, categoryTitle string) error
	// DeleteTracker removes the tracker and all of its completion records.
	DeleteTracker(id string) error

	// Completion records
	GetAllCompletionRecords() ([]models.CompletionRecord, error)
	SaveCompletionRecord(models.CompletionRecord) error
	DeleteCompletionRecord(trackerID, day string) error

	// Utility
	GetConfigPath() string
}

package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tally.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store}, dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}

	// running again keeps the data
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed: %v", err)
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, _ := setupTestInitDB(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.SaveCategory(models.Category{ID: "c1", Title: "Health", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	categories, err := ctx.Store.GetAllCategories()
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 0 {
		t.Errorf("forced init kept %d categories", len(categories))
	}
}

func TestInitCmd_ForceSameSource(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)
	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected error when --force targets the source")
	}
}

func TestInitCmd_CopyFromJSON(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "tally.json")
	src, err := storage.New(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	settings := models.DefaultSettings()
	settings.Timezone = "Europe/Paris"
	if err := src.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveCategory(models.Category{ID: "c1", Title: "Health", CreatedAt: now}); err != nil {
		t.Fatal(err)
	}
	tracker := models.Tracker{ID: "t1", Name: "Walk", Color: models.DefaultColor, Schedule: models.EveryDay, CategoryID: "c1", CreatedAt: now}
	if err := src.SaveTracker(tracker, "Health"); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveCompletionRecord(models.CompletionRecord{TrackerID: "t1", Day: "2024-05-02", CreatedAt: now}); err != nil {
		t.Fatal(err)
	}

	ctx, _ := setupTestInitDB(t)
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	gotSettings, _ := ctx.Store.GetSettings()
	if gotSettings.Timezone != "Europe/Paris" {
		t.Errorf("timezone = %q, want Europe/Paris", gotSettings.Timezone)
	}
	trackers, _ := ctx.Store.GetAllTrackers()
	if len(trackers) != 1 || trackers[0].ID != "t1" || trackers[0].CategoryID != "c1" {
		t.Errorf("trackers = %+v", trackers)
	}
	records, _ := ctx.Store.GetAllCompletionRecords()
	if len(records) != 1 || records[0].Day != "2024-05-02" {
		t.Errorf("records = %+v", records)
	}
}

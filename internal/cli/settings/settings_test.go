package settings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{Store: store}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func ptr[T any](v T) *T { return &v }

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		FirstWeekday:         ptr("sunday"),
		Timezone:             ptr("Europe/London"),
		NotificationsEnabled: ptr(false),
		ReminderHour:         ptr(7),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	got, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if got.FirstWeekday != time.Sunday {
		t.Errorf("FirstWeekday = %v, want Sunday", got.FirstWeekday)
	}
	if got.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q, want Europe/London", got.Timezone)
	}
	if got.NotificationsEnabled {
		t.Error("NotificationsEnabled = true, want false")
	}
	if got.ReminderHour != 7 {
		t.Errorf("ReminderHour = %d, want 7", got.ReminderHour)
	}
}

func TestSettingsCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name string
		cmd  *SettingsCmd
	}{
		{"timezone", &SettingsCmd{Timezone: ptr("Mars/Olympus")}},
		{"weekday", &SettingsCmd{FirstWeekday: ptr("9")}},
		{"reminder hour", &SettingsCmd{ReminderHour: ptr(24)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}

	got, _ := ctx.Store.GetSettings()
	if got.Timezone == "Mars/Olympus" || got.ReminderHour == 24 {
		t.Errorf("invalid settings were saved: %+v", got)
	}
}

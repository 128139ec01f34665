package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func TestMigrateCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tally.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	ctx := &cli.Context{Store: sqlite.NewStore(dbPath)}
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate on an up to date database failed: %v", err)
	}

	current, latest, err := func() (int, int, error) {
		s := sqlite.NewStore(dbPath)
		defer s.Close()
		if err := s.Load(); err != nil {
			return 0, 0, err
		}
		return s.SchemaVersions()
	}()
	if err != nil {
		t.Fatal(err)
	}
	if current != latest {
		t.Errorf("schema version %d, want %d", current, latest)
	}
}

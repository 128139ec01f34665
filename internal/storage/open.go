package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage/postgres"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*JSONStore)(nil)
)

// IsPostgres reports whether config is a PostgreSQL connection URL.
func IsPostgres(config string) bool {
	return postgres.IsConnString(config)
}

// New picks a backend from config: a postgres:// URL, a path ending in
// .json, or any other path as a SQLite database. A PostgreSQL URL on the
// command line must not embed a password; the full connection string is
// taken from the environment or keyring when one is stored there.
func New(config string) (Provider, error) {
	if IsPostgres(config) {
		if ok, err := postgres.ValidateConnString(config); !ok {
			return nil, err
		}
		connStr, source, err := keyring.Resolve(config)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using PostgreSQL storage", "source", source.String(), "conn", keyring.Mask(connStr))
		return postgres.New(connStr), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// Package keyring keeps the PostgreSQL connection string, which may carry a
// password, out of flags and shell history.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/tally/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Source says where a resolved connection string came from.
type Source int

const (
	SourceFlag Source = iota
	SourceEnv
	SourceKeyring
)

func (s Source) String() string {
	switch s {
	case SourceEnv:
		return "environment (" + constants.EnvDBConnection + ")"
	case SourceKeyring:
		return "OS keyring"
	default:
		return "--config flag"
	}
}

// GetConnectionString retrieves the database connection string from the OS keyring.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Resolve picks the connection string to use for a PostgreSQL store:
// the environment variable wins, then the keyring, then the password-less
// string given on the command line (which relies on .pgpass).
func Resolve(flag string) (string, Source, error) {
	if env := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); env != "" {
		return env, SourceEnv, nil
	}

	connStr, err := GetConnectionString()
	switch {
	case err == nil:
		return connStr, SourceKeyring, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrKeyringUnavailable):
		return flag, SourceFlag, nil
	default:
		return "", SourceFlag, err
	}
}

// Mask hides the password of a connection string for display. Both the URL
// form and the key=value DSN form are handled.
func Mask(connStr string) string {
	schemeEnd := strings.Index(connStr, "://")
	if schemeEnd >= 0 {
		at := strings.LastIndex(connStr, "@")
		if at < schemeEnd {
			return connStr
		}
		userinfo := connStr[schemeEnd+3 : at]
		if colon := strings.Index(userinfo, ":"); colon >= 0 {
			return connStr[:schemeEnd+3] + userinfo[:colon] + ":****" + connStr[at:]
		}
		return connStr
	}

	if !strings.Contains(connStr, "password=") {
		return connStr
	}
	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}

// IsAvailable checks if the OS keyring is available on the current system.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

package constants

import "time"

const (
	AppName            = "tally"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tally/tally.db"
	Version            = "v0.2.0"

	// EnvDBConnection overrides the keyring for PostgreSQL connection strings
	EnvDBConnection = "TALLY_DB_CONNECTION"

	// PinnedGroupTitle is the title of the leading group holding pinned trackers
	PinnedGroupTitle = "Pinned"

	// EveryDayCaption is shown for schedules that contain all seven weekdays
	EveryDayCaption = "every day"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tally-"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "tally-notifier.lock"
	TrayAppIdentifier      = "tally-tray"
	TraySecretHeader       = "X-Tally-Secret"
	NotificationDurationMs = 5000

	// WatchDebounce coalesces bursts of writes to the store file
	WatchDebounce = 250 * time.Millisecond
)

package constants

import "time"

const (
	SettingFirstWeekday         = "first_weekday"
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingReminderHour         = "reminder_hour"

	// Default Settings Values
	DefaultFirstWeekday         = time.Monday
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultReminderHour         = 20
)

package models

import "time"

// Settings represents application-wide settings
type Settings struct {
	FirstWeekday         time.Weekday `json:"first_weekday"`         // day the week starts on (0=Sunday); never taken from the locale
	Timezone             string       `json:"timezone"`              // IANA timezone name (e.g. "Europe/London", or "Local" for system timezone)
	NotificationsEnabled bool         `json:"notifications_enabled"` // whether reminders are sent
	ReminderHour         int          `json:"reminder_hour"`         // hour of day (0-23) after which reminders fire
}

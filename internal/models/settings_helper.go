package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

// DefaultSettings returns the settings a fresh store is initialised with.
func DefaultSettings() Settings {
	return Settings{
		FirstWeekday:         constants.DefaultFirstWeekday,
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		ReminderHour:         constants.DefaultReminderHour,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys absent from the map keep their default values.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingFirstWeekday:
			wd, err := ParseFirstWeekday(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing first_weekday: %w", err)
			}
			settings.FirstWeekday = wd
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingReminderHour:
			if _, err := fmt.Sscanf(value, "%d", &settings.ReminderHour); err != nil {
				return Settings{}, fmt.Errorf("parsing reminder_hour: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingFirstWeekday:         strconv.Itoa(int(settings.FirstWeekday)),
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingReminderHour:         fmt.Sprintf("%d", settings.ReminderHour),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.FirstWeekday < time.Sunday || settings.FirstWeekday > time.Saturday {
		settings.FirstWeekday = constants.DefaultFirstWeekday
	}
	if settings.ReminderHour < 0 || settings.ReminderHour > 23 {
		settings.ReminderHour = constants.DefaultReminderHour
	}
}

// ParseFirstWeekday accepts a standard library weekday number (0=Sunday) or a
// weekday name.
func ParseFirstWeekday(value string) (time.Weekday, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday number %d out of range 0-6", n)
		}
		return time.Weekday(n), nil
	}
	w, err := ParseWeekday(value)
	if err != nil {
		return 0, err
	}
	return w.TimeWeekday(), nil
}

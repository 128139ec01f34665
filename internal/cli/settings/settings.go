package settings

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	FirstWeekday         *string `help:"Day the week starts on (name or 0-6, 0=Sunday)."`
	Timezone             *string `help:"IANA timezone name, or 'Local'."`
	NotificationsEnabled *bool   `name:"notifications" help:"Enable or disable reminders (--notifications=false to disable)."`
	ReminderHour         *int    `help:"Hour of day (0-23) after which reminders are sent."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  First Weekday:         %s\n", settings.FirstWeekday)
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Println("\nReminder Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Reminder Hour:         %02d:00\n", settings.ReminderHour)
		return nil
	}

	updated := false
	if c.FirstWeekday != nil {
		wd, err := models.ParseFirstWeekday(*c.FirstWeekday)
		if err != nil {
			return fmt.Errorf("invalid first weekday: %w", err)
		}
		settings.FirstWeekday = wd
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.ReminderHour != nil {
		if *c.ReminderHour < 0 || *c.ReminderHour > 23 {
			return fmt.Errorf("reminder hour must be between 0 and 23, got %d", *c.ReminderHour)
		}
		settings.ReminderHour = *c.ReminderHour
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

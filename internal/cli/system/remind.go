package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/notifier"
)

// sender is satisfied by *notifier.Notifier.
type sender interface {
	Notify(ctx context.Context, text string) error
}

type RemindCmd struct {
	DryRun bool `help:"Print the reminder instead of sending it."`
	Force  bool `help:"Send even when reminders are disabled or before the reminder hour."`

	sender sender
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	coord, err := ctx.Coordinator()
	if err != nil {
		return err
	}

	now := coord.Now()
	if !c.Force && !notifier.Due(settings, now) {
		if c.DryRun {
			if !settings.NotificationsEnabled {
				fmt.Println("Notifications are disabled in settings.")
			} else {
				fmt.Printf("Too early: reminders go out after %02d:00.\n", settings.ReminderHour)
			}
		}
		return nil
	}

	reminder := notifier.PendingFrom(coord.ProjectionFor(ctx.Today(coord.Location()), ""))
	text := reminder.Text()
	if text == "" {
		if c.DryRun {
			fmt.Println("Nothing left to do today.")
		}
		return nil
	}

	if c.DryRun {
		fmt.Println("[DryRun] " + text)
		return nil
	}

	s := c.sender
	if s == nil {
		s = notifier.New()
	}
	if err := s.Notify(context.Background(), text); err != nil {
		logger.Warn("Failed to send reminder", "day", reminder.Day, "error", err)
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	logger.Info("Reminder sent", "day", reminder.Day, "pending", len(reminder.Pending))
	return nil
}

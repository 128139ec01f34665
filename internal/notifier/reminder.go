package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/projection"
)

// Reminder lists the trackers still open on a day.
type Reminder struct {
	Day     string
	Pending []models.Tracker
}

// PendingFrom collects the trackers visible in p that are not completed,
// each listed once.
func PendingFrom(p projection.Projection) Reminder {
	r := Reminder{Day: p.Day}
	seen := make(map[string]bool)
	for _, g := range p.Groups {
		for _, v := range g.Trackers {
			if v.Completed || seen[v.Tracker.ID] {
				continue
			}
			seen[v.Tracker.ID] = true
			r.Pending = append(r.Pending, v.Tracker)
		}
	}
	return r
}

// Due reports whether a reminder should go out at now under settings.
func Due(settings models.Settings, now time.Time) bool {
	return settings.NotificationsEnabled && now.Hour() >= settings.ReminderHour
}

// Text renders the reminder, or "" when nothing is pending.
func (r Reminder) Text() string {
	switch len(r.Pending) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(r.Pending[0].Emoji+" "+r.Pending[0].Name) + " is still open today"
	}

	names := make([]string, 0, len(r.Pending))
	for _, t := range r.Pending {
		names = append(names, strings.TrimSpace(t.Emoji+" "+t.Name))
	}
	if len(names) > 3 {
		names = append(names[:3], fmt.Sprintf("and %d more", len(r.Pending)-3))
	}
	return fmt.Sprintf("%d trackers still open today: %s", len(r.Pending), strings.Join(names, ", "))
}

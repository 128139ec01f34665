package models

import (
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

// Tracker is a habit (non-empty Schedule) or a one-off event (EventDate set).
type Tracker struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Emoji      string    `json:"emoji"`
	Color      Color     `json:"color"`
	Schedule   Schedule  `json:"schedule"`
	EventDate  string    `json:"event_date,omitempty"` // YYYY-MM-DD, events only
	Pinned     bool      `json:"pinned"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsHabit reports whether the tracker recurs on a weekly schedule.
func (t Tracker) IsHabit() bool {
	return !t.Schedule.IsEmpty()
}

// IsEvent reports whether the tracker is a one-off event.
func (t Tracker) IsEvent() bool {
	return t.Schedule.IsEmpty()
}

// Caption describes when the tracker is due.
func (t Tracker) Caption() string {
	if t.IsHabit() {
		return t.Schedule.Caption()
	}
	if t.EventDate == "" {
		return ""
	}
	d, err := time.Parse(constants.DateFormat, t.EventDate)
	if err != nil {
		return t.EventDate
	}
	return "on " + d.Format(constants.DisplayDateFormat)
}

// Category groups trackers under a unique title.
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// CompletionRecord marks a tracker done on a calendar day (YYYY-MM-DD).
type CompletionRecord struct {
	TrackerID string    `json:"tracker_id"`
	Day       string    `json:"day"`
	CreatedAt time.Time `json:"created_at"`
}

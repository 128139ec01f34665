package utils

import (
	"time"

	"github.com/julianstephens/tally/internal/models"
)

// IsHabitDueOn reports whether a habit with the given schedule is due on date.
// An empty schedule is never due.
func IsHabitDueOn(schedule models.Schedule, date time.Time, first time.Weekday) bool {
	if schedule.IsEmpty() {
		return false
	}
	return schedule.Contains(models.WeekdayOf(date, first))
}

// IsEventDueOn reports whether an event dated eventDate (YYYY-MM-DD) falls on
// date's calendar day in loc. An unset date is never due.
func IsEventDueOn(eventDate string, date time.Time, loc *time.Location) bool {
	if eventDate == "" {
		return false
	}
	return eventDate == DayKey(date, loc)
}

// IsDueOn reports whether a tracker should appear on date. Habits follow their
// weekly schedule and events their single date. Both are judged on date's
// calendar day in loc.
func IsDueOn(t models.Tracker, date time.Time, first time.Weekday, loc *time.Location) bool {
	if loc != nil {
		date = date.In(loc)
	}
	if t.IsHabit() {
		return IsHabitDueOn(t.Schedule, date, first)
	}
	return IsEventDueOn(t.EventDate, date, loc)
}

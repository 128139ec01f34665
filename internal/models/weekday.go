package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is an ISO weekday number, Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the weekdays in canonical display order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Short returns the three letter label, e.g. "Mon".
func (w Weekday) Short() string {
	if !w.Valid() {
		return "?"
	}
	return weekdayNames[w][:3]
}

// TimeWeekday converts to the standard library numbering (Sunday=0).
func (w Weekday) TimeWeekday() time.Weekday {
	return time.Weekday(int(w) % 7)
}

// FromTimeWeekday converts a standard library weekday to its ISO number.
func FromTimeWeekday(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(d)
}

// WeekOrder returns the seven weekdays in the order a week starting on first
// enumerates them.
func WeekOrder(first time.Weekday) []Weekday {
	first = normalizeWeekday(first)
	order := make([]Weekday, 7)
	for i := range order {
		order[i] = FromTimeWeekday(time.Weekday((int(first) + i) % 7))
	}
	return order
}

// WeekdayOf returns the weekday a date falls on. The position of the date in
// a week starting on first is (platform - first + 7) % 7; looking that index up
// in WeekOrder(first) always yields the absolute weekday, whatever the week
// start is.
func WeekdayOf(date time.Time, first time.Weekday) Weekday {
	first = normalizeWeekday(first)
	idx := (int(date.Weekday()) - int(first) + 7) % 7
	return WeekOrder(first)[idx]
}

// ParseWeekday accepts full or three letter names (any case) and ISO numbers 1-7.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty weekday")
	}
	for _, w := range AllWeekdays {
		name := strings.ToLower(w.String())
		if s == name || s == name[:3] {
			return w, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Weekday(n).Valid() {
		return Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

func normalizeWeekday(d time.Weekday) time.Weekday {
	return time.Weekday(((int(d) % 7) + 7) % 7)
}

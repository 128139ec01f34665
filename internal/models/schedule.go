package models

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"

	"github.com/julianstephens/tally/internal/constants"
)

// Schedule is the set of weekdays a habit is due on, stored as a bit mask
// (bit 0 = Monday). The zero value is the empty schedule used by events.
type Schedule uint8

const (
	EmptySchedule Schedule = 0
	EveryDay      Schedule = 0x7f
	WorkWeek      Schedule = 0x1f
	Weekend       Schedule = 0x60
)

// NewSchedule builds a schedule from weekdays. Invalid weekdays are ignored and
// duplicates collapse.
func NewSchedule(days ...Weekday) Schedule {
	var s Schedule
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

func bitFor(w Weekday) Schedule {
	if !w.Valid() {
		return 0
	}
	return 1 << (uint(w) - 1)
}

// Contains reports whether w is in the schedule.
func (s Schedule) Contains(w Weekday) bool {
	b := bitFor(w)
	return b != 0 && s&b != 0
}

func (s Schedule) With(w Weekday) Schedule    { return s | bitFor(w) }
func (s Schedule) Without(w Weekday) Schedule { return s &^ bitFor(w) }

func (s Schedule) IsEmpty() bool    { return s&EveryDay == 0 }
func (s Schedule) IsEveryDay() bool { return s&EveryDay == EveryDay }
func (s Schedule) Len() int         { return bits.OnesCount8(uint8(s & EveryDay)) }

// Days returns the members in canonical Monday to Sunday order.
func (s Schedule) Days() []Weekday {
	days := make([]Weekday, 0, s.Len())
	for _, w := range AllWeekdays {
		if s.Contains(w) {
			days = append(days, w)
		}
	}
	return days
}

// Caption renders the schedule for display: "every day" when all seven days are
// present, otherwise the short labels in canonical order joined by ", ".
func (s Schedule) Caption() string {
	if s.IsEveryDay() {
		return constants.EveryDayCaption
	}
	labels := make([]string, 0, s.Len())
	for _, w := range s.Days() {
		labels = append(labels, w.Short())
	}
	return strings.Join(labels, ", ")
}

func (s Schedule) String() string {
	return s.Caption()
}

// Digits encodes the schedule as a string of ISO weekday digits, e.g. "135".
func (s Schedule) Digits() string {
	var b strings.Builder
	for _, w := range s.Days() {
		b.WriteByte(byte('0' + int(w)))
	}
	return b.String()
}

// ScheduleFromDigits decodes the Digits form.
func ScheduleFromDigits(digits string) (Schedule, error) {
	var s Schedule
	for _, r := range digits {
		w := Weekday(r - '0')
		if !w.Valid() {
			return 0, fmt.Errorf("invalid weekday digit %q in schedule %q", r, digits)
		}
		s = s.With(w)
	}
	return s, nil
}

// ParseSchedule parses user input such as "mon,wed,fri", "1 3 5", "daily",
// "weekdays" or "weekends". An empty string yields the empty schedule.
func ParseSchedule(input string) (Schedule, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "":
		return EmptySchedule, nil
	case "daily", "everyday", "every day":
		return EveryDay, nil
	case "weekdays":
		return WorkWeek, nil
	case "weekends":
		return Weekend, nil
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	var s Schedule
	for _, f := range fields {
		w, err := ParseWeekday(f)
		if err != nil {
			return 0, err
		}
		s = s.With(w)
	}
	return s, nil
}

// MarshalJSON encodes the schedule as an array of ISO weekday numbers.
func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var days []Weekday
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	var out Schedule
	for _, d := range days {
		if !d.Valid() {
			return fmt.Errorf("invalid weekday %d in schedule", int(d))
		}
		out = out.With(d)
	}
	*s = out
	return nil
}

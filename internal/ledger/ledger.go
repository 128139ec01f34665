// Package ledger records which trackers were completed on which calendar days.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

var (
	ErrFutureDate       = errors.New("ledger: cannot complete a tracker on a future date")
	ErrAlreadyCompleted = errors.New("ledger: tracker already completed on this day")
	ErrNotCompleted     = errors.New("ledger: tracker not completed on this day")
)

type key struct {
	trackerID string
	day       string
}

// Ledger holds at most one completion record per (tracker, day). Days are
// calendar days in the ledger's location; the time of day is discarded.
type Ledger struct {
	loc     *time.Location
	now     func() time.Time
	records []models.CompletionRecord
	index   map[key]struct{}
	counts  map[string]int
}

type Option func(*Ledger)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the timezone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		loc:    time.Local,
		now:    time.Now,
		index:  make(map[key]struct{}),
		counts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Location() *time.Location { return l.loc }

// Today returns the current calendar day key.
func (l *Ledger) Today() string {
	return utils.DayKey(l.now(), l.loc)
}

// Replace swaps in records loaded from storage. Duplicate (tracker, day)
// pairs keep the first occurrence.
func (l *Ledger) Replace(records []models.CompletionRecord) {
	next := New(WithClock(l.now), WithLocation(l.loc))
	for _, r := range records {
		next.insert(r)
	}
	*l = *next
}

// Clone returns an independent copy sharing the clock and location.
func (l *Ledger) Clone() *Ledger {
	c := New(WithClock(l.now), WithLocation(l.loc))
	c.records = append(c.records, l.records...)
	for k := range l.index {
		c.index[k] = struct{}{}
	}
	for id, n := range l.counts {
		c.counts[id] = n
	}
	return c
}

// IsCompletedOn reports whether trackerID has a record on date's calendar day.
func (l *Ledger) IsCompletedOn(trackerID string, date time.Time) bool {
	return l.IsCompletedOnDay(trackerID, utils.DayKey(date, l.loc))
}

func (l *Ledger) IsCompletedOnDay(trackerID, day string) bool {
	_, ok := l.index[key{trackerID, day}]
	return ok
}

// CountCompletions returns the number of records for trackerID across all days.
func (l *Ledger) CountCompletions(trackerID string) int {
	return l.counts[trackerID]
}

// ValidateMark checks that MarkComplete would succeed without changing the ledger.
func (l *Ledger) ValidateMark(trackerID string, date time.Time) error {
	if utils.IsAfterDay(date, l.now(), l.loc) {
		return fmt.Errorf("%w: %s", ErrFutureDate, utils.DayKey(date, l.loc))
	}
	if l.IsCompletedOn(trackerID, date) {
		return fmt.Errorf("%w: %s", ErrAlreadyCompleted, utils.DayKey(date, l.loc))
	}
	return nil
}

// ValidateUnmark checks that UnmarkComplete would succeed.
func (l *Ledger) ValidateUnmark(trackerID string, date time.Time) error {
	if !l.IsCompletedOn(trackerID, date) {
		return fmt.Errorf("%w: %s", ErrNotCompleted, utils.DayKey(date, l.loc))
	}
	return nil
}

// MarkComplete appends a record for date's calendar day. Future days are
// rejected; today and past days are allowed.
func (l *Ledger) MarkComplete(trackerID string, date time.Time) (models.CompletionRecord, error) {
	if err := l.ValidateMark(trackerID, date); err != nil {
		return models.CompletionRecord{}, err
	}
	rec := models.CompletionRecord{
		TrackerID: trackerID,
		Day:       utils.DayKey(date, l.loc),
		CreatedAt: l.now().UTC(),
	}
	l.insert(rec)
	return rec, nil
}

// UnmarkComplete removes exactly the record for date's calendar day.
func (l *Ledger) UnmarkComplete(trackerID string, date time.Time) error {
	if err := l.ValidateUnmark(trackerID, date); err != nil {
		return err
	}
	day := utils.DayKey(date, l.loc)
	for i, r := range l.records {
		if r.TrackerID == trackerID && r.Day == day {
			l.records = append(l.records[:i], l.records[i+1:]...)
			break
		}
	}
	delete(l.index, key{trackerID, day})
	l.decrement(trackerID)
	return nil
}

// DeleteAllFor removes every record of trackerID and returns how many went.
func (l *Ledger) DeleteAllFor(trackerID string) int {
	kept := l.records[:0]
	removed := 0
	for _, r := range l.records {
		if r.TrackerID == trackerID {
			delete(l.index, key{r.TrackerID, r.Day})
			removed++
			continue
		}
		kept = append(kept, r)
	}
	l.records = kept
	delete(l.counts, trackerID)
	return removed
}

// Records returns every record in insertion order.
func (l *Ledger) Records() []models.CompletionRecord {
	return append([]models.CompletionRecord(nil), l.records...)
}

// RecordsFor returns the records of trackerID in insertion order.
func (l *Ledger) RecordsFor(trackerID string) []models.CompletionRecord {
	var out []models.CompletionRecord
	for _, r := range l.records {
		if r.TrackerID == trackerID {
			out = append(out, r)
		}
	}
	return out
}

// Days returns the completed days of trackerID in ascending order.
func (l *Ledger) Days(trackerID string) []string {
	var days []string
	for _, r := range l.records {
		if r.TrackerID == trackerID {
			days = append(days, r.Day)
		}
	}
	sort.Strings(days)
	return days
}

func (l *Ledger) Len() int {
	return len(l.records)
}

func (l *Ledger) insert(r models.CompletionRecord) {
	k := key{r.TrackerID, r.Day}
	if _, ok := l.index[k]; ok {
		return
	}
	l.index[k] = struct{}{}
	l.records = append(l.records, r)
	l.counts[r.TrackerID]++
}

func (l *Ledger) decrement(trackerID string) {
	if l.counts[trackerID] <= 1 {
		delete(l.counts, trackerID)
		return
	}
	l.counts[trackerID]--
}

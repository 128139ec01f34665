package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
)

// ConflictType represents the type of data inconsistency
type ConflictType string

const (
	ConflictOrphanTracker         ConflictType = "orphan_tracker"
	ConflictOrphanRecord          ConflictType = "orphan_record"
	ConflictDuplicateRecord       ConflictType = "duplicate_record"
	ConflictFutureRecord          ConflictType = "future_record"
	ConflictInvalidDate           ConflictType = "invalid_date"
	ConflictEmptyName             ConflictType = "empty_name"
	ConflictHabitWithDate         ConflictType = "habit_with_event_date"
	ConflictEventWithoutDate      ConflictType = "event_without_date"
	ConflictDuplicateCategory     ConflictType = "duplicate_category"
	ConflictDuplicateTrackerID    ConflictType = "duplicate_tracker_id"
	ConflictDuplicateTrackerTitle ConflictType = "duplicate_tracker_name"
)

// Conflict represents a detected inconsistency in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	TrackerID   string
	Day         string // YYYY-MM-DD (if applicable)
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Count returns the number of conflicts of one type.
func (r *Result) Count(t ConflictType) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks raw repository contents for data the in-memory model
// would refuse or silently drop.
type Validator struct {
	Today string // YYYY-MM-DD; records after it are in the future
}

func New(today string) *Validator {
	return &Validator{Today: today}
}

// Validate runs every check.
func (v *Validator) Validate(categories []models.Category, trackers []models.Tracker, records []models.CompletionRecord) Result {
	var res Result
	res.Conflicts = append(res.Conflicts, v.validateCategories(categories)...)
	res.Conflicts = append(res.Conflicts, v.validateTrackers(categories, trackers)...)
	res.Conflicts = append(res.Conflicts, v.validateRecords(trackers, records)...)
	return res
}

func (v *Validator) validateCategories(categories []models.Category) []Conflict {
	var conflicts []Conflict
	seen := make(map[string]bool)
	for _, c := range categories {
		if seen[c.Title] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateCategory,
				Description: fmt.Sprintf("Category title %q is used more than once", c.Title),
			})
		}
		seen[c.Title] = true
	}
	return conflicts
}

func (v *Validator) validateTrackers(categories []models.Category, trackers []models.Tracker) []Conflict {
	var conflicts []Conflict
	categoryIDs := make(map[string]bool, len(categories))
	for _, c := range categories {
		categoryIDs[c.ID] = true
	}

	ids := make(map[string]bool)
	names := make(map[string]string)
	for _, t := range trackers {
		label := t.Name
		if label == "" {
			label = t.ID
		}
		if ids[t.ID] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateTrackerID,
				Description: fmt.Sprintf("Tracker id %s appears more than once", t.ID),
				TrackerID:   t.ID,
			})
		}
		ids[t.ID] = true

		if !categoryIDs[t.CategoryID] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictOrphanTracker,
				Description: fmt.Sprintf("Tracker %q references a missing category", label),
				TrackerID:   t.ID,
			})
		}
		if strings.TrimSpace(t.Name) == "" {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("Tracker %s has an empty name", t.ID),
				TrackerID:   t.ID,
			})
		} else if key := strings.ToLower(t.Name) + "|" + t.CategoryID; names[key] != "" {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateTrackerTitle,
				Description: fmt.Sprintf("Tracker name %q is used twice in the same category", t.Name),
				TrackerID:   t.ID,
			})
		} else {
			names[key] = t.ID
		}

		switch {
		case t.IsHabit() && t.EventDate != "":
			conflicts = append(conflicts, Conflict{
				Type:        ConflictHabitWithDate,
				Description: fmt.Sprintf("Habit %q also has an event date (%s)", label, t.EventDate),
				TrackerID:   t.ID,
			})
		case t.IsEvent() && t.EventDate == "":
			conflicts = append(conflicts, Conflict{
				Type:        ConflictEventWithoutDate,
				Description: fmt.Sprintf("Tracker %q has neither a schedule nor an event date and is never shown", label),
				TrackerID:   t.ID,
			})
		case t.IsEvent() && !isValidDate(t.EventDate):
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Event %q has an invalid date %q", label, t.EventDate),
				TrackerID:   t.ID,
				Day:         t.EventDate,
			})
		}
	}
	return conflicts
}

func (v *Validator) validateRecords(trackers []models.Tracker, records []models.CompletionRecord) []Conflict {
	var conflicts []Conflict
	known := make(map[string]bool, len(trackers))
	for _, t := range trackers {
		known[t.ID] = true
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if !isValidDate(r.Day) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Completion of %s has an invalid day %q", r.TrackerID, r.Day),
				TrackerID:   r.TrackerID,
				Day:         r.Day,
			})
			continue
		}
		if !known[r.TrackerID] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictOrphanRecord,
				Description: fmt.Sprintf("Completion on %s belongs to unknown tracker %s", r.Day, r.TrackerID),
				TrackerID:   r.TrackerID,
				Day:         r.Day,
			})
		}
		key := r.TrackerID + "|" + r.Day
		if seen[key] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateRecord,
				Description: fmt.Sprintf("Tracker %s is completed twice on %s", r.TrackerID, r.Day),
				TrackerID:   r.TrackerID,
				Day:         r.Day,
			})
		}
		seen[key] = true
		if v.Today != "" && r.Day > v.Today {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictFutureRecord,
				Description: fmt.Sprintf("Tracker %s is completed on %s, which is in the future", r.TrackerID, r.Day),
				TrackerID:   r.TrackerID,
				Day:         r.Day,
			})
		}
	}
	return conflicts
}

// AutoFixOrphanRecords removes completion records whose tracker no longer
// exists. Other conflicts need a human decision and are left alone.
func AutoFixOrphanRecords(conflicts []Conflict, deleteFunc func(trackerID, day string) error) []FixAction {
	var actions []FixAction
	for _, c := range conflicts {
		if c.Type != ConflictOrphanRecord {
			continue
		}
		if err := deleteFunc(c.TrackerID, c.Day); err != nil {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove completion of %s on %s: %v", c.TrackerID, c.Day, err),
				SourceConflict: c,
			})
			continue
		}
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Removed completion of unknown tracker %s on %s", c.TrackerID, c.Day),
			SourceConflict: c,
		})
	}
	return actions
}

func isValidDate(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

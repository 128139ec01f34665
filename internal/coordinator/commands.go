package coordinator

import (
	"errors"
	"strings"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// Mode selects whether a TrackerCommand creates or edits.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Kind selects between a weekly habit and a one-off event.
type Kind int

const (
	KindHabit Kind = iota
	KindEvent
)

func (k Kind) String() string {
	if k == KindEvent {
		return "event"
	}
	return "habit"
}

// TrackerInput is the form data shared by create and edit.
type TrackerInput struct {
	Kind      Kind
	Name      string
	Emoji     string
	Color     models.Color
	Schedule  models.Schedule
	EventDate string // YYYY-MM-DD, events only
	Category  string // category title
	Pinned    bool   // honoured on create; edits keep the current flag
}

// InputFrom pre-fills a form from an existing tracker.
func InputFrom(t models.Tracker, categoryTitle string) TrackerInput {
	kind := KindHabit
	if t.IsEvent() {
		kind = KindEvent
	}
	return TrackerInput{
		Kind:      kind,
		Name:      t.Name,
		Emoji:     t.Emoji,
		Color:     t.Color,
		Schedule:  t.Schedule,
		EventDate: t.EventDate,
		Category:  categoryTitle,
		Pinned:    t.Pinned,
	}
}

// TrackerCommand is the single create/edit command. ExistingID is required
// in ModeEdit and ignored in ModeCreate.
type TrackerCommand struct {
	Mode       Mode
	ExistingID string
	TrackerInput
}

// Validate checks the form and returns the normalised input. All field
// errors are joined so a form can flag each one.
func (cmd TrackerCommand) Validate() (TrackerInput, error) {
	in := cmd.TrackerInput
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.EventDate = strings.TrimSpace(in.EventDate)

	var errs []error
	if cmd.Mode == ModeEdit && cmd.ExistingID == "" {
		errs = append(errs, invalid("id", ErrMissingID))
	}
	if in.Name == "" {
		errs = append(errs, invalid("name", ErrEmptyName))
	}
	if in.Category == "" {
		errs = append(errs, invalid("category", ErrEmptyCategory))
	}

	switch in.Kind {
	case KindEvent:
		if !in.Schedule.IsEmpty() {
			errs = append(errs, invalid("schedule", ErrScheduledEvent))
		}
		if in.EventDate == "" {
			errs = append(errs, invalid("date", ErrMissingEventDate))
		} else if !utils.ValidateDateFormat(in.EventDate) {
			errs = append(errs, invalid("date", ErrInvalidEventDate))
		}
	default:
		if in.Schedule.IsEmpty() {
			errs = append(errs, invalid("schedule", ErrEmptySchedule))
		}
		if in.EventDate != "" {
			errs = append(errs, invalid("date", ErrScheduledEvent))
		}
	}

	if in.Color == "" {
		in.Color = models.DefaultColor
	} else if c, err := models.ParseColor(string(in.Color)); err != nil {
		errs = append(errs, invalid("color", ErrInvalidColor))
	} else {
		in.Color = c
	}

	if len(errs) > 0 {
		return TrackerInput{}, errors.Join(errs...)
	}
	return in, nil
}

// CompletionState is the per (tracker, date) toggle state.
type CompletionState int

const (
	Incomplete CompletionState = iota
	Complete
)

func (s CompletionState) String() string {
	if s == Complete {
		return "complete"
	}
	return "incomplete"
}

package coordinator

import "errors"

var (
	ErrEmptyName        = errors.New("name is empty")
	ErrEmptyCategory    = errors.New("category is empty")
	ErrEmptySchedule    = errors.New("habit needs at least one weekday")
	ErrMissingEventDate = errors.New("event needs a date")
	ErrInvalidEventDate = errors.New("event date must be YYYY-MM-DD")
	ErrScheduledEvent   = errors.New("a tracker cannot have both a schedule and an event date")
	ErrInvalidColor     = errors.New("color must be #RRGGBB")
	ErrMissingID        = errors.New("edit needs the id of an existing tracker")
)

// ValidationError reports a bad form field so the caller can correct it
// inline. Several may be joined with errors.Join.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

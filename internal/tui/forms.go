package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/coordinator"
	"github.com/julianstephens/tally/internal/models"
)

const (
	kindHabit = "habit"
	kindEvent = "event"
)

// TrackerFormModel backs the create/edit tracker form.
type TrackerFormModel struct {
	Mode       coordinator.Mode
	ExistingID string
	Name       string
	Category   string
	Kind       string
	Days       []models.Weekday
	Date       string
	Emoji      string
	Color      string
	Pinned     bool
}

type CategoryFormModel struct {
	Title string
}

// newTrackerFormModel pre-fills the form; t is nil when creating.
func newTrackerFormModel(t *models.Tracker, categoryTitle string, date time.Time) *TrackerFormModel {
	if t == nil {
		return &TrackerFormModel{
			Mode:     coordinator.ModeCreate,
			Category: categoryTitle,
			Kind:     kindHabit,
			Date:     date.Format(constants.DateFormat),
			Color:    string(models.DefaultColor),
		}
	}
	in := coordinator.InputFrom(*t, categoryTitle)
	fm := &TrackerFormModel{
		Mode:       coordinator.ModeEdit,
		ExistingID: t.ID,
		Name:       in.Name,
		Category:   in.Category,
		Kind:       in.Kind.String(),
		Days:       in.Schedule.Days(),
		Date:       in.EventDate,
		Emoji:      in.Emoji,
		Color:      string(in.Color),
		Pinned:     in.Pinned,
	}
	if fm.Date == "" {
		fm.Date = date.Format(constants.DateFormat)
	}
	return fm
}

// Command converts the form into a coordinator command.
func (fm *TrackerFormModel) Command() coordinator.TrackerCommand {
	in := coordinator.TrackerInput{
		Kind:     coordinator.KindHabit,
		Name:     fm.Name,
		Emoji:    fm.Emoji,
		Color:    models.Color(fm.Color),
		Category: fm.Category,
		Pinned:   fm.Pinned,
	}
	if fm.Kind == kindEvent {
		in.Kind = coordinator.KindEvent
		in.EventDate = fm.Date
	} else {
		in.Schedule = models.NewSchedule(fm.Days...)
	}
	return coordinator.TrackerCommand{
		Mode:         fm.Mode,
		ExistingID:   fm.ExistingID,
		TrackerInput: in,
	}
}

func NewTrackerForm(fm *TrackerFormModel, categories []models.Category, firstWeekday time.Weekday) *huh.Form {
	categoryOptions := make([]huh.Option[string], 0, len(categories))
	for _, c := range categories {
		categoryOptions = append(categoryOptions, huh.NewOption(c.Title, c.Title))
	}

	dayOptions := make([]huh.Option[models.Weekday], 0, 7)
	for _, w := range models.WeekOrder(firstWeekday) {
		dayOptions = append(dayOptions, huh.NewOption(w.String(), w))
	}

	emojiOptions := []huh.Option[string]{huh.NewOption("none", "")}
	for _, e := range models.EmojiPalette {
		emojiOptions = append(emojiOptions, huh.NewOption(e, e))
	}

	colorOptions := make([]huh.Option[string], 0, len(models.Palette))
	for _, c := range models.Palette {
		colorOptions = append(colorOptions, huh.NewOption(string(c), string(c)))
	}

	title := "New tracker"
	if fm.Mode == coordinator.ModeEdit {
		title = "Edit tracker"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&fm.Category),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Habit (weekly)", kindHabit),
					huh.NewOption("Event (one day)", kindEvent),
				).
				Value(&fm.Kind),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.Weekday]().
				Title("Repeat on").
				Options(dayOptions...).
				Value(&fm.Days).
				Validate(func(days []models.Weekday) error {
					if len(days) == 0 {
						return coordinator.ErrEmptySchedule
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Kind != kindHabit }),
		huh.NewGroup(
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return coordinator.ErrInvalidEventDate
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Kind != kindEvent }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Emoji").
				Options(emojiOptions...).
				Value(&fm.Emoji),
			huh.NewSelect[string]().
				Title("Colour").
				Options(colorOptions...).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewCategoryForm(fm *CategoryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Category title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewConfirmForm(title string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

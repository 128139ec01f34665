// Package catalog holds the in-memory set of categories and trackers.
//
// Categories keep creation order and trackers keep insertion order; both
// orders drive the projection. Every tracker references an existing category
// at all times.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/models"
)

var (
	ErrDuplicateID     = errors.New("catalog: tracker id already exists")
	ErrUnknownCategory = errors.New("catalog: unknown category")
	ErrNotFound        = errors.New("catalog: tracker not found")
	ErrDuplicateTitle  = errors.New("catalog: category title already exists")
	ErrEmptyTitle      = errors.New("catalog: category title is empty")
	ErrAmbiguous       = errors.New("catalog: tracker reference is ambiguous")
)

type Catalog struct {
	categories []models.Category
	trackers   []models.Tracker
}

func New() *Catalog {
	return &Catalog{}
}

// Replace swaps in a snapshot loaded from storage. Categories must already be
// in creation order and trackers in insertion order.
func (c *Catalog) Replace(categories []models.Category, trackers []models.Tracker) error {
	next := &Catalog{
		categories: append([]models.Category(nil), categories...),
	}
	seenTitles := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if seenTitles[cat.Title] {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, cat.Title)
		}
		seenTitles[cat.Title] = true
	}
	for _, t := range trackers {
		if _, ok := next.categoryByID(t.CategoryID); !ok {
			return fmt.Errorf("%w: tracker %s references category %s", ErrUnknownCategory, t.ID, t.CategoryID)
		}
		if next.indexOf(t.ID) >= 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		next.trackers = append(next.trackers, t)
	}
	*c = *next
	return nil
}

// Clone returns an independent copy. Mutations on the clone never affect c.
func (c *Catalog) Clone() *Catalog {
	return &Catalog{
		categories: append([]models.Category(nil), c.categories...),
		trackers:   append([]models.Tracker(nil), c.trackers...),
	}
}

// IsEmpty reports whether the catalog holds no trackers.
func (c *Catalog) IsEmpty() bool {
	return len(c.trackers) == 0
}

// Categories returns the categories in creation order.
func (c *Catalog) Categories() []models.Category {
	return append([]models.Category(nil), c.categories...)
}

// Trackers returns all trackers in insertion order.
func (c *Catalog) Trackers() []models.Tracker {
	return append([]models.Tracker(nil), c.trackers...)
}

// TrackersIn returns the trackers of one category in insertion order.
func (c *Catalog) TrackersIn(categoryID string) []models.Tracker {
	var out []models.Tracker
	for _, t := range c.trackers {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Tracker(id string) (models.Tracker, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return models.Tracker{}, false
	}
	return c.trackers[i], true
}

// Category looks a category up by exact title.
func (c *Catalog) Category(title string) (models.Category, bool) {
	for _, cat := range c.categories {
		if cat.Title == title {
			return cat, true
		}
	}
	return models.Category{}, false
}

func (c *Catalog) CategoryByID(id string) (models.Category, bool) {
	return c.categoryByID(id)
}

// CategoryOf returns the category a tracker belongs to.
func (c *Catalog) CategoryOf(trackerID string) (models.Category, bool) {
	t, ok := c.Tracker(trackerID)
	if !ok {
		return models.Category{}, false
	}
	return c.categoryByID(t.CategoryID)
}

// FindTracker resolves a user supplied reference: an exact id first, then a
// case-insensitive name match that must be unique.
func (c *Catalog) FindTracker(ref string) (models.Tracker, error) {
	if t, ok := c.Tracker(ref); ok {
		return t, nil
	}
	var found []models.Tracker
	for _, t := range c.trackers {
		if strings.EqualFold(t.Name, strings.TrimSpace(ref)) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return models.Tracker{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return models.Tracker{}, fmt.Errorf("%w: %d trackers named %q", ErrAmbiguous, len(found), ref)
	}
}

// AddTracker appends t under the category titled categoryTitle. Categories are
// never created implicitly.
func (c *Catalog) AddTracker(t models.Tracker, categoryTitle string) (models.Tracker, error) {
	if c.indexOf(t.ID) >= 0 {
		return models.Tracker{}, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	cat, ok := c.Category(categoryTitle)
	if !ok {
		return models.Tracker{}, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryTitle)
	}
	t.CategoryID = cat.ID
	c.trackers = append(c.trackers, t)
	return t, nil
}

// UpdateTracker replaces the tracker with the same id in place, keeping its
// position, and re-parents it when categoryTitle names another category.
func (c *Catalog) UpdateTracker(t models.Tracker, categoryTitle string) (models.Tracker, error) {
	i := c.indexOf(t.ID)
	if i < 0 {
		return models.Tracker{}, fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	cat, ok := c.Category(categoryTitle)
	if !ok {
		return models.Tracker{}, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryTitle)
	}
	t.CategoryID = cat.ID
	c.trackers[i] = t
	return t, nil
}

// DeleteTracker removes the tracker. Completion records are left to the ledger.
func (c *Catalog) DeleteTracker(id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.trackers = append(c.trackers[:i], c.trackers[i+1:]...)
	return nil
}

// SetPinned flips the pinned flag of a tracker.
func (c *Catalog) SetPinned(id string, pinned bool) (models.Tracker, error) {
	i := c.indexOf(id)
	if i < 0 {
		return models.Tracker{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.trackers[i].Pinned = pinned
	return c.trackers[i], nil
}

// AddCategory appends a new empty category. Titles are compared exactly.
func (c *Catalog) AddCategory(title string) (models.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Category{}, ErrEmptyTitle
	}
	if _, ok := c.Category(title); ok {
		return models.Category{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}
	cat := models.Category{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	c.categories = append(c.categories, cat)
	return cat, nil
}

// RenameCategory changes a category title. Trackers reference the category by
// id and are unaffected.
func (c *Catalog) RenameCategory(oldTitle, newTitle string) (models.Category, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return models.Category{}, ErrEmptyTitle
	}
	idx := -1
	for i, cat := range c.categories {
		if cat.Title == oldTitle {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, oldTitle)
	}
	if newTitle == oldTitle {
		return c.categories[idx], nil
	}
	if _, ok := c.Category(newTitle); ok {
		return models.Category{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, newTitle)
	}
	c.categories[idx].Title = newTitle
	return c.categories[idx], nil
}

func (c *Catalog) indexOf(id string) int {
	for i, t := range c.trackers {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) categoryByID(id string) (models.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return models.Category{}, false
}

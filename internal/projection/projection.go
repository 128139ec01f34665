// Package projection computes what is visible for a selected date and search
// term: category groups of due, matching trackers with their completion state.
package projection

import (
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// Catalog is the read side of the tracker catalog.
type Catalog interface {
	Categories() []models.Category
	Trackers() []models.Tracker
}

// Ledger is the read side of the completion ledger.
type Ledger interface {
	IsCompletedOn(trackerID string, date time.Time) bool
	CountCompletions(trackerID string) int
}

type TrackerView struct {
	Tracker        models.Tracker
	Completed      bool // completed on the selected date
	CompletedCount int  // completions across all days
	Caption        string
}

type Group struct {
	Title      string
	CategoryID string // empty for the pinned group
	Pinned     bool
	Trackers   []TrackerView
}

type Projection struct {
	Date   time.Time
	Day    string
	Search string
	Groups []Group

	// CatalogEmpty is set when there are no trackers at all; NoMatches when
	// trackers exist but none is due and matching.
	CatalogEmpty bool
	NoMatches    bool
}

// Len returns the number of visible trackers.
func (p Projection) Len() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Trackers)
	}
	return n
}

// Find returns the view of a visible tracker.
func (p Projection) Find(trackerID string) (TrackerView, bool) {
	for _, g := range p.Groups {
		for _, v := range g.Trackers {
			if v.Tracker.ID == trackerID {
				return v, true
			}
		}
	}
	return TrackerView{}, false
}

// Views flattens the groups in display order.
func (p Projection) Views() []TrackerView {
	out := make([]TrackerView, 0, p.Len())
	for _, g := range p.Groups {
		out = append(out, g.Trackers...)
	}
	return out
}

type Engine struct {
	Location     *time.Location
	FirstWeekday time.Weekday
}

// Project builds the projection for date and search. Pinned trackers form a
// single leading group; the rest are grouped by category in creation order.
// Trackers keep catalog order within a group and empty groups are dropped.
func (e Engine) Project(cat Catalog, led Ledger, date time.Time, search string) Projection {
	loc := e.Location
	if loc == nil {
		loc = time.Local
	}
	date = date.In(loc)
	term := strings.ToLower(strings.TrimSpace(search))
	trackers := cat.Trackers()

	p := Projection{
		Date:         date,
		Day:          utils.DayKey(date, loc),
		Search:       strings.TrimSpace(search),
		CatalogEmpty: len(trackers) == 0,
	}
	if p.CatalogEmpty {
		return p
	}

	visible := func(t models.Tracker) bool {
		if !utils.IsDueOn(t, date, e.FirstWeekday, loc) {
			return false
		}
		return term == "" || strings.Contains(strings.ToLower(t.Name), term)
	}
	view := func(t models.Tracker) TrackerView {
		return TrackerView{
			Tracker:        t,
			Completed:      led.IsCompletedOn(t.ID, date),
			CompletedCount: led.CountCompletions(t.ID),
			Caption:        t.Caption(),
		}
	}

	pinned := Group{Title: constants.PinnedGroupTitle, Pinned: true}
	byCategory := make(map[string][]TrackerView)
	for _, t := range trackers {
		if !visible(t) {
			continue
		}
		if t.Pinned {
			pinned.Trackers = append(pinned.Trackers, view(t))
			continue
		}
		byCategory[t.CategoryID] = append(byCategory[t.CategoryID], view(t))
	}

	if len(pinned.Trackers) > 0 {
		p.Groups = append(p.Groups, pinned)
	}
	for _, c := range cat.Categories() {
		views := byCategory[c.ID]
		if len(views) == 0 {
			continue
		}
		p.Groups = append(p.Groups, Group{Title: c.Title, CategoryID: c.ID, Trackers: views})
	}

	p.NoMatches = len(p.Groups) == 0
	return p
}

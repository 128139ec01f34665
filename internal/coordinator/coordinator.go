// Package coordinator is the single entry point for changing trackers,
// categories and completion records. Each mutation is validated against a
// copy of the in-memory state, written through the repository, and only then
// made visible; the projection for the current selection is recomputed and
// observers are notified.
package coordinator

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/catalog"
	"github.com/julianstephens/tally/internal/ledger"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/projection"
	"github.com/julianstephens/tally/internal/utils"
)

// Repository is the persistence the coordinator writes through. Errors are
// returned to callers unmodified.
type Repository interface {
	GetAllCategories() ([]models.Category, error)
	GetAllTrackers() ([]models.Tracker, error)
	GetAllCompletionRecords() ([]models.CompletionRecord, error)
	SaveCategory(models.Category) error
	SaveTracker(t models.Tracker, categoryTitle string) error
	DeleteTracker(id string) error
	SaveCompletionRecord(models.CompletionRecord) error
	DeleteCompletionRecord(trackerID, day string) error
}

type Options struct {
	Location     *time.Location
	FirstWeekday time.Weekday
	Now          func() time.Time
}

// OptionsFromSettings derives coordinator options from stored settings.
func OptionsFromSettings(s models.Settings) (Options, error) {
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		return Options{}, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return Options{Location: loc, FirstWeekday: s.FirstWeekday}, nil
}

type Coordinator struct {
	mu     sync.Mutex
	repo   Repository
	engine projection.Engine
	now    func() time.Time

	catalog *catalog.Catalog
	ledger  *ledger.Ledger

	date      time.Time
	search    string
	current   projection.Projection
	observers []subscription
	nextID    int
}

type subscription struct {
	id       int
	observer Observer
}

// New loads the repository contents and selects today with no search term.
func New(repo Repository, opts Options) (*Coordinator, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Coordinator{
		repo:    repo,
		engine:  projection.Engine{Location: opts.Location, FirstWeekday: opts.FirstWeekday},
		now:     opts.Now,
		catalog: catalog.New(),
		ledger:  ledger.New(ledger.WithLocation(opts.Location), ledger.WithClock(opts.Now)),
		date:    opts.Now().In(opts.Location),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	c.current = c.project()
	return c, nil
}

// Subscribe registers an observer and returns a function removing it.
func (c *Coordinator) Subscribe(o Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, subscription{id: id, observer: o})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.observers {
			if sub.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// Select changes the selected date and search term and returns the projection.
func (c *Coordinator) Select(date time.Time, search string) projection.Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = date.In(c.engine.Location)
	c.search = search
	c.current = c.project()
	return c.current
}

// Projection returns the projection for the current selection.
func (c *Coordinator) Projection() projection.Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// ProjectionFor computes a projection without changing the selection.
func (c *Coordinator) ProjectionFor(date time.Time, search string) projection.Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Project(c.catalog, c.ledger, date, search)
}

func (c *Coordinator) Location() *time.Location   { return c.engine.Location }
func (c *Coordinator) FirstWeekday() time.Weekday { return c.engine.FirstWeekday }

// Now returns the current time in the configured location.
func (c *Coordinator) Now() time.Time {
	return c.now().In(c.engine.Location)
}

func (c *Coordinator) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Categories()
}

func (c *Coordinator) Trackers() []models.Tracker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Trackers()
}

func (c *Coordinator) Records() []models.CompletionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Records()
}

// FindTracker resolves an id or a unique tracker name.
func (c *Coordinator) FindTracker(ref string) (models.Tracker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.FindTracker(ref)
}

// CategoryOf returns the category a tracker belongs to.
func (c *Coordinator) CategoryOf(trackerID string) (models.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.CategoryOf(trackerID)
}

// State returns the completion state of a tracker on date.
func (c *Coordinator) State(trackerID string, date time.Time) CompletionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ledger.IsCompletedOn(trackerID, date) {
		return Complete
	}
	return Incomplete
}

// ToggleCompletion moves a tracker between Incomplete and Complete on date.
// Marking a future date fails with ledger.ErrFutureDate; unmarking is always
// allowed. It returns the resulting state.
func (c *Coordinator) ToggleCompletion(trackerID string, date time.Time) (CompletionState, error) {
	state := Incomplete
	err := c.mutate(RecordsChanged, func(cat *catalog.Catalog, led *ledger.Ledger) error {
		if led.IsCompletedOn(trackerID, date) {
			state = Complete
			if err := c.unmark(led, trackerID, date); err != nil {
				return err
			}
			state = Incomplete
			return nil
		}
		if err := c.mark(cat, led, trackerID, date); err != nil {
			return err
		}
		state = Complete
		return nil
	})
	return state, err
}

// Mark records a completion of trackerID on date.
func (c *Coordinator) Mark(trackerID string, date time.Time) error {
	return c.mutate(RecordsChanged, func(cat *catalog.Catalog, led *ledger.Ledger) error {
		return c.mark(cat, led, trackerID, date)
	})
}

// Unmark removes the completion of trackerID on date.
func (c *Coordinator) Unmark(trackerID string, date time.Time) error {
	return c.mutate(RecordsChanged, func(_ *catalog.Catalog, led *ledger.Ledger) error {
		return c.unmark(led, trackerID, date)
	})
}

func (c *Coordinator) mark(cat *catalog.Catalog, led *ledger.Ledger, trackerID string, date time.Time) error {
	if _, ok := cat.Tracker(trackerID); !ok {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, trackerID)
	}
	rec, err := led.MarkComplete(trackerID, date)
	if err != nil {
		return err
	}
	if err := c.repo.SaveCompletionRecord(rec); err != nil {
		logger.Warn("failed to persist completion", "tracker", trackerID, "day", rec.Day, "error", err)
		return err
	}
	logger.Debug("completion marked", "tracker", trackerID, "day", rec.Day)
	return nil
}

func (c *Coordinator) unmark(led *ledger.Ledger, trackerID string, date time.Time) error {
	if err := led.UnmarkComplete(trackerID, date); err != nil {
		return err
	}
	day := utils.DayKey(date, led.Location())
	if err := c.repo.DeleteCompletionRecord(trackerID, day); err != nil {
		logger.Warn("failed to delete completion", "tracker", trackerID, "day", day, "error", err)
		return err
	}
	logger.Debug("completion unmarked", "tracker", trackerID, "day", day)
	return nil
}

// SaveTracker creates or edits a tracker depending on cmd.Mode. Form problems
// come back as *ValidationError values.
func (c *Coordinator) SaveTracker(cmd TrackerCommand) (models.Tracker, error) {
	in, err := cmd.Validate()
	if err != nil {
		return models.Tracker{}, err
	}

	var saved models.Tracker
	err = c.mutate(TrackersChanged, func(cat *catalog.Catalog, _ *ledger.Ledger) error {
		if _, ok := cat.Category(in.Category); !ok {
			return invalid("category", fmt.Errorf("%w: %q", catalog.ErrUnknownCategory, in.Category))
		}
		t := models.Tracker{
			Name:      in.Name,
			Emoji:     in.Emoji,
			Color:     in.Color,
			Schedule:  in.Schedule,
			EventDate: in.EventDate,
		}
		if in.Kind == KindEvent {
			t.Schedule = models.EmptySchedule
		}

		var err error
		switch cmd.Mode {
		case ModeEdit:
			existing, ok := cat.Tracker(cmd.ExistingID)
			if !ok {
				return fmt.Errorf("%w: %s", catalog.ErrNotFound, cmd.ExistingID)
			}
			t.ID = existing.ID
			t.Pinned = existing.Pinned
			t.CreatedAt = existing.CreatedAt
			saved, err = cat.UpdateTracker(t, in.Category)
		default:
			t.ID = uuid.New().String()
			t.Pinned = in.Pinned
			t.CreatedAt = c.now().UTC()
			saved, err = cat.AddTracker(t, in.Category)
		}
		if err != nil {
			return err
		}

		if err := c.repo.SaveTracker(saved, in.Category); err != nil {
			logger.Warn("failed to persist tracker", "mode", cmd.Mode, "name", saved.Name, "error", err)
			return err
		}
		logger.Debug("tracker saved", "mode", cmd.Mode, "id", saved.ID, "name", saved.Name)
		return nil
	})
	if err != nil {
		return models.Tracker{}, err
	}
	return saved, nil
}

// CreateTracker is SaveTracker in ModeCreate.
func (c *Coordinator) CreateTracker(in TrackerInput) (models.Tracker, error) {
	return c.SaveTracker(TrackerCommand{Mode: ModeCreate, TrackerInput: in})
}

// EditTracker is SaveTracker in ModeEdit.
func (c *Coordinator) EditTracker(id string, in TrackerInput) (models.Tracker, error) {
	return c.SaveTracker(TrackerCommand{Mode: ModeEdit, ExistingID: id, TrackerInput: in})
}

// DeleteTracker removes a tracker and all of its completion records.
func (c *Coordinator) DeleteTracker(id string) error {
	return c.mutate(TrackersChanged|RecordsChanged, func(cat *catalog.Catalog, led *ledger.Ledger) error {
		if err := cat.DeleteTracker(id); err != nil {
			return err
		}
		removed := led.DeleteAllFor(id)
		if err := c.repo.DeleteTracker(id); err != nil {
			logger.Warn("failed to delete tracker", "id", id, "error", err)
			return err
		}
		logger.Debug("tracker deleted", "id", id, "records", removed)
		return nil
	})
}

// SetPinned pins or unpins a tracker.
func (c *Coordinator) SetPinned(id string, pinned bool) error {
	return c.mutate(TrackersChanged, func(cat *catalog.Catalog, _ *ledger.Ledger) error {
		t, err := cat.SetPinned(id, pinned)
		if err != nil {
			return err
		}
		category, ok := cat.CategoryByID(t.CategoryID)
		if !ok {
			return fmt.Errorf("%w: tracker %s references category %s", catalog.ErrUnknownCategory, id, t.CategoryID)
		}
		if err := c.repo.SaveTracker(t, category.Title); err != nil {
			logger.Warn("failed to persist pin", "id", id, "error", err)
			return err
		}
		logger.Debug("tracker pin changed", "id", id, "pinned", pinned)
		return nil
	})
}

// CreateCategory adds an empty category.
func (c *Coordinator) CreateCategory(title string) (models.Category, error) {
	var created models.Category
	err := c.mutate(CategoriesChanged, func(cat *catalog.Catalog, _ *ledger.Ledger) error {
		var err error
		created, err = cat.AddCategory(title)
		if err != nil {
			return err
		}
		if err := c.repo.SaveCategory(created); err != nil {
			logger.Warn("failed to persist category", "title", created.Title, "error", err)
			return err
		}
		logger.Debug("category created", "id", created.ID, "title", created.Title)
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return created, nil
}

// RenameCategory changes a category title. Tracker membership is unchanged.
func (c *Coordinator) RenameCategory(oldTitle, newTitle string) (models.Category, error) {
	var renamed models.Category
	err := c.mutate(CategoriesChanged, func(cat *catalog.Catalog, _ *ledger.Ledger) error {
		var err error
		renamed, err = cat.RenameCategory(oldTitle, newTitle)
		if err != nil {
			return err
		}
		if err := c.repo.SaveCategory(renamed); err != nil {
			logger.Warn("failed to persist category rename", "from", oldTitle, "to", renamed.Title, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return renamed, nil
}

// Reload refetches everything from the repository, e.g. after another
// process changed the store, and notifies observers of all collections.
func (c *Coordinator) Reload() error {
	c.mu.Lock()
	if err := c.load(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.current = c.project()
	p := c.current
	observers := c.subscribers()
	c.mu.Unlock()

	notify(observers, AllChanged, p)
	return nil
}

// load must be called with mu held (or before the coordinator is shared).
func (c *Coordinator) load() error {
	categories, err := c.repo.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	trackers, err := c.repo.GetAllTrackers()
	if err != nil {
		return fmt.Errorf("failed to load trackers: %w", err)
	}
	records, err := c.repo.GetAllCompletionRecords()
	if err != nil {
		return fmt.Errorf("failed to load completion records: %w", err)
	}

	cat := catalog.New()
	if err := cat.Replace(categories, trackers); err != nil {
		return err
	}
	led := c.ledger.Clone()
	led.Replace(records)

	c.catalog, c.ledger = cat, led
	logger.Debug("state loaded", "categories", len(categories), "trackers", len(trackers), "records", len(records))
	return nil
}

// mutate runs fn against copies of the catalog and ledger. fn validates,
// applies and persists; the copies replace the live state only if it returns
// nil.
func (c *Coordinator) mutate(change Change, fn func(*catalog.Catalog, *ledger.Ledger) error) error {
	c.mu.Lock()
	cat, led := c.catalog.Clone(), c.ledger.Clone()
	if err := fn(cat, led); err != nil {
		c.mu.Unlock()
		return err
	}
	c.catalog, c.ledger = cat, led
	c.current = c.project()
	p := c.current
	observers := c.subscribers()
	c.mu.Unlock()

	notify(observers, change, p)
	return nil
}

func (c *Coordinator) subscribers() []Observer {
	out := make([]Observer, len(c.observers))
	for i, sub := range c.observers {
		out[i] = sub.observer
	}
	return out
}

func (c *Coordinator) project() projection.Projection {
	return c.engine.Project(c.catalog, c.ledger, c.date, c.search)
}

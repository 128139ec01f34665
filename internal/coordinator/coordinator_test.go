package coordinator

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/catalog"
	"github.com/julianstephens/tally/internal/ledger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/projection"
)

// 2024-01-03 was a Wednesday
var now = time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

var errDisk = errors.New("disk full")

type memRepo struct {
	categories []models.Category
	trackers   []models.Tracker
	records    []models.CompletionRecord
	fail       error
	writes     int
	// category title passed with the last SaveTracker
	lastTitle string
}

func (r *memRepo) GetAllCategories() ([]models.Category, error) { return r.categories, nil }
func (r *memRepo) GetAllTrackers() ([]models.Tracker, error)    { return r.trackers, nil }
func (r *memRepo) GetAllCompletionRecords() ([]models.CompletionRecord, error) {
	return r.records, nil
}

func (r *memRepo) SaveCategory(c models.Category) error {
	if r.fail != nil {
		return r.fail
	}
	r.writes++
	for i, existing := range r.categories {
		if existing.ID == c.ID {
			r.categories[i] = c
			return nil
		}
	}
	r.categories = append(r.categories, c)
	return nil
}

func (r *memRepo) SaveTracker(t models.Tracker, categoryTitle string) error {
	if r.fail != nil {
		return r.fail
	}
	r.writes++
	r.lastTitle = categoryTitle
	for i, existing := range r.trackers {
		if existing.ID == t.ID {
			r.trackers[i] = t
			return nil
		}
	}
	r.trackers = append(r.trackers, t)
	return nil
}

func (r *memRepo) DeleteTracker(id string) error {
	if r.fail != nil {
		return r.fail
	}
	r.writes++
	var kept []models.Tracker
	for _, t := range r.trackers {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	r.trackers = kept
	var recs []models.CompletionRecord
	for _, rec := range r.records {
		if rec.TrackerID != id {
			recs = append(recs, rec)
		}
	}
	r.records = recs
	return nil
}

func (r *memRepo) SaveCompletionRecord(rec models.CompletionRecord) error {
	if r.fail != nil {
		return r.fail
	}
	r.writes++
	r.records = append(r.records, rec)
	return nil
}

func (r *memRepo) DeleteCompletionRecord(trackerID, day string) error {
	if r.fail != nil {
		return r.fail
	}
	r.writes++
	for i, rec := range r.records {
		if rec.TrackerID == trackerID && rec.Day == day {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return nil
}

type countingObserver struct {
	trackers, categories, records int
	last                          projection.Projection
}

func (o *countingObserver) OnTrackersChanged(p projection.Projection)   { o.trackers++; o.last = p }
func (o *countingObserver) OnCategoriesChanged(p projection.Projection) { o.categories++; o.last = p }
func (o *countingObserver) OnRecordsChanged(p projection.Projection)    { o.records++; o.last = p }

func setupCoordinator(t *testing.T) (*Coordinator, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	c, err := New(repo, Options{
		Location:     time.UTC,
		FirstWeekday: time.Monday,
		Now:          func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("failed to create coordinator: %v", err)
	}
	if _, err := c.CreateCategory("Health"); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return c, repo
}

func createHabit(t *testing.T, c *Coordinator, name string, days ...models.Weekday) models.Tracker {
	t.Helper()
	tr, err := c.CreateTracker(TrackerInput{
		Kind:     KindHabit,
		Name:     name,
		Schedule: models.NewSchedule(days...),
		Category: "Health",
	})
	if err != nil {
		t.Fatalf("failed to create tracker %q: %v", name, err)
	}
	return tr
}

func TestNew_EmptyRepository(t *testing.T) {
	c, err := New(&memRepo{}, Options{Location: time.UTC, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p := c.Projection(); !p.CatalogEmpty {
		t.Errorf("expected CatalogEmpty projection, got %+v", p)
	}
}

func TestNew_LoadsRepository(t *testing.T) {
	repo := &memRepo{
		categories: []models.Category{{ID: "c1", Title: "Health"}},
		trackers:   []models.Tracker{{ID: "t1", Name: "Run", Schedule: models.EveryDay, CategoryID: "c1"}},
		records:    []models.CompletionRecord{{TrackerID: "t1", Day: "2024-01-03"}},
	}
	c, err := New(repo, Options{Location: time.UTC, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	v, ok := c.Projection().Find("t1")
	if !ok || !v.Completed || v.CompletedCount != 1 {
		t.Errorf("loaded view = %+v, ok = %v", v, ok)
	}
}

func TestCreateTracker(t *testing.T) {
	c, repo := setupCoordinator(t)
	obs := &countingObserver{}
	c.Subscribe(obs)

	tr := createHabit(t, c, "Run", models.Wednesday)

	if tr.ID == "" || tr.Color != models.DefaultColor {
		t.Errorf("created tracker = %+v", tr)
	}
	if len(repo.trackers) != 1 {
		t.Errorf("tracker not persisted")
	}
	if obs.trackers != 1 || obs.records != 0 {
		t.Errorf("observer calls = %+v", obs)
	}
	if _, ok := obs.last.Find(tr.ID); !ok {
		t.Errorf("observer projection misses the new tracker")
	}
}

func TestSaveTracker_Validation(t *testing.T) {
	c, repo := setupCoordinator(t)
	writes := repo.writes

	tests := []struct {
		name  string
		cmd   TrackerCommand
		want  error
		field string
	}{
		{"empty name", TrackerCommand{TrackerInput: TrackerInput{Name: " ", Schedule: models.EveryDay, Category: "Health"}}, ErrEmptyName, "name"},
		{"habit without days", TrackerCommand{TrackerInput: TrackerInput{Name: "x", Category: "Health"}}, ErrEmptySchedule, "schedule"},
		{"event without date", TrackerCommand{TrackerInput: TrackerInput{Kind: KindEvent, Name: "x", Category: "Health"}}, ErrMissingEventDate, "date"},
		{"event bad date", TrackerCommand{TrackerInput: TrackerInput{Kind: KindEvent, Name: "x", EventDate: "03/01/2024", Category: "Health"}}, ErrInvalidEventDate, "date"},
		{"event with schedule", TrackerCommand{TrackerInput: TrackerInput{Kind: KindEvent, Name: "x", EventDate: "2024-01-03", Schedule: models.EveryDay, Category: "Health"}}, ErrScheduledEvent, "schedule"},
		{"no category", TrackerCommand{TrackerInput: TrackerInput{Name: "x", Schedule: models.EveryDay}}, ErrEmptyCategory, "category"},
		{"bad color", TrackerCommand{TrackerInput: TrackerInput{Name: "x", Schedule: models.EveryDay, Category: "Health", Color: "red"}}, ErrInvalidColor, "color"},
		{"edit without id", TrackerCommand{Mode: ModeEdit, TrackerInput: TrackerInput{Name: "x", Schedule: models.EveryDay, Category: "Health"}}, ErrMissingID, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.SaveTracker(tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("SaveTracker() error = %v, want %v", err, tt.want)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("ValidationError field = %v, want %s", verr, tt.field)
			}
		})
	}

	if repo.writes != writes {
		t.Errorf("invalid commands must not reach the repository")
	}
}

func TestSaveTracker_UnknownCategory(t *testing.T) {
	c, repo := setupCoordinator(t)
	writes := repo.writes
	_, err := c.CreateTracker(TrackerInput{Name: "Read", Schedule: models.EveryDay, Category: "Study"})
	if !errors.Is(err, catalog.ErrUnknownCategory) {
		t.Fatalf("error = %v, want ErrUnknownCategory", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "category" {
		t.Errorf("error = %v, want a category ValidationError", err)
	}
	tr := createHabit(t, c, "Run", models.Monday)
	if _, err := c.EditTracker(tr.ID, TrackerInput{Name: "Run", Schedule: models.EveryDay, Category: "Study"}); !errors.As(err, &verr) || verr.Field != "category" {
		t.Errorf("edit error = %v, want a category ValidationError", err)
	}
	if repo.writes != writes+1 {
		t.Errorf("writes = %d, want only the valid create", repo.writes-writes)
	}
	if len(repo.categories) != 1 {
		t.Errorf("category must not be created implicitly")
	}
}

func TestEditTracker(t *testing.T) {
	c, repo := setupCoordinator(t)
	if _, err := c.CreateCategory("Study"); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	first := createHabit(t, c, "Run", models.Monday)
	second := createHabit(t, c, "Swim", models.Monday)
	if err := c.SetPinned(first.ID, true); err != nil {
		t.Fatalf("failed to pin: %v", err)
	}

	in := InputFrom(first, "Health")
	in.Name = "Long Run"
	in.Category = "Study"
	in.Schedule = models.NewSchedule(models.Wednesday)
	in.Pinned = false
	edited, err := c.EditTracker(first.ID, in)
	if err != nil {
		t.Fatalf("EditTracker() error = %v", err)
	}

	if edited.ID != first.ID || !edited.Pinned {
		t.Errorf("edit must keep id and pin, got %+v", edited)
	}
	if cat, _ := c.CategoryOf(first.ID); cat.Title != "Study" {
		t.Errorf("tracker not re-parented, category = %q", cat.Title)
	}
	trackers := c.Trackers()
	if trackers[0].ID != first.ID || trackers[1].ID != second.ID {
		t.Errorf("edit changed catalog order")
	}
	if repo.trackers[0].Name != "Long Run" {
		t.Errorf("edit not persisted: %+v", repo.trackers[0])
	}

	if _, err := c.EditTracker("missing", in); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("edit unknown error = %v, want ErrNotFound", err)
	}
}

func TestEditTracker_HabitToEvent(t *testing.T) {
	c, _ := setupCoordinator(t)
	tr := createHabit(t, c, "Dentist", models.Monday)

	edited, err := c.EditTracker(tr.ID, TrackerInput{Kind: KindEvent, Name: "Dentist", EventDate: "2024-01-03", Category: "Health"})
	if err != nil {
		t.Fatalf("EditTracker() error = %v", err)
	}
	if !edited.IsEvent() || edited.EventDate != "2024-01-03" {
		t.Errorf("edited tracker = %+v", edited)
	}
	if _, ok := c.Projection().Find(tr.ID); !ok {
		t.Errorf("event should be visible on its date")
	}
}

func TestToggleCompletion(t *testing.T) {
	c, repo := setupCoordinator(t)
	tr := createHabit(t, c, "Run", models.Wednesday)
	obs := &countingObserver{}
	c.Subscribe(obs)

	state, err := c.ToggleCompletion(tr.ID, now)
	if err != nil || state != Complete {
		t.Fatalf("first toggle = %v, %v", state, err)
	}
	v, _ := c.Projection().Find(tr.ID)
	if !v.Completed || v.CompletedCount != 1 {
		t.Errorf("view after mark = %+v", v)
	}

	state, err = c.ToggleCompletion(tr.ID, now)
	if err != nil || state != Incomplete {
		t.Fatalf("second toggle = %v, %v", state, err)
	}
	v, _ = c.Projection().Find(tr.ID)
	if v.Completed || v.CompletedCount != 0 {
		t.Errorf("view after unmark = %+v", v)
	}
	if len(repo.records) != 0 {
		t.Errorf("repository records = %v", repo.records)
	}
	if obs.records != 2 || obs.trackers != 0 {
		t.Errorf("observer calls = %+v", obs)
	}
}

func TestToggleCompletion_FutureDate(t *testing.T) {
	c, repo := setupCoordinator(t)
	tr := createHabit(t, c, "Run", models.Thursday)
	obs := &countingObserver{}
	c.Subscribe(obs)

	tomorrow := now.AddDate(0, 0, 1)
	state, err := c.ToggleCompletion(tr.ID, tomorrow)
	if !errors.Is(err, ledger.ErrFutureDate) {
		t.Fatalf("error = %v, want ErrFutureDate", err)
	}
	if state != Incomplete || len(repo.records) != 0 || obs.records != 0 {
		t.Errorf("rejected mark changed state: state=%v records=%d notified=%d", state, len(repo.records), obs.records)
	}
}

func TestUnmarkAllowedForFutureDatedRecord(t *testing.T) {
	repo := &memRepo{
		categories: []models.Category{{ID: "c1", Title: "Health"}},
		trackers:   []models.Tracker{{ID: "t1", Name: "Run", Schedule: models.EveryDay, CategoryID: "c1"}},
		records:    []models.CompletionRecord{{TrackerID: "t1", Day: "2024-01-10"}},
	}
	c, err := New(repo, Options{Location: time.UTC, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	future := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if state, err := c.ToggleCompletion("t1", future); err != nil || state != Incomplete {
		t.Errorf("unmark of future record = %v, %v", state, err)
	}
}

func TestRepositoryFailureLeavesStateUntouched(t *testing.T) {
	c, repo := setupCoordinator(t)
	tr := createHabit(t, c, "Run", models.Wednesday)
	before := c.Projection()
	obs := &countingObserver{}
	c.Subscribe(obs)

	repo.fail = errDisk

	if _, err := c.ToggleCompletion(tr.ID, now); err != errDisk {
		t.Errorf("toggle error = %v, want the repository error unmodified", err)
	}
	if err := c.DeleteTracker(tr.ID); err != errDisk {
		t.Errorf("delete error = %v", err)
	}
	if _, err := c.CreateCategory("Study"); err != errDisk {
		t.Errorf("create category error = %v", err)
	}
	if _, err := c.CreateTracker(TrackerInput{Name: "Swim", Schedule: models.EveryDay, Category: "Health"}); err != errDisk {
		t.Errorf("create tracker error = %v", err)
	}
	if err := c.SetPinned(tr.ID, true); err != errDisk {
		t.Errorf("pin error = %v", err)
	}

	after := c.Projection()
	if after.Len() != before.Len() || len(c.Categories()) != 1 || c.State(tr.ID, now) != Incomplete {
		t.Errorf("state changed after failed writes")
	}
	if v, _ := after.Find(tr.ID); v.Tracker.Pinned {
		t.Errorf("failed pin applied in memory")
	}
	if obs.trackers+obs.categories+obs.records != 0 {
		t.Errorf("observers notified for failed writes: %+v", obs)
	}
}

func TestDeleteTracker_CascadesRecords(t *testing.T) {
	c, repo := setupCoordinator(t)
	tr := createHabit(t, c, "Run", models.Monday, models.Tuesday, models.Wednesday)
	for i := 0; i < 3; i++ {
		if err := c.Mark(tr.ID, now.AddDate(0, 0, -i)); err != nil {
			t.Fatalf("failed to mark: %v", err)
		}
	}
	obs := &countingObserver{}
	c.Subscribe(obs)

	if err := c.DeleteTracker(tr.ID); err != nil {
		t.Fatalf("DeleteTracker() error = %v", err)
	}
	if len(c.Records()) != 0 || len(repo.records) != 0 {
		t.Errorf("records survived delete")
	}
	if obs.trackers != 1 || obs.records != 1 {
		t.Errorf("observer calls = %+v", obs)
	}
	if !c.Projection().CatalogEmpty {
		t.Errorf("projection should report an empty catalog")
	}
	if len(c.Categories()) != 1 {
		t.Errorf("category should persist after its last tracker is deleted")
	}
	if err := c.DeleteTracker(tr.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestSetPinned(t *testing.T) {
	c, repo := setupCoordinator(t)
	tr := createHabit(t, c, "Run", models.Wednesday)

	if err := c.SetPinned(tr.ID, true); err != nil {
		t.Fatalf("SetPinned() error = %v", err)
	}
	if repo.lastTitle != "Health" {
		t.Errorf("pin persisted with category %q, want Health", repo.lastTitle)
	}
	if err := c.SetPinned("missing", true); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("SetPinned(missing) error = %v", err)
	}
	p := c.Projection()
	if len(p.Groups) != 1 || !p.Groups[0].Pinned {
		t.Errorf("pinned tracker should form the only group, got %+v", p.Groups)
	}
}

func TestCategories(t *testing.T) {
	c, _ := setupCoordinator(t)
	obs := &countingObserver{}
	unsubscribe := c.Subscribe(obs)

	if _, err := c.CreateCategory("Health"); !errors.Is(err, catalog.ErrDuplicateTitle) {
		t.Errorf("duplicate category error = %v", err)
	}
	if _, err := c.CreateCategory("Study"); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if _, err := c.RenameCategory("Study", "Learning"); err != nil {
		t.Fatalf("RenameCategory() error = %v", err)
	}
	if obs.categories != 2 {
		t.Errorf("category notifications = %d, want 2", obs.categories)
	}

	unsubscribe()
	if _, err := c.CreateCategory("Chores"); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if obs.categories != 2 {
		t.Errorf("unsubscribed observer still notified")
	}
}

func TestSelect(t *testing.T) {
	c, _ := setupCoordinator(t)
	createHabit(t, c, "Morning Run", models.Wednesday)
	createHabit(t, c, "Read", models.Thursday)

	p := c.Select(now.AddDate(0, 0, 1), "")
	if p.Len() != 1 || p.Groups[0].Trackers[0].Tracker.Name != "Read" {
		t.Errorf("Thursday projection = %+v", p)
	}
	p = c.Select(now, "run")
	if p.Len() != 1 {
		t.Errorf("search projection = %+v", p)
	}
	if got := c.ProjectionFor(now, "zzz"); !got.NoMatches {
		t.Errorf("ProjectionFor() = %+v", got)
	}
	if c.Projection().Search != "run" {
		t.Errorf("ProjectionFor must not change the selection")
	}

	// 08:00 Thursday in Tokyo is still Wednesday in UTC
	tokyo := time.FixedZone("JST", 9*60*60)
	p = c.Select(time.Date(2024, 1, 4, 8, 0, 0, 0, tokyo), "")
	if p.Day != "2024-01-03" || p.Len() != 1 || p.Groups[0].Trackers[0].Tracker.Name != "Morning Run" {
		t.Errorf("cross-zone projection = %+v", p)
	}
}

func TestReload(t *testing.T) {
	c, repo := setupCoordinator(t)
	obs := &countingObserver{}
	c.Subscribe(ObserverFuncs{Records: obs.OnRecordsChanged})

	cat := repo.categories[0]
	repo.trackers = append(repo.trackers, models.Tracker{ID: "ext", Name: "External", Schedule: models.EveryDay, CategoryID: cat.ID})
	repo.records = append(repo.records, models.CompletionRecord{TrackerID: "ext", Day: "2024-01-03"})

	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	v, ok := c.Projection().Find("ext")
	if !ok || !v.Completed {
		t.Errorf("reloaded view = %+v, %v", v, ok)
	}
	if obs.records != 1 {
		t.Errorf("records observer called %d times", obs.records)
	}
}

package projection

import (
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/catalog"
	"github.com/julianstephens/tally/internal/ledger"
	"github.com/julianstephens/tally/internal/models"
)

// 2024-01-03 was a Wednesday
var wednesday = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

type fixture struct {
	cat *catalog.Catalog
	led *ledger.Ledger
	eng Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cat: catalog.New(),
		led: ledger.New(ledger.WithLocation(time.UTC), ledger.WithClock(func() time.Time { return wednesday })),
		eng: Engine{Location: time.UTC, FirstWeekday: time.Monday},
	}
	for _, title := range []string{"Health", "Study", "Chores"} {
		if _, err := f.cat.AddCategory(title); err != nil {
			t.Fatalf("failed to add category: %v", err)
		}
	}
	return f
}

func (f *fixture) add(t *testing.T, tr models.Tracker, category string) {
	t.Helper()
	if _, err := f.cat.AddTracker(tr, category); err != nil {
		t.Fatalf("failed to add tracker %s: %v", tr.ID, err)
	}
}

func titles(p Projection) []string {
	var out []string
	for _, g := range p.Groups {
		out = append(out, g.Title)
	}
	return out
}

func ids(g Group) []string {
	var out []string
	for _, v := range g.Trackers {
		out = append(out, v.Tracker.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProject_EmptyCatalog(t *testing.T) {
	f := newFixture(t)
	p := f.eng.Project(f.cat, f.led, wednesday, "")
	if !p.CatalogEmpty || p.NoMatches || len(p.Groups) != 0 {
		t.Errorf("empty catalog projection = %+v", p)
	}
}

func TestProject_GroupsDueTrackers(t *testing.T) {
	f := newFixture(t)
	f.add(t, models.Tracker{ID: "run", Name: "Run", Schedule: models.NewSchedule(models.Monday, models.Wednesday)}, "Health")
	f.add(t, models.Tracker{ID: "swim", Name: "Swim", Schedule: models.NewSchedule(models.Tuesday)}, "Health")
	f.add(t, models.Tracker{ID: "read", Name: "Read", Schedule: models.EveryDay}, "Study")
	f.add(t, models.Tracker{ID: "exam", Name: "Exam", EventDate: "2024-01-03"}, "Study")
	f.add(t, models.Tracker{ID: "trash", Name: "Trash", Schedule: models.NewSchedule(models.Friday)}, "Chores")

	p := f.eng.Project(f.cat, f.led, wednesday, "")

	if got := titles(p); !equal(got, []string{"Health", "Study"}) {
		t.Fatalf("group titles = %v, want [Health Study]", got)
	}
	if got := ids(p.Groups[0]); !equal(got, []string{"run"}) {
		t.Errorf("Health trackers = %v", got)
	}
	if got := ids(p.Groups[1]); !equal(got, []string{"read", "exam"}) {
		t.Errorf("Study trackers = %v, want insertion order", got)
	}
	if p.CatalogEmpty || p.NoMatches {
		t.Errorf("flags should be clear: %+v", p)
	}
}

func TestProject_PinnedGroupLeads(t *testing.T) {
	f := newFixture(t)
	f.add(t, models.Tracker{ID: "a", Name: "A", Schedule: models.EveryDay}, "Health")
	f.add(t, models.Tracker{ID: "b", Name: "B", Schedule: models.EveryDay, Pinned: true}, "Study")
	f.add(t, models.Tracker{ID: "c", Name: "C", Schedule: models.EveryDay, Pinned: true}, "Health")
	f.add(t, models.Tracker{ID: "d", Name: "D", Schedule: models.NewSchedule(models.Sunday), Pinned: true}, "Health")

	p := f.eng.Project(f.cat, f.led, wednesday, "")

	if got := titles(p); !equal(got, []string{"Pinned", "Health"}) {
		t.Fatalf("group titles = %v", got)
	}
	if !p.Groups[0].Pinned {
		t.Errorf("first group should be flagged pinned")
	}
	if got := ids(p.Groups[0]); !equal(got, []string{"b", "c"}) {
		t.Errorf("pinned trackers = %v, want [b c]", got)
	}
	// the pinned tracker is not repeated in its category
	if got := ids(p.Groups[1]); !equal(got, []string{"a"}) {
		t.Errorf("Health trackers = %v, want [a]", got)
	}
}

func TestProject_Search(t *testing.T) {
	f := newFixture(t)
	f.add(t, models.Tracker{ID: "a", Name: "Morning Run", Schedule: models.EveryDay}, "Health")
	f.add(t, models.Tracker{ID: "b", Name: "Read", Schedule: models.EveryDay}, "Study")

	p := f.eng.Project(f.cat, f.led, wednesday, "  RUN ")
	if got := titles(p); !equal(got, []string{"Health"}) {
		t.Fatalf("group titles = %v", got)
	}
	if p.Search != "RUN" {
		t.Errorf("Search = %q", p.Search)
	}

	p = f.eng.Project(f.cat, f.led, wednesday, "swim")
	if !p.NoMatches || p.CatalogEmpty || len(p.Groups) != 0 {
		t.Errorf("no-match projection = %+v", p)
	}
}

func TestProject_NoneDue(t *testing.T) {
	f := newFixture(t)
	f.add(t, models.Tracker{ID: "a", Name: "A", Schedule: models.NewSchedule(models.Saturday)}, "Health")
	f.add(t, models.Tracker{ID: "b", Name: "B", EventDate: "2024-01-04"}, "Health")

	p := f.eng.Project(f.cat, f.led, wednesday, "")
	if !p.NoMatches || p.CatalogEmpty {
		t.Errorf("expected NoMatches, got %+v", p)
	}
}

func TestProject_CompletionState(t *testing.T) {
	f := newFixture(t)
	f.add(t, models.Tracker{ID: "a", Name: "A", Schedule: models.EveryDay}, "Health")
	f.add(t, models.Tracker{ID: "b", Name: "B", Schedule: models.EveryDay}, "Health")

	for _, d := range []time.Time{wednesday, wednesday.AddDate(0, 0, -1), wednesday.AddDate(0, 0, -2)} {
		if _, err := f.led.MarkComplete("a", d); err != nil {
			t.Fatalf("failed to mark: %v", err)
		}
	}
	if _, err := f.led.MarkComplete("b", wednesday.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("failed to mark: %v", err)
	}

	p := f.eng.Project(f.cat, f.led, wednesday, "")
	a, _ := p.Find("a")
	b, _ := p.Find("b")
	if !a.Completed || a.CompletedCount != 3 {
		t.Errorf("a = %+v, want completed with count 3", a)
	}
	if b.Completed || b.CompletedCount != 1 {
		t.Errorf("b = %+v, want not completed with count 1", b)
	}
	if a.Caption != "every day" {
		t.Errorf("caption = %q", a.Caption)
	}
}

func TestProject_WeekStartDoesNotChangeVisibility(t *testing.T) {
	f := newFixture(t)
	f.add(t, models.Tracker{ID: "a", Name: "A", Schedule: models.NewSchedule(models.Wednesday)}, "Health")

	for first := time.Sunday; first <= time.Saturday; first++ {
		eng := Engine{Location: time.UTC, FirstWeekday: first}
		if p := eng.Project(f.cat, f.led, wednesday, ""); p.Len() != 1 {
			t.Errorf("week start %v hides the Wednesday habit", first)
		}
	}
}

func TestProject_DateFromAnotherZone(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	f := newFixture(t)
	f.add(t, models.Tracker{ID: "tue", Name: "Tuesday habit", Schedule: models.NewSchedule(models.Tuesday)}, "Health")
	f.add(t, models.Tracker{ID: "mon", Name: "Monday habit", Schedule: models.NewSchedule(models.Monday)}, "Health")
	f.add(t, models.Tracker{ID: "evt", Name: "Monday event", EventDate: "2026-10-19"}, "Study")

	// Tuesday 02:00 UTC is still Monday evening in Los Angeles.
	date := time.Date(2026, 10, 20, 2, 0, 0, 0, time.UTC)
	led := ledger.New(ledger.WithLocation(la), ledger.WithClock(func() time.Time { return date }))
	eng := Engine{Location: la, FirstWeekday: time.Monday}

	p := eng.Project(f.cat, led, date, "")
	if p.Day != "2026-10-19" {
		t.Errorf("Day = %s, want 2026-10-19", p.Day)
	}
	if len(p.Groups) != 2 || !equal(ids(p.Groups[0]), []string{"mon"}) || !equal(ids(p.Groups[1]), []string{"evt"}) {
		t.Errorf("groups = %v %+v", titles(p), p.Groups)
	}
}

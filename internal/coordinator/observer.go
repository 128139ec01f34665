package coordinator

import "github.com/julianstephens/tally/internal/projection"

// Observer receives the fresh projection after every committed mutation.
// Callbacks run after the coordinator lock is released.
type Observer interface {
	OnTrackersChanged(projection.Projection)
	OnCategoriesChanged(projection.Projection)
	OnRecordsChanged(projection.Projection)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Trackers   func(projection.Projection)
	Categories func(projection.Projection)
	Records    func(projection.Projection)
}

func (f ObserverFuncs) OnTrackersChanged(p projection.Projection) {
	if f.Trackers != nil {
		f.Trackers(p)
	}
}

func (f ObserverFuncs) OnCategoriesChanged(p projection.Projection) {
	if f.Categories != nil {
		f.Categories(p)
	}
}

func (f ObserverFuncs) OnRecordsChanged(p projection.Projection) {
	if f.Records != nil {
		f.Records(p)
	}
}

// Change names the collections a mutation touched.
type Change uint8

const (
	TrackersChanged Change = 1 << iota
	CategoriesChanged
	RecordsChanged

	AllChanged = TrackersChanged | CategoriesChanged | RecordsChanged
)

func notify(observers []Observer, change Change, p projection.Projection) {
	for _, o := range observers {
		if change&TrackersChanged != 0 {
			o.OnTrackersChanged(p)
		}
		if change&CategoriesChanged != 0 {
			o.OnCategoriesChanged(p)
		}
		if change&RecordsChanged != 0 {
			o.OnRecordsChanged(p)
		}
	}
}

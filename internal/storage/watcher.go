package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/tally/internal/logger"
)

// Change is a debounced notification that the backing file was modified.
type Change struct {
	Path   string
	Events int // raw filesystem events folded into this change
	Time   time.Time
}

// Watcher reports modifications of a database or JSON file. The parent
// directory is watched so atomic rename-based writes and SQLite journal
// files are seen too.
type Watcher struct {
	path     string
	base     string
	debounce time.Duration
	watcher  *fsnotify.Watcher

	stopOnce sync.Once
	done     chan struct{}
}

func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		debounce: debounce,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// relevant matches the file itself and SQLite side files such as
// tally.db-wal and tally.db-journal. Temporary files are ignored until they
// are renamed into place.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasSuffix(name, ".tmp") {
		return false
	}
	if name != w.base && !strings.HasPrefix(name, w.base+"-") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// Run delivers changes to handler until ctx is cancelled or Close is called.
// Bursts of events within the debounce window become one Change.
func (w *Watcher) Run(ctx context.Context, handler func(Change)) {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending int
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			pending++
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			handler(Change{Path: w.path, Events: pending, Time: time.Now()})
			pending = 0
			timer = nil
			timerC = nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Storage watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/julianstephens/tally/internal/models"
)

const jsonStoreVersion = 1

type document struct {
	Version    int                       `json:"version"`
	Settings   models.Settings           `json:"settings"`
	Categories []models.Category         `json:"categories"`
	Trackers   []models.Tracker          `json:"trackers"`
	Records    []models.CompletionRecord `json:"records"`
}

// JSONStore keeps everything in one human-editable file. The file is
// re-read whenever its modification time changes, so edits made while the
// store is open are picked up on the next read.
type JSONStore struct {
	mu      sync.Mutex
	path    string
	doc     *document
	modTime time.Time
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.read()
	}

	return s.save(&document{
		Version:  jsonStoreVersion,
		Settings: models.DefaultSettings(),
	})
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'tally init' first")
	}
	return s.read()
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Migrate(logFn func(string)) (int, error) {
	if logFn != nil {
		logFn(fmt.Sprintf("JSON storage has no schema migrations (version %d)", jsonStoreVersion))
	}
	return 0, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) read() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, jsonStoreVersion)
	}
	models.ApplyDefaultSettings(&doc.Settings)

	s.doc = doc
	s.modTime = info.ModTime()
	return nil
}

// current returns the loaded document, re-reading the file if it changed on
// disk since the last read or write.
func (s *JSONStore) current() (*document, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	if info, err := os.Stat(s.path); err == nil && !info.ModTime().Equal(s.modTime) {
		if err := s.read(); err != nil {
			return nil, err
		}
	}
	return s.doc, nil
}

func (d *document) clone() *document {
	c := *d
	c.Categories = append([]models.Category(nil), d.Categories...)
	c.Trackers = append([]models.Tracker(nil), d.Trackers...)
	c.Records = append([]models.CompletionRecord(nil), d.Records...)
	return &c
}

// update applies fn to a copy of the document and swaps the copy in only
// once it is on disk. A failed write leaves the cached document untouched.
func (s *JSONStore) update(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.current()
	if err != nil {
		return err
	}
	next := doc.clone()
	if err := fn(next); err != nil {
		return err
	}
	return s.save(next)
}

func (s *JSONStore) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	s.doc = doc
	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.current()
	if err != nil {
		return models.Settings{}, err
	}
	return doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	return s.update(func(doc *document) error {
		doc.Settings = settings
		return nil
	})
}

func (s *JSONStore) GetAllCategories() ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.current()
	if err != nil {
		return nil, err
	}
	return append([]models.Category(nil), doc.Categories...), nil
}

func (s *JSONStore) SaveCategory(c models.Category) error {
	return s.update(func(doc *document) error {
		for _, existing := range doc.Categories {
			if existing.Title == c.Title && existing.ID != c.ID {
				return fmt.Errorf("category title %q already exists", c.Title)
			}
		}
		for i, existing := range doc.Categories {
			if existing.ID == c.ID {
				doc.Categories[i].Title = c.Title
				return nil
			}
		}
		doc.Categories = append(doc.Categories, c)
		return nil
	})
}

func (s *JSONStore) GetAllTrackers() ([]models.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.current()
	if err != nil {
		return nil, err
	}
	return append([]models.Tracker(nil), doc.Trackers...), nil
}

func (s *JSONStore) SaveTracker(t models.Tracker, categoryTitle string) error {
	return s.update(func(doc *document) error {
		categoryID := ""
		for _, c := range doc.Categories {
			if c.Title == categoryTitle {
				categoryID = c.ID
				break
			}
		}
		if categoryID == "" {
			return fmt.Errorf("category %q not found", categoryTitle)
		}
		t.CategoryID = categoryID

		for i, existing := range doc.Trackers {
			if existing.ID == t.ID {
				t.CreatedAt = existing.CreatedAt
				doc.Trackers[i] = t
				return nil
			}
		}
		doc.Trackers = append(doc.Trackers, t)
		return nil
	})
}

func (s *JSONStore) DeleteTracker(id string) error {
	return s.update(func(doc *document) error {
		idx := -1
		for i, t := range doc.Trackers {
			if t.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("tracker %s not found", id)
		}
		doc.Trackers = append(doc.Trackers[:idx], doc.Trackers[idx+1:]...)

		records := doc.Records[:0]
		for _, r := range doc.Records {
			if r.TrackerID != id {
				records = append(records, r)
			}
		}
		doc.Records = records
		return nil
	})
}

func (s *JSONStore) GetAllCompletionRecords() ([]models.CompletionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.current()
	if err != nil {
		return nil, err
	}
	return append([]models.CompletionRecord(nil), doc.Records...), nil
}

func (s *JSONStore) SaveCompletionRecord(r models.CompletionRecord) error {
	return s.update(func(doc *document) error {
		found := false
		for _, t := range doc.Trackers {
			if t.ID == r.TrackerID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("tracker %s not found", r.TrackerID)
		}
		for _, existing := range doc.Records {
			if existing.TrackerID == r.TrackerID && existing.Day == r.Day {
				return fmt.Errorf("tracker %s already has a record for %s", r.TrackerID, r.Day)
			}
		}
		doc.Records = append(doc.Records, r)
		return nil
	})
}

func (s *JSONStore) DeleteCompletionRecord(trackerID, day string) error {
	return s.update(func(doc *document) error {
		for i, r := range doc.Records {
			if r.TrackerID == trackerID && r.Day == day {
				doc.Records = append(doc.Records[:i], doc.Records[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

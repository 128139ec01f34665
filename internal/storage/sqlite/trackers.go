package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/tally/internal/models"
)

func (s *Store) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, title, created_at FROM categories ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Title, &createdAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("category %s: invalid created_at: %w", c.ID, err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) SaveCategory(c models.Category) error {
	_, err := s.db.Exec(`
		INSERT INTO categories (id, title, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title`,
		c.ID, c.Title, formatTime(c.CreatedAt))
	return err
}

func (s *Store) GetAllTrackers() ([]models.Tracker, error) {
	rows, err := s.db.Query(`
		SELECT id, name, emoji, color, schedule, event_date, pinned, category_id, created_at
		FROM trackers ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []models.Tracker
	for rows.Next() {
		var t models.Tracker
		var color, schedule, createdAt string
		var eventDate sql.NullString
		var pinned int
		if err := rows.Scan(&t.ID, &t.Name, &t.Emoji, &color, &schedule, &eventDate, &pinned, &t.CategoryID, &createdAt); err != nil {
			return nil, err
		}
		if t.Color, err = models.ParseColor(color); err != nil {
			return nil, fmt.Errorf("tracker %s: %w", t.ID, err)
		}
		if t.Schedule, err = models.ScheduleFromDigits(schedule); err != nil {
			return nil, fmt.Errorf("tracker %s: %w", t.ID, err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("tracker %s: invalid created_at: %w", t.ID, err)
		}
		t.EventDate = eventDate.String
		t.Pinned = pinned == 1
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}

// SaveTracker upserts the tracker and links it to the category with the
// given title.
func (s *Store) SaveTracker(t models.Tracker, categoryTitle string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var categoryID string
	err = tx.QueryRow("SELECT id FROM categories WHERE title = ?", categoryTitle).Scan(&categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("category %q not found", categoryTitle)
	}
	if err != nil {
		return err
	}

	var eventDate any
	if t.EventDate != "" {
		eventDate = t.EventDate
	}
	pinned := 0
	if t.Pinned {
		pinned = 1
	}

	_, err = tx.Exec(`
		INSERT INTO trackers (id, name, emoji, color, schedule, event_date, pinned, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			emoji = excluded.emoji,
			color = excluded.color,
			schedule = excluded.schedule,
			event_date = excluded.event_date,
			pinned = excluded.pinned,
			category_id = excluded.category_id`,
		t.ID, t.Name, t.Emoji, t.Color.String(), t.Schedule.Digits(), eventDate, pinned, categoryID, formatTime(t.CreatedAt))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteTracker removes the tracker together with its completion records.
func (s *Store) DeleteTracker(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completion_records WHERE tracker_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM trackers WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tracker %s not found", id)
	}

	return tx.Commit()
}

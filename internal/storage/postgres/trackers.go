package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/tally/internal/models"
)

func (s *Store) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, title, created_at FROM categories ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) SaveCategory(c models.Category) error {
	_, err := s.db.Exec(`
		INSERT INTO categories (id, title, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`,
		c.ID, c.Title, c.CreatedAt)
	return err
}

func (s *Store) GetAllTrackers() ([]models.Tracker, error) {
	rows, err := s.db.Query(`
		SELECT id, name, emoji, color, schedule, COALESCE(to_char(event_date, 'YYYY-MM-DD'), ''),
		       pinned, category_id, created_at
		FROM trackers ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []models.Tracker
	for rows.Next() {
		var t models.Tracker
		var color string
		var schedule []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Emoji, &color, &schedule, &t.EventDate, &t.Pinned, &t.CategoryID, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.Color, err = models.ParseColor(color); err != nil {
			return nil, fmt.Errorf("tracker %s: %w", t.ID, err)
		}
		if len(schedule) > 0 {
			if err := json.Unmarshal(schedule, &t.Schedule); err != nil {
				return nil, fmt.Errorf("tracker %s: invalid schedule: %w", t.ID, err)
			}
		}
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}

// SaveTracker upserts the tracker and links it to the category with the
// given title.
func (s *Store) SaveTracker(t models.Tracker, categoryTitle string) error {
	schedule, err := json.Marshal(t.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var categoryID string
	err = tx.QueryRow("SELECT id FROM categories WHERE title = $1", categoryTitle).Scan(&categoryID)
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

	_, err = tx.Exec(`
		INSERT INTO trackers (id, name, emoji, color, schedule, event_date, pinned, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			emoji = EXCLUDED.emoji,
			color = EXCLUDED.color,
			schedule = EXCLUDED.schedule,
			event_date = EXCLUDED.event_date,
			pinned = EXCLUDED.pinned,
			category_id = EXCLUDED.category_id`,
		t.ID, t.Name, t.Emoji, t.Color.String(), string(schedule), eventDate, t.Pinned, categoryID, t.CreatedAt)
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

	if _, err := tx.Exec("DELETE FROM completion_records WHERE tracker_id = $1", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM trackers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tracker %s not found", id)
	}

	return tx.Commit()
}

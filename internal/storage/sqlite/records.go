package sqlite

import (
	"fmt"

	"github.com/julianstephens/tally/internal/models"
)

func (s *Store) GetAllCompletionRecords() ([]models.CompletionRecord, error) {
	rows, err := s.db.Query("SELECT tracker_id, day, created_at FROM completion_records ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		var r models.CompletionRecord
		var createdAt string
		if err := rows.Scan(&r.TrackerID, &r.Day, &createdAt); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("record %s/%s: invalid created_at: %w", r.TrackerID, r.Day, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) SaveCompletionRecord(r models.CompletionRecord) error {
	_, err := s.db.Exec(
		"INSERT INTO completion_records (tracker_id, day, created_at) VALUES (?, ?, ?)",
		r.TrackerID, r.Day, formatTime(r.CreatedAt))
	return err
}

func (s *Store) DeleteCompletionRecord(trackerID, day string) error {
	_, err := s.db.Exec("DELETE FROM completion_records WHERE tracker_id = ? AND day = ?", trackerID, day)
	return err
}

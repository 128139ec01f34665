package postgres

import (
	"github.com/julianstephens/tally/internal/models"
)

func (s *Store) GetAllCompletionRecords() ([]models.CompletionRecord, error) {
	rows, err := s.db.Query(`
		SELECT tracker_id, to_char(day, 'YYYY-MM-DD'), created_at
		FROM completion_records ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		var r models.CompletionRecord
		if err := rows.Scan(&r.TrackerID, &r.Day, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) SaveCompletionRecord(r models.CompletionRecord) error {
	_, err := s.db.Exec(
		"INSERT INTO completion_records (tracker_id, day, created_at) VALUES ($1, $2, $3)",
		r.TrackerID, r.Day, r.CreatedAt)
	return err
}

func (s *Store) DeleteCompletionRecord(trackerID, day string) error {
	_, err := s.db.Exec("DELETE FROM completion_records WHERE tracker_id = $1 AND day = $2", trackerID, day)
	return err
}

// Record store: completion evidence keyed by (tracker, calendar day).
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

var _ types.RecordStore = (*recordStore)(nil)

type recordStore struct {
	backend *Backend
}

// Add records a completion of trackerID for the calendar day of date.
// The tracker must exist, the date must not lie in the future, and the
// (tracker, day) pair must not already carry a record. The unique index
// on (tracker_id, day) backs the duplicate check at the storage level.
func (s *recordStore) Add(trackerID string, date time.Time) (types.Record, error) {
	if trackerID == "" {
		return types.Record{}, types.ErrInvalidID
	}

	record := types.Record{
		Day:        types.DayOf(date),
		RecordedAt: date,
		TrackerID:  trackerID,
	}

	err := s.backend.locked(func() error {
		db := s.backend.db

		if date.After(s.backend.now()) {
			return types.ErrFutureDate
		}

		var one int
		err := db.QueryRow("SELECT 1 FROM trackers WHERE tracker_id = ?", trackerID).Scan(&one)
		if err == sql.ErrNoRows {
			return types.ErrTrackerNotFound
		}
		if err != nil {
			return fmt.Errorf("checking tracker existence: %w", err)
		}

		err = db.QueryRow(
			"SELECT 1 FROM records WHERE tracker_id = ? AND day = ?", trackerID, record.Day,
		).Scan(&one)
		if err == nil {
			return types.ErrDuplicateCompletion
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking completion uniqueness: %w", err)
		}

		record.RecordID = newUUID()
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(
			"INSERT INTO records (record_id, day, recorded_at, tracker_id) VALUES (?, ?, ?, ?)",
			record.RecordID, record.Day, date.UTC().Format(time.RFC3339), trackerID,
		)
		if err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing record: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Record{}, err
	}

	s.backend.publishChanges()
	return record, nil
}

// Fetch returns all records ordered by day, then tracker. The join drops
// any record whose tracker is gone; malformed rows are skipped and
// counted. A detached store yields an empty slice.
func (s *recordStore) Fetch() ([]types.Record, error) {
	out := []types.Record{}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if !s.backend.attached {
		return out, nil
	}

	rows, err := s.backend.db.Query(
		`SELECT r.record_id, r.day, r.recorded_at, r.tracker_id
		 FROM records r JOIN trackers t ON r.tracker_id = t.tracker_id
		 ORDER BY r.day ASC, r.tracker_id ASC, r.record_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r types.Record
		var recordedAt string
		if err := rows.Scan(&r.RecordID, &r.Day, &recordedAt, &r.TrackerID); err != nil {
			s.backend.noteDropped("records", r.RecordID, err)
			continue
		}
		if r.Day == "" {
			s.backend.noteDropped("records", r.RecordID, types.ErrInvalidData)
			continue
		}
		r.RecordedAt, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			s.backend.noteDropped("records", r.RecordID, fmt.Errorf("parsing recorded_at: %w", err))
			continue
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return out, nil
}

// Delete removes a record by its incidental ID. No-op when absent.
func (s *recordStore) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	err := s.backend.locked(func() error {
		if _, err := s.backend.db.Exec("DELETE FROM records WHERE record_id = ?", id); err != nil {
			return fmt.Errorf("deleting record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.backend.publishChanges()
	return nil
}

// DeleteForDay removes the record matching the natural key
// (trackerID, calendar day of date). This is the removal path the UI
// actually has the inputs for. No-op when absent.
func (s *recordStore) DeleteForDay(trackerID string, date time.Time) error {
	if trackerID == "" {
		return types.ErrInvalidID
	}

	err := s.backend.locked(func() error {
		_, err := s.backend.db.Exec(
			"DELETE FROM records WHERE tracker_id = ? AND day = ?", trackerID, types.DayOf(date))
		if err != nil {
			return fmt.Errorf("deleting record for day: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.backend.publishChanges()
	return nil
}

// OnChange subscribes to batched diffs of the sorted record list.
func (s *recordStore) OnChange(handler func(types.Diff)) (cancel func()) {
	return s.backend.recordFeed.Subscribe(handler)
}

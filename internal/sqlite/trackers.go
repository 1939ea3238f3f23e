// Tracker store and the schedule column codec.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

var _ types.TrackerStore = (*trackerStore)(nil)

type trackerStore struct {
	backend *Backend
}

// Add persists the tracker, generating a UUID when TrackerID is empty,
// and returns the ID actually used. The referenced category must already
// exist; callers create categories explicitly rather than relying on the
// store to invent one.
func (s *trackerStore) Add(tracker types.Tracker) (string, error) {
	if err := tracker.Validate(); err != nil {
		return "", err
	}

	id := tracker.TrackerID
	err := s.backend.locked(func() error {
		db := s.backend.db

		var one int
		err := db.QueryRow("SELECT 1 FROM categories WHERE title = ?", tracker.CategoryTitle).Scan(&one)
		if err == sql.ErrNoRows {
			return types.ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("checking category existence: %w", err)
		}

		if id == "" {
			id = newUUID()
		}
		scheduleJSON, err := marshalSchedule(tracker.Schedule)
		if err != nil {
			return err
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(
			"INSERT INTO trackers (tracker_id, name, color, emoji, schedule, category_title) VALUES (?, ?, ?, ?, ?, ?)",
			id, tracker.Name, tracker.Color, tracker.Emoji, scheduleJSON, tracker.CategoryTitle,
		)
		if err != nil {
			return fmt.Errorf("inserting tracker: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing tracker: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.backend.publishChanges()
	return id, nil
}

// Fetch returns all trackers sorted by name ascending. Rows missing
// required fields are skipped and counted rather than failing the whole
// read. A detached store yields an empty slice.
func (s *trackerStore) Fetch() ([]types.Tracker, error) {
	out := []types.Tracker{}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if !s.backend.attached {
		return out, nil
	}

	rows, err := s.backend.db.Query(
		"SELECT tracker_id, name, color, emoji, schedule, category_title FROM trackers ORDER BY name ASC, tracker_id ASC")
	if err != nil {
		return nil, fmt.Errorf("fetching trackers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		tracker, err := scanTrackerRow(rows)
		if err != nil {
			s.backend.noteDropped("trackers", tracker.TrackerID, err)
			continue
		}
		out = append(out, tracker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trackers: %w", err)
	}
	return out, nil
}

// Delete removes the tracker with the given ID and, by cascade, any
// dependent records. Deleting a missing ID is a no-op.
func (s *trackerStore) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	err := s.backend.locked(func() error {
		tx, err := s.backend.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec("DELETE FROM trackers WHERE tracker_id = ?", id); err != nil {
			return fmt.Errorf("deleting tracker: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing tracker deletion: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.backend.publishChanges()
	return nil
}

// OnChange subscribes to batched diffs of the sorted tracker list.
func (s *trackerStore) OnChange(handler func(types.Diff)) (cancel func()) {
	return s.backend.trackerFeed.Subscribe(handler)
}

// scanTrackerRow hydrates one tracker row. It returns the partially
// scanned tracker alongside the error so callers can name the culprit
// when they log the skip.
func scanTrackerRow(rows *sql.Rows) (types.Tracker, error) {
	var t types.Tracker
	var scheduleJSON string
	if err := rows.Scan(&t.TrackerID, &t.Name, &t.Color, &t.Emoji, &scheduleJSON, &t.CategoryTitle); err != nil {
		return t, fmt.Errorf("scanning tracker: %w", err)
	}
	if t.TrackerID == "" || t.Name == "" || t.Color == "" || t.Emoji == "" {
		return t, types.ErrInvalidData
	}
	schedule, err := unmarshalSchedule(scheduleJSON)
	if err != nil {
		return t, err
	}
	t.Schedule = schedule
	return t, nil
}

// marshalSchedule encodes a schedule as a plain JSON array of ints 1-7,
// normalized to set order. The plain-int encoding keeps the column
// readable by any future storage engine.
func marshalSchedule(s types.Schedule) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	normalized := s.Normalize()
	days := make([]int, len(normalized))
	for i, w := range normalized {
		days[i] = int(w)
	}
	data, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encoding schedule: %w", err)
	}
	return string(data), nil
}

// unmarshalSchedule decodes the schedule column, rejecting out-of-range
// entries.
func unmarshalSchedule(raw string) (types.Schedule, error) {
	var days []int
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}
	schedule := make(types.Schedule, len(days))
	for i, d := range days {
		schedule[i] = types.Weekday(d)
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule.Normalize(), nil
}

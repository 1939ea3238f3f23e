// Category store: the persistence-facing side of the grouped tracker list.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

var _ types.CategoryStore = (*categoryStore)(nil)

type categoryStore struct {
	backend *Backend
}

// Add persists the category and any attached trackers in one transaction.
// A failed commit leaves no partial category behind. Duplicate titles are
// rejected before the transaction starts.
func (s *categoryStore) Add(category types.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}

	err := s.backend.locked(func() error {
		db := s.backend.db

		var one int
		err := db.QueryRow("SELECT 1 FROM categories WHERE title = ?", category.Title).Scan(&one)
		if err == nil {
			return types.ErrDuplicateTitle
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking title uniqueness: %w", err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec("INSERT INTO categories (title) VALUES (?)", category.Title); err != nil {
			return fmt.Errorf("inserting category: %w", err)
		}

		for _, tracker := range category.Trackers {
			id := tracker.TrackerID
			if id == "" {
				id = newUUID()
			}
			scheduleJSON, err := marshalSchedule(tracker.Schedule)
			if err != nil {
				return err
			}
			// Attached trackers always land in this category, whatever
			// their CategoryTitle field says.
			_, err = tx.Exec(
				"INSERT INTO trackers (tracker_id, name, color, emoji, schedule, category_title) VALUES (?, ?, ?, ?, ?, ?)",
				id, tracker.Name, tracker.Color, tracker.Emoji, scheduleJSON, category.Title,
			)
			if err != nil {
				return fmt.Errorf("inserting tracker %s: %w", tracker.Name, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.backend.publishChanges()
	return nil
}

// Fetch returns all categories sorted by title ascending, trackers sorted
// by name ascending. A detached or empty store yields an empty slice;
// reads are never fatal. Trackers missing required fields are skipped and
// counted.
func (s *categoryStore) Fetch() ([]types.Category, error) {
	out := []types.Category{}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if !s.backend.attached {
		return out, nil
	}
	db := s.backend.db

	grouped := make(map[string][]types.Tracker)
	rows, err := db.Query(
		"SELECT tracker_id, name, color, emoji, schedule, category_title FROM trackers ORDER BY name ASC, tracker_id ASC")
	if err != nil {
		return nil, fmt.Errorf("fetching trackers: %w", err)
	}
	for rows.Next() {
		tracker, err := scanTrackerRow(rows)
		if err != nil {
			s.backend.noteDropped("trackers", tracker.TrackerID, err)
			continue
		}
		grouped[tracker.CategoryTitle] = append(grouped[tracker.CategoryTitle], tracker)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating trackers: %w", err)
	}
	rows.Close()

	rows, err = db.Query("SELECT title FROM categories ORDER BY title ASC")
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, types.Category{Title: title, Trackers: grouped[title]})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

// Delete removes the category with the given title. The cascade takes its
// trackers, and through them their records. Deleting a missing title is a
// no-op, not an error.
func (s *categoryStore) Delete(title string) error {
	if title == "" {
		return types.ErrInvalidTitle
	}

	err := s.backend.locked(func() error {
		tx, err := s.backend.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec("DELETE FROM categories WHERE title = ?", title); err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing category deletion: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.backend.publishChanges()
	return nil
}

// OnChange subscribes to batched diffs of the sorted category list.
func (s *categoryStore) OnChange(handler func(types.Diff)) (cancel func()) {
	return s.backend.categoryFeed.Subscribe(handler)
}

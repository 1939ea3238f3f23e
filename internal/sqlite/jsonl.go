// JSONL snapshot export/import with atomic writes. The snapshot format is
// the interchange layer: three line-delimited JSON files that any future
// storage engine can read back, with schedules as plain integer arrays.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Snapshot file names inside an archive directory.
const (
	categoriesFile = "categories.jsonl"
	trackersFile   = "trackers.jsonl"
	recordsFile    = "records.jsonl"
)

// categoryLine is the JSONL shape of a category row.
type categoryLine struct {
	Title string `json:"title"`
}

// trackerLine is the JSONL shape of a tracker row.
type trackerLine struct {
	TrackerID     string `json:"tracker_id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Emoji         string `json:"emoji"`
	Schedule      []int  `json:"schedule"`
	CategoryTitle string `json:"category_title"`
}

// recordLine is the JSONL shape of a record row.
type recordLine struct {
	RecordID   string `json:"record_id"`
	Day        string `json:"day"`
	RecordedAt string `json:"recorded_at"`
	TrackerID  string `json:"tracker_id"`
}

var _ types.Archiver = (*Backend)(nil)

// ExportJSONL writes the full corpus into dir as three JSONL files.
func (b *Backend) ExportJSONL(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	var cats, trks, recs []json.RawMessage
	err := b.locked(func() error {
		var err error
		if cats, err = b.exportCategoriesLocked(); err != nil {
			return err
		}
		if trks, err = b.exportTrackersLocked(); err != nil {
			return err
		}
		recs, err = b.exportRecordsLocked()
		return err
	})
	if err != nil {
		return err
	}

	if err := writeJSONL(filepath.Join(dir, categoriesFile), cats); err != nil {
		return fmt.Errorf("writing %s: %w", categoriesFile, err)
	}
	if err := writeJSONL(filepath.Join(dir, trackersFile), trks); err != nil {
		return fmt.Errorf("writing %s: %w", trackersFile, err)
	}
	if err := writeJSONL(filepath.Join(dir, recordsFile), recs); err != nil {
		return fmt.Errorf("writing %s: %w", recordsFile, err)
	}
	return nil
}

func (b *Backend) exportCategoriesLocked() ([]json.RawMessage, error) {
	rows, err := b.db.Query("SELECT title FROM categories ORDER BY title ASC")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var line categoryLine
		if err := rows.Scan(&line.Title); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		data, err := json.Marshal(line)
		if err != nil {
			return nil, fmt.Errorf("marshaling category: %w", err)
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

func (b *Backend) exportTrackersLocked() ([]json.RawMessage, error) {
	rows, err := b.db.Query(
		"SELECT tracker_id, name, color, emoji, schedule, category_title FROM trackers ORDER BY name ASC, tracker_id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying trackers: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var line trackerLine
		var scheduleJSON string
		if err := rows.Scan(&line.TrackerID, &line.Name, &line.Color, &line.Emoji, &scheduleJSON, &line.CategoryTitle); err != nil {
			return nil, fmt.Errorf("scanning tracker: %w", err)
		}
		if err := json.Unmarshal([]byte(scheduleJSON), &line.Schedule); err != nil {
			b.noteDropped("trackers", line.TrackerID, err)
			continue
		}
		data, err := json.Marshal(line)
		if err != nil {
			return nil, fmt.Errorf("marshaling tracker: %w", err)
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

func (b *Backend) exportRecordsLocked() ([]json.RawMessage, error) {
	rows, err := b.db.Query(
		"SELECT record_id, day, recorded_at, tracker_id FROM records ORDER BY day ASC, tracker_id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var line recordLine
		if err := rows.Scan(&line.RecordID, &line.Day, &line.RecordedAt, &line.TrackerID); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		data, err := json.Marshal(line)
		if err != nil {
			return nil, fmt.Errorf("marshaling record: %w", err)
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

// ImportJSONL replaces the store contents with the snapshot files found
// in dir. Missing files count as empty; malformed lines, trackers that
// reference unknown categories, and records that reference unknown
// trackers or duplicate a (tracker, day) pair are skipped with a logged
// warning. The replacement is transactional.
func (b *Backend) ImportJSONL(dir string) error {
	catLines, err := readJSONL(filepath.Join(dir, categoriesFile))
	if err != nil {
		return err
	}
	trkLines, err := readJSONL(filepath.Join(dir, trackersFile))
	if err != nil {
		return err
	}
	recLines, err := readJSONL(filepath.Join(dir, recordsFile))
	if err != nil {
		return err
	}

	err = b.locked(func() error {
		tx, err := b.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		for _, table := range []string{"records", "trackers", "categories"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		titles := make(map[string]bool)
		for _, raw := range catLines {
			var line categoryLine
			if err := json.Unmarshal(raw, &line); err != nil || line.Title == "" {
				b.log.Warn("skipping malformed category line", "reason", err)
				b.dropped++
				continue
			}
			if titles[line.Title] {
				continue
			}
			titles[line.Title] = true
			if _, err := tx.Exec("INSERT INTO categories (title) VALUES (?)", line.Title); err != nil {
				return fmt.Errorf("importing category %s: %w", line.Title, err)
			}
		}

		trackerIDs := make(map[string]bool)
		for _, raw := range trkLines {
			var line trackerLine
			if err := json.Unmarshal(raw, &line); err != nil {
				b.log.Warn("skipping malformed tracker line", "reason", err)
				b.dropped++
				continue
			}
			if line.TrackerID == "" || line.Name == "" || !titles[line.CategoryTitle] || trackerIDs[line.TrackerID] {
				b.log.Warn("skipping unresolvable tracker line", "tracker_id", line.TrackerID)
				b.dropped++
				continue
			}
			schedule := make(types.Schedule, len(line.Schedule))
			for i, d := range line.Schedule {
				schedule[i] = types.Weekday(d)
			}
			scheduleJSON, err := marshalSchedule(schedule)
			if err != nil {
				b.log.Warn("skipping tracker with bad schedule", "tracker_id", line.TrackerID, "reason", err)
				b.dropped++
				continue
			}
			trackerIDs[line.TrackerID] = true
			_, err = tx.Exec(
				"INSERT INTO trackers (tracker_id, name, color, emoji, schedule, category_title) VALUES (?, ?, ?, ?, ?, ?)",
				line.TrackerID, line.Name, line.Color, line.Emoji, scheduleJSON, line.CategoryTitle,
			)
			if err != nil {
				return fmt.Errorf("importing tracker %s: %w", line.TrackerID, err)
			}
		}

		days := make(map[string]bool)
		for _, raw := range recLines {
			var line recordLine
			if err := json.Unmarshal(raw, &line); err != nil {
				b.log.Warn("skipping malformed record line", "reason", err)
				b.dropped++
				continue
			}
			key := line.TrackerID + "|" + line.Day
			if line.RecordID == "" || line.Day == "" || !trackerIDs[line.TrackerID] || days[key] {
				b.log.Warn("skipping unresolvable record line", "record_id", line.RecordID)
				b.dropped++
				continue
			}
			days[key] = true
			_, err := tx.Exec(
				"INSERT INTO records (record_id, day, recorded_at, tracker_id) VALUES (?, ?, ?, ?)",
				line.RecordID, line.Day, line.RecordedAt, line.TrackerID,
			)
			if err != nil {
				return fmt.Errorf("importing record %s: %w", line.RecordID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing import: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.publishChanges()
	return nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line
// as a json.RawMessage. A missing file counts as empty; malformed lines
// are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the
// temp-file, fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

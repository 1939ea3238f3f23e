// Package sqlite implements the SQLite storage backend for the tracker
// core: three entity stores over one database file, idempotent seeding,
// and JSONL snapshot export/import.
package sqlite

// Schema DDL. The schedule column holds a plain JSON array of small
// integers (1-7) so the corpus stays readable by any future storage
// engine. Foreign keys cascade: category -> trackers -> records.
const (
	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    title TEXT PRIMARY KEY
);`

	createTrackers = `CREATE TABLE IF NOT EXISTS trackers (
    tracker_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL,
    emoji TEXT NOT NULL,
    schedule TEXT NOT NULL,
    category_title TEXT NOT NULL,
    FOREIGN KEY (category_title) REFERENCES categories(title) ON DELETE CASCADE
);`

	createRecords = `CREATE TABLE IF NOT EXISTS records (
    record_id TEXT PRIMARY KEY,
    day TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    tracker_id TEXT NOT NULL,
    FOREIGN KEY (tracker_id) REFERENCES trackers(tracker_id) ON DELETE CASCADE
);`
)

// Index DDL. The unique index on (tracker_id, day) backs the
// one-completion-per-day invariant at the storage level; the store checks
// it explicitly first to return a typed error.
const (
	idxTrackersCategory  = `CREATE INDEX IF NOT EXISTS idx_trackers_category ON trackers(category_title);`
	idxRecordsTracker    = `CREATE INDEX IF NOT EXISTS idx_records_tracker ON records(tracker_id);`
	idxRecordsTrackerDay = `CREATE UNIQUE INDEX IF NOT EXISTS idx_records_tracker_day ON records(tracker_id, day);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCategories,
	createTrackers,
	createRecords,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTrackersCategory,
	idxRecordsTracker,
	idxRecordsTrackerDay,
}

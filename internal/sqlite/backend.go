package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tracker/internal/feed"
	"github.com/mesh-intelligence/tracker/internal/log"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "tracker.db"

// Backend implements the Storage interface on a single SQLite database.
// One mutex serializes every store operation: the core assumes a
// single logical writer (the UI task context), and the mutex keeps that
// assumption safe if a second goroutine ever reaches in.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *slog.Logger
	now      func() time.Time

	// dropped counts rows skipped on fetch because they were missing
	// required fields. Exposed so corruption is observable, not silent.
	dropped int64

	categories *categoryStore
	trackers   *trackerStore
	records    *recordStore

	categoryFeed *feed.Feed
	trackerFeed  *feed.Feed
	recordFeed   *feed.Feed
}

// Option configures a Backend at construction.
type Option func(*Backend)

// WithClock overrides the wall clock used for future-date checks.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// NewBackend creates a detached SQLite backend. Call Attach with a Config
// to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		log:          log.Default(),
		now:          time.Now,
		categoryFeed: feed.New(),
		trackerFeed:  feed.New(),
		recordFeed:   feed.New(),
	}
	b.categories = &categoryStore{backend: b}
	b.trackers = &trackerStore{backend: b}
	b.records = &recordStore{backend: b}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Categories returns the category store.
func (b *Backend) Categories() types.CategoryStore { return b.categories }

// Trackers returns the tracker store.
func (b *Backend) Trackers() types.TrackerStore { return b.trackers }

// Records returns the record store.
func (b *Backend) Records() types.RecordStore { return b.records }

// Attach opens (or creates) the database under config.DataDir, applies
// the schema, and seeds the default category if the store is empty.
// The database file persists across attach/detach cycles.
// Returns ErrAlreadyAttached when called while attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	if err := seedDefaultCategory(db); err != nil {
		db.Close()
		return fmt.Errorf("seeding default category: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	// Baseline the feeds so the pre-existing corpus does not report as
	// one giant insert batch.
	b.categoryFeed.Prime(b.categorySnapshotLocked())
	b.trackerFeed.Prime(b.trackerSnapshotLocked())
	b.recordFeed.Prime(b.recordSnapshotLocked())

	b.log.Debug("storage attached", "data_dir", dataDir)
	return nil
}

// Detach closes the database. Idempotent; after Detach all store
// operations return ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DroppedRows reports how many malformed rows fetches have skipped since
// construction.
func (b *Backend) DroppedRows() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// noteDropped records and logs a row skipped on the read path.
// Caller must hold b.mu.
func (b *Backend) noteDropped(table, key string, reason error) {
	b.dropped++
	b.log.Warn("skipping malformed row", "table", table, "key", key, "reason", reason)
}

// locked runs fn under the backend mutex after checking attachment.
func (b *Backend) locked(fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}
	return fn()
}

// publishChanges recomputes all three snapshots and lets each feed diff
// and deliver. Called after every successful mutation, outside the
// backend mutex so handlers can re-enter the stores. Cascades surface
// here: deleting a category publishes on the tracker and record feeds
// too, and empty diffs are swallowed by the feeds themselves.
func (b *Backend) publishChanges() {
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return
	}
	cats := b.categorySnapshotLocked()
	trks := b.trackerSnapshotLocked()
	recs := b.recordSnapshotLocked()
	b.mu.Unlock()

	b.categoryFeed.Publish(cats)
	b.trackerFeed.Publish(trks)
	b.recordFeed.Publish(recs)
}

// categorySnapshotLocked builds the ordered category snapshot: key is the
// title, fingerprint is the ID list of member trackers in name order.
// Caller must hold b.mu.
func (b *Backend) categorySnapshotLocked() []feed.Entry {
	members := make(map[string][]string)
	rows, err := b.db.Query(
		"SELECT category_title, tracker_id FROM trackers ORDER BY name ASC, tracker_id ASC")
	if err == nil {
		for rows.Next() {
			var title, id string
			if rows.Scan(&title, &id) == nil {
				members[title] = append(members[title], id)
			}
		}
		rows.Close()
	}

	var snapshot []feed.Entry
	rows, err = b.db.Query("SELECT title FROM categories ORDER BY title ASC")
	if err != nil {
		return snapshot
	}
	defer rows.Close()
	for rows.Next() {
		var title string
		if rows.Scan(&title) != nil {
			continue
		}
		snapshot = append(snapshot, feed.Entry{
			Key:         title,
			Fingerprint: strings.Join(members[title], ","),
		})
	}
	return snapshot
}

// trackerSnapshotLocked builds the ordered tracker snapshot in fetch
// order (name ascending, ID as tiebreaker). Caller must hold b.mu.
func (b *Backend) trackerSnapshotLocked() []feed.Entry {
	var snapshot []feed.Entry
	rows, err := b.db.Query(
		"SELECT tracker_id, name, color, emoji, schedule, category_title FROM trackers ORDER BY name ASC, tracker_id ASC")
	if err != nil {
		return snapshot
	}
	defer rows.Close()
	for rows.Next() {
		var id, name, color, emoji, schedule, category string
		if rows.Scan(&id, &name, &color, &emoji, &schedule, &category) != nil {
			continue
		}
		snapshot = append(snapshot, feed.Entry{
			Key:         id,
			Fingerprint: strings.Join([]string{name, color, emoji, schedule, category}, "|"),
		})
	}
	return snapshot
}

// recordSnapshotLocked builds the ordered record snapshot (day, then
// tracker, then ID). Caller must hold b.mu.
func (b *Backend) recordSnapshotLocked() []feed.Entry {
	var snapshot []feed.Entry
	rows, err := b.db.Query(
		"SELECT record_id, day, tracker_id FROM records ORDER BY day ASC, tracker_id ASC, record_id ASC")
	if err != nil {
		return snapshot
	}
	defer rows.Close()
	for rows.Next() {
		var id, day, trackerID string
		if rows.Scan(&id, &day, &trackerID) != nil {
			continue
		}
		snapshot = append(snapshot, feed.Entry{
			Key:         id,
			Fingerprint: day + "|" + trackerID,
		})
	}
	return snapshot
}

// newUUID generates a UUID v7 string, falling back to v4 if v7 fails.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

package types

import (
	"errors"
	"time"
)

// Storage is the backend-agnostic handle to the persistence layer.
// Callers attach to a backend, reach the per-entity stores, and detach
// when done. All stores share one serialized access point; concurrent
// writers are supported only through that serialization (single-writer
// model).
type Storage interface {
	// Attach connects the storage to the backend described by config.
	// Creates the data directory if needed and seeds the default
	// category exactly once. Returns ErrAlreadyAttached when called
	// while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, store operations return ErrDetached.
	Detach() error

	Categories() CategoryStore
	Trackers() TrackerStore
	Records() RecordStore
}

// CategoryStore owns the categories collection, sorted by title ascending.
type CategoryStore interface {
	// Add persists the category and any attached trackers in one
	// transaction. Returns ErrDuplicateTitle when the title is taken.
	Add(category Category) error

	// Fetch returns all categories sorted by title ascending, each with
	// its trackers sorted by name ascending. An empty or uninitialized
	// store yields an empty slice, not an error.
	Fetch() ([]Category, error)

	// Delete removes the category with the given title and, by cascade,
	// its trackers. Deleting a missing title is a no-op.
	Delete(title string) error

	// OnChange subscribes to batched diffs of the sorted category list.
	// The returned func cancels the subscription.
	OnChange(handler func(Diff)) (cancel func())
}

// TrackerStore owns the trackers collection, sorted by name ascending.
type TrackerStore interface {
	// Add persists the tracker, generating a UUID when TrackerID is
	// empty, and returns the ID actually used. The referenced category
	// must already exist: ErrCategoryNotFound otherwise.
	Add(tracker Tracker) (string, error)

	// Fetch returns all trackers sorted by name ascending. Rows missing
	// required fields are skipped (and logged), never fatal.
	Fetch() ([]Tracker, error)

	// Delete removes the tracker and, by cascade, its records. Deleting
	// a missing ID is a no-op.
	Delete(id string) error

	OnChange(handler func(Diff)) (cancel func())
}

// RecordStore owns completion records. At most one record exists per
// (tracker, calendar day).
type RecordStore interface {
	// Add records a completion of the tracker for the calendar day of
	// date. Returns ErrTrackerNotFound for an unknown tracker,
	// ErrFutureDate when date is after now, and ErrDuplicateCompletion
	// when the (tracker, day) pair already has a record.
	Add(trackerID string, date time.Time) (Record, error)

	// Fetch returns all records. Malformed rows are skipped.
	Fetch() ([]Record, error)

	// Delete removes a record by its incidental ID. No-op when absent.
	Delete(id string) error

	// DeleteForDay removes the record identified by the natural key
	// (trackerID, calendar day of date). This is the primary removal
	// path; callers know the day, not the record ID. No-op when absent.
	DeleteForDay(trackerID string, date time.Time) error

	OnChange(handler func(Diff)) (cancel func())
}

// Archiver is implemented by backends that can dump and restore the full
// corpus as JSONL snapshot files.
type Archiver interface {
	// ExportJSONL writes categories.jsonl, trackers.jsonl and
	// records.jsonl into dir.
	ExportJSONL(dir string) error

	// ImportJSONL loads snapshot files from dir into the store,
	// replacing current contents. Malformed lines are skipped.
	ImportJSONL(dir string) error
}

// Storage lifecycle errors.
var (
	ErrDetached        = errors.New("storage is detached")
	ErrAlreadyAttached = errors.New("storage is already attached")
)

// Store operation errors.
var (
	ErrNotFound            = errors.New("entity not found")
	ErrInvalidID           = errors.New("invalid entity ID")
	ErrInvalidData         = errors.New("invalid entity data")
	ErrInvalidTitle        = errors.New("invalid title")
	ErrInvalidWeekday      = errors.New("weekday out of range")
	ErrDuplicateTitle      = errors.New("category title already exists")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTrackerNotFound     = errors.New("tracker not found")
	ErrDuplicateCompletion = errors.New("completion already recorded for this day")
	ErrFutureDate          = errors.New("completion date is in the future")
)

// Package sqlite provides the public API for the SQLite storage backend
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/tracker/internal/sqlite"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Option configures the backend at construction.
type Option = sqlite.Option

// WithClock overrides the wall clock used for future-date checks.
// Intended for tests.
var WithClock = sqlite.WithClock

// WithLogger overrides the default logger.
var WithLogger = sqlite.WithLogger

// NewBackend creates a detached SQLite backend. The backend also
// implements types.Archiver for JSONL snapshot export/import.
//
// Example:
//
//	storage := sqlite.NewBackend()
//	err := storage.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".tracker-db",
//	})
//	defer storage.Detach()
func NewBackend(opts ...Option) types.Storage {
	return sqlite.NewBackend(opts...)
}

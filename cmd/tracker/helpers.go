// Shared helpers for tracker CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mesh-intelligence/tracker/internal/log"
	"github.com/mesh-intelligence/tracker/pkg/sqlite"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// attachStorage resolves the data directory, creates a SQLite backend,
// and attaches it. The caller must defer storage.Detach().
func attachStorage() (types.Storage, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	storage := sqlite.NewBackend(
		sqlite.WithLogger(log.New(os.Stderr, flagLogLevel)),
	)
	if err := storage.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}); err != nil {
		return nil, fmt.Errorf("attach storage: %w", err)
	}

	return storage, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// parseDate parses a --date value in YYYY-MM-DD form, defaulting to the
// current moment when empty. The returned time carries the current
// time-of-day on the requested day so that "today" is never mistaken for
// a future date.
func parseDate(value string) (time.Time, error) {
	now := time.Now()
	if value == "" {
		return now, nil
	}
	day, err := time.ParseInLocation(types.DayLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, time.Local), nil
}

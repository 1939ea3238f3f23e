package agenda_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/pkg/agenda"
	"github.com/mesh-intelligence/tracker/pkg/sqlite"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// 2026-08-24 is a Monday; 2026-08-26 a Wednesday.
var (
	monday    = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
)

func newTestStorage(t *testing.T, now time.Time) types.Storage {
	t.Helper()

	storage := sqlite.NewBackend(sqlite.WithClock(func() time.Time { return now }))
	err := storage.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { storage.Detach() })
	return storage
}

func addTracker(t *testing.T, storage types.Storage, name string, schedule types.Schedule, category string) string {
	t.Helper()

	id, err := storage.Trackers().Add(types.Tracker{
		Name:          name,
		Color:         "teal",
		Emoji:         "*",
		Schedule:      schedule,
		CategoryTitle: category,
	})
	require.NoError(t, err)
	return id
}

func TestVisibleFiltersByWeekday(t *testing.T) {
	storage := newTestStorage(t, wednesday)
	addTracker(t, storage, "Run", types.Schedule{types.Monday}, "Default")

	views, err := agenda.VisibleAt(storage, monday, wednesday)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Trackers, 1)
	assert.Equal(t, "Run", views[0].Trackers[0].Tracker.Name)

	// On Wednesday the Monday-only tracker is hidden, and the category
	// goes with it.
	views, err = agenda.VisibleAt(storage, wednesday, wednesday)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestVisibleFutureDateIsEmpty(t *testing.T) {
	storage := newTestStorage(t, monday)
	addTracker(t, storage, "Run", types.Schedule{types.Monday, types.Wednesday}, "Default")

	views, err := agenda.VisibleAt(storage, wednesday, monday)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestVisibleDropsEmptyCategories(t *testing.T) {
	storage := newTestStorage(t, monday)
	require.NoError(t, storage.Categories().Add(types.Category{Title: "Empty"}))
	require.NoError(t, storage.Categories().Add(types.Category{Title: "Health"}))
	addTracker(t, storage, "Run", types.Schedule{types.Monday}, "Health")

	views, err := agenda.VisibleAt(storage, monday, monday)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Health", views[0].Title)
}

func TestVisibleCompletionState(t *testing.T) {
	storage := newTestStorage(t, wednesday)
	id := addTracker(t, storage, "Run", types.Schedule{types.Monday, types.Wednesday}, "Default")

	// Completed Monday and the Monday a week before, but not Wednesday.
	_, err := storage.Records().Add(id, monday)
	require.NoError(t, err)
	_, err = storage.Records().Add(id, monday.AddDate(0, 0, -7))
	require.NoError(t, err)

	views, err := agenda.VisibleAt(storage, monday, wednesday)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Trackers, 1)

	view := views[0].Trackers[0]
	// The count is all-time, not per-day.
	assert.Equal(t, 2, view.CompletionCount)
	assert.True(t, view.CompletedToday)

	views, err = agenda.VisibleAt(storage, wednesday, wednesday)
	require.NoError(t, err)
	require.Len(t, views, 1)
	view = views[0].Trackers[0]
	assert.Equal(t, 2, view.CompletionCount)
	assert.False(t, view.CompletedToday)
}

func TestVisibleMultipleCategoriesSorted(t *testing.T) {
	storage := newTestStorage(t, monday)
	require.NoError(t, storage.Categories().Add(types.Category{Title: "Work"}))
	require.NoError(t, storage.Categories().Add(types.Category{Title: "Health"}))
	addTracker(t, storage, "Standup", types.Schedule{types.Monday}, "Work")
	addTracker(t, storage, "Run", types.Schedule{types.Monday}, "Health")
	addTracker(t, storage, "Floss", types.Schedule{types.Monday}, "Health")

	views, err := agenda.VisibleAt(storage, monday, monday)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Health", views[0].Title)
	assert.Equal(t, "Work", views[1].Title)
	require.Len(t, views[0].Trackers, 2)
	assert.Equal(t, "Floss", views[0].Trackers[0].Tracker.Name)
	assert.Equal(t, "Run", views[0].Trackers[1].Tracker.Name)
}

func TestVisibleEmptyStore(t *testing.T) {
	storage := newTestStorage(t, monday)

	views, err := agenda.VisibleAt(storage, monday, monday)
	require.NoError(t, err)
	assert.Empty(t, views)
}

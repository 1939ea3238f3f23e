package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func TestTrackerAddAndFetch(t *testing.T) {
	b := newTestBackend(t)

	tracker := types.Tracker{
		Name:          "Run",
		Color:         "red",
		Emoji:         "R",
		Schedule:      types.Schedule{types.Saturday, types.Sunday, types.Wednesday},
		CategoryTitle: defaultCategoryTitle,
	}
	id, err := b.Trackers().Add(tracker)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	trackers, err := b.Trackers().Fetch()
	require.NoError(t, err)
	require.Len(t, trackers, 1)

	got := trackers[0]
	assert.Equal(t, id, got.TrackerID)
	assert.Equal(t, "Run", got.Name)
	assert.Equal(t, "red", got.Color)
	assert.Equal(t, "R", got.Emoji)
	assert.Equal(t, defaultCategoryTitle, got.CategoryTitle)
	// Schedule comes back normalized to set order.
	assert.Equal(t, types.Schedule{types.Sunday, types.Wednesday, types.Saturday}, got.Schedule)
}

func TestTrackerAddRequiresExistingCategory(t *testing.T) {
	b := newTestBackend(t)

	tracker := types.Tracker{
		Name:          "Run",
		Color:         "red",
		Emoji:         "R",
		Schedule:      types.Schedule{types.Monday},
		CategoryTitle: "Nowhere",
	}
	_, err := b.Trackers().Add(tracker)
	assert.ErrorIs(t, err, types.ErrCategoryNotFound)

	trackers, err := b.Trackers().Fetch()
	require.NoError(t, err)
	assert.Empty(t, trackers)
}

func TestTrackerAddRejectsInvalid(t *testing.T) {
	b := newTestBackend(t)

	tests := []struct {
		name    string
		tracker types.Tracker
		wantErr error
	}{
		{
			name:    "missing name",
			tracker: types.Tracker{Color: "red", Emoji: "R", CategoryTitle: defaultCategoryTitle},
			wantErr: types.ErrInvalidData,
		},
		{
			name:    "missing category",
			tracker: types.Tracker{Name: "Run", Color: "red", Emoji: "R"},
			wantErr: types.ErrInvalidTitle,
		},
		{
			name: "out of range weekday",
			tracker: types.Tracker{
				Name: "Run", Color: "red", Emoji: "R",
				Schedule: types.Schedule{types.Weekday(9)}, CategoryTitle: defaultCategoryTitle,
			},
			wantErr: types.ErrInvalidWeekday,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Trackers().Add(tt.tracker)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTrackerFetchSortedByName(t *testing.T) {
	b := newTestBackend(t)

	for _, name := range []string{"Zelda", "Aikido", "Meditate"} {
		_, err := b.Trackers().Add(testTracker(name, defaultCategoryTitle))
		require.NoError(t, err)
	}

	trackers, err := b.Trackers().Fetch()
	require.NoError(t, err)
	require.Len(t, trackers, 3)
	assert.Equal(t, "Aikido", trackers[0].Name)
	assert.Equal(t, "Meditate", trackers[1].Name)
	assert.Equal(t, "Zelda", trackers[2].Name)
}

func TestTrackerDeleteCascadesToRecords(t *testing.T) {
	b := newTestBackend(t)

	id, err := b.Trackers().Add(testTracker("Run", defaultCategoryTitle))
	require.NoError(t, err)
	_, err = b.Records().Add(id, b.now())
	require.NoError(t, err)

	require.NoError(t, b.Trackers().Delete(id))

	records, err := b.Records().Fetch()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTrackerDeleteMissingIsNoOp(t *testing.T) {
	b := newTestBackend(t)

	assert.NoError(t, b.Trackers().Delete("no-such-id"))
	assert.ErrorIs(t, b.Trackers().Delete(""), types.ErrInvalidID)
}

func TestTrackerFetchSkipsMalformedRows(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.Trackers().Add(testTracker("Run", defaultCategoryTitle))
	require.NoError(t, err)

	// Sneak in rows the store would never write: an empty name and an
	// unparseable schedule column.
	_, err = b.db.Exec(
		"INSERT INTO trackers (tracker_id, name, color, emoji, schedule, category_title) VALUES (?, ?, ?, ?, ?, ?)",
		"bad-name", "", "red", "R", "[1]", defaultCategoryTitle)
	require.NoError(t, err)
	_, err = b.db.Exec(
		"INSERT INTO trackers (tracker_id, name, color, emoji, schedule, category_title) VALUES (?, ?, ?, ?, ?, ?)",
		"bad-schedule", "Swim", "blue", "S", "not json", defaultCategoryTitle)
	require.NoError(t, err)

	trackers, err := b.Trackers().Fetch()
	require.NoError(t, err)
	require.Len(t, trackers, 1)
	assert.Equal(t, "Run", trackers[0].Name)
	assert.Equal(t, int64(2), b.DroppedRows())
}

func TestTrackerChangeFeed(t *testing.T) {
	b := newTestBackend(t)

	var diffs []types.Diff
	cancel := b.Trackers().OnChange(func(d types.Diff) { diffs = append(diffs, d) })
	defer cancel()

	id, err := b.Trackers().Add(testTracker("Run", defaultCategoryTitle))
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, []int{0}, diffs[0].Inserted)

	require.NoError(t, b.Trackers().Delete(id))
	require.Len(t, diffs, 2)
	assert.Equal(t, []int{0}, diffs[1].Deleted)
}

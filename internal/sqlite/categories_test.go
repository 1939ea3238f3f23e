package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func testTracker(name, category string) types.Tracker {
	return types.Tracker{
		Name:          name,
		Color:         "teal",
		Emoji:         "*",
		Schedule:      types.Schedule{types.Monday, types.Thursday},
		CategoryTitle: category,
	}
}

func TestCategoryAddAndFetch(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Categories().Add(types.Category{Title: "Health"}))
	require.NoError(t, b.Categories().Add(types.Category{Title: "Chores"}))

	categories, err := b.Categories().Fetch()
	require.NoError(t, err)
	require.Len(t, categories, 3)

	// Sorted by title ascending, seeded "Default" in the middle.
	assert.Equal(t, "Chores", categories[0].Title)
	assert.Equal(t, defaultCategoryTitle, categories[1].Title)
	assert.Equal(t, "Health", categories[2].Title)
}

func TestCategoryAddWithTrackers(t *testing.T) {
	b := newTestBackend(t)

	category := types.Category{
		Title: "Health",
		Trackers: []types.Tracker{
			testTracker("Run", "ignored"),
			testTracker("Floss", "also ignored"),
		},
	}
	require.NoError(t, b.Categories().Add(category))

	categories, err := b.Categories().Fetch()
	require.NoError(t, err)

	var health *types.Category
	for i := range categories {
		if categories[i].Title == "Health" {
			health = &categories[i]
		}
	}
	require.NotNil(t, health)
	require.Len(t, health.Trackers, 2)

	// Trackers sorted by name, reparented under the new category.
	assert.Equal(t, "Floss", health.Trackers[0].Name)
	assert.Equal(t, "Run", health.Trackers[1].Name)
	for _, tracker := range health.Trackers {
		assert.Equal(t, "Health", tracker.CategoryTitle)
		assert.NotEmpty(t, tracker.TrackerID)
	}
}

func TestCategoryAddDuplicateTitle(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Categories().Add(types.Category{Title: "Health"}))
	assert.ErrorIs(t, b.Categories().Add(types.Category{Title: "Health"}), types.ErrDuplicateTitle)
	assert.ErrorIs(t, b.Categories().Add(types.Category{Title: defaultCategoryTitle}), types.ErrDuplicateTitle)
}

func TestCategoryAddRejectsInvalid(t *testing.T) {
	b := newTestBackend(t)

	assert.ErrorIs(t, b.Categories().Add(types.Category{}), types.ErrInvalidTitle)
}

func TestCategoryDeleteCascades(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Categories().Add(types.Category{Title: "Health"}))
	id, err := b.Trackers().Add(testTracker("Run", "Health"))
	require.NoError(t, err)
	_, err = b.Records().Add(id, b.now())
	require.NoError(t, err)

	require.NoError(t, b.Categories().Delete("Health"))

	trackers, err := b.Trackers().Fetch()
	require.NoError(t, err)
	assert.Empty(t, trackers)

	records, err := b.Records().Fetch()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCategoryDeleteMissingIsNoOp(t *testing.T) {
	b := newTestBackend(t)

	assert.NoError(t, b.Categories().Delete("Nope"))
	assert.ErrorIs(t, b.Categories().Delete(""), types.ErrInvalidTitle)
}

func TestCategoryChangeFeedBatchesTransaction(t *testing.T) {
	b := newTestBackend(t)

	var catDiffs, trackerDiffs []types.Diff
	cancelCat := b.Categories().OnChange(func(d types.Diff) { catDiffs = append(catDiffs, d) })
	defer cancelCat()
	cancelTrk := b.Trackers().OnChange(func(d types.Diff) { trackerDiffs = append(trackerDiffs, d) })
	defer cancelTrk()

	category := types.Category{
		Title: "Health",
		Trackers: []types.Tracker{
			testTracker("Run", "Health"),
			testTracker("Floss", "Health"),
			testTracker("Stretch", "Health"),
		},
	}
	require.NoError(t, b.Categories().Add(category))

	// One transaction, one diff per feed: the new category plus its three
	// trackers arrive together, not as four notifications.
	require.Len(t, catDiffs, 1)
	assert.Len(t, catDiffs[0].Inserted, 1)
	require.Len(t, trackerDiffs, 1)
	assert.Len(t, trackerDiffs[0].Inserted, 3)
}

func TestCategoryDeleteSurfacesOnDependentFeeds(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Categories().Add(types.Category{Title: "Health"}))
	id, err := b.Trackers().Add(testTracker("Run", "Health"))
	require.NoError(t, err)
	_, err = b.Records().Add(id, b.now())
	require.NoError(t, err)

	var trackerDiffs, recordDiffs []types.Diff
	cancelTrk := b.Trackers().OnChange(func(d types.Diff) { trackerDiffs = append(trackerDiffs, d) })
	defer cancelTrk()
	cancelRec := b.Records().OnChange(func(d types.Diff) { recordDiffs = append(recordDiffs, d) })
	defer cancelRec()

	require.NoError(t, b.Categories().Delete("Health"))

	// The cascade removes the tracker and its record; both feeds see it.
	require.Len(t, trackerDiffs, 1)
	assert.Len(t, trackerDiffs[0].Deleted, 1)
	require.Len(t, recordDiffs, 1)
	assert.Len(t, recordDiffs[0].Deleted, 1)
}

func TestCategoryFetchEmptyAfterDeletingDefault(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Categories().Delete(defaultCategoryTitle))

	categories, err := b.Categories().Fetch()
	require.NoError(t, err)
	assert.Empty(t, categories)
}

// Package agenda derives what the user sees for a selected date: the
// categories and trackers scheduled on that weekday, annotated with
// completion state. The computation is pure and runs against a fresh
// fetch every time; the corpus is bounded by manual data entry, so
// recomputation beats cache invalidation.
package agenda

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// TrackerView is one visible tracker plus its completion state.
type TrackerView struct {
	Tracker types.Tracker `json:"tracker"`

	// CompletionCount is the all-time number of completions, not
	// filtered by the selected date.
	CompletionCount int `json:"completion_count"`

	// CompletedToday reports whether a record exists for the selected
	// date's calendar day.
	CompletedToday bool `json:"completed_today"`
}

// CategoryView is a category with its visible trackers. Categories whose
// filtered tracker list is empty do not appear at all.
type CategoryView struct {
	Title    string        `json:"title"`
	Trackers []TrackerView `json:"trackers"`
}

// Visible returns the per-category tracker lists for the given date,
// using the wall clock for the future-date cutoff.
func Visible(storage types.Storage, date time.Time) ([]CategoryView, error) {
	return VisibleAt(storage, date, time.Now())
}

// VisibleAt is Visible with an explicit "now". A tracker is visible iff
// date is not strictly after now and the date's weekday is in its
// schedule.
func VisibleAt(storage types.Storage, date, now time.Time) ([]CategoryView, error) {
	categories, err := storage.Categories().Fetch()
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}

	isFuture := date.After(now)
	weekday := types.WeekdayOf(date)
	day := types.DayOf(date)

	countByTracker := make(map[string]int)
	completedToday := make(map[string]bool)
	if !isFuture {
		records, err := storage.Records().Fetch()
		if err != nil {
			return nil, fmt.Errorf("fetching records: %w", err)
		}
		for _, r := range records {
			countByTracker[r.TrackerID]++
			if r.Day == day {
				completedToday[r.TrackerID] = true
			}
		}
	}

	out := []CategoryView{}
	for _, category := range categories {
		var visible []TrackerView
		for _, tracker := range category.Trackers {
			if isFuture || !tracker.Schedule.Contains(weekday) {
				continue
			}
			visible = append(visible, TrackerView{
				Tracker:         tracker,
				CompletionCount: countByTracker[tracker.TrackerID],
				CompletedToday:  completedToday[tracker.TrackerID],
			})
		}
		if len(visible) == 0 {
			continue
		}
		out = append(out, CategoryView{Title: category.Title, Trackers: visible})
	}
	return out, nil
}

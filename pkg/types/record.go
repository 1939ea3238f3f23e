package types

import "time"

// DayLayout is the persisted calendar-day format.
const DayLayout = "2006-01-02"

// DayOf truncates an instant to its calendar day string. Two records
// collide when their DayOf values and tracker IDs match, regardless of
// time of day.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// Record is evidence that a tracker was completed on a calendar day.
// The RecordID is unique but incidental; the natural key is
// (TrackerID, Day).
type Record struct {
	RecordID   string    `json:"record_id"` // UUID, generated on creation.
	Day        string    `json:"day"`       // Calendar day, DayLayout format.
	RecordedAt time.Time `json:"recorded_at"`
	TrackerID  string    `json:"tracker_id"`
}

// SameCompletion reports whether two records describe the same logical
// completion, i.e. share the natural key.
func (r Record) SameCompletion(other Record) bool {
	return r.TrackerID == other.TrackerID && r.Day == other.Day
}

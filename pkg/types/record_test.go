package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOf(t *testing.T) {
	morning := time.Date(2026, 8, 24, 7, 30, 0, 0, time.Local)
	evening := time.Date(2026, 8, 24, 23, 59, 59, 0, time.Local)
	nextDay := time.Date(2026, 8, 25, 0, 0, 1, 0, time.Local)

	assert.Equal(t, "2026-08-24", DayOf(morning))
	assert.Equal(t, DayOf(morning), DayOf(evening))
	assert.NotEqual(t, DayOf(morning), DayOf(nextDay))
}

func TestRecordSameCompletion(t *testing.T) {
	a := Record{RecordID: "r1", Day: "2026-08-24", TrackerID: "t1"}
	b := Record{RecordID: "r2", Day: "2026-08-24", TrackerID: "t1"}
	c := Record{RecordID: "r3", Day: "2026-08-25", TrackerID: "t1"}
	d := Record{RecordID: "r4", Day: "2026-08-24", TrackerID: "t2"}

	// Identity is the natural key, not the record ID.
	assert.True(t, a.SameCompletion(b))
	assert.False(t, a.SameCompletion(c))
	assert.False(t, a.SameCompletion(d))
}

package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Weekday identifies a day of the week. The numbering follows the calendar
// convention used by the persisted schedule format: Sunday is 1 and
// Saturday is 7.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayOf returns the Weekday for the given instant.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(int(t.Weekday()) + 1)
}

// Valid reports whether w is within the Sunday..Saturday range.
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

var weekdayNames = map[Weekday]string{
	Sunday:    "sunday",
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
}

func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return fmt.Sprintf("weekday(%d)", int(w))
}

// ParseWeekday accepts a full name ("monday"), a three-letter prefix
// ("mon"), or the numeric form ("2"). Matching is case-insensitive.
// Returns ErrInvalidWeekday for anything else.
func ParseWeekday(s string) (Weekday, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(in); err == nil {
		w := Weekday(n)
		if !w.Valid() {
			return 0, ErrInvalidWeekday
		}
		return w, nil
	}
	for w, name := range weekdayNames {
		if in == name || (len(in) == 3 && strings.HasPrefix(name, in)) {
			return w, nil
		}
	}
	return 0, ErrInvalidWeekday
}

// Schedule is the set of weekdays a tracker is active on. The slice form
// exists for persistence (a plain ordered list of small integers); set
// semantics apply, so duplicates and ordering are not meaningful.
type Schedule []Weekday

// Contains reports whether w is part of the schedule.
func (s Schedule) Contains(w Weekday) bool {
	for _, d := range s {
		if d == w {
			return true
		}
	}
	return false
}

// Normalize returns the schedule sorted ascending with duplicates removed.
// The receiver is not modified.
func (s Schedule) Normalize() Schedule {
	seen := make(map[Weekday]bool, len(s))
	out := make(Schedule, 0, len(s))
	for _, d := range s {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate returns ErrInvalidWeekday if any entry falls outside 1..7.
func (s Schedule) Validate() error {
	for _, d := range s {
		if !d.Valid() {
			return ErrInvalidWeekday
		}
	}
	return nil
}

// ParseSchedule parses a comma-separated weekday list, e.g. "mon,wed,fri"
// or "1,4,6". The result is normalized.
func ParseSchedule(s string) (Schedule, error) {
	var out Schedule
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		w, err := ParseWeekday(part)
		if err != nil {
			return nil, fmt.Errorf("parsing weekday %q: %w", part, err)
		}
		out = append(out, w)
	}
	return out.Normalize(), nil
}

package types

// Tracker represents a habit the user wants to follow: what it looks like
// in the UI (name, color, emoji) and which weekdays it is scheduled on.
// Trackers are immutable once created; there is no edit flow.
type Tracker struct {
	TrackerID     string   `json:"tracker_id"` // UUID, generated on creation when empty.
	Name          string   `json:"name"`
	Color         string   `json:"color"` // Color asset identifier, opaque to this layer.
	Emoji         string   `json:"emoji"`
	Schedule      Schedule `json:"schedule"`
	CategoryTitle string   `json:"category_title"`
}

// Validate checks the fields a tracker must carry before it can be
// persisted. The TrackerID may be empty; the store generates one.
func (t Tracker) Validate() error {
	if t.Name == "" {
		return ErrInvalidData
	}
	if t.Color == "" || t.Emoji == "" {
		return ErrInvalidData
	}
	if t.CategoryTitle == "" {
		return ErrInvalidTitle
	}
	return t.Schedule.Validate()
}

package types

// Category is a named grouping of trackers. The title doubles as the
// primary key; two categories never share a title.
type Category struct {
	Title    string    `json:"title"`
	Trackers []Tracker `json:"trackers,omitempty"` // Sorted by name on fetch.
}

// Validate returns ErrInvalidTitle for an empty title and propagates
// validation of any attached trackers.
func (c Category) Validate() error {
	if c.Title == "" {
		return ErrInvalidTitle
	}
	for _, t := range c.Trackers {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

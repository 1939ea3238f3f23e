package types

// Move describes a row that kept its identity but changed position in the
// sorted fetch order.
type Move struct {
	OldIndex int
	NewIndex int
}

// Diff is a batched description of how one logical mutation changed a
// store's sorted fetch result. Index values refer to positions in the
// snapshot the mutation produced (Deleted indexes refer to the previous
// snapshot). One mutation batch yields exactly one Diff, however many rows
// it touched.
type Diff struct {
	Inserted []int
	Deleted  []int
	Updated  []int
	Moved    []Move
}

// Empty reports whether the diff carries no changes. Empty diffs are not
// delivered to subscribers.
func (d Diff) Empty() bool {
	return len(d.Inserted) == 0 && len(d.Deleted) == 0 &&
		len(d.Updated) == 0 && len(d.Moved) == 0
}

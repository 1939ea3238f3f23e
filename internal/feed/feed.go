// Package feed implements a generic change feed over ordered collections.
// A store publishes successive sorted snapshots of its rows; the feed
// computes a batched Diff between the previous and the new snapshot and
// delivers it to subscribers. One snapshot publication yields at most one
// Diff, however many rows the underlying mutation touched. The feed is
// deliberately decoupled from any storage engine: anything that can
// produce an ordered snapshot can drive it.
package feed

import (
	"sort"
	"sync"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Entry is one row of an ordered snapshot: a stable identity key plus a
// fingerprint of the row's content. A changed fingerprint at an unchanged
// relative position reports as an update; a changed relative position
// reports as a move.
type Entry struct {
	Key         string
	Fingerprint string
}

// Feed tracks the last published snapshot and fans batched diffs out to
// subscribers. Delivery is synchronous on the publishing goroutine.
type Feed struct {
	mu     sync.Mutex
	prev   []Entry
	subs   map[int]func(types.Diff)
	nextID int
}

// New returns an empty, unprimed feed.
func New() *Feed {
	return &Feed{subs: make(map[int]func(types.Diff))}
}

// Subscribe registers a handler for future diffs. The returned func
// cancels the subscription; calling it more than once is harmless.
func (f *Feed) Subscribe(handler func(types.Diff)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = handler

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Prime sets the baseline snapshot without delivering anything. Used on
// attach so that the initial state does not report as a wall of inserts.
func (f *Feed) Prime(snapshot []Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prev = cloneSnapshot(snapshot)
}

// Publish diffs the snapshot against the previous one and delivers the
// result to every subscriber. Empty diffs are swallowed.
func (f *Feed) Publish(snapshot []Entry) {
	f.mu.Lock()
	d := diff(f.prev, snapshot)
	f.prev = cloneSnapshot(snapshot)
	handlers := make([]func(types.Diff), 0, len(f.subs))
	for _, h := range f.subs {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	if d.Empty() {
		return
	}
	for _, h := range handlers {
		h(d)
	}
}

func cloneSnapshot(s []Entry) []Entry {
	out := make([]Entry, len(s))
	copy(out, s)
	return out
}

// diff computes the batched change set between two ordered snapshots.
// Keys present only in next are inserts (positions in next); keys present
// only in prev are deletes (positions in prev). For keys present in both,
// a changed rank among the surviving keys is a move, and an unchanged
// rank with a changed fingerprint is an update.
func diff(prev, next []Entry) types.Diff {
	prevIdx := make(map[string]int, len(prev))
	for i, e := range prev {
		prevIdx[e.Key] = i
	}
	nextIdx := make(map[string]int, len(next))
	for i, e := range next {
		nextIdx[e.Key] = i
	}

	var d types.Diff

	for i, e := range prev {
		if _, ok := nextIdx[e.Key]; !ok {
			d.Deleted = append(d.Deleted, i)
		}
	}
	for i, e := range next {
		if _, ok := prevIdx[e.Key]; !ok {
			d.Inserted = append(d.Inserted, i)
		}
	}

	// Rank surviving keys within each snapshot so that inserts and
	// deletes above a row do not masquerade as moves of that row.
	prevRank := make(map[string]int)
	rank := 0
	for _, e := range prev {
		if _, ok := nextIdx[e.Key]; ok {
			prevRank[e.Key] = rank
			rank++
		}
	}
	nextRank := make(map[string]int)
	rank = 0
	for _, e := range next {
		if _, ok := prevIdx[e.Key]; ok {
			nextRank[e.Key] = rank
			rank++
		}
	}

	for i, e := range next {
		oldPos, ok := prevIdx[e.Key]
		if !ok {
			continue
		}
		if prevRank[e.Key] != nextRank[e.Key] {
			d.Moved = append(d.Moved, types.Move{OldIndex: oldPos, NewIndex: i})
			continue
		}
		if prev[oldPos].Fingerprint != e.Fingerprint {
			d.Updated = append(d.Updated, i)
		}
	}

	sort.Ints(d.Inserted)
	sort.Ints(d.Deleted)
	sort.Ints(d.Updated)
	sort.Slice(d.Moved, func(i, j int) bool { return d.Moved[i].NewIndex < d.Moved[j].NewIndex })
	return d
}

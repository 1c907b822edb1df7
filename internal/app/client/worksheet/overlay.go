// Package worksheet implements the optimistic-editing core of the usage
// worksheet: a dirty overlay of pending edits over the last-fetched canonical
// rows, the merged render view derived from the two, clipboard paste
// expansion, calendar gap detection, and the sequential batch committer that
// drains the overlay against the backend.
package worksheet

import (
	"fleetlog/internal/domain/usage"
)

// Overlay holds all unsaved local edits, keyed for fast lookup and idempotent
// merging. Insertion order is preserved because the committer walks entries
// in the order they were first created.
type Overlay struct {
	entries []usage.DirtyEntry
	index   map[string]int
}

func NewOverlay() *Overlay {
	return &Overlay{index: make(map[string]int)}
}

// Upsert merges the entry into an existing one with the same identity key or
// appends it. Merging rather than replacing means two edits to different
// cells of the same unsaved row accumulate instead of the second discarding
// the first.
func (o *Overlay) Upsert(entry usage.DirtyEntry) {
	key := entry.Key()
	if i, ok := o.index[key]; ok {
		o.entries[i].Merge(entry)
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, entry)
}

// Entries returns a snapshot copy in insertion order. Mutating the returned
// slice does not affect the overlay.
func (o *Overlay) Entries() []usage.DirtyEntry {
	out := make([]usage.DirtyEntry, len(o.entries))
	copy(out, o.entries)
	return out
}

// Clear empties the overlay. Called after a successful batch commit plus
// re-fetch, or on explicit discard.
func (o *Overlay) Clear() {
	o.entries = nil
	o.index = make(map[string]int)
}

// Len reports the number of pending entries.
func (o *Overlay) Len() int {
	return len(o.entries)
}

// Restore refills the overlay from previously persisted entries, preserving
// their order. Used by the CLI to rehydrate the overlay between invocations.
func (o *Overlay) Restore(entries []usage.DirtyEntry) {
	o.Clear()
	for _, e := range entries {
		o.Upsert(e)
	}
}

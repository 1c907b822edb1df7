package worksheet

import (
	"hash/fnv"
	"sort"
	"time"

	"fleetlog/internal/domain/usage"
)

// Merge derives the table's row set by overlaying dirty entries onto a copy
// of the canonical rows. Entries with a positive id patch the matching
// canonical row field by field; entries without one append a new row carrying
// a placeholder id and now as updated_at. The result is sorted by date with a
// stable sort, so same-date rows keep their relative order.
//
// Merge is pure: it never mutates its inputs and two calls with the same
// inputs produce identical output.
func Merge(canonical []usage.Row, entries []usage.DirtyEntry, now time.Time) []usage.Row {
	merged := make([]usage.Row, len(canonical))
	copy(merged, canonical)

	for _, e := range entries {
		if e.ID > 0 {
			for i := range merged {
				if merged[i].ID == e.ID {
					merged[i] = e.ApplyTo(merged[i])
					break
				}
			}
			continue
		}
		row := e.ApplyTo(usage.Row{
			ID:        placeholderID(e.Key()),
			TechlogNo: usage.TechlogNone,
			UpdatedAt: now,
		})
		merged = append(merged, row)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	return merged
}

// placeholderID synthesizes the negative id a not-yet-persisted row renders
// under. It is derived from the entry's identity key, so the same logical row
// gets the same placeholder on every render and two distinct unsaved rows
// cannot collide. Server ids are positive, so any negative value is safe.
func placeholderID(key string) int64 {
	h := fnv.New32a()
	h.Write([]byte(key))
	id := -int64(h.Sum32())
	if id == 0 {
		id = -1
	}
	return id
}

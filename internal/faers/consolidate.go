package faers

import (
	"sort"
)

// Consolidate concatenates the per-quarter event sets into one corpus,
// resolves dates, removes exact duplicate rows keeping the first
// occurrence, and sorts deterministically so a rerun over the same drops
// writes byte-identical outputs.
func Consolidate(perQuarter [][]Event) []Event {
	var all []Event
	seen := make(map[string]struct{})
	for _, events := range perQuarter {
		for _, ev := range events {
			key := ev.rowKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			ev.Date = ParseDate(ev.RawDate)
			all = append(all, ev)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].rowKey() < all[j].rowKey()
	})
	return all
}

// YearMonth renders an event's month bucket, or "" for a null date.
func (e Event) YearMonth() string {
	if e.Date == nil {
		return ""
	}
	return e.Date.Format("2006-01")
}

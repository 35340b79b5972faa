// Package feed shapes freshly fetched collections before they are published
// to the store: identity deduplication, display ordering, and the optional
// post-mutation consistency refresh.
package feed

import (
	"sort"
	"time"

	"github.com/learnloop/learnloop/pkg/entity"
)

// Dedupe collapses a fetched sequence to identity-unique elements, keeping
// the first occurrence of each id and preserving input order. Backends and
// intermediate caches can hand back duplicate rows (pagination overlap, join
// fan-out); the store must never hold two entities with the same id.
// Deduplicating an already-unique sequence returns an equal sequence.
func Dedupe[T entity.Record](items []T) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		key := item.EntityID().String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// SortByTimeDesc returns a copy of items ordered most-recent-first by the
// given timestamp accessor. The sort is stable so server order breaks ties.
func SortByTimeDesc[T any](items []T, timestamp func(T) time.Time) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return timestamp(out[i]).After(timestamp(out[j]))
	})
	return out
}

// SortLearningNewestFirst orders learning entries most-recent-first, the
// display order of the learning dashboard.
func SortLearningNewestFirst(entries []entity.LearningEntry) []entity.LearningEntry {
	return SortByTimeDesc(entries, func(e entity.LearningEntry) time.Time { return e.Timestamp })
}

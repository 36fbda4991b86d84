package search

import (
	"cmp"
	"slices"
)

// Aggregate merges the workers' local match lists, sorts them by candidate
// and keeps the first limit entries. The local lists come from disjoint
// subsequences, so candidates are already unique.
func Aggregate(locals [][]Match, limit int) []Match {
	total := 0
	for _, l := range locals {
		total += len(l)
	}
	merged := make([]Match, 0, total)
	for _, l := range locals {
		merged = append(merged, l...)
	}
	slices.SortFunc(merged, func(a, b Match) int {
		return cmp.Compare(a.Candidate, b.Candidate)
	})
	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit:limit]
	}
	return merged
}

package services

import "slices"

// TopByCount returns at most k elements of items ordered by count descending.
// Elements with equal counts keep their input order. items is not modified.
func TopByCount[T any](items []T, count func(T) int, k int) []T {
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, func(a, b T) int {
		return count(b) - count(a)
	})
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

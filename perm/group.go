package perm

import (
	"iter"
	"slices"
)

// Group enumerates every permutation of exactly the given index set except
// the identity, in lexicographic successor order. An index set of size 0 or
// 1 yields an empty sequence. The sequence is lazy and finite.
func Group(indices []int) iter.Seq[Permutation] {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	return func(yield func(Permutation) bool) {
		current := slices.Clone(sorted)
		for nextPermutation(current) {
			mapping := make(map[int]int, len(sorted))
			for i, from := range sorted {
				mapping[from] = current[i]
			}
			if !yield(Permutation{mapping: mapping}) {
				return
			}
		}
	}
}

// nextPermutation advances a to its lexicographic successor in place and
// reports whether one exists.
func nextPermutation(a []int) bool {
	if len(a) < 2 {
		return false
	}

	// Find the rightmost ascent a[k] < a[k+1].
	k := -1
	for i := len(a) - 2; i >= 0; i-- {
		if a[i] < a[i+1] {
			k = i
			break
		}
	}
	if k == -1 {
		return false
	}

	// Find the rightmost l > k with a[k] < a[l].
	l := -1
	for i := len(a) - 1; i > k; i-- {
		if a[k] < a[i] {
			l = i
			break
		}
	}

	a[k], a[l] = a[l], a[k]
	slices.Reverse(a[k+1:])
	return true
}

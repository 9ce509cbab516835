package sweep

import "iter"

// Subsets yields every subset of items. Subsets come out by size, smallest
// first, and within a size in the lexicographic order of item positions, so
// the empty subset is always first and the full set always last.
//
// Each yielded slice is freshly allocated and may be retained by the caller.
func Subsets[T any](items []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		n := len(items)
		for k := 0; k <= n; k++ {
			idx := make([]int, k)
			for i := range idx {
				idx[i] = i
			}
			for {
				subset := make([]T, k)
				for i, j := range idx {
					subset[i] = items[j]
				}
				if !yield(subset) {
					return
				}

				// Find the rightmost position that can still move right.
				i := k - 1
				for i >= 0 && idx[i] == i+n-k {
					i--
				}
				if i < 0 {
					break
				}
				idx[i]++
				for j := i + 1; j < k; j++ {
					idx[j] = idx[j-1] + 1
				}
			}
		}
	}
}

// Product yields the cartesian product of groups: one tuple per way of
// picking a single element from every group, with the last group varying
// fastest. No groups yields exactly one empty tuple; any empty group yields
// nothing at all.
//
// Each yielded slice is freshly allocated and may be retained by the caller.
func Product[T any](groups [][]T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for _, g := range groups {
			if len(g) == 0 {
				return
			}
		}

		idx := make([]int, len(groups))
		for {
			tuple := make([]T, len(groups))
			for i, j := range idx {
				tuple[i] = groups[i][j]
			}
			if !yield(tuple) {
				return
			}

			i := len(groups) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(groups[i]) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

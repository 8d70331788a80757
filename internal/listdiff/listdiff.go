// Package listdiff computes the minimal row-level delta between two
// flattened tree states. Rows preserved across the change are found with a
// Longest Increasing Subsequence over the positions surviving IDs take in
// the new list, so insertions+removals = len(before)+len(after)-2*|LIS|.
package listdiff

import "github.com/starford/arbor/internal/models"

// Result describes how to turn the before list into the after list: apply
// RemovesDesc to before (descending indices), then InsertsAsc (ascending
// indices into the result).
type Result struct {
	RemovesDesc []int `json:"removes_desc"`
	InsertsAsc  []int `json:"inserts_asc"`
}

// Empty reports whether the two lists were identical.
func (r Result) Empty() bool {
	return len(r.RemovesDesc) == 0 && len(r.InsertsAsc) == 0
}

// Diff computes the minimal delta between two VisibleNode sequences keyed
// by ID.
func Diff(before, after []models.VisibleNode) Result {
	if sameIDs(before, after) {
		return Result{}
	}

	afterIndexByID := make(map[string]int, len(after))
	for j, n := range after {
		afterIndexByID[n.ID] = j
	}

	// seq holds, in before-order, the after-positions of surviving IDs.
	seq := make([]int, 0, len(before))
	for _, n := range before {
		if j, ok := afterIndexByID[n.ID]; ok {
			seq = append(seq, j)
		}
	}

	kept := lisPositions(seq)

	var removes []int
	for i := len(before) - 1; i >= 0; i-- {
		j, survived := afterIndexByID[before[i].ID]
		if !survived || !kept[j] {
			removes = append(removes, i)
		}
	}

	var inserts []int
	for j := range after {
		if !kept[j] {
			inserts = append(inserts, j)
		}
	}

	return Result{RemovesDesc: removes, InsertsAsc: inserts}
}

// lisPositions returns the set of values forming one longest strictly
// increasing subsequence of seq, via patience sorting with binary search
// over tails and backpointer reconstruction.
func lisPositions(seq []int) map[int]bool {
	kept := make(map[int]bool, len(seq))
	if len(seq) == 0 {
		return kept
	}

	tails := make([]int, 0, len(seq)) // indices into seq, smallest tail per length
	prev := make([]int, len(seq))

	for k, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[k] = tails[lo-1]
		} else {
			prev[k] = -1
		}
		if lo == len(tails) {
			tails = append(tails, k)
		} else {
			tails[lo] = k
		}
	}

	for k := tails[len(tails)-1]; k >= 0; k = prev[k] {
		kept[seq[k]] = true
	}
	return kept
}

// sameIDs is the fast path: equal length and identical ID sequence.
func sameIDs(before, after []models.VisibleNode) bool {
	if len(before) != len(after) {
		return false
	}
	for i := range before {
		if before[i].ID != after[i].ID {
			return false
		}
	}
	return true
}

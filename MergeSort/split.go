package MergeSort

import "golang.org/x/exp/constraints"

// FindSplit returns the index k at which needle would be inserted into the
// sorted haystack, such that haystack[:k] <= needle <= haystack[k:].
//
// Every k in [0, len(haystack)] with that property is a valid answer; the
// search returns the lowest one strictly after any element smaller than
// needle. An empty haystack yields 0.
func FindSplit[T constraints.Ordered](needle T, haystack []T) (int, error) {
	n := len(haystack)
	if n == 0 || needle <= haystack[0] {
		return 0, nil
	}
	if needle >= haystack[n-1] {
		return n, nil
	}
	// haystack[0] < needle < haystack[n-1], so the answer lies in [1, n-1]
	// and mid-1 never leaves the haystack.
	lo, hi := 1, n-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case haystack[mid] < needle:
			lo = mid + 1
		case haystack[mid-1] > needle:
			hi = mid - 1
		default:
			// haystack[mid-1] <= needle <= haystack[mid]
			return mid, nil
		}
	}
	return -1, newSplitError(-1, n)
}

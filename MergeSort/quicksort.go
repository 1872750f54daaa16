package MergeSort

import "golang.org/x/exp/constraints"

// QuickSort copies source into result and sorts result in place with a
// single-pivot Lomuto quicksort. len(result) must equal len(source).
//
// Worst case time is quadratic, which is accepted for the small
// sub-problems it is used on.
func QuickSort[T constraints.Ordered](result, source []T) {
	if len(result) != len(source) {
		panic("assert len(result) == len(source)")
	}
	copy(result, source)
	quickSort(result, 0, len(result)-1)
}

// quickSort recurses into the smaller partition and loops on the larger
// one, which keeps the stack O(log n) even on sorted input.
func quickSort[T constraints.Ordered](a []T, lo, hi int) {
	for lo < hi {
		p := partition(a, lo, hi)
		if p-lo < hi-p {
			quickSort(a, lo, p-1)
			lo = p + 1
		} else {
			quickSort(a, p+1, hi)
			hi = p - 1
		}
	}
}

// partition uses a[hi] as the pivot, swaps every element <= pivot into a
// growing prefix and places the pivot right after it.
func partition[T constraints.Ordered](a []T, lo, hi int) int {
	pivot := a[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		if a[j] <= pivot {
			i++
			a[i], a[j] = a[j], a[i]
		}
	}
	a[i+1], a[hi] = a[hi], a[i+1]
	return i + 1
}

// IsSorted reports whether a is in non-decreasing order.
func IsSorted[T constraints.Ordered](a []T) bool {
	for i := len(a) - 1; i > 0; i-- {
		if a[i] < a[i-1] {
			return false
		}
	}
	return true
}

package MergeSort

import (
	"golang.org/x/exp/constraints"

	"GoMergeSort/MergeSort/fork_join"
)

// SequentialMerge merges the sorted runs b and c into result, which must be
// exactly len(b)+len(c) long. On ties the element from b goes first.
func SequentialMerge[T constraints.Ordered](result, b, c []T) {
	if len(result) != len(b)+len(c) {
		panic("assert len(result) == len(b) + len(c)")
	}
	i, j, k := 0, 0, 0
	for i < len(b) && j < len(c) {
		if b[i] <= c[j] {
			result[k] = b[i]
			i++
		} else {
			result[k] = c[j]
			j++
		}
		k++
	}
	k += copy(result[k:], b[i:])
	copy(result[k:], c[j:])
}

// mergeTask merges b and c into result; it is the left half of a parallel
// merge offered to the pool.
type mergeTask[T constraints.Ordered] struct {
	s      *Sorter[T]
	result []T
	b, c   []T
}

func (t *mergeTask[T]) Compute() error {
	return t.s.parallelMerge(t.result, t.b, t.c)
}

// parallelMerge merges the sorted runs b and c into result.
//
// The larger run is bisected at mid and its middle element placed at its
// final position mid+bin, where bin is the split point of that element in
// the smaller run. Both remaining halves then read and write disjoint
// ranges: b[:mid], c[:bin] -> result[:mid+bin] and b[mid+1:], c[bin:] ->
// result[mid+bin+1:]. The left half is offered to the pool, the right half
// always runs on the calling goroutine.
func (s *Sorter[T]) parallelMerge(result, b, c []T) (err error) {
	if len(b) < len(c) {
		return s.parallelMerge(result, c, b)
	}
	if len(b) <= s.threshold {
		done := s.track(result)
		SequentialMerge(result, b, c)
		done()
		return nil
	}

	mid := len(b) / 2
	bin, err := FindSplit(b[mid], c)
	if err != nil {
		return err
	}
	if bin < 0 || bin > len(c) {
		return newSplitError(bin, len(c))
	}
	at := mid + bin
	done := s.track(result[at : at+1])
	result[at] = b[mid]
	done()

	left := fork_join.Fork(s.pool, &mergeTask[T]{
		s:      s,
		result: result[:at:at],
		b:      b[:mid:mid],
		c:      c[:bin:bin],
	})
	defer func() {
		if joinErr := left.Join(); err == nil {
			err = joinErr
		}
	}()
	return s.parallelMerge(result[at+1:], b[mid+1:], c[bin:])
}

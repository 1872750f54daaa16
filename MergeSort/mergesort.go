package MergeSort

import (
	"fmt"

	"github.com/gravitational/trace"
	"golang.org/x/exp/constraints"

	"GoMergeSort/MergeSort/fork_join"
)

// Sorter is a parallel merge sort bound to one spawn backend. A Sorter
// keeps no state between Sort calls; it is safe for concurrent use when its
// pool is.
type Sorter[T constraints.Ordered] struct {
	pool      fork_join.Pool
	threshold int

	// observe, when set, is told about every leaf write into a buffer and
	// returns a func called once the write is done.
	observe func(dst []T) func()
}

// New returns a Sorter that spawns through pool.
func New[T constraints.Ordered](pool fork_join.Pool, opts ...Option) (*Sorter[T], error) {
	if pool == nil {
		return nil, trace.BadParameter("missing pool")
	}
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &Sorter[T]{pool: pool, threshold: cfg.Threshold}, nil
}

// Threshold returns the parallel cut-off in use.
func (s *Sorter[T]) Threshold() int {
	return s.threshold
}

// Sort returns a sorted copy of a. a itself is only read.
func (s *Sorter[T]) Sort(a []T) (sorted []T, err error) {
	defer func() {
		if p := recover(); p != nil {
			sorted = nil
			err = &SortError{
				Code:    ErrCodeInvariantViolation,
				Message: "sort panicked",
				Err:     fmt.Errorf("%v", p),
			}
		}
	}()
	result, err := allocate[T](len(a))
	if err != nil {
		return nil, err
	}
	if err := s.mergeSort(result, a); err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// sortTask sorts source into result; it is the left half of a merge sort
// offered to the pool.
type sortTask[T constraints.Ordered] struct {
	s      *Sorter[T]
	result []T
	source []T
}

func (t *sortTask[T]) Compute() error {
	return t.s.mergeSort(t.result, t.source)
}

// mergeSort sorts source into result. Above the threshold both halves are
// sorted into a scratch buffer owned by this frame and then merged into
// result; the merge starts only after both halves have joined.
func (s *Sorter[T]) mergeSort(result, source []T) error {
	n := len(source)
	if n <= s.threshold {
		done := s.track(result)
		QuickSort(result, source)
		done()
		return nil
	}

	scratch, err := allocate[T](n)
	if err != nil {
		return err
	}
	half := n / 2
	if err := s.sortHalves(scratch, source, half); err != nil {
		return err
	}
	return s.parallelMerge(result, scratch[:half], scratch[half:])
}

// sortHalves sorts source[:half] into scratch[:half] and source[half:] into
// scratch[half:]. The left half is offered to the pool; the right half
// never spawns.
func (s *Sorter[T]) sortHalves(scratch, source []T, half int) (err error) {
	left := fork_join.Fork(s.pool, &sortTask[T]{
		s:      s,
		result: scratch[:half:half],
		source: source[:half:half],
	})
	defer func() {
		if joinErr := left.Join(); err == nil {
			err = joinErr
		}
	}()
	return s.mergeSort(scratch[half:], source[half:])
}

func (s *Sorter[T]) track(dst []T) func() {
	if s.observe == nil {
		return noop
	}
	return s.observe(dst)
}

func noop() {}

// SortUnbounded sorts a copy of a, spawning a goroutine at every parallel
// call site and leaving scheduling to the Go runtime.
func SortUnbounded[T constraints.Ordered](a []T, opts ...Option) ([]T, error) {
	s, err := New[T](fork_join.NewForkJoinPool(), opts...)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return s.Sort(a)
}

// SortBounded sorts a copy of a with at most capacity spawned tasks
// outstanding; sub-problems refused by the pool run inline.
func SortBounded[T constraints.Ordered](a []T, capacity int, opts ...Option) ([]T, error) {
	pool, err := fork_join.NewBoundedPool(capacity)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	s, err := New[T](pool, opts...)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return s.Sort(a)
}

package MergeSort

import (
	"math/rand"
	"runtime"
	"sort"
	"testing"

	"golang.org/x/exp/slices"
)

const N = 1000000

func makeRandomInts(n int) []int {
	rnd := rand.New(rand.NewSource(42))
	ints := make([]int, n)
	for i := 0; i < n; i++ {
		ints[i] = rnd.Intn(n)
	}
	return ints
}

func makeSortedInts(n int) []int {
	ints := make([]int, n)
	for i := 0; i < n; i++ {
		ints[i] = i
	}
	return ints
}

func makeReversedInts(n int) []int {
	ints := make([]int, n)
	for i := 0; i < n; i++ {
		ints[i] = n - i
	}
	return ints
}

func inputShapes(n int) map[string][]int {
	few := makeRandomInts(n)
	for i := range few {
		few[i] %= 4
	}
	return map[string][]int{
		"empty":    {},
		"single":   {42},
		"pair":     {2, 1},
		"random":   makeRandomInts(n),
		"sorted":   makeSortedInts(n),
		"reversed": makeReversedInts(n),
		"equal":    make([]int, n),
		"few":      few,
	}
}

func sortedCopy(a []int) []int {
	c := slices.Clone(a)
	if c == nil {
		c = []int{}
	}
	slices.Sort(c)
	return c
}

func BenchmarkSortInts(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ints := makeRandomInts(N)
		b.StartTimer()
		sort.Ints(ints)
	}
}

func BenchmarkSortUnbounded(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ints := makeRandomInts(N)
		b.StartTimer()
		if _, err := SortUnbounded(ints); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSortBounded(b *testing.B) {
	capacity := runtime.NumCPU()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ints := makeRandomInts(N)
		b.StartTimer()
		if _, err := SortBounded(ints, capacity); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuickSort(b *testing.B) {
	result := make([]int, DefaultThreshold)
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ints := makeRandomInts(DefaultThreshold)
		b.StartTimer()
		QuickSort(result, ints)
	}
}

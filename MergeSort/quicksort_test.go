package MergeSort

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestQuickSort(t *testing.T) {
	for name, input := range inputShapes(1000) {
		t.Run(name, func(t *testing.T) {
			source := slices.Clone(input)
			result := make([]int, len(source))
			QuickSort(result, source)
			assert.Equal(t, input, source, "source must not be modified")
			assert.True(t, IsSorted(result))
			assert.Equal(t, sortedCopy(input), result)
		})
	}
}

func TestQuickSortInPlace(t *testing.T) {
	a := []int{3, 1, 2}
	QuickSort(a, a)
	assert.Equal(t, []int{1, 2, 3}, a)
}

func TestQuickSortLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		QuickSort(make([]int, 2), []int{1})
	})
}

func TestSequentialMerge(t *testing.T) {
	tests := []struct {
		name string
		b, c []int
		want []int
	}{
		{"both empty", nil, nil, []int{}},
		{"b empty", nil, []int{1, 2}, []int{1, 2}},
		{"c empty", []int{1, 2}, nil, []int{1, 2}},
		{"interleaved", []int{1, 3, 5}, []int{2, 4, 6}, []int{1, 2, 3, 4, 5, 6}},
		{"ties", []int{1, 2, 2}, []int{2, 2, 3}, []int{1, 2, 2, 2, 2, 3}},
		{"b after c", []int{7, 8}, []int{1, 2, 3}, []int{1, 2, 3, 7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := make([]int, len(tt.b)+len(tt.c))
			SequentialMerge(result, tt.b, tt.c)
			assert.Equal(t, tt.want, result)
		})
	}
}

// TestSequentialMergeTiesFavorB uses signed zeros, which compare equal but
// keep their sign, to see which run each tied element came from.
func TestSequentialMergeTiesFavorB(t *testing.T) {
	negZero := math.Copysign(0, -1)
	b := []float64{negZero, 1}
	c := []float64{0, 1}
	result := make([]float64, 4)
	SequentialMerge(result, b, c)
	require.Equal(t, []float64{0, 0, 1, 1}, result)
	assert.True(t, math.Signbit(result[0]), "tie must take b's element first")
	assert.False(t, math.Signbit(result[1]))
}

func TestSequentialMergeLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		SequentialMerge(make([]int, 1), []int{1}, []int{2})
	})
}

func TestIsSorted(t *testing.T) {
	assert.True(t, IsSorted([]int{}))
	assert.True(t, IsSorted([]int{1}))
	assert.True(t, IsSorted([]int{1, 1, 2}))
	assert.False(t, IsSorted([]int{2, 1}))
}

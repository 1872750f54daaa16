package MergeSort

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertSplit checks the ordering property rather than a single index.
func assertSplit(t *testing.T, needle int, haystack []int) {
	t.Helper()
	k, err := FindSplit(needle, haystack)
	require.NoError(t, err)
	require.GreaterOrEqual(t, k, 0)
	require.LessOrEqual(t, k, len(haystack))
	for i := 0; i < k; i++ {
		require.LessOrEqual(t, haystack[i], needle, "needle=%d haystack=%v k=%d", needle, haystack, k)
	}
	for i := k; i < len(haystack); i++ {
		require.GreaterOrEqual(t, haystack[i], needle, "needle=%d haystack=%v k=%d", needle, haystack, k)
	}
}

func TestFindSplitExample(t *testing.T) {
	k, err := FindSplit(3, []int{1, 2, 2, 4, 5})
	require.NoError(t, err)
	assert.Contains(t, []int{2, 3}, k)
}

func TestFindSplitEdges(t *testing.T) {
	tests := []struct {
		name     string
		needle   int
		haystack []int
		want     int
	}{
		{"empty", 7, nil, 0},
		{"below first", 0, []int{1, 2, 3}, 0},
		{"equal first", 1, []int{1, 2, 3}, 0},
		{"above last", 9, []int{1, 2, 3}, 3},
		{"equal last", 3, []int{1, 2, 3}, 3},
		{"single below", 1, []int{5}, 0},
		{"single above", 6, []int{5}, 1},
		{"between two", 5, []int{4, 6}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := FindSplit(tt.needle, tt.haystack)
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
}

// TestFindSplitExhaustive walks every non-decreasing array over a small
// alphabet up to length 7 and every needle around it.
func TestFindSplitExhaustive(t *testing.T) {
	var walk func(prefix []int, maxLen int)
	walk = func(prefix []int, maxLen int) {
		if len(prefix) > 0 {
			for needle := -1; needle <= 5; needle++ {
				assertSplit(t, needle, prefix)
			}
		}
		if len(prefix) == maxLen {
			return
		}
		start := 0
		if len(prefix) > 0 {
			start = prefix[len(prefix)-1]
		}
		for v := start; v <= 4; v++ {
			walk(append(prefix[:len(prefix):len(prefix)], v), maxLen)
		}
	}
	walk(nil, 7)
}

func TestFindSplitRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		n := 1 + rnd.Intn(300)
		haystack := makeSortedInts(n)
		for j := range haystack {
			haystack[j] = haystack[j] / (1 + rnd.Intn(3))
		}
		QuickSort(haystack, haystack)
		assertSplit(t, rnd.Intn(n+10)-5, haystack)
	}
}

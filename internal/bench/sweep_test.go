package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSweepConfigDefaults(t *testing.T) {
	cfg, err := ParseSweepConfig([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSweepSize, cfg.Size)
	assert.Equal(t, DefaultIterations, cfg.Iterations)
	assert.Equal(t, []int{4, 8, 16, 32, 64, 128, 256, 512}, cfg.Thresholds)
	assert.Equal(t, []int{1, 2, 4, 8, 16}, cfg.Processors)
	assert.Equal(t, AllBackends, cfg.Backends)
	require.NotNil(t, cfg.Check)
	assert.True(t, *cfg.Check)
}

func TestParseSweepConfig(t *testing.T) {
	cfg, err := ParseSweepConfig([]byte(`
size: 4096
iterations: 2
thresholds: [16, 32]
processors: [1, 2]
capacity: 3
backends: [bounded]
check: false
`))
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.Size)
	assert.Equal(t, 2, cfg.Iterations)
	assert.Equal(t, []int{16, 32}, cfg.Thresholds)
	assert.Equal(t, []int{1, 2}, cfg.Processors)
	assert.Equal(t, 3, cfg.Capacity)
	assert.Equal(t, []Backend{BackendBounded}, cfg.Backends)
	assert.False(t, *cfg.Check)
}

func TestParseSweepConfigInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"threshold": "thresholds: [0]",
		"processor": "processors: [2, -1]",
		"backend":   "backends: [cilk]",
		"size":      "size: -3",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSweepConfig([]byte(doc))
			require.Error(t, err)
			assert.True(t, trace.IsBadParameter(err), "got %v", err)
		})
	}

	_, err := ParseSweepConfig([]byte("thresholds: {"))
	require.Error(t, err)
}

func TestLoadSweepConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 10\nthresholds: [2]\n"), 0644))
	cfg, err := LoadSweepConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Size)

	_, err = LoadSweepConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, trace.IsNotFound(err))
}

func TestSweep(t *testing.T) {
	check := true
	cfg := SweepConfig{
		Size:       3000,
		Iterations: 1,
		Thresholds: []int{8, 64},
		Processors: []int{1, 2},
		Check:      &check,
	}
	var cells int
	results, err := Sweep(context.Background(), cfg, clockwork.NewFakeClock(), func(r []Result) error {
		cells++
		assert.Len(t, r, 2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, cells)
	require.Len(t, results, 8)

	// Cells run threshold-major, and the bounded capacity follows the
	// processor count of the cell.
	assert.Equal(t, 8, results[0].Threshold)
	assert.Equal(t, 1, results[0].Processors)
	assert.Equal(t, 1, results[1].Capacity)
	assert.Equal(t, 2, results[3].Capacity)
	assert.Equal(t, 64, results[7].Threshold)
	for _, r := range results {
		assert.True(t, r.Verified)
	}
}

func TestSweepStopsOnProgressError(t *testing.T) {
	cfg := SweepConfig{
		Size:       500,
		Iterations: 1,
		Thresholds: []int{8, 64},
		Processors: []int{1, 2},
		Backends:   []Backend{BackendBounded},
	}
	var cells int
	results, err := Sweep(context.Background(), cfg, clockwork.NewFakeClock(), func(r []Result) error {
		cells++
		if cells == 2 {
			return trace.ConnectionProblem(nil, "disk gone")
		}
		return nil
	})
	require.Error(t, err)
	assert.True(t, trace.IsConnectionProblem(err), "got %v", err)
	assert.Equal(t, 2, cells)
	// Finished cells are still handed back.
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Processors)
	assert.Equal(t, 2, results[1].Processors)
}

func TestSweepCancelledKeepsFinishedCells(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := SweepConfig{
		Size:       500,
		Iterations: 1,
		Thresholds: []int{8},
		Processors: []int{1, 2, 4},
		Backends:   []Backend{BackendUnbounded},
	}
	results, err := Sweep(ctx, cfg, clockwork.NewFakeClock(), func(r []Result) error {
		cancel()
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, context.Canceled, trace.Unwrap(err))
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Processors)
}

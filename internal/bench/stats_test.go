package bench

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingsSummary(t *testing.T) {
	tm := newTimings()
	for _, us := range []int{100, 200, 300} {
		require.NoError(t, tm.record(time.Duration(us)*time.Microsecond))
	}
	s := tm.summary()
	assert.Equal(t, 200*time.Microsecond, s.Mean)
	wantStdDev := math.Sqrt((100*100 + 100*100) / 3.0)
	assert.InDelta(t, wantStdDev, float64(s.StdDev)/float64(time.Microsecond), 0.01)
	assert.InDelta(t, wantStdDev/200*100, s.StdDevPercent, 0.01)
	assert.Equal(t, 100*time.Microsecond, s.Min)
	assert.Equal(t, 300*time.Microsecond, s.Max)
	assert.Equal(t, 200*time.Microsecond, s.Median)
}

func TestTimingsSummaryExactAtSeconds(t *testing.T) {
	// Around one second a three digit histogram bucket is about a
	// millisecond wide; the summary must still report measured values.
	samples := []time.Duration{
		1234567 * time.Microsecond,
		1234999 * time.Microsecond,
		1236001 * time.Microsecond,
		1239500 * time.Microsecond,
		1241234 * time.Microsecond,
	}
	tm := newTimings()
	for _, d := range samples {
		require.NoError(t, tm.record(d))
	}
	s := tm.summary()
	assert.Equal(t, 1234567*time.Microsecond, s.Min)
	assert.Equal(t, 1241234*time.Microsecond, s.Max)
	assert.InDelta(t, float64(1237260200*time.Nanosecond), float64(s.Mean), 1)
	assert.InDelta(t, float64(2636654*time.Nanosecond), float64(s.StdDev), 2)
	assert.InDelta(t, 0.213104, s.StdDevPercent, 1e-5)
	assert.InDelta(t, float64(1236001*time.Microsecond), float64(s.Median), float64(2*time.Millisecond))
	for _, d := range samples {
		assert.LessOrEqual(t, s.Min, d)
		assert.GreaterOrEqual(t, s.Max, d)
	}
}

func TestTimingsSubMicrosecond(t *testing.T) {
	tm := newTimings()
	require.NoError(t, tm.record(1500*time.Nanosecond))
	require.NoError(t, tm.record(2500*time.Nanosecond))
	s := tm.summary()
	assert.Equal(t, 2*time.Microsecond, s.Mean)
	assert.Equal(t, 500*time.Nanosecond, s.StdDev)
	assert.Equal(t, 1500*time.Nanosecond, s.Min)
	assert.Equal(t, 2500*time.Nanosecond, s.Max)
}

func TestTimingsEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, newTimings().summary())
}

func TestTimingsClampsLongSorts(t *testing.T) {
	tm := newTimings()
	require.NoError(t, tm.record(2*time.Hour))
	s := tm.summary()
	assert.Equal(t, 2*time.Hour, s.Max)
	assert.Equal(t, 2*time.Hour, s.Mean)
	assert.NotZero(t, s.Median)
}

func TestTimingsZero(t *testing.T) {
	tm := newTimings()
	require.NoError(t, tm.record(0))
	s := tm.summary()
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.StdDevPercent)
}

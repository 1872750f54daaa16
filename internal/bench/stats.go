package bench

import (
	"math"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/gravitational/trace"
)

// maxRecordableMicros caps a single sort in the histogram at one hour.
const maxRecordableMicros = int64(time.Hour / time.Microsecond)

// Summary describes the distribution of the timed iterations. Mean, StdDev,
// Min and Max are exact; Median comes from a histogram.
type Summary struct {
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"std_dev"`
	// StdDevPercent is StdDev relative to Mean.
	StdDevPercent float64       `json:"std_dev_percent"`
	Min           time.Duration `json:"min"`
	Max           time.Duration `json:"max"`
	// Median is accurate to three significant digits.
	Median time.Duration `json:"median"`
}

// timings accumulates exact running moments of the recorded durations and a
// microsecond histogram for the median.
type timings struct {
	histogram *hdrhistogram.Histogram

	count    int64
	mean, m2 float64 // nanoseconds
	min, max time.Duration
}

func newTimings() *timings {
	return &timings{histogram: hdrhistogram.New(1, maxRecordableMicros, 3)}
}

func (t *timings) record(d time.Duration) error {
	us := d.Microseconds()
	if us > maxRecordableMicros {
		us = maxRecordableMicros
	}
	if err := t.histogram.RecordValue(us); err != nil {
		return trace.Wrap(err)
	}

	if t.count == 0 || d < t.min {
		t.min = d
	}
	if t.count == 0 || d > t.max {
		t.max = d
	}
	// Welford's update.
	t.count++
	x := float64(d)
	delta := x - t.mean
	t.mean += delta / float64(t.count)
	t.m2 += delta * (x - t.mean)
	return nil
}

// summary reports the population standard deviation.
func (t *timings) summary() Summary {
	if t.count == 0 {
		return Summary{}
	}
	stdDev := math.Sqrt(t.m2 / float64(t.count))
	s := Summary{
		Mean:   time.Duration(math.Round(t.mean)),
		StdDev: time.Duration(math.Round(stdDev)),
		Min:    t.min,
		Max:    t.max,
		Median: time.Duration(t.histogram.ValueAtQuantile(50)) * time.Microsecond,
	}
	if t.mean > 0 {
		s.StdDevPercent = stdDev / t.mean * 100
	}
	return s
}

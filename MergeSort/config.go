package MergeSort

import "github.com/gravitational/trace"

// DefaultThreshold is the sub-problem size at or below which sorting and
// merging switch to the sequential kernels.
const DefaultThreshold = 512

// Config controls a Sorter.
type Config struct {
	// Threshold is the parallel cut-off. Zero selects DefaultThreshold.
	Threshold int
}

// CheckAndSetDefaults validates the config and fills in defaults.
func (c *Config) CheckAndSetDefaults() error {
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	// A threshold of zero or less would split a single element forever.
	if c.Threshold < 1 {
		return trace.BadParameter("threshold must be at least 1, got %v", c.Threshold)
	}
	return nil
}

// Option configures a Sorter.
type Option func(*Config)

// WithThreshold sets the parallel cut-off.
//
// Default: 512 (DefaultThreshold)
// Use WithThreshold(1) to push every split through the parallel path.
func WithThreshold(threshold int) Option {
	return func(c *Config) {
		c.Threshold = threshold
	}
}

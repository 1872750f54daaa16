package bench

import (
	"context"
	"os"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SweepConfig is the grid a Sweep runs over.
//
//	size: 10000000
//	iterations: 5
//	thresholds: [4, 8, 16, 32, 64, 128, 256, 512]
//	processors: [1, 2, 4, 8, 16]
//	backends: [unbounded, bounded]
type SweepConfig struct {
	Size       int   `yaml:"size"`
	Iterations int   `yaml:"iterations"`
	Thresholds []int `yaml:"thresholds"`
	Processors []int `yaml:"processors"`
	// Capacity of the bounded pool; zero uses the processor count of each cell.
	Capacity int       `yaml:"capacity"`
	Backends []Backend `yaml:"backends"`
	// Check defaults to true.
	Check *bool `yaml:"check"`
}

var (
	defaultSweepThresholds = []int{4, 8, 16, 32, 64, 128, 256, 512}
	defaultSweepProcessors = []int{1, 2, 4, 8, 16}
)

// DefaultSweepSize is the number of elements sorted per sweep cell.
const DefaultSweepSize = 10000000

// CheckAndSetDefaults validates the config and fills in defaults.
func (c *SweepConfig) CheckAndSetDefaults() error {
	if c.Size == 0 {
		c.Size = DefaultSweepSize
	}
	if c.Size < 0 {
		return trace.BadParameter("size must not be negative, got %v", c.Size)
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if len(c.Thresholds) == 0 {
		c.Thresholds = defaultSweepThresholds
	}
	if len(c.Processors) == 0 {
		c.Processors = defaultSweepProcessors
	}
	for _, t := range c.Thresholds {
		if t < 1 {
			return trace.BadParameter("threshold must be at least 1, got %v", t)
		}
	}
	for _, p := range c.Processors {
		if p < 1 {
			return trace.BadParameter("processor count must be positive, got %v", p)
		}
	}
	if len(c.Backends) == 0 {
		c.Backends = AllBackends
	}
	for _, b := range c.Backends {
		if b != BackendUnbounded && b != BackendBounded {
			return trace.BadParameter("unknown backend %q", b)
		}
	}
	if c.Check == nil {
		check := true
		c.Check = &check
	}
	return nil
}

// ParseSweepConfig decodes a YAML sweep config and applies defaults.
func ParseSweepConfig(data []byte) (*SweepConfig, error) {
	var cfg SweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, trace.Wrap(err, "invalid sweep config")
	}
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &cfg, nil
}

// LoadSweepConfig reads a YAML sweep config from path.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	return ParseSweepConfig(data)
}

// Sweep runs every threshold on every processor count. progress, if not
// nil, is called after each cell with that cell's results; an error from it
// stops the sweep. On failure the results of the finished cells are returned
// along with the error.
func Sweep(ctx context.Context, cfg SweepConfig, clock clockwork.Clock, progress func([]Result) error) ([]Result, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	var all []Result
	for _, threshold := range cfg.Thresholds {
		for _, processors := range cfg.Processors {
			runner, err := NewRunner(Config{
				Size:       cfg.Size,
				Capacity:   cfg.Capacity,
				Threshold:  threshold,
				Iterations: cfg.Iterations,
				Processors: processors,
				Check:      *cfg.Check,
				Backends:   cfg.Backends,
				Clock:      clock,
			})
			if err != nil {
				return all, trace.Wrap(err)
			}
			results, err := runner.Run(ctx)
			if err != nil {
				return all, trace.Wrap(err, "threshold %v on %v processors", threshold, processors)
			}
			log.WithFields(log.Fields{
				"threshold":  threshold,
				"processors": processors,
			}).Info("Completed sweep cell.")
			all = append(all, results...)
			if progress != nil {
				if err := progress(results); err != nil {
					return all, trace.Wrap(err)
				}
			}
		}
	}
	return all, nil
}

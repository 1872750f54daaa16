package bench

import (
	"context"
	"runtime"
	"strings"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"GoMergeSort/MergeSort"
	"GoMergeSort/MergeSort/fork_join"
)

// Backend names a spawn strategy.
type Backend string

const (
	// BackendUnbounded spawns a goroutine at every parallel call site.
	BackendUnbounded Backend = "unbounded"
	// BackendBounded admits a fixed number of spawned tasks and runs the
	// rest inline.
	BackendBounded Backend = "bounded"
)

// AllBackends lists every backend in reporting order.
var AllBackends = []Backend{BackendUnbounded, BackendBounded}

// ParseBackends parses a comma separated backend list; "all" selects every
// backend.
func ParseBackends(s string) ([]Backend, error) {
	var backends []Backend
	for _, name := range strings.Split(s, ",") {
		switch b := Backend(strings.TrimSpace(name)); b {
		case "all":
			return AllBackends, nil
		case BackendUnbounded, BackendBounded:
			backends = append(backends, b)
		default:
			return nil, trace.BadParameter("unknown backend %q, expected one of unbounded, bounded, all", name)
		}
	}
	return backends, nil
}

// DefaultIterations is the number of timed sorts per backend.
const DefaultIterations = 5

// Config describes one benchmark run.
type Config struct {
	// Size is the number of elements to sort.
	Size int
	// Capacity is the bounded pool's admission limit. Zero selects
	// Processors, or the number of CPUs when Processors is zero too.
	Capacity int
	// Threshold is the parallel cut-off. Zero selects MergeSort.DefaultThreshold.
	Threshold int
	// Iterations is the number of timed sorts per backend.
	Iterations int
	// Processors, when positive, sets GOMAXPROCS for the run.
	Processors int
	// Check verifies the first sorted result of every backend.
	Check bool
	// Backends to run, in order. Empty selects AllBackends.
	Backends []Backend
	// Clock times the sorts.
	Clock clockwork.Clock
}

// CheckAndSetDefaults validates the config and fills in defaults.
func (c *Config) CheckAndSetDefaults() error {
	if c.Size < 0 {
		return trace.BadParameter("size must not be negative, got %v", c.Size)
	}
	if c.Processors < 0 {
		return trace.BadParameter("processors must not be negative, got %v", c.Processors)
	}
	if c.Capacity < 0 {
		return trace.BadParameter("capacity must not be negative, got %v", c.Capacity)
	}
	if c.Capacity == 0 {
		c.Capacity = c.Processors
		if c.Capacity == 0 {
			c.Capacity = runtime.NumCPU()
		}
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Iterations < 0 {
		return trace.BadParameter("iterations must be positive, got %v", c.Iterations)
	}
	if c.Threshold == 0 {
		c.Threshold = MergeSort.DefaultThreshold
	}
	if c.Threshold < 1 {
		return trace.BadParameter("threshold must be at least 1, got %v", c.Threshold)
	}
	if len(c.Backends) == 0 {
		c.Backends = AllBackends
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Result is the outcome of one backend within a run.
type Result struct {
	Backend    Backend `json:"backend"`
	Threshold  int     `json:"threshold"`
	Processors int     `json:"processors"`
	// Capacity is zero for the unbounded backend.
	Capacity   int             `json:"capacity"`
	Size       int             `json:"size"`
	Iterations int             `json:"iterations"`
	Verified   bool            `json:"verified"`
	Timing     Summary         `json:"timing"`
	Pool       fork_join.Stats `json:"pool"`
}

// Runner times the sort of one input under each configured backend.
type Runner struct {
	cfg Config
}

// NewRunner validates cfg and returns a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &Runner{cfg: cfg}, nil
}

// Run builds the input once and sorts it Iterations times per backend,
// rescrambling it after every sort. Cancelling ctx stops the run between
// iterations.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	processors := r.cfg.Processors
	if processors > 0 {
		prev := runtime.GOMAXPROCS(processors)
		defer runtime.GOMAXPROCS(prev)
	} else {
		processors = runtime.GOMAXPROCS(0)
	}

	log.WithFields(log.Fields{
		"size":       r.cfg.Size,
		"processors": processors,
		"threshold":  r.cfg.Threshold,
	}).Info("Creating a randomly permuted array.")
	input := FillArray(r.cfg.Size, DefaultStart)

	results := make([]Result, 0, len(r.cfg.Backends))
	for _, backend := range r.cfg.Backends {
		result, err := r.runBackend(ctx, backend, input)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		result.Processors = processors
		results = append(results, *result)
	}
	return results, nil
}

type statsPool interface {
	fork_join.Pool
	Stats() fork_join.Stats
}

func (r *Runner) newPool(backend Backend) (statsPool, int, error) {
	switch backend {
	case BackendUnbounded:
		return fork_join.NewForkJoinPool(), 0, nil
	case BackendBounded:
		pool, err := fork_join.NewBoundedPool(r.cfg.Capacity)
		if err != nil {
			return nil, 0, trace.Wrap(err)
		}
		return pool, r.cfg.Capacity, nil
	}
	return nil, 0, trace.BadParameter("unknown backend %q", backend)
}

func (r *Runner) runBackend(ctx context.Context, backend Backend, input *Input) (*Result, error) {
	pool, capacity, err := r.newPool(backend)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	sorter, err := MergeSort.New[int64](pool, MergeSort.WithThreshold(r.cfg.Threshold))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	logger := log.WithFields(log.Fields{
		"backend":  backend,
		"capacity": capacity,
	})

	result := &Result{
		Backend:    backend,
		Threshold:  sorter.Threshold(),
		Capacity:   capacity,
		Size:       len(input.Values),
		Iterations: r.cfg.Iterations,
	}
	timings := newTimings()
	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, trace.Wrap(err)
		}
		begin := r.cfg.Clock.Now()
		sorted, err := sorter.Sort(input.Values)
		elapsed := r.cfg.Clock.Since(begin)
		if err != nil {
			return nil, trace.Wrap(err, "%v sort failed", backend)
		}
		if r.cfg.Check && i == 0 {
			if err := Verify(sorted, len(input.Values), input.Start); err != nil {
				return nil, trace.Wrap(err, "%v sorting FAILURE", backend)
			}
			result.Verified = true
			logger.Info("Sorting successful.")
		}
		if err := timings.record(elapsed); err != nil {
			return nil, trace.Wrap(err)
		}
		logger.WithFields(log.Fields{"iteration": i, "elapsed": elapsed}).Debug("Sorted.")
		input.Scramble()
	}
	result.Timing = timings.summary()
	result.Pool = pool.Stats()
	return result, nil
}

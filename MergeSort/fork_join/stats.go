package fork_join

import "sync/atomic"

// Stats is a snapshot of a pool's scheduling decisions.
type Stats struct {
	// Spawned is the number of tasks that ran on their own goroutine.
	Spawned uint64 `json:"spawned"`
	// Inlined is the number of tasks executed on the caller's goroutine.
	Inlined uint64 `json:"inlined"`
	// Peak is the highest number of spawned tasks outstanding at once.
	Peak int64 `json:"peak"`
}

type counters struct {
	spawned atomic.Uint64
	inlined atomic.Uint64
	active  atomic.Int64
	peak    atomic.Int64
}

func (c *counters) enter() {
	n := c.active.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (c *counters) leave() {
	c.active.Add(-1)
}

func (c *counters) snapshot() Stats {
	return Stats{
		Spawned: c.spawned.Load(),
		Inlined: c.inlined.Load(),
		Peak:    c.peak.Load(),
	}
}

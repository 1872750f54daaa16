package fork_join

import (
	"sync"

	"github.com/gravitational/trace"
)

// BoundedPool admits at most max outstanding spawned tasks. A task offered
// while the pool is saturated is refused and the caller runs it inline.
//
// With a fixed capacity every admitted task may itself be waiting on
// children; if those children were queued instead of run inline, max
// parents waiting on never-admitted children would deadlock. Refusing
// without blocking is what guarantees forward progress.
type BoundedPool struct {
	lock   sync.Mutex
	active int
	max    int

	panicHandler func(interface{})
	counters
}

// NewBoundedPool returns a pool admitting up to capacity concurrent tasks.
func NewBoundedPool(capacity int) (*BoundedPool, error) {
	if capacity < 1 {
		return nil, trace.BadParameter("pool capacity must be positive, got %v", capacity)
	}
	return &BoundedPool{max: capacity, panicHandler: defaultPanicHandler}, nil
}

func (p *BoundedPool) SetPanicHandler(panicHandler func(interface{})) {
	p.panicHandler = panicHandler
}

// Capacity returns the admission limit.
func (p *BoundedPool) Capacity() int {
	return p.max
}

// Active returns the number of admitted tasks that have not been joined.
func (p *BoundedPool) Active() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.active
}

func (p *BoundedPool) admit() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.active >= p.max {
		return false
	}
	p.active++
	return true
}

func (p *BoundedPool) release() {
	p.lock.Lock()
	p.active--
	p.lock.Unlock()
}

func (p *BoundedPool) TrySpawn(t Task) (*ForkJoinTask, bool) {
	if !p.admit() {
		return nil, false
	}
	ft := &ForkJoinTask{pool: p, state: Admitted}
	p.spawned.Add(1)
	p.enter()
	ft.start(t, p.panicHandler)
	return ft, true
}

func (p *BoundedPool) RunInline(t Task) error {
	p.inlined.Add(1)
	return run(t, p.panicHandler)
}

// Join waits for ft and gives its admission slot back. Only the first join
// of a handle releases the slot.
func (p *BoundedPool) Join(ft *ForkJoinTask) error {
	if ft.state != Admitted {
		return ft.err
	}
	first, err := ft.wait()
	if first {
		p.leave()
		p.release()
	}
	return err
}

func (p *BoundedPool) Stats() Stats {
	return p.snapshot()
}

package fork_join

// ForkJoinPool never refuses a task: every TrySpawn starts a goroutine and
// the Go scheduler multiplexes them onto GOMAXPROCS workers, stealing work
// between them. Join parks the goroutine, never the OS thread, so a parent
// waiting on its children does not take a worker away from them.
type ForkJoinPool struct {
	panicHandler func(interface{})
	counters
}

func NewForkJoinPool() *ForkJoinPool {
	return &ForkJoinPool{panicHandler: defaultPanicHandler}
}

// SetPanicHandler replaces the callback notified when a task panics. The
// panic is still returned to the joiner as a *PanicError.
func (fp *ForkJoinPool) SetPanicHandler(panicHandler func(interface{})) {
	fp.panicHandler = panicHandler
}

func (fp *ForkJoinPool) TrySpawn(t Task) (*ForkJoinTask, bool) {
	ft := &ForkJoinTask{pool: fp, state: Admitted}
	fp.spawned.Add(1)
	fp.enter()
	ft.start(t, fp.panicHandler)
	return ft, true
}

func (fp *ForkJoinPool) RunInline(t Task) error {
	fp.inlined.Add(1)
	return run(t, fp.panicHandler)
}

func (fp *ForkJoinPool) Join(ft *ForkJoinTask) error {
	if ft.state != Admitted {
		return ft.err
	}
	first, err := ft.wait()
	if first {
		fp.leave()
	}
	return err
}

// Stats returns the scheduling counters accumulated so far.
func (fp *ForkJoinPool) Stats() Stats {
	return fp.snapshot()
}

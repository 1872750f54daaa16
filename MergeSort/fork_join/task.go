package fork_join

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Task is a leaf unit of schedulable work. A task owns nothing beyond the
// slice descriptors it was built with.
type Task interface {
	Compute() error
}

// TaskFunc adapts an ordinary function to Task.
type TaskFunc func() error

func (f TaskFunc) Compute() error {
	return f()
}

// State is the admission state of a ForkJoinTask.
type State int32

const (
	// Idle is the zero State: the pool has not decided on the task yet.
	// Handles returned by Fork and TrySpawn are never Idle; only a zero
	// ForkJoinTask is, and joining it is an error.
	Idle State = iota
	// Admitted tasks run on their own goroutine and hold an admission slot
	// until they are joined.
	Admitted
	// InlineExecuted tasks were refused by the pool and already ran to
	// completion on the caller's goroutine.
	InlineExecuted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Admitted:
		return "admitted"
	case InlineExecuted:
		return "inline"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Pool is the spawn capability the sorter is written against.
type Pool interface {
	// TrySpawn starts t on a new goroutine and returns its handle. When the
	// pool has no capacity left it returns false immediately, it never blocks.
	TrySpawn(t Task) (*ForkJoinTask, bool)
	// RunInline executes t synchronously on the calling goroutine.
	RunInline(t Task) error
	// Join waits for a spawned task and returns its error.
	Join(ft *ForkJoinTask) error
}

// ForkJoinTask is the handle of a task handed to a Pool.
type ForkJoinTask struct {
	pool  Pool
	state State
	group errgroup.Group
	once  sync.Once
	err   error
}

// Fork offers t to p. If the pool refuses it, t runs inline before Fork
// returns, so the caller can never end up waiting on a task nobody will run.
// The returned handle must be joined exactly where the caller needs t's
// result.
func Fork(p Pool, t Task) *ForkJoinTask {
	if ft, ok := p.TrySpawn(t); ok {
		return ft
	}
	return &ForkJoinTask{pool: p, state: InlineExecuted, err: p.RunInline(t)}
}

// State reports how the task was scheduled.
func (ft *ForkJoinTask) State() State {
	return ft.state
}

// Join waits for the task and returns its error. Joining more than once
// returns the same error.
func (ft *ForkJoinTask) Join() error {
	switch ft.state {
	case Idle:
		return trace.BadParameter("task was never offered to a pool")
	case Admitted:
		return ft.pool.Join(ft)
	}
	return ft.err
}

// start runs t on its own goroutine.
func (ft *ForkJoinTask) start(t Task, onPanic func(interface{})) {
	ft.group.Go(func() error {
		return run(t, onPanic)
	})
}

// wait blocks until the goroutine started by start returns. first is true
// for exactly one caller, which owns the admission slot release.
func (ft *ForkJoinTask) wait() (first bool, err error) {
	ft.once.Do(func() {
		ft.err = ft.group.Wait()
		first = true
	})
	return first, ft.err
}

// PanicError is returned by Join or RunInline when a task panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("fork/join task panicked: %v", e.Value)
}

func run(t Task, onPanic func(interface{})) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
			if onPanic != nil {
				onPanic(p)
			}
		}
	}()
	return t.Compute()
}

func defaultPanicHandler(p interface{}) {
	log.WithField("panic", p).Error("Fork/join task panicked.")
}

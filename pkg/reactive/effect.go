package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/demokit/internal/gid"
)

// Effect is a reactive side effect that re-runs when its dependencies change.
// Dependencies are collected automatically: every signal read during the
// effect function's execution subscribes the effect.
//
// Effects run immediately when created. The effect function may return a
// Cleanup that is called before the next run and on Dispose.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals this effect currently depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// runMu serializes runs; dependency notifications may arrive from
	// any goroutine.
	runMu sync.Mutex

	// running holds the goroutine ID of the run in progress, 0 otherwise.
	// Used to fail loudly when an effect writes a signal it reads.
	running atomic.Uint64

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// NewEffect creates and immediately runs a new effect. The effect re-runs
// whenever any signal it read during its last run changes.
//
// Re-runs are synchronous, so the effect function must not write a signal
// it also reads; that would re-enter the run and panics instead of
// deadlocking. Use Untracked around such writes, or restructure.
//
// Example:
//
//	NewEffect(func() Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return func() { fmt.Println("cleanup") }
//	})
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect function, re-collecting dependencies.
func (e *Effect) run() {
	if e.running.Load() == gid.ID() {
		panic("reactive: effect wrote a signal it reads; effects must not update their own dependencies")
	}

	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.disposed.Load() {
		return
	}

	e.running.Store(gid.ID())
	defer e.running.Store(0)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Unsubscribe from old sources; the run below re-collects them.
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	oldListener := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(oldListener)
}

// addSource records a dependency. Called by signals read during the run.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose runs the pending cleanup and unsubscribes from all sources.
// The effect never runs again. Dispose is idempotent. It must not be
// called from within the effect's own run.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	// Wait for any run in flight on another goroutine so its cleanup is
	// handed off here instead of being lost.
	e.runMu.Lock()
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.runMu.Unlock()

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// Watch creates an effect that skips the callback on the first run.
// deps is called every run to establish dependencies; callback only runs on
// subsequent changes, not for the initial values.
//
// Example:
//
//	Watch(
//	    func() { _ = count.Get() },
//	    func() { fmt.Println("count changed") },
//	)
func Watch(deps func(), callback func()) *Effect {
	first := true
	return NewEffect(func() Cleanup {
		deps()
		if first {
			first = false
			return nil
		}
		callback()
		return nil
	})
}

package resource

import (
	"context"
	"sync"

	"github.com/vango-dev/demokit/pkg/fetch"
	"github.com/vango-dev/demokit/pkg/reactive"
)

// State represents the current lifecycle phase of a resource.
type State int

const (
	Idle      State = iota // No fetch started yet
	Loading                // Fetch in progress for the current generation
	Succeeded              // Last applied attempt succeeded
	Failed                 // Last applied attempt failed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "invalid"
	}
}

// Fetcher loads the value identified by locator.
// It is called on its own goroutine, once per attempt.
type Fetcher[T any] func(ctx context.Context, locator string) (T, error)

// Snapshot is a point-in-time view of a resource's state.
//
// Value and HasValue survive later failures: when an attempt fails after a
// previous success, Value still holds the last good payload so callers can
// show stale data alongside the error.
type Snapshot[T any] struct {
	Locator  string
	Value    T
	HasValue bool
	State    State
	Err      *fetch.Error
}

// Resource manages asynchronous loading of a single value by locator.
//
// All state transitions are serialized under an internal mutex, and every
// attempt is tagged with a generation number. A completion is applied only if
// its generation still matches the resource's current generation, so the
// visible state always reflects the most recently initiated attempt,
// regardless of the order in which concurrent attempts finish. There is no
// hard cancellation: superseded attempts run to completion and their results
// are discarded.
type Resource[T any] struct {
	fetcher Fetcher[T]
	ctx     context.Context

	// rev bumps on every applied transition. Observers subscribe to it;
	// the authoritative state lives in snap, not in the signal.
	rev *reactive.Signal[uint64]

	// Options
	onSuccess func(T)
	onFailure func(*fetch.Error)

	// keyEffect drives keyed resources; disposed together with the
	// resource.
	keyEffect *reactive.Effect

	mu         sync.Mutex
	snap       Snapshot[T]
	generation uint64
	disposed   bool
}

// New creates a Resource in the Idle state. No fetch is issued until Start.
func New[T any](fetcher Fetcher[T], opts ...Option[T]) *Resource[T] {
	r := &Resource[T]{
		fetcher: fetcher,
		ctx:     context.Background(),
		rev:     reactive.NewSignal(uint64(0)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewKeyed creates a Resource whose locator is derived from key, and starts
// it. The key function is tracked reactively: whenever a signal it reads
// changes, the resource restarts against the new locator. An in-flight
// attempt for the old locator is superseded, its completion discarded.
//
// Example:
//
//	postID := reactive.NewSignal(1)
//	post := resource.NewKeyed(func() string {
//	    return fmt.Sprintf("https://api.example.com/posts/%d", postID.Get())
//	}, fetchPost)
//
//	postID.Set(2) // refetches against the new URL
func NewKeyed[T any](key func() string, fetcher Fetcher[T], opts ...Option[T]) *Resource[T] {
	r := New(fetcher, opts...)
	r.keyEffect = reactive.NewEffect(func() reactive.Cleanup {
		r.Start(key())
		return nil
	})
	return r
}

// Start begins (or restarts) tracking locator. It bumps the generation,
// clears any prior error, sets the state to Loading, and issues one fetch.
// Starting while a previous attempt is outstanding is allowed; the previous
// attempt's eventual completion is discarded as stale.
func (r *Resource[T]) Start(locator string) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.generation++
	gen := r.generation
	r.snap.Locator = locator
	r.snap.State = Loading
	r.snap.Err = nil
	r.mu.Unlock()

	r.bump()

	go func() {
		value, err := r.fetcher(r.ctx, locator)
		r.complete(gen, value, err)
	}()
}

// Retrigger re-issues the fetch for the current locator. Equivalent to Start
// with the same locator. Retrigger before any Start is a no-op.
func (r *Resource[T]) Retrigger() {
	r.mu.Lock()
	if r.disposed || r.generation == 0 {
		r.mu.Unlock()
		return
	}
	locator := r.snap.Locator
	r.mu.Unlock()

	r.Start(locator)
}

// Snapshot returns the current state. It is safe to call at any time,
// including immediately after Start (it reports Loading then). When called
// inside a reactive effect, the effect re-runs on every applied transition.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.rev.Get() // subscribe, if tracking

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// State returns the current lifecycle phase.
func (r *Resource[T]) State() State {
	return r.Snapshot().State
}

// Value returns the last successfully loaded value and whether one exists.
func (r *Resource[T]) Value() (T, bool) {
	snap := r.Snapshot()
	return snap.Value, snap.HasValue
}

// ValueOr returns the last successfully loaded value, or fallback.
func (r *Resource[T]) ValueOr(fallback T) T {
	if snap := r.Snapshot(); snap.HasValue {
		return snap.Value
	}
	return fallback
}

// Err returns the classified failure of the last applied attempt, or nil.
func (r *Resource[T]) Err() *fetch.Error {
	return r.Snapshot().Err
}

// Loading reports whether a fetch is outstanding for the current generation.
func (r *Resource[T]) Loading() bool {
	return r.State() == Loading
}

// Dispose marks the resource inactive. Any outstanding attempt's completion
// is ignored thereafter, and further Start/Retrigger calls do nothing.
// Dispose is idempotent.
func (r *Resource[T]) Dispose() {
	r.mu.Lock()
	r.disposed = true
	keyEffect := r.keyEffect
	r.mu.Unlock()

	if keyEffect != nil {
		keyEffect.Dispose()
	}
}

// complete applies the outcome of the attempt tagged gen. The generation
// check and the state change happen in one critical section, so a newer
// Start can never interleave between them.
func (r *Resource[T]) complete(gen uint64, value T, err error) {
	r.mu.Lock()
	if r.disposed || gen != r.generation {
		// Superseded or disposed. Not an error, just stale.
		r.mu.Unlock()
		return
	}

	var ferr *fetch.Error
	if err != nil {
		ferr = fetch.Classify(err)
		r.snap.State = Failed
		r.snap.Err = ferr
		// Value deliberately untouched: last-known-good data stays
		// available next to the error.
	} else {
		r.snap.State = Succeeded
		r.snap.Err = nil
		r.snap.Value = value
		r.snap.HasValue = true
	}
	onSuccess, onFailure := r.onSuccess, r.onFailure
	r.mu.Unlock()

	r.bump()

	if err != nil {
		if onFailure != nil {
			onFailure(ferr)
		}
	} else if onSuccess != nil {
		onSuccess(value)
	}
}

// bump notifies observers. Runs outside the mutex: subscribers may call back
// into the resource.
func (r *Resource[T]) bump() {
	r.rev.Update(func(n uint64) uint64 { return n + 1 })
}

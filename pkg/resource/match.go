package resource

import "github.com/vango-dev/demokit/pkg/fetch"

// Handler handles a specific resource state in Match.
type Handler[T, R any] interface {
	handle(Snapshot[T]) (R, bool)
}

// Match renders the first handler that matches the resource's current state.
// If no handler matches, the zero value of R is returned.
//
// Example:
//
//	html := resource.Match(posts,
//	    resource.OnLoading[[]Post](func() string { return spinner() }),
//	    resource.OnFailed[[]Post](func(err *fetch.Error) string { return errorBox(err) }),
//	    resource.OnSucceeded(func(p []Post) string { return postList(p) }),
//	)
func Match[T, R any](r *Resource[T], handlers ...Handler[T, R]) R {
	snap := r.Snapshot()
	for _, h := range handlers {
		if out, ok := h.handle(snap); ok {
			return out
		}
	}
	var zero R
	return zero
}

type idleHandler[T, R any] struct {
	fn func() R
}

func (h idleHandler[T, R]) handle(snap Snapshot[T]) (R, bool) {
	if snap.State == Idle {
		return h.fn(), true
	}
	var zero R
	return zero, false
}

type loadingHandler[T, R any] struct {
	fn func() R
}

func (h loadingHandler[T, R]) handle(snap Snapshot[T]) (R, bool) {
	if snap.State == Loading {
		return h.fn(), true
	}
	var zero R
	return zero, false
}

type succeededHandler[T, R any] struct {
	fn func(T) R
}

func (h succeededHandler[T, R]) handle(snap Snapshot[T]) (R, bool) {
	if snap.State == Succeeded {
		return h.fn(snap.Value), true
	}
	var zero R
	return zero, false
}

type failedHandler[T, R any] struct {
	fn func(*fetch.Error) R
}

func (h failedHandler[T, R]) handle(snap Snapshot[T]) (R, bool) {
	if snap.State == Failed {
		return h.fn(snap.Err), true
	}
	var zero R
	return zero, false
}

type failedStaleHandler[T, R any] struct {
	fn func(*fetch.Error, T) R
}

func (h failedStaleHandler[T, R]) handle(snap Snapshot[T]) (R, bool) {
	if snap.State == Failed && snap.HasValue {
		return h.fn(snap.Err, snap.Value), true
	}
	var zero R
	return zero, false
}

type waitingHandler[T, R any] struct {
	fn func() R
}

func (h waitingHandler[T, R]) handle(snap Snapshot[T]) (R, bool) {
	if snap.State == Idle || snap.State == Loading {
		return h.fn(), true
	}
	var zero R
	return zero, false
}

// OnIdle handles the Idle state, before the first Start.
func OnIdle[T, R any](fn func() R) Handler[T, R] {
	return idleHandler[T, R]{fn: fn}
}

// OnLoading handles the Loading state.
func OnLoading[T, R any](fn func() R) Handler[T, R] {
	return loadingHandler[T, R]{fn: fn}
}

// OnSucceeded handles the Succeeded state.
func OnSucceeded[T, R any](fn func(T) R) Handler[T, R] {
	return succeededHandler[T, R]{fn: fn}
}

// OnFailed handles the Failed state.
func OnFailed[T, R any](fn func(*fetch.Error) R) Handler[T, R] {
	return failedHandler[T, R]{fn: fn}
}

// OnFailedStale handles a Failed state that still has a previously loaded
// value, for showing stale data alongside the error. Place it before
// OnFailed: handlers match in order.
func OnFailedStale[T, R any](fn func(*fetch.Error, T) R) Handler[T, R] {
	return failedStaleHandler[T, R]{fn: fn}
}

// OnWaiting handles both Idle and Loading, for showing a spinner during any
// waiting state.
func OnWaiting[T, R any](fn func() R) Handler[T, R] {
	return waitingHandler[T, R]{fn: fn}
}

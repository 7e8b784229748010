package resource

import (
	"context"

	"github.com/vango-dev/demokit/pkg/fetch"
)

// Option configures a Resource at construction time.
type Option[T any] func(*Resource[T])

// WithContext sets the base context passed to the fetcher for every attempt.
// Default: context.Background().
func WithContext[T any](ctx context.Context) Option[T] {
	return func(r *Resource[T]) {
		r.ctx = ctx
	}
}

// OnSuccess registers a callback invoked after a successful attempt is
// applied. It runs outside the resource's lock; stale attempts never invoke
// it.
func OnSuccess[T any](fn func(T)) Option[T] {
	return func(r *Resource[T]) {
		r.onSuccess = fn
	}
}

// OnFailure registers a callback invoked after a failed attempt is applied.
// T does not appear in the callback, so call sites instantiate it
// explicitly: OnFailure[Post](...).
func OnFailure[T any](fn func(*fetch.Error)) Option[T] {
	return func(r *Resource[T]) {
		r.onFailure = fn
	}
}

// Package provide passes a value down through nested calls without threading
// it through every signature, the demo analogue of a UI context provider
// (theme, current user, feature toggles).
//
// A Scope's value is only available within the function passed to Provide.
// Reading it anywhere else fails fast with a configuration error, distinct
// from runtime data errors: a missing provider is a wiring mistake, not a
// condition to handle at runtime.
//
//	var Theme = provide.NewScope[string]("theme")
//
//	Theme.Provide("dark", func() {
//	    renderPage() // anything below may call Theme.MustUse()
//	})
package provide

import (
	"sync"

	"github.com/vango-dev/demokit/internal/errs"
	"github.com/vango-dev/demokit/internal/gid"
)

// Scope is a named slot for a provided value. Scopes are typically declared
// as package-level variables.
type Scope[T any] struct {
	name string

	// stacks holds the per-goroutine provider stacks: map[uint64][]T.
	// A stack allows nested Provide calls to shadow outer values.
	stacks sync.Map
}

// NewScope creates a scope. The name appears in the error when the scope is
// used without a provider.
func NewScope[T any](name string) *Scope[T] {
	return &Scope[T]{name: name}
}

// Provide runs fn with value bound to the scope on the current goroutine.
// Provide calls nest: an inner Provide shadows the outer value for the
// duration of its fn. The binding does not cross goroutine boundaries.
func (s *Scope[T]) Provide(value T, fn func()) {
	id := gid.ID()

	var stack []T
	if v, ok := s.stacks.Load(id); ok {
		stack = v.([]T)
	}
	s.stacks.Store(id, append(stack, value))

	defer func() {
		v, _ := s.stacks.Load(id)
		stack := v.([]T)
		if len(stack) <= 1 {
			s.stacks.Delete(id)
		} else {
			s.stacks.Store(id, stack[:len(stack)-1])
		}
	}()

	fn()
}

// Use returns the innermost provided value. Outside any Provide it returns a
// configuration error.
func (s *Scope[T]) Use() (T, error) {
	if v, ok := s.stacks.Load(gid.ID()); ok {
		stack := v.([]T)
		if len(stack) > 0 {
			return stack[len(stack)-1], nil
		}
	}

	var zero T
	return zero, errs.New("D100", errs.CategoryConfig,
		"scope %q used outside a Provide; wrap the call in %s.Provide", s.name, s.name)
}

// MustUse returns the innermost provided value, panicking with the
// configuration error if no provider is active. Use it where a missing
// provider is a programming error that should fail loudly.
func (s *Scope[T]) MustUse() T {
	v, err := s.Use()
	if err != nil {
		panic(err)
	}
	return v
}

// Provided reports whether a value is currently bound on this goroutine.
func (s *Scope[T]) Provided() bool {
	_, err := s.Use()
	return err == nil
}

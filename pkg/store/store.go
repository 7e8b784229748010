// Package store provides a small reducer-based state container, the demo
// analogue of a global application store. State changes flow through a pure
// reducer: Dispatch(action) computes the next state from the current one and
// notifies subscribers.
package store

import (
	"github.com/vango-dev/demokit/pkg/reactive"
)

// Reducer computes the next state from the current state and an action.
// Reducers must be pure: no side effects, no mutation of the input state.
type Reducer[S, A any] func(S, A) S

// Store holds state that only changes through dispatched actions.
type Store[S, A any] struct {
	reducer Reducer[S, A]
	state   *reactive.Signal[S]
}

// New creates a store with the given initial state and reducer.
//
// Example:
//
//	type counterAction int
//	const (
//	    increment counterAction = iota
//	    decrement
//	)
//
//	counter := store.New(0, func(n int, a counterAction) int {
//	    switch a {
//	    case increment:
//	        return n + 1
//	    case decrement:
//	        return n - 1
//	    }
//	    return n
//	})
func New[S, A any](initial S, reducer Reducer[S, A]) *Store[S, A] {
	return &Store[S, A]{
		reducer: reducer,
		state:   reactive.NewSignal(initial),
	}
}

// Dispatch runs the reducer and applies the resulting state.
// Dispatches are serialized; subscribers are notified after the state is
// applied.
func (s *Store[S, A]) Dispatch(action A) {
	s.state.Update(func(current S) S {
		return s.reducer(current, action)
	})
}

// State returns the current state. When called inside a reactive effect, the
// effect re-runs on every dispatch that changes the state.
func (s *Store[S, A]) State() S {
	return s.state.Get()
}

// Peek returns the current state without subscribing.
func (s *Store[S, A]) Peek() S {
	return s.state.Peek()
}

// Subscribe invokes fn with the current state immediately, then again after
// every dispatch that changes the state. The returned function cancels the
// subscription.
func (s *Store[S, A]) Subscribe(fn func(S)) (cancel func()) {
	e := reactive.NewEffect(func() reactive.Cleanup {
		fn(s.state.Get())
		return nil
	})
	return e.Dispose
}

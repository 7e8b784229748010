package store

import (
	"sync"
	"testing"

	"github.com/vango-dev/demokit/pkg/reactive"
)

type counterAction int

const (
	increment counterAction = iota
	decrement
	reset
)

func counterReducer(n int, a counterAction) int {
	switch a {
	case increment:
		return n + 1
	case decrement:
		return n - 1
	case reset:
		return 0
	}
	return n
}

func TestCounterStore(t *testing.T) {
	counter := New(0, counterReducer)

	counter.Dispatch(increment)
	counter.Dispatch(increment)
	counter.Dispatch(decrement)

	if counter.State() != 1 {
		t.Errorf("Expected 1, got %d", counter.State())
	}

	counter.Dispatch(reset)
	if counter.State() != 0 {
		t.Errorf("Expected 0 after reset, got %d", counter.State())
	}
}

func TestSubscribe(t *testing.T) {
	counter := New(0, counterReducer)

	var seen []int
	cancel := counter.Subscribe(func(n int) {
		seen = append(seen, n)
	})

	counter.Dispatch(increment)
	counter.Dispatch(increment)

	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Errorf("Expected [0 1 2], got %v", seen)
	}

	cancel()
	counter.Dispatch(increment)
	if len(seen) != 3 {
		t.Errorf("Cancelled subscriber was notified: %v", seen)
	}
}

func TestSubscribeSkipsNoopDispatch(t *testing.T) {
	counter := New(5, counterReducer)

	calls := 0
	counter.Subscribe(func(int) { calls++ })

	// Unknown action leaves the state unchanged: no notification.
	counter.Dispatch(counterAction(42))

	if calls != 1 {
		t.Errorf("Expected only the initial call, got %d", calls)
	}
}

func TestStateTrackedByEffect(t *testing.T) {
	counter := New(0, counterReducer)

	runs := 0
	reactive.NewEffect(func() reactive.Cleanup {
		runs++
		counter.State()
		return nil
	})

	counter.Dispatch(increment)
	if runs != 2 {
		t.Errorf("Expected effect to re-run on dispatch, got %d runs", runs)
	}

	if counter.Peek() != 1 {
		t.Errorf("Expected 1, got %d", counter.Peek())
	}
}

func TestConcurrentDispatch(t *testing.T) {
	counter := New(0, counterReducer)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counter.Dispatch(increment)
		}()
	}
	wg.Wait()

	if counter.State() != 100 {
		t.Errorf("Expected 100, got %d", counter.State())
	}
}

func TestStructState(t *testing.T) {
	type todoState struct {
		Items []string
	}
	type addAction struct {
		Text string
	}

	todos := New(todoState{}, func(s todoState, a addAction) todoState {
		items := make([]string, len(s.Items), len(s.Items)+1)
		copy(items, s.Items)
		return todoState{Items: append(items, a.Text)}
	})

	todos.Dispatch(addAction{Text: "first"})
	todos.Dispatch(addAction{Text: "second"})

	got := todos.State()
	if len(got.Items) != 2 || got.Items[0] != "first" || got.Items[1] != "second" {
		t.Errorf("Unexpected state: %+v", got)
	}
}

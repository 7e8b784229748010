package reactive

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEffectRunsImmediately(t *testing.T) {
	runs := 0
	NewEffect(func() Cleanup {
		runs++
		return nil
	})

	if runs != 1 {
		t.Errorf("Expected 1 run, got %d", runs)
	}
}

func TestEffectRerunsOnChange(t *testing.T) {
	s := NewSignal(0)
	var seen []int

	NewEffect(func() Cleanup {
		seen = append(seen, s.Get())
		return nil
	})

	s.Set(1)
	s.Set(2)

	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Errorf("Expected [0 1 2], got %v", seen)
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	s := NewSignal(0)
	var order []string

	NewEffect(func() Cleanup {
		s.Get()
		order = append(order, "run")
		return func() {
			order = append(order, "cleanup")
		}
	})

	s.Set(1)

	want := []string{"run", "cleanup", "run"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, order)
		}
	}
}

func TestEffectDispose(t *testing.T) {
	s := NewSignal(0)
	runs := 0
	cleanups := 0

	e := NewEffect(func() Cleanup {
		runs++
		s.Get()
		return func() { cleanups++ }
	})

	e.Dispose()
	if cleanups != 1 {
		t.Errorf("Expected cleanup on dispose, got %d", cleanups)
	}

	s.Set(1)
	if runs != 1 {
		t.Errorf("Disposed effect re-ran: %d runs", runs)
	}

	// Dispose is idempotent.
	e.Dispose()
	if cleanups != 1 {
		t.Errorf("Expected 1 cleanup, got %d", cleanups)
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")
	runs := 0

	NewEffect(func() Cleanup {
		runs++
		if useA.Get() {
			a.Get()
		} else {
			b.Get()
		}
		return nil
	})

	// runs=1. Switch to b.
	useA.Set(false) // runs=2

	// a is no longer a dependency.
	a.Set("a2")
	if runs != 2 {
		t.Errorf("Expected stale dependency to be dropped, got %d runs", runs)
	}

	b.Set("b2")
	if runs != 3 {
		t.Errorf("Expected new dependency to be tracked, got %d runs", runs)
	}
}

func TestUntracked(t *testing.T) {
	s := NewSignal(0)
	runs := 0

	NewEffect(func() Cleanup {
		runs++
		Untracked(func() {
			s.Get()
		})
		return nil
	})

	s.Set(1)
	if runs != 1 {
		t.Errorf("Untracked read subscribed anyway: %d runs", runs)
	}
}

func TestWatchSkipsFirstRun(t *testing.T) {
	s := NewSignal(0)
	calls := 0

	Watch(
		func() { _ = s.Get() },
		func() { calls++ },
	)

	if calls != 0 {
		t.Errorf("Expected no callback on first run, got %d", calls)
	}

	s.Set(1)
	if calls != 1 {
		t.Errorf("Expected 1 callback, got %d", calls)
	}
}

func TestDisposeWaitsForInflightRun(t *testing.T) {
	s := NewSignal(0)
	entered := make(chan struct{})
	release := make(chan struct{})
	var cleanups atomic.Int32
	first := true

	e := NewEffect(func() Cleanup {
		s.Get()
		if first {
			first = false
			return func() { cleanups.Add(1) }
		}
		entered <- struct{}{}
		<-release
		return func() { cleanups.Add(1) }
	})

	// Trigger a re-run on another goroutine and park it mid-run.
	go s.Set(1)
	<-entered

	disposed := make(chan struct{})
	go func() {
		e.Dispose()
		close(disposed)
	}()

	select {
	case <-disposed:
		t.Fatal("Dispose returned while a run was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-disposed:
	case <-time.After(time.Second):
		t.Fatal("Dispose never returned")
	}

	// The first run's cleanup ran before the re-run; the re-run's cleanup
	// must be picked up by Dispose rather than lost.
	if got := cleanups.Load(); got != 2 {
		t.Errorf("Expected 2 cleanups, got %d", got)
	}
}

func TestEffectSelfWritePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic from an effect writing its own dependency")
		}
	}()

	s := NewSignal(0)
	NewEffect(func() Cleanup {
		if s.Get() == 0 {
			s.Set(1)
		}
		return nil
	})
}

package resource

import (
	"testing"
	"time"

	"github.com/vango-dev/demokit/pkg/fetch"
)

func matchHTML(r *Resource[string]) string {
	return Match(r,
		OnIdle[string](func() string { return "<p>idle</p>" }),
		OnLoading[string](func() string { return "<p>loading</p>" }),
		OnFailedStale[string](func(err *fetch.Error, stale string) string {
			return "<p>stale:" + stale + " error:" + err.Kind.String() + "</p>"
		}),
		OnFailed[string](func(err *fetch.Error) string { return "<p>error:" + err.Kind.String() + "</p>" }),
		OnSucceeded[string, string](func(v string) string { return "<p>" + v + "</p>" }),
	)
}

func TestMatchCoversLifecycle(t *testing.T) {
	fetcher, calls := gatedFetcher()
	r := New(fetcher)

	if got := matchHTML(r); got != "<p>idle</p>" {
		t.Errorf("Idle: got %q", got)
	}

	r.Start("u1")
	if got := matchHTML(r); got != "<p>loading</p>" {
		t.Errorf("Loading: got %q", got)
	}

	nextCall(t, calls).reply <- outcome{value: "hello"}
	waitState(t, r, Succeeded)
	if got := matchHTML(r); got != "<p>hello</p>" {
		t.Errorf("Succeeded: got %q", got)
	}

	r.Retrigger()
	nextCall(t, calls).reply <- outcome{err: &fetch.Error{Kind: fetch.KindNetwork}}
	waitState(t, r, Failed)
	if got := matchHTML(r); got != "<p>stale:hello error:network</p>" {
		t.Errorf("FailedStale: got %q", got)
	}
}

func TestMatchFailedWithoutValue(t *testing.T) {
	fetcher, calls := gatedFetcher()
	r := New(fetcher)

	r.Start("u1")
	nextCall(t, calls).reply <- outcome{err: &fetch.Error{Kind: fetch.KindHTTPStatus, Status: 500}}
	waitState(t, r, Failed)

	// No prior success, so OnFailedStale must not match.
	if got := matchHTML(r); got != "<p>error:http_status</p>" {
		t.Errorf("Failed: got %q", got)
	}
}

func TestMatchNoHandler(t *testing.T) {
	fetcher, _ := gatedFetcher()
	r := New(fetcher)

	got := Match(r,
		OnSucceeded[string, string](func(v string) string { return v }),
	)
	if got != "" {
		t.Errorf("Expected zero value when nothing matches, got %q", got)
	}
}

func TestMatchOnWaiting(t *testing.T) {
	fetcher, calls := gatedFetcher()
	r := New(fetcher)

	spinner := func(r *Resource[string]) string {
		return Match(r,
			OnWaiting[string](func() string { return "spinner" }),
			OnSucceeded[string, string](func(v string) string { return v }),
		)
	}

	if got := spinner(r); got != "spinner" {
		t.Errorf("Idle: got %q", got)
	}

	r.Start("u1")
	if got := spinner(r); got != "spinner" {
		t.Errorf("Loading: got %q", got)
	}

	nextCall(t, calls).reply <- outcome{value: "done"}
	waitState(t, r, Succeeded)
	time.Sleep(time.Millisecond)
	if got := spinner(r); got != "done" {
		t.Errorf("Succeeded: got %q", got)
	}
}

package demo

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return s, srv
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s failed: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIndexPage(t *testing.T) {
	_, srv := newTestServer(t)

	code, body := get(t, srv.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if !strings.Contains(body, "demokit") {
		t.Errorf("Expected index content, got %q", body)
	}
}

func TestCounterPageDispatches(t *testing.T) {
	s, srv := newTestServer(t)

	get(t, srv.URL+"/counter?action=inc")
	get(t, srv.URL+"/counter?action=inc")
	_, body := get(t, srv.URL+"/counter?action=dec")

	if s.Counter().Peek() != 1 {
		t.Errorf("Expected counter 1, got %d", s.Counter().Peek())
	}
	if !strings.Contains(body, "Counter: 1") {
		t.Errorf("Expected rendered count, got %q", body)
	}
}

func TestPostsPageSuccess(t *testing.T) {
	_, srv := newTestServer(t)

	code, body := get(t, srv.URL+"/posts")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if !strings.Contains(body, seedPosts[0].Title) {
		t.Errorf("Expected post titles in page, got %q", body)
	}
}

func TestPostsPageFailure(t *testing.T) {
	_, srv := newTestServer(t)

	// The page forwards status=500 to its own API, so the fetch fails and
	// the error branch renders.
	_, body := get(t, srv.URL+"/posts?status=500")
	if !strings.Contains(body, "Failed to load (http_status)") {
		t.Errorf("Expected classified error in page, got %q", body)
	}
}

func TestThemeScopeAppliedToPage(t *testing.T) {
	_, srv := newTestServer(t)

	_, body := get(t, srv.URL+"/?theme=dark")
	if !strings.Contains(body, `class="dark"`) {
		t.Errorf("Expected dark theme class, got %q", body)
	}

	_, body = get(t, srv.URL+"/")
	if !strings.Contains(body, `class="light"`) {
		t.Errorf("Expected default light theme, got %q", body)
	}
}

func TestSignupValidationErrors(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.PostForm(srv.URL+"/signup", url.Values{
		"name":  {"A"},
		"email": {"not-an-email"},
	})
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)

	if !strings.Contains(body, "Must be at least 2 characters") {
		t.Errorf("Expected name length error, got %q", body)
	}
	if !strings.Contains(body, "Must be a valid email address") {
		t.Errorf("Expected email error, got %q", body)
	}
	// Submitted values are echoed back into the inputs.
	if !strings.Contains(body, `value="A"`) {
		t.Errorf("Expected submitted value preserved, got %q", body)
	}
}

func TestSignupMalformedBody(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/signup",
		"application/x-www-form-urlencoded", strings.NewReader("name=%zz"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed body, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(raw), "D200") {
		t.Errorf("Expected the validation error code in the response, got %q", raw)
	}
}

func TestSignupSuccess(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.PostForm(srv.URL+"/signup", url.Values{
		"name":  {"Ada"},
		"email": {"ada@example.com"},
	})
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(raw), "Welcome, Ada!") {
		t.Errorf("Expected welcome page, got %q", raw)
	}
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t)

	code, body := get(t, srv.URL+"/healthz")
	if code != http.StatusOK || body != "ok" {
		t.Errorf("Expected 200 ok, got %d %q", code, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	code, _ := get(t, srv.URL+"/metrics")
	if code != http.StatusOK {
		t.Errorf("Expected 200, got %d", code)
	}
}

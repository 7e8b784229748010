package demo

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/demokit/internal/errs"
	"github.com/vango-dev/demokit/pkg/fetch"
	"github.com/vango-dev/demokit/pkg/form"
	"github.com/vango-dev/demokit/pkg/provide"
	"github.com/vango-dev/demokit/pkg/reactive"
	"github.com/vango-dev/demokit/pkg/resource"
	"github.com/vango-dev/demokit/pkg/store"
)

// Theme is the scoped value used by the provider demo. Pages render inside
// Theme.Provide; the page body reads it back with MustUse.
var Theme = provide.NewScope[string]("theme")

// CounterAction drives the counter store.
type CounterAction string

const (
	Increment CounterAction = "inc"
	Decrement CounterAction = "dec"
	Reset     CounterAction = "reset"
)

// CounterReducer is the pure transition function for the counter demo.
func CounterReducer(n int, a CounterAction) int {
	switch a {
	case Increment:
		return n + 1
	case Decrement:
		return n - 1
	case Reset:
		return 0
	}
	return n
}

// Server holds the demo pages' shared state.
type Server struct {
	log     *slog.Logger
	client  *fetch.Client
	counter *store.Store[int, CounterAction]
}

// NewServer creates the demo server. registry may be nil to disable fetch
// metrics.
func NewServer(log *slog.Logger, registry prometheus.Registerer) *Server {
	var opts []fetch.Option
	if registry != nil {
		opts = append(opts, fetch.WithRegistry(registry))
	}
	return &Server{
		log:     log,
		client:  fetch.New(opts...),
		counter: store.New(0, CounterReducer),
	}
}

// Counter exposes the shared counter store (used by the live endpoint).
func (s *Server) Counter() *store.Store[int, CounterAction] {
	return s.counter
}

// Router returns the full demo router: pages, the JSON API, the live counter
// socket, metrics, and health.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/counter", s.handleCounter)
	r.Get("/posts", s.handlePosts)
	r.Get("/signup", s.handleSignupForm)
	r.Post("/signup", s.handleSignupSubmit)
	r.Get("/ws", s.handleLive)

	r.Mount("/api", APIRouter())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

// handleIndex lists the demos.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, `
		<h1>demokit</h1>
		<ul>
			<li><a href="/counter">Reducer counter</a></li>
			<li><a href="/posts">Async posts (try ?status=500 or ?delay=300ms)</a></li>
			<li><a href="/signup">Form validation</a></li>
		</ul>`)
}

// handleCounter dispatches the requested action and renders the count.
// State only ever changes through the reducer.
func (s *Server) handleCounter(w http.ResponseWriter, r *http.Request) {
	if a := r.URL.Query().Get("action"); a != "" {
		s.counter.Dispatch(CounterAction(a))
	}

	s.renderPage(w, r, fmt.Sprintf(`
		<h1>Counter: %d</h1>
		<p>
			<a href="/counter?action=inc">+1</a>
			<a href="/counter?action=dec">-1</a>
			<a href="/counter?action=reset">reset</a>
		</p>`, s.counter.State()))
}

// handlePosts loads the post list through a Resource against the server's
// own API and renders whatever state the attempt settled in. The delay and
// status query parameters are forwarded so failures and slow responses can
// be exercised from the browser.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	locator := "http://" + r.Host + "/api/posts"
	if q := r.URL.RawQuery; q != "" {
		locator += "?" + q
	}

	posts := resource.New(func(ctx context.Context, loc string) ([]Post, error) {
		return fetch.JSON[[]Post](ctx, s.client, loc)
	})
	defer posts.Dispose()

	posts.Start(locator)
	snap := awaitSettled(posts, 10*time.Second)

	body := resource.Match(posts,
		resource.OnWaiting[[]Post](func() string {
			return "<p>Still loading...</p>"
		}),
		resource.OnFailedStale[[]Post](func(err *fetch.Error, stale []Post) string {
			return renderError(err) + renderPosts(stale)
		}),
		resource.OnFailed[[]Post](func(err *fetch.Error) string {
			return renderError(err)
		}),
		resource.OnSucceeded(func(list []Post) string {
			return renderPosts(list)
		}),
	)

	s.log.Info("posts demo rendered",
		slog.String("locator", snap.Locator),
		slog.String("state", snap.State.String()),
	)
	s.renderPage(w, r, "<h1>Posts</h1>"+body)
}

// Signup is the form demo's model.
type Signup struct {
	Name  string `form:"name" validate:"required,min=2,max=40"`
	Email string `form:"email" validate:"required,email"`
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, renderSignup(form.New(Signup{}), false))
}

func (s *Server) handleSignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		verr := errs.Wrap(err, "D200", errs.CategoryValidation, "parse signup form")
		s.log.Warn("signup rejected", "error", verr)
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}

	f := form.New(Signup{})
	f.Set("name", r.PostFormValue("name"))
	f.Set("email", r.PostFormValue("email"))

	if f.Validate() {
		s.renderPage(w, r, fmt.Sprintf("<h1>Welcome, %s!</h1>", html.EscapeString(f.Values().Name)))
		return
	}
	s.renderPage(w, r, renderSignup(f, true))
}

// renderPage wraps body in the shared layout, inside the theme scope.
// The theme comes from the theme query parameter, defaulting to light; the
// body template reads it back through the scope rather than a parameter,
// which is the point of the demo.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, body string) {
	theme := r.URL.Query().Get("theme")
	if theme == "" {
		theme = "light"
	}

	Theme.Provide(theme, func() {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!doctype html>
<html>
<body class=%q>
%s
</body>
</html>
`, Theme.MustUse(), body)
	})
}

func renderPosts(posts []Post) string {
	out := "<ul>"
	for _, p := range posts {
		out += fmt.Sprintf("<li><strong>%s</strong>: %s</li>",
			html.EscapeString(p.Title), html.EscapeString(p.Body))
	}
	return out + "</ul>"
}

func renderError(err *fetch.Error) string {
	return fmt.Sprintf(`<p class="error">Failed to load (%s): %s</p>`,
		err.Kind, html.EscapeString(err.Error()))
}

func renderSignup(f *form.Form[Signup], submitted bool) string {
	fieldErrs := func(field string) string {
		if !submitted {
			return ""
		}
		out := ""
		for _, msg := range f.FieldErrors(field) {
			out += fmt.Sprintf(`<p class="error">%s</p>`, html.EscapeString(msg))
		}
		return out
	}

	v := f.Values()
	return fmt.Sprintf(`
		<h1>Sign up</h1>
		<form method="post" action="/signup">
			<label>Name <input name="name" value=%q></label>%s
			<label>Email <input name="email" value=%q></label>%s
			<button type="submit">Submit</button>
		</form>`,
		v.Name, fieldErrs("name"), v.Email, fieldErrs("email"))
}

// awaitSettled blocks until the resource's current attempt reaches a
// terminal state, or the timeout passes. Observation only: it never mutates
// the resource.
func awaitSettled[T any](r *resource.Resource[T], timeout time.Duration) resource.Snapshot[T] {
	done := make(chan resource.Snapshot[T], 1)

	e := reactive.NewEffect(func() reactive.Cleanup {
		snap := r.Snapshot()
		if snap.State == resource.Succeeded || snap.State == resource.Failed {
			select {
			case done <- snap:
			default:
			}
		}
		return nil
	})
	defer e.Dispose()

	select {
	case snap := <-done:
		return snap
	case <-time.After(timeout):
		return r.Snapshot()
	}
}

// Package fetch is the HTTP transport used by the data-fetching demos.
//
// A Client issues GET requests against a resource locator (a URL) and returns
// the raw body, or a failure classified as network, HTTP-status, decode, or
// unknown. Non-2xx responses are always classified as HTTP-status failures,
// even when the body is present and parseable.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for fetch clients.
const defaultTracerName = "demokit/fetch"

// maxErrorBody limits how much of a failed response body is read before
// the connection is released.
const maxErrorBody = 4 << 10

// Config configures a Client.
type Config struct {
	// HTTPClient is the underlying HTTP client (default: a client with
	// Timeout set to 10s).
	HTTPClient *http.Client

	// TracerName is the OpenTelemetry tracer name (default: "demokit/fetch").
	TracerName string

	// Namespace is the metrics namespace (default: "demokit").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use. nil disables metrics;
	// use prometheus.DefaultRegisterer for the default registry.
	Registry prometheus.Registerer
}

// Option configures a Client.
type Option func(*Config)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *Config) {
		cfg.HTTPClient = c
	}
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(cfg *Config) {
		cfg.TracerName = name
	}
}

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(cfg *Config) {
		cfg.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(cfg *Config) {
		cfg.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(cfg *Config) {
		cfg.Buckets = buckets
	}
}

// WithRegistry enables metrics, registering collectors with registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(cfg *Config) {
		cfg.Registry = registry
	}
}

// Client fetches resources over HTTP with classified failures.
// A zero-value Client is not usable; create one with New.
type Client struct {
	http    *http.Client
	tracer  trace.Tracer
	metrics *clientMetrics
}

// New creates a Client.
//
// Example:
//
//	client := fetch.New(
//	    fetch.WithRegistry(prometheus.DefaultRegisterer),
//	)
//	body, err := client.Get(ctx, "https://api.example.com/posts/1")
func New(opts ...Option) *Client {
	cfg := Config{
		TracerName: defaultTracerName,
		Namespace:  "demokit",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	c := &Client{
		http:   httpClient,
		tracer: otel.Tracer(cfg.TracerName),
	}
	if cfg.Registry != nil {
		c.metrics = newClientMetrics(cfg.Namespace, cfg.ConstLabels, cfg.Buckets, cfg.Registry)
	}
	return c
}

// Get issues a GET request against locator and returns the response body.
// Failures are returned as a classified *Error.
func (c *Client) Get(ctx context.Context, locator string) ([]byte, error) {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "fetch.Get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("fetch.locator", locator)),
	)
	defer span.End()

	body, status, err := c.get(ctx, locator)

	c.metrics.observe(status, KindOf(err), time.Since(start))
	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return body, nil
}

// get performs the request and returns the body, the status code (0 when no
// response was received), and a classified error.
func (c *Client) get(ctx context.Context, locator string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, 0, &Error{Kind: KindNetwork, Locator: locator, wrapped: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &Error{Kind: KindNetwork, Locator: locator, wrapped: err}
	}
	defer resp.Body.Close()

	// A non-2xx response is a status failure even if the body is present
	// and parseable.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, &Error{
			Kind:    KindHTTPStatus,
			Status:  resp.StatusCode,
			Locator: locator,
			wrapped: fmt.Errorf("status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Kind: KindNetwork, Locator: locator, wrapped: err}
	}
	return body, resp.StatusCode, nil
}

// JSON fetches locator with client and decodes the body into T.
// Decode failures are classified as KindDecode.
//
// Example:
//
//	post, err := fetch.JSON[Post](ctx, client, "https://api.example.com/posts/1")
func JSON[T any](ctx context.Context, c *Client, locator string) (T, error) {
	var out T

	body, err := c.Get(ctx, locator)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, &Error{Kind: KindDecode, Locator: locator, wrapped: err}
	}
	return out, nil
}

package service

import (
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultTimeout       = 8 * time.Second
	defaultMaxConcurrent = 4
	idempotencyHeader    = "Idempotency-Key"
)

// Error bodies from gateways are often HTML pages; only their text is kept.
var stripMarkup = bluemonday.StrictPolicy()

// ErrUnexpectedStatus is returned when a service answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Option configures the HTTP clients in this package.
type Option func(*options)

type options struct {
	http          *http.Client
	timeout       time.Duration
	logger        *slog.Logger
	maxConcurrent int64
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.http = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxConcurrent bounds the number of lookups sent at once.
func WithMaxConcurrent(n int64) Option {
	return func(o *options) {
		o.maxConcurrent = n
	}
}

func newOptions(opts []Option) options {
	o := options{
		timeout:       defaultTimeout,
		logger:        slog.Default(),
		maxConcurrent: defaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.http == nil {
		o.http = &http.Client{Timeout: o.timeout}
	}
	if o.maxConcurrent < 1 {
		o.maxConcurrent = 1
	}
	return o
}

func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

func statusError(op string, resp *http.Response) error {
	return fmt.Errorf("%s: %w %d: %s", op, ErrUnexpectedStatus, resp.StatusCode, drainError(resp.Body))
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	text := html.UnescapeString(stripMarkup.Sanitize(string(b)))
	return strings.Join(strings.Fields(text), " ")
}

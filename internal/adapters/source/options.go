package source

import (
	"net/http"
	"time"
)

// Shared settings for the HTTP-backed sources.
type settings struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// Option applies a configuration option to an HTTP-backed source.
type Option func(*settings)

// WithBaseURL overrides the upstream endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(s *settings) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithClock overrides the source's notion of "today", mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(baseURL string, opts ...Option) *settings {
	s := &settings{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

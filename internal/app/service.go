// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bishnt/portfolio/internal/adapters/source"
	"github.com/bishnt/portfolio/internal/domain/calendar"
	"github.com/bishnt/portfolio/pkg/logger"
	"github.com/bishnt/portfolio/pkg/metrics"
)

// Defaults applied when no option overrides them.
const (
	defaultUsername     = "bishnt"
	defaultFetchTimeout = 8 * time.Second
	defaultCacheTTL     = 10 * time.Minute
	defaultMockCacheTTL = time.Minute
	cacheCleanup        = 15 * time.Minute
	relayTimeout        = 10 * time.Second
)

// ErrRelayDisabled is returned when no contact relay endpoint is configured.
var ErrRelayDisabled = errors.New("contact relay not configured")

// ErrRelayFailed is returned when the relay upstream rejects a submission.
var ErrRelayFailed = errors.New("contact relay failed")

// ContactMessage is a contact form submission to forward to the relay.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Service aggregates contribution calendars through the source chain, caches
// results per username, and relays contact form submissions.
type Service struct {
	mu sync.RWMutex

	chain *source.Chain
	cache *gocache.Cache

	// Configuration
	token           string
	defaultUsername string
	fetchTimeout    time.Duration
	cacheTTL        time.Duration
	mockCacheTTL    time.Duration
	contactRelayURL string
	baseURLs        BaseURLs
	relayClient     *http.Client

	// Request counters for /stats
	requests   int64
	cacheHits  int64
	sourceWins map[string]int64

	logger logger.Logger
}

// BaseURLs overrides the upstream endpoints, mainly for tests.
type BaseURLs struct {
	GraphQL          string
	ContributionsAPI string
	Events           string
	AlternativeAPI   string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithToken sets the GitHub token. An empty token disables the GraphQL
// source and leaves the event-log source unauthenticated.
func WithToken(token string) Option {
	return func(s *Service) {
		s.token = token
	}
}

// WithDefaultUsername sets the username used when the caller supplies none.
func WithDefaultUsername(username string) Option {
	return func(s *Service) {
		if username != "" {
			s.defaultUsername = username
		}
	}
}

// WithFetchTimeout bounds each upstream source attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithCacheTTL sets how long resolved calendars are cached.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cacheTTL = d
		}
	}
}

// WithMockCacheTTL sets the shorter TTL used for mock-sourced calendars so a
// recovered upstream is picked up quickly.
func WithMockCacheTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.mockCacheTTL = d
		}
	}
}

// WithContactRelay sets the form-relay endpoint for contact submissions.
func WithContactRelay(url string) Option {
	return func(s *Service) {
		s.contactRelayURL = url
	}
}

// WithBaseURLs overrides upstream endpoints.
func WithBaseURLs(urls BaseURLs) Option {
	return func(s *Service) {
		s.baseURLs = urls
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Service and assembles its source chain in priority order.
func New(opts ...Option) *Service {
	s := &Service{
		defaultUsername: defaultUsername,
		fetchTimeout:    defaultFetchTimeout,
		cacheTTL:        defaultCacheTTL,
		mockCacheTTL:    defaultMockCacheTTL,
		sourceWins:      make(map[string]int64),
		relayClient:     &http.Client{Timeout: relayTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("app")
	}

	s.cache = gocache.New(s.cacheTTL, cacheCleanup)
	s.chain = source.NewChain(s.buildSources(),
		source.WithTimeout(s.fetchTimeout),
		source.WithLogger(s.logger))
	return s
}

// buildSources assembles the fallback chain. The GraphQL source is only
// registered when a token is configured; the mock source is always last.
func (s *Service) buildSources() []source.Source {
	var sources []source.Source

	if s.token != "" {
		var opts []source.Option
		if s.baseURLs.GraphQL != "" {
			opts = append(opts, source.WithBaseURL(s.baseURLs.GraphQL))
		}
		sources = append(sources, source.NewGraphQL(s.token, opts...))
	}

	var capiOpts []source.Option
	if s.baseURLs.ContributionsAPI != "" {
		capiOpts = append(capiOpts, source.WithBaseURL(s.baseURLs.ContributionsAPI))
	}
	sources = append(sources, source.NewContributionsAPI(capiOpts...))

	var evOpts []source.Option
	if s.baseURLs.Events != "" {
		evOpts = append(evOpts, source.WithBaseURL(s.baseURLs.Events))
	}
	if events, err := source.NewEvents(s.token, evOpts...); err == nil {
		sources = append(sources, events)
	} else {
		s.logger.Warn(context.Background(), "event-log source disabled", logger.Error(err))
	}

	var altOpts []source.Option
	if s.baseURLs.AlternativeAPI != "" {
		altOpts = append(altOpts, source.WithBaseURL(s.baseURLs.AlternativeAPI))
	}
	sources = append(sources, source.NewAlternativeAPI(altOpts...))

	sources = append(sources, source.NewMock())
	return sources
}

// Sources lists the assembled chain in try order.
func (s *Service) Sources() []string {
	return s.chain.Names()
}

// Contributions resolves the trailing-year calendar for a username, serving
// from cache when possible. The result is never nil: the chain's terminal
// mock source guarantees a calendar even under total upstream failure.
func (s *Service) Contributions(ctx context.Context, username string) (*calendar.Result, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = s.defaultUsername
	}

	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	if cached, ok := s.cache.Get(username); ok {
		metrics.RecordCacheHit()
		s.mu.Lock()
		s.cacheHits++
		s.mu.Unlock()
		return cached.(*calendar.Result), nil
	}
	metrics.RecordCacheMiss()

	res := s.chain.Resolve(ctx, username)

	ttl := s.cacheTTL
	if res.Source == source.MockName {
		ttl = s.mockCacheTTL
	}
	s.cache.Set(username, res, ttl)

	s.mu.Lock()
	s.sourceWins[res.Source]++
	s.mu.Unlock()

	return res, nil
}

// ContactEnabled reports whether a relay endpoint is configured.
func (s *Service) ContactEnabled() bool {
	return s.contactRelayURL != ""
}

// RelayContact forwards a contact form submission to the configured relay.
func (s *Service) RelayContact(ctx context.Context, msg ContactMessage) error {
	if s.contactRelayURL == "" {
		return ErrRelayDisabled
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal contact message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.contactRelayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.relayClient.Do(req)
	if err != nil {
		metrics.RecordContactRelay("error")
		return fmt.Errorf("%w: %v", ErrRelayFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordContactRelay("error")
		return fmt.Errorf("%w: status %d", ErrRelayFailed, resp.StatusCode)
	}

	metrics.RecordContactRelay("ok")
	s.logger.Info(ctx, "contact message relayed", logger.String("from", msg.Email))
	return nil
}

// GetStats returns service counters for the /stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wins := make(map[string]int64, len(s.sourceWins))
	for k, v := range s.sourceWins {
		wins[k] = v
	}

	stats := map[string]interface{}{
		"requests":        s.requests,
		"cacheHits":       s.cacheHits,
		"sourceWins":      wins,
		"defaultUsername": s.defaultUsername,
		"contactEnabled":  s.contactRelayURL != "",
	}

	if cached, ok := s.cache.Get(s.defaultUsername); ok {
		res := cached.(*calendar.Result)
		stats["currentStreak"] = calendar.Streak(res.Weeks, time.Now())
		stats["totalContributions"] = res.Total
		stats["source"] = res.Source
	}
	return stats
}

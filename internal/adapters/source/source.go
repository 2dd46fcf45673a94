// Package source implements the contribution data sources and the ordered
// fallback chain that drives them. Each source normalizes its upstream shape
// into a calendar.Result; the chain tries them one at a time and the first
// non-empty calendar wins.
package source

import (
	"context"
	"time"

	"github.com/bishnt/portfolio/internal/domain/calendar"
	"github.com/bishnt/portfolio/internal/domain/synth"
	"github.com/bishnt/portfolio/pkg/logger"
	"github.com/bishnt/portfolio/pkg/metrics"
)

// Default per-source fetch bound. Each source is attempted exactly once; a
// slow upstream must not stall the whole chain.
const defaultTimeout = 8 * time.Second

// Source is a single upstream strategy. An error or empty calendar means
// "fall through to the next source"; nothing a source returns is ever
// surfaced to the caller directly.
type Source interface {
	Name() string
	Fetch(ctx context.Context, username string) (*calendar.Result, error)
}

// Chain is an ordered list of sources with a per-attempt timeout. Ordering
// is the fallback policy: cheaper and more authoritative sources first.
type Chain struct {
	sources []Source
	timeout time.Duration
	log     logger.Logger
}

// ChainOption applies a configuration option to a Chain.
type ChainOption func(*Chain)

// WithTimeout bounds each source attempt.
func WithTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the chain logger.
func WithLogger(log logger.Logger) ChainOption {
	return func(c *Chain) {
		if log != nil {
			c.log = log
		}
	}
}

// NewChain builds a chain over the given sources, tried in order.
func NewChain(sources []Source, opts ...ChainOption) *Chain {
	c := &Chain{
		sources: sources,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("source")
	}
	return c
}

// Names lists the chain's sources in try order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.sources))
	for _, s := range c.sources {
		names = append(names, s.Name())
	}
	return names
}

// Resolve runs the chain for a username. It always returns a calendar: if
// every configured source fails, it falls back to the synthetic generator,
// which cannot fail.
func (c *Chain) Resolve(ctx context.Context, username string) *calendar.Result {
	for _, s := range c.sources {
		metrics.RecordSourceAttempt(s.Name())
		start := time.Now()
		res, err := c.attempt(ctx, s, username)
		metrics.RecordFetchDuration(s.Name(), float64(time.Since(start).Milliseconds()))

		if err != nil {
			metrics.RecordSourceFailure(s.Name())
			c.log.Warn(ctx, "source failed, falling through",
				logger.String("source", s.Name()),
				logger.String("username", username),
				logger.Error(err))
			continue
		}

		res.Source = s.Name()
		metrics.RecordSourceWin(s.Name())
		c.log.Info(ctx, "calendar resolved",
			logger.String("source", s.Name()),
			logger.String("username", username),
			logger.Int("total", res.Total))
		return res
	}

	// Unreachable when the mock source is registered last, but the contract
	// is a non-failing result regardless of how the chain was assembled.
	weeks, total := synth.Generate(time.Now())
	return &calendar.Result{Source: MockName, Total: total, Weeks: weeks}
}

// attempt runs one source under the chain timeout and validates its output.
func (c *Chain) attempt(ctx context.Context, s Source, username string) (*calendar.Result, error) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := s.Fetch(cctx, username)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Weeks) == 0 {
		return nil, ErrEmpty
	}
	return res, nil
}

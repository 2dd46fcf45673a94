package source

import (
	"context"
	"time"

	"github.com/bishnt/portfolio/internal/domain/calendar"
	"github.com/bishnt/portfolio/internal/domain/synth"
)

// MockName tags synthetic calendars.
const MockName = "mock-data"

// Mock is the terminal source: deterministic synthetic data, no network,
// no failure modes. It must always sit last in the chain.
type Mock struct {
	now func() time.Time
}

// NewMock creates the synthetic source.
func NewMock(opts ...Option) *Mock {
	cfg := newSettings("", opts...)
	return &Mock{now: cfg.now}
}

// Name identifies the source in logs, metrics, and provenance tags.
func (s *Mock) Name() string { return MockName }

// Fetch generates the synthetic trailing-year calendar. The error return
// exists only to satisfy the Source interface; it is always nil.
func (s *Mock) Fetch(_ context.Context, _ string) (*calendar.Result, error) {
	weeks, total := synth.Generate(s.now())
	return &calendar.Result{Total: total, Weeks: weeks}, nil
}

package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v81/github"

	"github.com/bishnt/portfolio/internal/domain/calendar"
)

// EventsName tags calendars rebuilt from the public event log.
const EventsName = "github-events"

// Event log pagination: around the 300 most recent events. The public API
// does not reach further back, so this source is inherently partial and sits
// late in the chain.
const (
	eventsPerPage = 100
	eventsPages   = 3
)

// Events rebuilds a calendar from the raw user event log. Unlike the other
// sources it receives no pre-aggregated counts: each event's creation
// timestamp is truncated to its UTC date and binned into a locally built
// trailing-year skeleton.
type Events struct {
	client *gh.Client
	cfg    *settings
}

// NewEvents creates the event-log source. The token is optional; it only
// raises the unauthenticated rate limit.
func NewEvents(token string, opts ...Option) (*Events, error) {
	cfg := newSettings("", opts...)

	client := gh.NewClient(cfg.client)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if cfg.baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = base
	}
	return &Events{client: client, cfg: cfg}, nil
}

// Name identifies the source in logs, metrics, and provenance tags.
func (s *Events) Name() string { return EventsName }

// Fetch lists recent events and bins them by UTC date. Events outside the
// trailing-year window are skipped; an empty event log counts as a failure
// so the chain can fall through.
func (s *Events) Fetch(ctx context.Context, username string) (*calendar.Result, error) {
	b := calendar.NewBuilder(s.cfg.now())

	var seen int
	opts := &gh.ListOptions{PerPage: eventsPerPage}
	for page := 1; page <= eventsPages; page++ {
		opts.Page = page
		events, resp, err := s.client.Activity.ListEventsPerformedByUser(ctx, username, false, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		for _, ev := range events {
			if ev.CreatedAt == nil {
				continue
			}
			seen++
			b.Add(ev.CreatedAt.Time)
		}

		if resp.NextPage == 0 {
			break
		}
	}

	if seen == 0 {
		return nil, ErrEmpty
	}

	weeks, total := b.Build()
	return &calendar.Result{Total: total, Weeks: weeks}, nil
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bishnt/portfolio/internal/domain/calendar"
)

// Source tags for the two REST aggregators.
const (
	ContributionsAPIName = "contributions-api"
	AlternativeAPIName   = "alternative-api"
)

const (
	defaultContributionsAPIURL = "https://github-contributions-api.jogruber.de/v4"
	defaultAlternativeAPIURL   = "https://github-contributions.vercel.app/api/v1"
)

// restAPI is an unauthenticated third-party aggregator keyed by username
// path segment. Both public aggregators share the response contract, so one
// implementation serves them under different names and endpoints.
type restAPI struct {
	name string
	cfg  *settings
}

// NewContributionsAPI creates the primary REST aggregator source.
func NewContributionsAPI(opts ...Option) Source {
	return &restAPI{name: ContributionsAPIName, cfg: newSettings(defaultContributionsAPIURL, opts...)}
}

// NewAlternativeAPI creates the fallback REST aggregator source.
func NewAlternativeAPI(opts ...Option) Source {
	return &restAPI{name: AlternativeAPIName, cfg: newSettings(defaultAlternativeAPIURL, opts...)}
}

func (s *restAPI) Name() string { return s.name }

type restDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

type restResponse struct {
	Total         json.RawMessage `json:"total"`
	Contributions json.RawMessage `json:"contributions"`
}

// Fetch pulls the user's calendar and rebinds it into the trailing-year
// window. The upstream total is ignored: the normalized total is always the
// sum of the binned day counts, which also covers responses that omit it.
func (s *restAPI) Fetch(ctx context.Context, username string) (*calendar.Result, error) {
	endpoint := fmt.Sprintf("%s/%s", s.cfg.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.cfg.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body restResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	days, err := decodeContributions(body.Contributions)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrEmpty
	}

	b := calendar.NewBuilder(s.cfg.now())
	for _, d := range days {
		b.AddCount(d.Date, d.Count)
	}
	weeks, total := b.Build()
	return &calendar.Result{Total: total, Weeks: weeks}, nil
}

// decodeContributions accepts the aggregator shapes seen in the wild: a flat
// day list, weeks as day arrays, or weeks as {days: [...]} objects.
func decodeContributions(raw json.RawMessage) ([]restDay, error) {
	if len(raw) == 0 {
		return nil, ErrMalformed
	}

	var flat []restDay
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var nested [][]restDay
	if err := json.Unmarshal(raw, &nested); err == nil {
		return flatten(nested), nil
	}

	var wrapped []struct {
		Days []restDay `json:"days"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		weeks := make([][]restDay, 0, len(wrapped))
		for _, w := range wrapped {
			weeks = append(weeks, w.Days)
		}
		return flatten(weeks), nil
	}

	return nil, ErrMalformed
}

func flatten(weeks [][]restDay) []restDay {
	var days []restDay
	for _, w := range weeks {
		days = append(days, w...)
	}
	return days
}

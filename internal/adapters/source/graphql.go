package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/bishnt/portfolio/internal/domain/calendar"
)

// GraphQLName tags calendars produced by the authenticated GraphQL source.
const GraphQLName = "github-graphql"

const defaultGraphQLEndpoint = "https://api.github.com/graphql"

// contributionQuery asks for the one-year contribution calendar of a user.
const contributionQuery = `
query($username: String!, $from: DateTime!, $to: DateTime!) {
	user(login: $username) {
		contributionsCollection(from: $from, to: $to) {
			contributionCalendar {
				totalContributions
				weeks {
					contributionDays {
						date
						contributionCount
					}
				}
			}
		}
	}
}`

// GraphQL queries the GitHub GraphQL contribution calendar with a bearer
// token. It is the most authoritative source and is only registered when a
// token is configured.
type GraphQL struct {
	cfg *settings
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// NewGraphQL creates the GraphQL source. The token authenticates every
// request via an oauth2 transport.
func NewGraphQL(token string, opts ...Option) *GraphQL {
	cfg := newSettings(defaultGraphQLEndpoint, opts...)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	cfg.client = oauth2.NewClient(
		context.WithValue(context.Background(), oauth2.HTTPClient, cfg.client), ts)
	return &GraphQL{cfg: cfg}
}

// Name identifies the source in logs, metrics, and provenance tags.
func (s *GraphQL) Name() string { return GraphQLName }

// Fetch queries the trailing-year window and rebuilds the calendar locally.
// Upstream totals and levels are ignored; counts are binned through the
// shared builder so every source emits the same aligned shape.
func (s *GraphQL) Fetch(ctx context.Context, username string) (*calendar.Result, error) {
	today := s.cfg.now().UTC()
	from := today.AddDate(-1, 0, 0).AddDate(0, 0, 1)

	body, err := json.Marshal(graphQLRequest{
		Query: contributionQuery,
		Variables: map[string]any{
			"username": username,
			"from":     from.Format(time.RFC3339),
			"to":       today.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cfg.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, result.Errors[0].Message)
	}
	if result.Data.User == nil {
		return nil, ErrMalformed
	}

	cal := result.Data.User.ContributionsCollection.ContributionCalendar
	if len(cal.Weeks) == 0 {
		return nil, ErrEmpty
	}

	b := calendar.NewBuilder(today)
	for _, w := range cal.Weeks {
		for _, d := range w.ContributionDays {
			b.AddCount(d.Date, d.ContributionCount)
		}
	}
	weeks, total := b.Build()
	return &calendar.Result{Total: total, Weeks: weeks}, nil
}

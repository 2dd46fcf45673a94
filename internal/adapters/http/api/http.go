// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/bishnt/portfolio/internal/app"
	"github.com/bishnt/portfolio/internal/domain/calendar"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Contributions resolves the trailing-year calendar for a username.
	Contributions(ctx context.Context, username string) (*calendar.Result, error)

	// RelayContact forwards a contact form submission.
	RelayContact(ctx context.Context, msg service.ContactMessage) error

	// ContactEnabled reports whether the relay endpoint is configured.
	ContactEnabled() bool
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	contributionsHandler *ContributionsHandler
	contactHandler       *ContactHandler
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		contributionsHandler: NewContributionsHandler(deps),
		contactHandler:       NewContactHandler(deps),
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/api/github-contributions",
		RequestIDMiddleware(MetricsMiddleware(s.contributionsHandler.HandleGetContributions, "contributions")))
	mux.HandleFunc("/api/contact",
		RequestIDMiddleware(MetricsMiddleware(s.contactHandler.HandlePostContact, "contact")))
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/bishnt/portfolio/internal/domain/calendar"
	"github.com/bishnt/portfolio/pkg/logger"
)

// contributionsResponse mirrors the JSON contract consumed by the page.
type contributionsResponse struct {
	Success            bool            `json:"success"`
	Source             string          `json:"source"`
	TotalContributions int             `json:"totalContributions"`
	Contributions      []calendar.Week `json:"contributions"`
}

// ContributionsHandler handles contribution calendar requests.
type ContributionsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewContributionsHandler creates a new contributions handler.
func NewContributionsHandler(deps Dependencies) *ContributionsHandler {
	return &ContributionsHandler{deps: deps, log: logger.Named("api")}
}

// HandleGetContributions handles GET /api/github-contributions?username=NAME.
// Every normal path answers 200, including the mock fallback; 500 is
// reserved for unexpected internal failures.
func (h *ContributionsHandler) HandleGetContributions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error(r.Context(), "contributions handler panicked", logger.Field{Key: "panic", Value: rec})
			writeError(w, http.StatusInternalServerError, ErrInternal)
		}
	}()

	username := r.URL.Query().Get("username")

	res, err := h.deps.Contributions(r.Context(), username)
	if err != nil || res == nil {
		// The chain guarantees a calendar; reaching this is exceptional.
		h.log.Error(r.Context(), "contribution resolution failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	writeJSON(w, http.StatusOK, contributionsResponse{
		Success:            true,
		Source:             res.Source,
		TotalContributions: res.Total,
		Contributions:      res.Weeks,
	})
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/bishnt/portfolio/internal/app"
	"github.com/bishnt/portfolio/pkg/logger"
)

// Contact form bounds.
const (
	maxContactBodyBytes = 64 << 10
	maxMessageLength    = 5000
)

// ContactHandler relays contact form submissions to the configured upstream.
type ContactHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(deps Dependencies) *ContactHandler {
	return &ContactHandler{deps: deps, log: logger.Named("api")}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (c contactRequest) validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(c.Email) == "":
		return errors.New("missing email")
	case !strings.Contains(c.Email, "@"):
		return errors.New("invalid email")
	case strings.TrimSpace(c.Message) == "":
		return errors.New("missing message")
	case len(c.Message) > maxMessageLength:
		return errors.New("message too long")
	}
	return nil
}

type contactResponse struct {
	Success bool `json:"success"`
}

// HandlePostContact handles POST /api/contact.
func (h *ContactHandler) HandlePostContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	if !h.deps.ContactEnabled() {
		writeError(w, http.StatusNotImplemented, errors.New("contact relay not configured"))
		return
	}

	var req contactRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	msg := service.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.deps.RelayContact(r.Context(), msg); err != nil {
		h.log.Warn(r.Context(), "contact relay failed", logger.Error(err))
		writeError(w, http.StatusBadGateway, errors.New("failed to deliver message"))
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{Success: true})
}

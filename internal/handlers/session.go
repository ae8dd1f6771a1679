package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
	"github.com/becomingxdev/CrisisCheckTest1/internal/session"
)

type sessionRegistry interface {
	Create(kind models.Kind) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Dispose(id string) error
}

type SessionHandler struct {
	registry sessionRegistry
}

func NewSessionHandler(registry sessionRegistry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	s, err := h.registry.Create(req.Kind)
	if err != nil {
		if errors.Is(err, session.ErrUnknownKind) {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"kind": "Kind must be crisis_guide or fact_check"}, r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Send submits a user message and waits for the assistant reply. Blank
// text is ignored and the unchanged snapshot is returned.
func (h *SessionHandler) Send(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SessionMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	_, err := s.Submit(r.Context(), req.Text)
	switch {
	case err == nil, errors.Is(err, services.ErrEmptyMessage):
		writeJSON(w, http.StatusOK, s.Snapshot())
	case errors.Is(err, session.ErrPending):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "A reply is already pending for this session", r))
	case errors.Is(err, session.ErrClosed):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
	default:
		handleServiceError(w, r, err)
	}
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Dispose(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return nil, false
	}
	return s, true
}

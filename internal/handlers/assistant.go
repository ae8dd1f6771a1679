package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
)

type assistantPipeline interface {
	CrisisGuide(ctx context.Context, message string) (*models.AssistantReply, error)
	FactCheck(ctx context.Context, message string, contentType models.ContentType) (*models.AssistantReply, error)
}

// AssistantHandler serves the stateless crisis-guide and fact-check
// endpoints. Pipeline failures and undecodable bodies answer 500 with the
// fallback body.
type AssistantHandler struct {
	assistant assistantPipeline
	logger    *zap.Logger
}

func NewAssistantHandler(assistant assistantPipeline, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, logger: logger}
}

func (h *AssistantHandler) CrisisGuide(w http.ResponseWriter, r *http.Request) {
	var req models.CrisisGuideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("undecodable crisis-guide request", zap.String("request_id", requestID(r)), zap.Error(err))
		writeCrisisGuideFallback(w)
		return
	}

	reply, err := h.assistant.CrisisGuide(r.Context(), req.Message)
	if err != nil {
		var pErr *services.PipelineError
		if !errors.As(err, &pErr) {
			handleServiceError(w, r, err)
			return
		}
		writeCrisisGuideFallback(w)
		return
	}

	writeJSON(w, http.StatusOK, models.CrisisGuideResponse{
		Response:     reply.Text,
		QuickActions: reply.QuickActions,
	})
}

func (h *AssistantHandler) FactCheck(w http.ResponseWriter, r *http.Request) {
	var req models.FactCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("undecodable fact-check request", zap.String("request_id", requestID(r)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, services.FactCheckFallback())
		return
	}

	reply, err := h.assistant.FactCheck(r.Context(), req.Message, req.Type)
	if err != nil {
		var pErr *services.PipelineError
		if !errors.As(err, &pErr) {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusInternalServerError, services.FactCheckFallback())
		return
	}

	writeJSON(w, http.StatusOK, reply.FactCheck)
}

func writeCrisisGuideFallback(w http.ResponseWriter) {
	fallback := services.Fallback(models.KindCrisisGuide)
	writeJSON(w, http.StatusInternalServerError, models.CrisisGuideResponse{
		Response:     fallback.Text,
		QuickActions: fallback.QuickActions,
	})
}

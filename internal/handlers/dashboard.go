package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

type statsSource interface {
	Stats(ctx context.Context) (*models.DashboardStats, time.Time, error)
}

type DashboardHandler struct {
	stats statsSource
}

func NewDashboardHandler(stats statsSource) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, updated, err := h.stats.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DataResponse{
		Success:     true,
		Data:        stats,
		LastUpdated: &updated,
	})
}

type settingsService interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.SiteSettings, error)
}

type SettingsHandler struct {
	settings settingsService
}

func NewSettingsHandler(settings settingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.DataResponse{Success: true, Data: settings})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	settings, err := h.settings.Update(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DataResponse{
		Success: true,
		Message: "Settings updated successfully",
		Data:    settings,
	})
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler takes the named dependencies /ready must reach. Nil
// entries are skipped.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	live := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			live[name] = p
		}
	}
	return &HealthHandler{deps: live}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	status := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ready"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	writeJSON(w, status, map[string]interface{}{"status": overall, "checks": checks})
}

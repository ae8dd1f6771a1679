package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

type reportService interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.CrisisReport, error)
	Create(ctx context.Context, req models.CreateReportRequest) (*models.CrisisReport, error)
	UpdateStatus(ctx context.Context, req models.UpdateStatusRequest) (*models.CrisisReport, error)
}

type ReportHandler struct {
	reports reportService
}

func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ReportFilter{
		Type:     q.Get("type"),
		Status:   q.Get("status"),
		Severity: q.Get("severity"),
	}

	reports, err := h.reports.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ListResponse{Success: true, Data: reports, Total: len(reports)})
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	report, err := h.reports.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.DataResponse{
		Success: true,
		Message: "Crisis report submitted successfully",
		Data:    report,
	})
}

func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	report, err := h.reports.UpdateStatus(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DataResponse{
		Success: true,
		Message: "Report status updated successfully",
		Data:    report,
	})
}

type volunteerService interface {
	List(ctx context.Context, filter models.VolunteerFilter) ([]models.Volunteer, error)
	Register(ctx context.Context, req models.RegisterVolunteerRequest) (*models.Volunteer, error)
	UpdateStatus(ctx context.Context, req models.UpdateStatusRequest) (*models.Volunteer, error)
}

type VolunteerHandler struct {
	volunteers volunteerService
}

func NewVolunteerHandler(volunteers volunteerService) *VolunteerHandler {
	return &VolunteerHandler{volunteers: volunteers}
}

func (h *VolunteerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.VolunteerFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	volunteers, err := h.volunteers.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ListResponse{Success: true, Data: volunteers, Total: len(volunteers)})
}

func (h *VolunteerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVolunteerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	v, err := h.volunteers.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.DataResponse{
		Success: true,
		Message: "Volunteer registration successful",
		Data:    v,
	})
}

func (h *VolunteerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	v, err := h.volunteers.UpdateStatus(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DataResponse{
		Success: true,
		Message: "Volunteer status updated successfully",
		Data:    v,
	})
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/repository"
)

var reportStatuses = []string{
	models.ReportStatusPending,
	models.ReportStatusVerified,
	models.ReportStatusResolved,
	models.ReportStatusDismissed,
}

// enqueueTimeout bounds handing a fact-check job to the queue.
const enqueueTimeout = 2 * time.Second

type ReportService struct {
	store          repository.ReportStore
	events         EventPublisher
	jobs           JobEnqueuer
	enqueueTimeout time.Duration
	logger         *zap.Logger
}

// NewReportService wires report handling. jobs may be nil, in which case
// disinformation reports are not fact-checked automatically.
func NewReportService(store repository.ReportStore, events EventPublisher, jobs JobEnqueuer, logger *zap.Logger) *ReportService {
	if events == nil {
		events = nopPublisher{}
	}
	return &ReportService{store: store, events: events, jobs: jobs, enqueueTimeout: enqueueTimeout, logger: logger}
}

func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.CrisisReport, error) {
	return s.store.List(ctx, filter)
}

func (s *ReportService) Get(ctx context.Context, id string) (*models.CrisisReport, error) {
	report, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Crisis report not found"}
	}
	return report, err
}

func (s *ReportService) Create(ctx context.Context, req models.CreateReportRequest) (*models.CrisisReport, error) {
	fieldErrors := make(map[string]string)

	switch req.Type {
	case models.ReportCrisis, models.ReportDisinformation:
	case "":
		fieldErrors["type"] = "Type is required"
	default:
		fieldErrors["type"] = "Type must be crisis or disinformation"
	}
	switch req.Severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
	case "":
		fieldErrors["severity"] = "Severity is required"
	default:
		fieldErrors["severity"] = "Severity must be low, medium, high or critical"
	}
	requireField(fieldErrors, "title", req.Title, "Title is required")
	requireField(fieldErrors, "description", req.Description, "Description is required")
	requireField(fieldErrors, "location", req.Location, "Location is required")
	requireField(fieldErrors, "reportedBy", req.ReportedBy, "Reporter is required")
	requireField(fieldErrors, "category", req.Category, "Category is required")

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	report := &models.CrisisReport{
		Type:        req.Type,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		ReportedBy:  strings.TrimSpace(req.ReportedBy),
		Category:    strings.TrimSpace(req.Category),
		Severity:    req.Severity,
	}
	if err := s.store.Create(ctx, report); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, models.EventReportCreated, report)

	if report.Type == models.ReportDisinformation && s.jobs != nil {
		job := models.Job{
			ID:          uuid.NewString(),
			Type:        models.JobReportFactCheck,
			ReferenceID: report.ID,
			CreatedAt:   time.Now().UTC(),
		}
		enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.enqueueTimeout)
		defer cancel()
		if err := s.jobs.Enqueue(enqueueCtx, job); err != nil {
			s.logger.Error("failed to enqueue report fact-check", zap.String("report_id", report.ID), zap.Error(err))
		}
	}

	return report, nil
}

func (s *ReportService) UpdateStatus(ctx context.Context, req models.UpdateStatusRequest) (*models.CrisisReport, error) {
	if err := validateStatusUpdate(req, reportStatuses); err != nil {
		return nil, err
	}

	report, err := s.store.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Crisis report not found"}
		}
		return nil, err
	}

	s.events.Publish(ctx, models.EventReportUpdated, report)
	return report, nil
}

// ApplyFactCheck stores a fact-check outcome on a report and announces it.
func (s *ReportService) ApplyFactCheck(ctx context.Context, id string, result models.FactCheckResult) (*models.CrisisReport, error) {
	report, err := s.store.SetFactCheck(ctx, id, result)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Crisis report not found"}
		}
		return nil, err
	}

	s.events.Publish(ctx, models.EventReportFactChecked, report)
	return report, nil
}

func requireField(fieldErrors map[string]string, name, value, message string) {
	if strings.TrimSpace(value) == "" {
		fieldErrors[name] = message
	}
}

func validateStatusUpdate(req models.UpdateStatusRequest, allowed []string) error {
	fieldErrors := make(map[string]string)
	requireField(fieldErrors, "id", req.ID, "ID is required")
	if strings.TrimSpace(req.Status) == "" {
		fieldErrors["status"] = "Status is required"
	} else if !contains(allowed, req.Status) {
		fieldErrors["status"] = "Status must be one of " + strings.Join(allowed, ", ")
	}
	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/repository"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var volunteerStatuses = []string{
	models.VolunteerStatusPending,
	models.VolunteerStatusActive,
	models.VolunteerStatusInactive,
}

type VolunteerService struct {
	store  repository.VolunteerStore
	events EventPublisher
	logger *zap.Logger
}

func NewVolunteerService(store repository.VolunteerStore, events EventPublisher, logger *zap.Logger) *VolunteerService {
	if events == nil {
		events = nopPublisher{}
	}
	return &VolunteerService{store: store, events: events, logger: logger}
}

func (s *VolunteerService) List(ctx context.Context, filter models.VolunteerFilter) ([]models.Volunteer, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.store.List(ctx, filter)
}

func (s *VolunteerService) Register(ctx context.Context, req models.RegisterVolunteerRequest) (*models.Volunteer, error) {
	fieldErrors := make(map[string]string)

	requireField(fieldErrors, "name", req.Name, "Name is required")
	email := strings.TrimSpace(req.Email)
	if email == "" {
		fieldErrors["email"] = "Email is required"
	} else if !emailRegex.MatchString(email) {
		fieldErrors["email"] = "Invalid email format"
	}
	requireField(fieldErrors, "phone", req.Phone, "Phone is required")
	requireField(fieldErrors, "location", req.Location, "Location is required")
	requireField(fieldErrors, "availability", req.Availability, "Availability is required")

	skills := make([]string, 0, len(req.Skills))
	for _, skill := range req.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	if len(skills) == 0 {
		fieldErrors["skills"] = "At least one skill is required"
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	v := &models.Volunteer{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(email),
		Phone:        strings.TrimSpace(req.Phone),
		Skills:       skills,
		Location:     strings.TrimSpace(req.Location),
		Availability: strings.TrimSpace(req.Availability),
	}
	if err := s.store.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, &ConflictError{Message: "Email already registered"}
		}
		return nil, err
	}

	s.logger.Info("volunteer registered", zap.String("volunteer_id", v.ID))
	s.events.Publish(ctx, models.EventVolunteerJoined, map[string]string{"id": v.ID, "location": v.Location})
	return v, nil
}

func (s *VolunteerService) UpdateStatus(ctx context.Context, req models.UpdateStatusRequest) (*models.Volunteer, error) {
	if err := validateStatusUpdate(req, volunteerStatuses); err != nil {
		return nil, err
	}

	v, err := s.store.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Volunteer not found"}
		}
		return nil, err
	}

	// the feed is public, so contact details stay out of it
	s.events.Publish(ctx, models.EventVolunteerUpdated, map[string]string{"id": v.ID, "status": v.Status})
	return v, nil
}

package services

import (
	"context"
	"strings"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/repository"
)

type SettingsService struct {
	store  repository.SettingsStore
	events EventPublisher
}

func NewSettingsService(store repository.SettingsStore, events EventPublisher) *SettingsService {
	if events == nil {
		events = nopPublisher{}
	}
	return &SettingsService{store: store, events: events}
}

func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	return s.store.Get(ctx)
}

// Update applies a partial update. Every quick link must carry an id,
// title and url or nothing is changed.
func (s *SettingsService) Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.SiteSettings, error) {
	if req.QuickLinks != nil {
		for _, link := range *req.QuickLinks {
			if strings.TrimSpace(link.ID) == "" || strings.TrimSpace(link.Title) == "" || strings.TrimSpace(link.URL) == "" {
				return nil, &ValidationError{Fields: map[string]string{
					"quickLinks": "Each quick link must have id, title, and url",
				}}
			}
		}
	}

	settings, err := s.store.Update(ctx, req)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, models.EventSettingsUpdated, settings)
	return settings, nil
}

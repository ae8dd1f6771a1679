package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// ReportStore persists crisis and disinformation reports.
type ReportStore interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.CrisisReport, error)
	Get(ctx context.Context, id string) (*models.CrisisReport, error)
	Create(ctx context.Context, report *models.CrisisReport) error
	UpdateStatus(ctx context.Context, id, status string) (*models.CrisisReport, error)
	SetFactCheck(ctx context.Context, id string, result models.FactCheckResult) (*models.CrisisReport, error)
}

type VolunteerStore interface {
	List(ctx context.Context, filter models.VolunteerFilter) ([]models.Volunteer, error)
	Create(ctx context.Context, v *models.Volunteer) error
	UpdateStatus(ctx context.Context, id, status string) (*models.Volunteer, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.SiteSettings, error)
}

// filterValue normalizes a query filter; "" and "all" mean no filter.
func filterValue(v string) string {
	if v == "all" {
		return ""
	}
	return v
}

func reportMatches(r models.CrisisReport, f models.ReportFilter) bool {
	if t := filterValue(f.Type); t != "" && string(r.Type) != t {
		return false
	}
	if s := filterValue(f.Status); s != "" && r.Status != s {
		return false
	}
	if s := filterValue(f.Severity); s != "" && string(r.Severity) != s {
		return false
	}
	return true
}

func volunteerMatches(v models.Volunteer, f models.VolunteerFilter) bool {
	if s := filterValue(f.Status); s != "" && v.Status != s {
		return false
	}
	if f.Search == "" {
		return true
	}

	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(v.Name), q) || strings.Contains(strings.ToLower(v.Location), q) {
		return true
	}
	for _, skill := range v.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// MemoryReportRepo is the default ReportStore when no database is
// configured. Contents are lost on restart.
type MemoryReportRepo struct {
	mu      sync.RWMutex
	reports []models.CrisisReport
	now     func() time.Time
}

func NewMemoryReportRepo(seed []models.CrisisReport) *MemoryReportRepo {
	reports := make([]models.CrisisReport, 0, len(seed))
	for _, r := range seed {
		reports = append(reports, cloneReport(r))
	}
	return &MemoryReportRepo{reports: reports, now: time.Now}
}

func cloneReport(r models.CrisisReport) models.CrisisReport {
	if r.FactCheck != nil {
		fc := *r.FactCheck
		fc.Sources = cloneStrings(fc.Sources)
		fc.KeyPoints = cloneStrings(fc.KeyPoints)
		r.FactCheck = &fc
	}
	return r
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func (r *MemoryReportRepo) List(_ context.Context, filter models.ReportFilter) ([]models.CrisisReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CrisisReport, 0, len(r.reports))
	for _, rep := range r.reports {
		if reportMatches(rep, filter) {
			out = append(out, cloneReport(rep))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	return out, nil
}

func (r *MemoryReportRepo) Get(_ context.Context, id string) (*models.CrisisReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	rep := cloneReport(r.reports[i])
	return &rep, nil
}

func (r *MemoryReportRepo) Create(_ context.Context, report *models.CrisisReport) error {
	report.ID = uuid.NewString()
	report.Status = models.ReportStatusPending
	report.ReportedAt = r.now().UTC()
	report.FactCheck = nil

	r.mu.Lock()
	r.reports = append(r.reports, cloneReport(*report))
	r.mu.Unlock()
	return nil
}

func (r *MemoryReportRepo) UpdateStatus(_ context.Context, id, status string) (*models.CrisisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r.reports[i].Status = status
	rep := cloneReport(r.reports[i])
	return &rep, nil
}

func (r *MemoryReportRepo) SetFactCheck(_ context.Context, id string, result models.FactCheckResult) (*models.CrisisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r.reports[i].FactCheck = &result
	r.reports[i] = cloneReport(r.reports[i])
	rep := cloneReport(r.reports[i])
	return &rep, nil
}

func (r *MemoryReportRepo) indexOf(id string) int {
	for i := range r.reports {
		if r.reports[i].ID == id {
			return i
		}
	}
	return -1
}

type MemoryVolunteerRepo struct {
	mu         sync.RWMutex
	volunteers []models.Volunteer
	now        func() time.Time
}

func NewMemoryVolunteerRepo(seed []models.Volunteer) *MemoryVolunteerRepo {
	volunteers := make([]models.Volunteer, 0, len(seed))
	for _, v := range seed {
		volunteers = append(volunteers, cloneVolunteer(v))
	}
	return &MemoryVolunteerRepo{volunteers: volunteers, now: time.Now}
}

func cloneVolunteer(v models.Volunteer) models.Volunteer {
	v.Skills = cloneStrings(v.Skills)
	return v
}

// List returns volunteers in registration order.
func (r *MemoryVolunteerRepo) List(_ context.Context, filter models.VolunteerFilter) ([]models.Volunteer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Volunteer, 0, len(r.volunteers))
	for _, v := range r.volunteers {
		if volunteerMatches(v, filter) {
			out = append(out, cloneVolunteer(v))
		}
	}
	return out, nil
}

func (r *MemoryVolunteerRepo) Create(_ context.Context, v *models.Volunteer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.volunteers {
		if existing.Email == v.Email {
			return ErrDuplicateEmail
		}
	}

	v.ID = uuid.NewString()
	v.Status = models.VolunteerStatusPending
	v.JoinDate = r.now().UTC().Format("2006-01-02")
	r.volunteers = append(r.volunteers, cloneVolunteer(*v))
	return nil
}

func (r *MemoryVolunteerRepo) UpdateStatus(_ context.Context, id, status string) (*models.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.volunteers {
		if r.volunteers[i].ID == id {
			r.volunteers[i].Status = status
			v := cloneVolunteer(r.volunteers[i])
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

type MemorySettingsRepo struct {
	mu       sync.RWMutex
	settings models.SiteSettings
}

func NewMemorySettingsRepo(seed models.SiteSettings) *MemorySettingsRepo {
	return &MemorySettingsRepo{settings: cloneSettings(seed)}
}

func cloneSettings(s models.SiteSettings) models.SiteSettings {
	links := make([]models.QuickLink, len(s.QuickLinks))
	copy(links, s.QuickLinks)
	s.QuickLinks = links
	return s
}

func (r *MemorySettingsRepo) Get(_ context.Context) (*models.SiteSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := cloneSettings(r.settings)
	return &s, nil
}

func (r *MemorySettingsRepo) Update(_ context.Context, req models.UpdateSettingsRequest) (*models.SiteSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.BannerText != nil {
		r.settings.BannerText = *req.BannerText
	}
	if req.QuickLinks != nil {
		r.settings.QuickLinks = cloneSettings(models.SiteSettings{QuickLinks: *req.QuickLinks}).QuickLinks
	}
	s := cloneSettings(r.settings)
	return &s, nil
}

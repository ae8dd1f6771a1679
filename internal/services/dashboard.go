package services

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/repository"
)

// DashboardService reports headline figures. Incident, affected-people and
// response-rate figures drift slightly on every read so the public
// dashboard looks live; report and volunteer counts come from the stores.
type DashboardService struct {
	reports    repository.ReportStore
	volunteers repository.VolunteerStore
	baseline   models.DashboardStats
	now        func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewDashboardService(reports repository.ReportStore, volunteers repository.VolunteerStore, baseline models.DashboardStats) *DashboardService {
	return &DashboardService{
		reports:    reports,
		volunteers: volunteers,
		baseline:   baseline,
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, time.Time, error) {
	reports, err := s.reports.List(ctx, models.ReportFilter{})
	if err != nil {
		return nil, time.Time{}, err
	}
	volunteers, err := s.volunteers.List(ctx, models.VolunteerFilter{})
	if err != nil {
		return nil, time.Time{}, err
	}

	stats := s.baseline
	stats.RecentUpdates = append([]models.DashboardUpdate{}, s.baseline.RecentUpdates...)
	stats.CrisisMap.ActiveZones = append([]models.CrisisZone{}, s.baseline.CrisisMap.ActiveZones...)

	active := 0
	for _, r := range reports {
		if r.Status == models.ReportStatusPending || r.Status == models.ReportStatusVerified {
			active++
		}
	}
	stats.ActiveReports = active
	stats.TotalVolunteers = len(volunteers)

	s.mu.Lock()
	stats.ActiveIncidents += s.rng.IntN(3) - 1
	stats.PeopleAffected += s.rng.IntN(100) - 50
	stats.ResponseRate = math.Round((stats.ResponseRate+(s.rng.Float64()*2-1))*10) / 10
	s.mu.Unlock()

	return &stats, s.now().UTC(), nil
}

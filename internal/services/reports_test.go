package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/repository"
)

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recordingQueue struct {
	jobs []models.Job
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, job models.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// stalledQueue blocks every Enqueue until its context is done.
type stalledQueue struct{}

func (stalledQueue) Enqueue(ctx context.Context, _ models.Job) error {
	<-ctx.Done()
	return ctx.Err()
}

func validReportRequest(t models.ReportType) models.CreateReportRequest {
	return models.CreateReportRequest{
		Type:        t,
		Title:       "Bridge closed",
		Description: "Flood water over the bridge deck",
		Location:    "Guwahati, Assam",
		ReportedBy:  "Traffic police",
		Category:    "Infrastructure",
		Severity:    models.SeverityHigh,
	}
}

func TestReportServiceCreateValidation(t *testing.T) {
	svc := NewReportService(repository.NewMemoryReportRepo(nil), nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateReportRequest{Type: "rumour", Severity: "extreme"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	for _, field := range []string{"type", "severity", "title", "description", "location", "reportedBy", "category"} {
		require.Contains(t, vErr.Fields, field)
	}
}

func TestReportServiceCreateCrisis(t *testing.T) {
	events := &recordingPublisher{}
	queue := &recordingQueue{}
	svc := NewReportService(repository.NewMemoryReportRepo(nil), events, queue, zap.NewNop())

	report, err := svc.Create(context.Background(), validReportRequest(models.ReportCrisis))
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	require.Equal(t, models.ReportStatusPending, report.Status)
	require.Equal(t, []string{models.EventReportCreated}, events.types())
	require.Empty(t, queue.jobs)
}

func TestReportServiceCreateDisinformationQueuesFactCheck(t *testing.T) {
	queue := &recordingQueue{}
	svc := NewReportService(repository.NewMemoryReportRepo(nil), nil, queue, zap.NewNop())

	report, err := svc.Create(context.Background(), validReportRequest(models.ReportDisinformation))
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	require.Equal(t, models.JobReportFactCheck, queue.jobs[0].Type)
	require.Equal(t, report.ID, queue.jobs[0].ReferenceID)
}

func TestReportServiceCreateSurvivesQueueFailure(t *testing.T) {
	queue := &recordingQueue{err: errors.New("redis down")}
	svc := NewReportService(repository.NewMemoryReportRepo(nil), nil, queue, zap.NewNop())

	_, err := svc.Create(context.Background(), validReportRequest(models.ReportDisinformation))
	require.NoError(t, err)
}

func TestReportServiceUpdateStatus(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewReportService(repository.NewMemoryReportRepo(repository.SeedReports()), events, nil, zap.NewNop())
	ctx := context.Background()

	report, err := svc.UpdateStatus(ctx, models.UpdateStatusRequest{ID: "1", Status: models.ReportStatusResolved})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, report.Status)
	require.Equal(t, []string{models.EventReportUpdated}, events.types())

	_, err = svc.UpdateStatus(ctx, models.UpdateStatusRequest{ID: "1"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "status")

	_, err = svc.UpdateStatus(ctx, models.UpdateStatusRequest{ID: "1", Status: "archived"})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.UpdateStatus(ctx, models.UpdateStatusRequest{ID: "404", Status: models.ReportStatusVerified})
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestReportServiceApplyFactCheck(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewReportService(repository.NewMemoryReportRepo(repository.SeedReports()), events, nil, zap.NewNop())

	report, err := svc.ApplyFactCheck(context.Background(), "2", FactCheckFallback())
	require.NoError(t, err)
	require.Equal(t, models.VerdictUnverified, report.FactCheck.Verdict)
	require.Equal(t, []string{models.EventReportFactChecked}, events.types())

	_, err = svc.ApplyFactCheck(context.Background(), "missing", FactCheckFallback())
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestVolunteerServiceRegister(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewVolunteerService(repository.NewMemoryVolunteerRepo(repository.SeedVolunteers()), events, zap.NewNop())
	ctx := context.Background()

	v, err := svc.Register(ctx, models.RegisterVolunteerRequest{
		Name:         "Meera Nair",
		Email:        "Meera.Nair@Example.org",
		Phone:        "+91 99999 11111",
		Skills:       models.StringList{"Counselling", "  "},
		Location:     "Thrissur, Kerala",
		Availability: "Weekends",
	})
	require.NoError(t, err)
	require.Equal(t, "meera.nair@example.org", v.Email)
	require.Equal(t, []string{"Counselling"}, v.Skills)
	require.Equal(t, models.VolunteerStatusPending, v.Status)
	require.Equal(t, []string{models.EventVolunteerJoined}, events.types())

	_, err = svc.Register(ctx, models.RegisterVolunteerRequest{
		Name: "Sarah again", Email: "sarah.kumar@email.com", Phone: "1", Skills: models.StringList{"x"}, Location: "y", Availability: "z",
	})
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)

	_, err = svc.Register(ctx, models.RegisterVolunteerRequest{Email: "not-an-email"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "Invalid email format", vErr.Fields["email"])
	require.Contains(t, vErr.Fields, "skills")
}

func TestVolunteerServiceUpdateStatus(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewVolunteerService(repository.NewMemoryVolunteerRepo(repository.SeedVolunteers()), events, zap.NewNop())

	v, err := svc.UpdateStatus(context.Background(), models.UpdateStatusRequest{ID: "3", Status: models.VolunteerStatusActive})
	require.NoError(t, err)
	require.Equal(t, models.VolunteerStatusActive, v.Status)

	_, err = svc.UpdateStatus(context.Background(), models.UpdateStatusRequest{ID: "3", Status: models.ReportStatusResolved})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = svc.UpdateStatus(context.Background(), models.UpdateStatusRequest{ID: "99", Status: models.VolunteerStatusActive})
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)

	// only the successful update is announced
	require.Equal(t, []string{models.EventVolunteerUpdated}, events.types())
}

func TestSettingsServiceUpdate(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewSettingsService(repository.NewMemorySettingsRepo(repository.SeedSettings()), events)
	ctx := context.Background()

	bad := []models.QuickLink{{ID: "1", Title: "Contacts"}}
	_, err := svc.Update(ctx, models.UpdateSettingsRequest{QuickLinks: &bad})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Empty(t, events.types())

	current, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, current.QuickLinks, 3)

	banner := "Heatwave advisory in effect"
	updated, err := svc.Update(ctx, models.UpdateSettingsRequest{BannerText: &banner})
	require.NoError(t, err)
	require.Equal(t, banner, updated.BannerText)
	require.Len(t, updated.QuickLinks, 3)
	require.Equal(t, []string{models.EventSettingsUpdated}, events.types())
}

func TestDashboardServiceStats(t *testing.T) {
	reports := repository.NewMemoryReportRepo(repository.SeedReports())
	volunteers := repository.NewMemoryVolunteerRepo(repository.SeedVolunteers())
	baseline := repository.DashboardBaseline()
	svc := NewDashboardService(reports, volunteers, baseline)

	for i := 0; i < 50; i++ {
		stats, updated, err := svc.Stats(context.Background())
		require.NoError(t, err)
		require.False(t, updated.IsZero())

		require.InDelta(t, baseline.ActiveIncidents, stats.ActiveIncidents, 1)
		require.InDelta(t, baseline.PeopleAffected, stats.PeopleAffected, 50)
		require.InDelta(t, baseline.ResponseRate, stats.ResponseRate, 1.05)
		require.Equal(t, 3, stats.ActiveReports)
		require.Equal(t, 3, stats.TotalVolunteers)
		require.Equal(t, baseline.ReliefCenters, stats.ReliefCenters)
		require.Len(t, stats.CrisisMap.ActiveZones, 3)
	}

	_, err := reports.UpdateStatus(context.Background(), "1", models.ReportStatusResolved)
	require.NoError(t, err)
	stats, _, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.ActiveReports)
}

func TestReportService_CreateBoundsSlowQueue(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewReportService(repository.NewMemoryReportRepo(nil), events, stalledQueue{}, zap.NewNop())
	svc.enqueueTimeout = 20 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	report, err := svc.Create(ctx, validReportRequest(models.ReportDisinformation))
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, []string{models.EventReportCreated}, events.types())
}

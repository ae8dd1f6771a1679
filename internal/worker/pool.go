package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
)

const maxAttempts = 3

// FactChecker runs the fact-check pipeline.
type FactChecker interface {
	FactCheck(ctx context.Context, message string, contentType models.ContentType) (*models.AssistantReply, error)
}

// ReportUpdater loads reports and records fact-check outcomes on them.
type ReportUpdater interface {
	Get(ctx context.Context, id string) (*models.CrisisReport, error)
	ApplyFactCheck(ctx context.Context, id string, result models.FactCheckResult) (*models.CrisisReport, error)
}

// Pool fact-checks disinformation reports in the background.
type Pool struct {
	queue       Queue
	checker     FactChecker
	reports     ReportUpdater
	workerCount int
	backoff     time.Duration
	logger      *zap.Logger
	wg          sync.WaitGroup
}

func NewPool(queue Queue, checker FactChecker, reports ReportUpdater, workerCount int, logger *zap.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		queue:       queue,
		checker:     checker,
		reports:     reports,
		workerCount: workerCount,
		backoff:     time.Second,
		logger:      logger,
	}
}

// Start launches the workers. They exit when ctx is cancelled; Wait blocks
// until they have.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.worker(ctx, id)
		}(i)
	}
	p.logger.Info("started report workers", zap.Int("count", p.workerCount))
}

func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int) {
	log := p.logger.With(zap.Int("worker", id))
	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Debug("worker shutting down")
				return
			}
			log.Warn("failed to dequeue job", zap.Error(err))
			if !sleep(ctx, p.backoff) {
				return
			}
			continue
		}

		if job.Type != models.JobReportFactCheck {
			log.Warn("dropping job of unknown type", zap.String("job_id", job.ID), zap.String("type", job.Type))
			continue
		}

		if err := p.process(ctx, job); err != nil {
			log.Error("report fact-check failed", zap.String("job_id", job.ID), zap.String("report_id", job.ReferenceID), zap.Error(err))
		}
	}
}

func (p *Pool) process(ctx context.Context, job *models.Job) error {
	report, err := p.reports.Get(ctx, job.ReferenceID)
	if err != nil {
		var nf *services.NotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("failed to load report: %w", err)
	}

	claim := strings.TrimSpace(report.Title + ". " + report.Description)

	var result models.FactCheckResult
	for job.Attempt = 1; ; job.Attempt++ {
		reply, err := p.checker.FactCheck(ctx, claim, models.ContentText)
		if err == nil && reply.FactCheck != nil {
			result = *reply.FactCheck
			break
		}

		if job.Attempt >= maxAttempts {
			p.logger.Warn("fact-check retries exhausted, storing fallback",
				zap.String("report_id", report.ID), zap.Error(err))
			result = services.FactCheckFallback()
			break
		}

		wait := time.Duration(1<<uint(job.Attempt-1)) * p.backoff
		p.logger.Info("fact-check attempt failed, retrying",
			zap.String("report_id", report.ID), zap.Int("attempt", job.Attempt), zap.Duration("backoff", wait), zap.Error(err))
		if !sleep(ctx, wait) {
			return ctx.Err()
		}
	}

	if _, err := p.reports.ApplyFactCheck(ctx, report.ID, result); err != nil {
		return fmt.Errorf("failed to store fact-check: %w", err)
	}
	p.logger.Info("report fact-checked", zap.String("report_id", report.ID), zap.String("verdict", string(result.Verdict)))
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

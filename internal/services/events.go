package services

import (
	"context"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// EventPublisher fans a live update out to connected dashboard clients.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

// JobEnqueuer hands background work to the worker pool.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, job models.Job) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, interface{}) {}

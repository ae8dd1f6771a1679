package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// Queue carries report jobs from the API to the worker pool.
type Queue interface {
	Enqueue(ctx context.Context, job models.Job) error
	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (*models.Job, error)
}

func queueName(jobType string) string {
	return "queue:" + jobType
}

// RedisQueue is a Redis list shared by every replica.
type RedisQueue struct {
	client *redis.Client
	key    string
	poll   time.Duration
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client, key: queueName(models.JobReportFactCheck), poll: 5 * time.Second}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return q.client.LPush(ctx, q.key, data).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context) (*models.Job, error) {
	for {
		result, err := q.client.BRPop(ctx, q.poll, q.key).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			return nil, fmt.Errorf("failed to parse job: %w", err)
		}
		return &job, nil
	}
}

// ChanQueue is the in-process queue used when Redis is not configured.
// Jobs still queued at shutdown are lost.
type ChanQueue struct {
	jobs chan models.Job
}

func NewChanQueue(size int) *ChanQueue {
	return &ChanQueue{jobs: make(chan models.Job, size)}
}

// ErrQueueFull is returned by ChanQueue.Enqueue when the buffer has no room.
var ErrQueueFull = errors.New("job queue is full")

// Enqueue never blocks: a full buffer drops the job with ErrQueueFull.
func (q *ChanQueue) Enqueue(ctx context.Context, job models.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *ChanQueue) Dequeue(ctx context.Context) (*models.Job, error) {
	select {
	case job := <-q.jobs:
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

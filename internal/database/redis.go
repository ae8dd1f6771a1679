package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients splits command traffic (verdict cache, job queue) from the
// long-lived live-update subscription.
type RedisClients struct {
	Data   *redis.Client
	PubSub *redis.Client
}

func NewRedisClients(ctx context.Context, redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dataClient := redis.NewClient(opt)
	if err := dataClient.Ping(ctx).Err(); err != nil {
		dataClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (data): %w", err)
	}

	pubsubOpt := *opt
	pubsubClient := redis.NewClient(&pubsubOpt)
	if err := pubsubClient.Ping(ctx).Err(); err != nil {
		dataClient.Close()
		pubsubClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (pubsub): %w", err)
	}

	return &RedisClients{
		Data:   dataClient,
		PubSub: pubsubClient,
	}, nil
}

func (r *RedisClients) Ping(ctx context.Context) error {
	return r.Data.Ping(ctx).Err()
}

func (r *RedisClients) Close() {
	r.Data.Close()
	r.PubSub.Close()
}

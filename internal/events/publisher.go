// Package events publishes board events to Redis pub/sub for the gateway to
// forward over SSE and for notification workers to act on.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements board.EventPublisher on a Redis client.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a configured publisher.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish marshals event to JSON and publishes it on channel.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

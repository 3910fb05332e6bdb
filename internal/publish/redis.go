package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/models"
)

// RedisPublisher appends edge records to a Redis stream so downstream
// consumers (alerting, dashboards) can pick them up without polling the
// database
type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisPublisher connects to Redis and verifies the connection
func NewRedisPublisher(ctx context.Context, cfg config.RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPublisher{
		client: client,
		stream: cfg.Stream,
		maxLen: cfg.MaxLen,
	}, nil
}

// Publish appends one record to the stream
func (p *RedisPublisher) Publish(ctx context.Context, record Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode edge record: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"edge_id": record.Edge.ID.String(),
			"league":  string(record.Edge.League),
			"tier":    string(record.Edge.Tier),
			"payload": payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to redis stream: %w", err)
	}

	return nil
}

// PublishAll appends a batch of edges with their stakes, pairing by edge ID
func (p *RedisPublisher) PublishAll(ctx context.Context, edges []*models.BettingEdge, stakes []*models.StakeRecommendation) error {
	for _, record := range pairRecords(edges, stakes) {
		if err := p.Publish(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shopgrid/platform/internal/api/metrics"
	"github.com/shopgrid/platform/internal/core/domain"
)

const defaultMaxLen = 100_000

// StreamAdder is the subset of the Redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Publisher appends user lifecycle events to a Redis stream.
type Publisher struct {
	client StreamAdder
	stream string
	maxLen int64
}

func NewPublisher(client StreamAdder, stream string) *Publisher {
	return &Publisher{client: client, stream: stream, maxLen: defaultMaxLen}
}

// PublishUserCreated appends ev to the stream. The stream is trimmed
// approximately to maxLen entries.
func (p *Publisher) PublishUserCreated(ctx context.Context, ev domain.UserCreated) error {
	values, err := encodeUserCreated(ev)
	if err != nil {
		metrics.QueueEventsPublishedTotal.WithLabelValues("error").Inc()
		return err
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		metrics.QueueEventsPublishedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("publish %s: %w", domain.PatternUserCreate, err)
	}
	metrics.QueueEventsPublishedTotal.WithLabelValues("ok").Inc()
	return nil
}

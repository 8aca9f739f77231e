package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopgrid/platform/internal/api/metrics"
	"github.com/shopgrid/platform/internal/core/ports"
)

const (
	defaultBlock     = 5 * time.Second
	defaultBatch     = 32
	defaultClaimIdle = time.Minute
	ackTimeout       = 5 * time.Second
)

// StreamClient is the subset of the Redis client the consumer needs.
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// Deduper records processed event ids.
type Deduper interface {
	IsDuplicate(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// ConsumerConfig names the stream position of one consumer.
type ConsumerConfig struct {
	Stream   string
	Group    string
	Consumer string
	Workers  int
	// ClaimIdle is how long an entry may sit unacknowledged with another
	// consumer before it is reclaimed.
	ClaimIdle time.Duration
	Block     time.Duration
}

// Consumer reads user lifecycle events from a Redis stream consumer group.
// An entry is acknowledged only after the handler succeeds, so a crash
// between read and ack leads to redelivery; the handler and the dedup store
// make redelivery harmless.
type Consumer struct {
	client     StreamClient
	cfg        ConsumerConfig
	handler    ports.UserEventHandler
	dedup      Deduper
	dispatcher *Dispatcher
	log        zerolog.Logger
}

func NewConsumer(client StreamClient, cfg ConsumerConfig, handler ports.UserEventHandler, dedup Deduper, log zerolog.Logger) *Consumer {
	if cfg.Block <= 0 {
		cfg.Block = defaultBlock
	}
	if cfg.ClaimIdle <= 0 {
		cfg.ClaimIdle = defaultClaimIdle
	}
	c := &Consumer{
		client:  client,
		cfg:     cfg,
		handler: handler,
		dedup:   dedup,
		log:     log.With().Str("stream", cfg.Stream).Str("consumer", cfg.Consumer).Logger(),
	}
	c.dispatcher = NewDispatcher(cfg.Workers, c.process, c.log)
	return c
}

// Run creates the consumer group if needed and consumes until ctx is
// cancelled. It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.dispatcher.Start(ctx)
	defer c.dispatcher.Wait()

	c.log.Info().Str("group", c.cfg.Group).Msg("user queue consumer started")
	lastClaim := time.Time{}
	for ctx.Err() == nil {
		if time.Since(lastClaim) >= c.cfg.ClaimIdle {
			c.reclaim(ctx)
			lastClaim = time.Now()
		}
		if err := c.readBatch(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			c.log.Error().Err(err).Msg("read from user queue failed")
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
	}
	c.log.Info().Msg("user queue consumer stopped")
	return nil
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s: %w", c.cfg.Group, err)
	}
	return nil
}

func (c *Consumer) readBatch(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Streams:  []string{c.cfg.Stream, ">"},
		Count:    defaultBatch,
		Block:    c.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, s := range streams {
		c.dispatch(ctx, s.Messages)
	}
	return nil
}

// reclaim takes over entries left pending by consumers that died before
// acknowledging them.
func (c *Consumer) reclaim(ctx context.Context) {
	start := "0-0"
	for {
		msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.cfg.Stream,
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			MinIdle:  c.cfg.ClaimIdle,
			Start:    start,
			Count:    defaultBatch,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				c.log.Warn().Err(err).Msg("reclaim pending entries failed")
			}
			return
		}
		if len(msgs) > 0 {
			metrics.QueueEventsReclaimedTotal.Add(float64(len(msgs)))
			c.dispatch(ctx, msgs)
		}
		if next == "0-0" || next == "" || len(msgs) == 0 {
			return
		}
		start = next
	}
}

func (c *Consumer) dispatch(ctx context.Context, msgs []redis.XMessage) {
	for _, msg := range msgs {
		ev, err := decodeUserCreated(msg.Values)
		if err != nil {
			// Malformed entries can never succeed; acknowledge and drop.
			metrics.QueueEventsProcessedTotal.WithLabelValues("malformed").Inc()
			c.log.Error().Err(err).Str("message_id", msg.ID).Msg("dropping malformed user queue entry")
			c.ack(ctx, msg.ID)
			continue
		}
		if !c.dispatcher.Enqueue(ctx, Delivery{MessageID: msg.ID, Event: ev}) {
			return
		}
	}
}

// process runs on a dispatcher worker.
func (c *Consumer) process(ctx context.Context, d Delivery) error {
	start := time.Now()
	result := "ok"
	defer func() {
		metrics.QueueEventsProcessedTotal.WithLabelValues(result).Inc()
		metrics.QueueProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	dup, err := c.dedup.IsDuplicate(ctx, d.Event.EventID)
	if err != nil {
		c.log.Warn().Err(err).Str("event_id", d.Event.EventID).Msg("dedup check failed, processing anyway")
	} else if dup {
		result = "duplicate"
		c.ack(ctx, d.MessageID)
		return nil
	}

	if err := c.handler.HandleUserCreated(ctx, d.Event); err != nil {
		result = "error"
		return fmt.Errorf("handle %s: %w", d.MessageID, err)
	}

	if err := c.dedup.Mark(ctx, d.Event.EventID); err != nil {
		c.log.Warn().Err(err).Str("event_id", d.Event.EventID).Msg("failed to set dedup key")
	}
	c.ack(ctx, d.MessageID)
	return nil
}

func (c *Consumer) ack(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ackTimeout)
	defer cancel()
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, id).Err(); err != nil {
		c.log.Warn().Err(err).Str("message_id", id).Msg("ack failed, entry will be redelivered")
	}
}

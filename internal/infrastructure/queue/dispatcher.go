package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shopgrid/platform/internal/api/metrics"
	"github.com/shopgrid/platform/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Delivery is one stream entry handed to a worker.
type Delivery struct {
	MessageID string
	Event     domain.UserCreated
}

// ProcessFunc handles a single delivery.
type ProcessFunc func(ctx context.Context, d Delivery) error

// Dispatcher routes deliveries to a fixed set of workers by hashing the user
// id, so events for the same user are handled in order.
type Dispatcher struct {
	workers []chan Delivery
	process ProcessFunc
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, process ProcessFunc, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Delivery, numWorkers),
		process: process,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Delivery, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Enqueue sends a delivery to the worker responsible for its user. It blocks
// while that worker's buffer is full, and gives up when ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, del Delivery) bool {
	idx := d.shardIndex(del.Event.UserID)
	depth := metrics.QueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- del:
		return true
	case <-ctx.Done():
		depth.Dec()
		return false
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Delivery) {
	defer d.wg.Done()
	depth := metrics.QueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case del, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.process(ctx, del); err != nil {
				d.log.Error().Err(err).
					Str("message_id", del.MessageID).
					Str("user_id", del.Event.UserID).
					Int("worker_id", id).
					Msg("user event processing failed")
			}
		}
	}
}

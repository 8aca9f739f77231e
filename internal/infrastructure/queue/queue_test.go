package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopgrid/platform/internal/core/domain"
)

type fakeStream struct {
	mu    sync.Mutex
	added []*redis.XAddArgs
	acked []string
	err   error
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.added = append(f.added, a)
	cmd.SetVal("1-0")
	return cmd
}

func (f *fakeStream) XGroupCreateMkStream(ctx context.Context, _, _, _ string) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetErr(errors.New("BUSYGROUP Consumer Group name already exists"))
	return cmd
}

func (f *fakeStream) XReadGroup(ctx context.Context, _ *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	cmd := redis.NewXStreamSliceCmd(ctx)
	cmd.SetErr(redis.Nil)
	return cmd
}

func (f *fakeStream) XAutoClaim(ctx context.Context, _ *redis.XAutoClaimArgs) *redis.XAutoClaimCmd {
	cmd := redis.NewXAutoClaimCmd(ctx)
	cmd.SetVal(nil, "0-0")
	return cmd
}

func (f *fakeStream) XAck(ctx context.Context, _, _ string, ids ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, ids...)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(ids)))
	return cmd
}

func (f *fakeStream) ackedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.acked...)
}

type fakeDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeDedup() *fakeDedup { return &fakeDedup{seen: make(map[string]bool)} }

func (d *fakeDedup) IsDuplicate(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[id], nil
}

func (d *fakeDedup) Mark(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[id] = true
	return nil
}

type recordingHandler struct {
	mu     sync.Mutex
	events []domain.UserCreated
	err    error
}

func (h *recordingHandler) HandleUserCreated(_ context.Context, ev domain.UserCreated) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.events = append(h.events, ev)
	return nil
}

func sampleEvent() domain.UserCreated {
	return domain.UserCreated{
		EventID:      "evt-1",
		UserID:       "user-1",
		Email:        "a@x.io",
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Roles:        []domain.Role{domain.RoleUser},
		OccurredAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_PublishUserCreated(t *testing.T) {
	stream := &fakeStream{}
	pub := NewPublisher(stream, "user_queue")

	if err := pub.PublishUserCreated(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(stream.added) != 1 {
		t.Fatalf("expected one XADD, got %d", len(stream.added))
	}
	args := stream.added[0]
	if args.Stream != "user_queue" || !args.Approx {
		t.Fatalf("unexpected XADD args: %+v", args)
	}

	ev, err := decodeUserCreated(args.Values.(map[string]any))
	if err != nil {
		t.Fatalf("decode published entry: %v", err)
	}
	want := sampleEvent()
	if ev.EventID != want.EventID || ev.UserID != want.UserID || ev.PasswordHash != want.PasswordHash || !ev.OccurredAt.Equal(want.OccurredAt) {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestPublisher_Error(t *testing.T) {
	pub := NewPublisher(&fakeStream{err: errors.New("connection refused")}, "user_queue")
	if err := pub.PublishUserCreated(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeUserCreated_Malformed(t *testing.T) {
	tests := map[string]map[string]any{
		"wrong pattern": {fieldEventID: "e", fieldPattern: "user.delete", fieldPayload: `{"id":"u"}`},
		"missing id":    {fieldPattern: "user.create", fieldPayload: `{"id":"u"}`},
		"bad json":      {fieldEventID: "e", fieldPattern: "user.create", fieldPayload: `{`},
		"no user":       {fieldEventID: "e", fieldPattern: "user.create", fieldPayload: `{}`},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := decodeUserCreated(values); !errors.Is(err, ErrMalformedMessage) {
				t.Fatalf("expected ErrMalformedMessage, got %v", err)
			}
		})
	}
}

func TestConsumer_ProcessIsIdempotent(t *testing.T) {
	stream := &fakeStream{}
	handler := &recordingHandler{}
	c := NewConsumer(stream, ConsumerConfig{Stream: "user_queue", Group: "user-service", Consumer: "c1"}, handler, newFakeDedup(), zerolog.Nop())
	ctx := context.Background()

	d := Delivery{MessageID: "1-0", Event: sampleEvent()}
	if err := c.process(ctx, d); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	d.MessageID = "1-1"
	if err := c.process(ctx, d); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if len(handler.events) != 1 {
		t.Fatalf("expected handler to run once, ran %d times", len(handler.events))
	}
	if acked := stream.ackedIDs(); len(acked) != 2 {
		t.Fatalf("expected both entries acknowledged, got %v", acked)
	}
}

func TestConsumer_ProcessFailureLeavesPending(t *testing.T) {
	stream := &fakeStream{}
	handler := &recordingHandler{err: errors.New("db down")}
	dedup := newFakeDedup()
	c := NewConsumer(stream, ConsumerConfig{Stream: "user_queue", Group: "user-service", Consumer: "c1"}, handler, dedup, zerolog.Nop())

	if err := c.process(context.Background(), Delivery{MessageID: "1-0", Event: sampleEvent()}); err == nil {
		t.Fatalf("expected error")
	}
	if acked := stream.ackedIDs(); len(acked) != 0 {
		t.Fatalf("failed entry must stay pending, acked %v", acked)
	}
	if dup, _ := dedup.IsDuplicate(context.Background(), "evt-1"); dup {
		t.Fatalf("failed event must not be marked as processed")
	}
}

func TestConsumer_DispatchDropsMalformed(t *testing.T) {
	stream := &fakeStream{}
	c := NewConsumer(stream, ConsumerConfig{Stream: "user_queue", Group: "user-service", Consumer: "c1"}, &recordingHandler{}, newFakeDedup(), zerolog.Nop())

	c.dispatch(context.Background(), []redis.XMessage{{ID: "9-0", Values: map[string]any{fieldPattern: "bogus"}}})
	if acked := stream.ackedIDs(); len(acked) != 1 || acked[0] != "9-0" {
		t.Fatalf("expected malformed entry acknowledged, got %v", acked)
	}
}

func TestConsumer_RunDeliversAndStops(t *testing.T) {
	stream := &fakeStream{}
	handler := &recordingHandler{}
	c := NewConsumer(stream, ConsumerConfig{
		Stream: "user_queue", Group: "user-service", Consumer: "c1", Workers: 2, Block: 10 * time.Millisecond,
	}, handler, newFakeDedup(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	values, err := encodeUserCreated(sampleEvent())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c.dispatch(ctx, []redis.XMessage{{ID: "1-0", Values: values}})

	deadline := time.After(2 * time.Second)
	for len(stream.ackedIDs()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("entry was not acknowledged")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop")
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(8, func(context.Context, Delivery) error { return nil }, zerolog.Nop())
	first := d.shardIndex("user-42")
	for i := 0; i < 10; i++ {
		if d.shardIndex("user-42") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

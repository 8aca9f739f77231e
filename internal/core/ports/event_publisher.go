package ports

import (
	"context"

	"github.com/shopgrid/platform/internal/core/domain"
)

// EventPublisher hands user lifecycle events to the message queue.
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, event domain.UserCreated) error
}

// UserEventHandler consumes user lifecycle events. Implementations must be
// idempotent: the same event may be delivered more than once.
type UserEventHandler interface {
	HandleUserCreated(ctx context.Context, event domain.UserCreated) error
}

package ports

import (
	"context"

	"github.com/shopgrid/platform/internal/core/domain"
)

// ProfileRepository persists user profiles owned by the user service.
type ProfileRepository interface {
	// Create stores p, returning domain.ErrUserExists on a duplicate id,
	// email or username.
	Create(ctx context.Context, p *domain.Profile) error
	// CreateIfAbsent stores p unless a profile with the same id already
	// exists. It reports whether a row was written. Another profile already
	// holding the email or username yields domain.ErrUserExists.
	CreateIfAbsent(ctx context.Context, p *domain.Profile) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	// List returns a page of profiles ordered newest first.
	List(ctx context.Context, page domain.Page) ([]*domain.Profile, error)
	Count(ctx context.Context) (int64, error)
}

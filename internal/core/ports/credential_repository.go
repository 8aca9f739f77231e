package ports

import (
	"context"

	"github.com/shopgrid/platform/internal/core/domain"
)

// CredentialRepository persists login accounts owned by the auth service.
type CredentialRepository interface {
	// FindByEmailOrUsername returns any account matching either key, or
	// domain.ErrUserNotFound.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.Credential, error)
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	// Create stores c. A uniqueness violation on email or username is
	// reported as domain.ErrUserExists.
	Create(ctx context.Context, c *domain.Credential) error
}

package ports

import (
	"context"

	"github.com/shopgrid/platform/internal/core/domain"
)

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User   *domain.Credential
	Token  string
	Claims domain.Claims
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	// ValidateToken returns nil for any token that fails verification.
	ValidateToken(token string) *domain.Claims
	Profile(ctx context.Context, claims domain.Claims) (*domain.Credential, error)
}

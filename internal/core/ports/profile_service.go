package ports

import (
	"context"

	"github.com/shopgrid/platform/internal/core/domain"
)

// CreateProfileInput is the admin payload for POST /users.
type CreateProfileInput struct {
	Email     string
	Username  string
	Password  string
	Roles     []domain.Role
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	Country   string
	Avatar    string
}

type ProfileService interface {
	UserEventHandler
	List(ctx context.Context, page domain.Page) (*domain.PageResult[*domain.Profile], error)
	Get(ctx context.Context, id string) (*domain.Profile, error)
	Create(ctx context.Context, in CreateProfileInput) (*domain.Profile, error)
}

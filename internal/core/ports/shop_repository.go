package ports

import (
	"context"

	"github.com/shopgrid/platform/internal/core/domain"
)

// ShopFilter narrows shop queries. Zero values mean no restriction.
type ShopFilter struct {
	OwnerID    string
	ActiveOnly bool
	// Text is matched against the name/description text index.
	Text string
}

// ShopPatch carries the fields of a partial update. Nil means unchanged.
type ShopPatch struct {
	Name         *string
	Description  *string
	IsActive     *bool
	Products     []string
	Location     *string
	ContactPhone *string
	ContactEmail *string
	Metadata     map[string]any
}

type ShopRepository interface {
	Create(ctx context.Context, s *domain.Shop) error
	FindByID(ctx context.Context, id string) (*domain.Shop, error)
	// Find returns a page of matching shops ordered newest first.
	Find(ctx context.Context, filter ShopFilter, page domain.Page) ([]*domain.Shop, error)
	Count(ctx context.Context, filter ShopFilter) (int64, error)
	Update(ctx context.Context, id string, patch ShopPatch) (*domain.Shop, error)
	Delete(ctx context.Context, id string) error
}

package ports

import (
	"context"

	"github.com/shopgrid/platform/internal/core/domain"
)

type CreateShopInput struct {
	Name         string
	Description  string
	IsActive     *bool // nil means active
	Products     []string
	Location     string
	ContactPhone string
	ContactEmail string
	Metadata     map[string]any
}

// ShopService holds the shop use cases. Mutations take the caller's
// verified claims; ownership checks happen here, not in the transport.
type ShopService interface {
	Create(ctx context.Context, caller domain.Claims, in CreateShopInput) (*domain.Shop, error)
	List(ctx context.Context, page domain.Page) (*domain.PageResult[*domain.Shop], error)
	Get(ctx context.Context, id string) (*domain.Shop, error)
	ListByOwner(ctx context.Context, caller domain.Claims, page domain.Page) (*domain.PageResult[*domain.Shop], error)
	Search(ctx context.Context, query string, page domain.Page) (*domain.PageResult[*domain.Shop], error)
	Update(ctx context.Context, caller domain.Claims, id string, patch ShopPatch) (*domain.Shop, error)
	Delete(ctx context.Context, caller domain.Claims, id string) error
}

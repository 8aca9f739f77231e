package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
)

type shopService struct {
	repo ports.ShopRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewShopService returns a ShopService backed by repo.
func NewShopService(repo ports.ShopRepository, log zerolog.Logger) ports.ShopService {
	return &shopService{repo: repo, log: log, now: time.Now}
}

func (s *shopService) Create(ctx context.Context, caller domain.Claims, in ports.CreateShopInput) (*domain.Shop, error) {
	if caller.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	products := in.Products
	if products == nil {
		products = []string{}
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	now := s.now().UTC()
	shop := &domain.Shop{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  in.Description,
		OwnerID:      caller.Subject,
		OwnerEmail:   caller.Email,
		AllowedRoles: append([]domain.Role(nil), domain.DefaultShopRoles...),
		IsActive:     isActive,
		Products:     products,
		Location:     in.Location,
		ContactPhone: in.ContactPhone,
		ContactEmail: in.ContactEmail,
		Metadata:     in.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	s.log.Info().Str("shop_id", shop.ID).Str("owner_id", shop.OwnerID).Msg("shop created")
	return shop, nil
}

// List returns active shops only.
func (s *shopService) List(ctx context.Context, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
	return s.find(ctx, ports.ShopFilter{ActiveOnly: true}, page)
}

func (s *shopService) Get(ctx context.Context, id string) (*domain.Shop, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrShopNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// ListByOwner includes the caller's inactive shops.
func (s *shopService) ListByOwner(ctx context.Context, caller domain.Claims, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
	if caller.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.find(ctx, ports.ShopFilter{OwnerID: caller.Subject}, page)
}

func (s *shopService) Search(ctx context.Context, query string, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}
	return s.find(ctx, ports.ShopFilter{Text: query, ActiveOnly: true}, page)
}

func (s *shopService) Update(ctx context.Context, caller domain.Claims, id string, patch ports.ShopPatch) (*domain.Shop, error) {
	if _, err := s.authorize(ctx, caller, id); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *shopService) Delete(ctx context.Context, caller domain.Claims, id string) error {
	if _, err := s.authorize(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("shop_id", id).Str("by", caller.Subject).Msg("shop deleted")
	return nil
}

// authorize loads the shop and checks the caller owns it or is an admin.
func (s *shopService) authorize(ctx context.Context, caller domain.Claims, id string) (*domain.Shop, error) {
	if caller.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	shop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shop.CanManage(caller) {
		return nil, domain.ErrForbidden
	}
	return shop, nil
}

func (s *shopService) find(ctx context.Context, filter ports.ShopFilter, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
	res, err := paginate(ctx, page,
		func(ctx context.Context, p domain.Page) ([]*domain.Shop, error) {
			return s.repo.Find(ctx, filter, p)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.Count(ctx, filter)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("find shops: %w", err)
	}
	return res, nil
}

package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
	"github.com/shopgrid/platform/internal/infrastructure/token"
)

type stubCredentialRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.Credential
	err   error
	calls int
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{byID: make(map[string]*domain.Credential)}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	clone := *c
	clone.Roles = append([]domain.Role(nil), c.Roles...)
	return &clone
}

func (r *stubCredentialRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.byID {
		if c.Email == email || c.Username == username {
			return cloneCredential(c), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.byID {
		if c.Email == email {
			return cloneCredential(c), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubCredentialRepo) FindByID(_ context.Context, id string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) Create(_ context.Context, c *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == c.Email || existing.Username == c.Username {
			return domain.ErrUserExists
		}
	}
	r.byID[c.ID] = cloneCredential(c)
	return nil
}

func (r *stubCredentialRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.UserCreated
	err    error
}

func (p *stubPublisher) PublishUserCreated(_ context.Context, e domain.UserCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *stubPublisher) published() []domain.UserCreated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.UserCreated(nil), p.events...)
}

type stubProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	err      error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.ID == p.ID || existing.Email == p.Email || existing.Username == p.Username {
			return domain.ErrUserExists
		}
	}
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *stubProfileRepo) CreateIfAbsent(_ context.Context, p *domain.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.profiles[p.ID]; ok {
		return false, nil
	}
	for _, existing := range r.profiles {
		if existing.Email == p.Email || existing.Username == p.Username {
			return false, domain.ErrUserExists
		}
	}
	clone := *p
	r.profiles[p.ID] = &clone
	return true, nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) sorted() []*domain.Profile {
	out := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubProfileRepo) List(_ context.Context, page domain.Page) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	all := r.sorted()
	start, end := page.Bounds(len(all))
	return all[start:end], nil
}

func (r *stubProfileRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.profiles)), nil
}

type stubShopRepo struct {
	mu    sync.Mutex
	shops map[string]*domain.Shop
}

func newStubShopRepo() *stubShopRepo {
	return &stubShopRepo{shops: make(map[string]*domain.Shop)}
}

func (r *stubShopRepo) Create(_ context.Context, s *domain.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.shops[s.ID] = &clone
	return nil
}

func (r *stubShopRepo) FindByID(_ context.Context, id string) (*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[id]
	if !ok {
		return nil, domain.ErrShopNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubShopRepo) matching(f ports.ShopFilter) []*domain.Shop {
	var out []*domain.Shop
	for _, s := range r.shops {
		if f.OwnerID != "" && s.OwnerID != f.OwnerID {
			continue
		}
		if f.ActiveOnly && !s.IsActive {
			continue
		}
		if f.Text != "" && !containsFold(s.Name+" "+s.Description, f.Text) {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubShopRepo) Find(_ context.Context, f ports.ShopFilter, page domain.Page) ([]*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.matching(f)
	start, end := page.Bounds(len(all))
	return all[start:end], nil
}

func (r *stubShopRepo) Count(_ context.Context, f ports.ShopFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

func (r *stubShopRepo) Update(_ context.Context, id string, p ports.ShopPatch) (*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[id]
	if !ok {
		return nil, domain.ErrShopNotFound
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	clone := *s
	return &clone, nil
}

func (r *stubShopRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shops[id]; !ok {
		return domain.ErrShopNotFound
	}
	delete(r.shops, id)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

var errStoreDown = errors.New("store unavailable")

func newTokenManager(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}

const testCost = bcrypt.MinCost

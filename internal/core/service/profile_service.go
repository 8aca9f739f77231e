package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
)

type profileService struct {
	repo ports.ProfileRepository
	cost int
	log  zerolog.Logger
	now  func() time.Time
}

// NewProfileService returns the user service's ProfileService.
func NewProfileService(repo ports.ProfileRepository, bcryptCost int, log zerolog.Logger) ports.ProfileService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &profileService{repo: repo, cost: bcryptCost, log: log, now: time.Now}
}

// HandleUserCreated materializes a profile for a newly registered account.
// Redelivery of an already applied event is a no-op.
func (s *profileService) HandleUserCreated(ctx context.Context, ev domain.UserCreated) error {
	if ev.UserID == "" {
		return fmt.Errorf("handle user created: %w: missing user id", domain.ErrInvalidInput)
	}
	roles := ev.Roles
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	created := ev.OccurredAt
	if created.IsZero() {
		created = s.now().UTC()
	}

	p := &domain.Profile{
		ID:           ev.UserID,
		Email:        ev.Email,
		Username:     ev.Username,
		PasswordHash: ev.PasswordHash,
		Roles:        roles,
		IsActive:     true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	inserted, err := s.repo.CreateIfAbsent(ctx, p)
	if errors.Is(err, domain.ErrUserExists) {
		// Retrying cannot clear the conflict; surface it and let the entry go.
		s.log.Error().
			Str("user_id", ev.UserID).
			Str("event_id", ev.EventID).
			Str("email", ev.Email).
			Str("username", ev.Username).
			Msg("profile email or username held by another user, event dropped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("handle user created: %w", err)
	}
	if !inserted {
		s.log.Debug().Str("user_id", ev.UserID).Str("event_id", ev.EventID).Msg("profile already exists, event skipped")
		return nil
	}
	s.log.Info().Str("user_id", ev.UserID).Msg("profile created")
	return nil
}

func (s *profileService) List(ctx context.Context, page domain.Page) (*domain.PageResult[*domain.Profile], error) {
	res, err := paginate(ctx, page, s.repo.List, s.repo.Count)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return res, nil
}

func (s *profileService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Create registers a profile directly, bypassing the auth service. Callers
// are expected to have checked for an admin role.
func (s *profileService) Create(ctx context.Context, in ports.CreateProfileInput) (*domain.Profile, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	for _, r := range roles {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, r)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("create profile: hash password: %w", err)
	}

	now := s.now().UTC()
	p := &domain.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Roles:        roles,
		IsActive:     true,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Address:      in.Address,
		City:         in.City,
		Country:      in.Country,
		Avatar:       in.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

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

const publishTimeout = 3 * time.Second

var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements registration, login and token validation.
type AuthService struct {
	repo      ports.CredentialRepository
	tokens    ports.TokenManager
	publisher ports.EventPublisher
	cost      int
	dummyHash []byte
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	repo ports.CredentialRepository,
	tokens ports.TokenManager,
	publisher ports.EventPublisher,
	bcryptCost int,
	log zerolog.Logger,
) (*AuthService, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	// Compared against on unknown-email logins so both failure paths pay
	// for one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("shopgrid-dummy-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		cost:      bcryptCost,
		dummyHash: dummy,
		log:       log,
		now:       time.Now,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	_, err := s.repo.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	cred := &domain.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Roles:        []domain.Role{domain.RoleUser},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// A concurrent registration that slipped past the lookup is rejected
	// here by the store's unique constraints.
	if err := s.repo.Create(ctx, cred); err != nil {
		return nil, err
	}

	s.publishUserCreated(ctx, cred)

	token, claims, err := s.tokens.Issue(cred.Claims())
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &ports.AuthResult{User: cred, Token: token, Claims: claims}, nil
}

// publishUserCreated never fails the registration. The publish outlives a
// cancelled request but is bounded by publishTimeout.
func (s *AuthService) publishUserCreated(ctx context.Context, cred *domain.Credential) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.UserCreated{
		EventID:      uuid.NewString(),
		UserID:       cred.ID,
		Email:        cred.Email,
		Username:     cred.Username,
		PasswordHash: cred.PasswordHash,
		Roles:        cred.Roles,
		OccurredAt:   cred.CreatedAt,
	}
	if err := s.publisher.PublishUserCreated(ctx, event); err != nil {
		s.log.Error().Err(err).
			Str("user_id", cred.ID).
			Str("event_id", event.EventID).
			Msg("failed to publish user created event")
	}
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !cred.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(cred.Claims())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.AuthResult{User: cred, Token: token, Claims: claims}, nil
}

func (s *AuthService) ValidateToken(token string) *domain.Claims {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	return &claims
}

// Profile reloads the account named by verified claims.
func (s *AuthService) Profile(ctx context.Context, claims domain.Claims) (*domain.Credential, error) {
	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.FindByID(ctx, claims.Subject)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

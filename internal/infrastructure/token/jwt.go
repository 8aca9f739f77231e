// Package token issues and verifies the HS256 bearer tokens shared by every
// service. One Manager is built at startup from configuration and injected
// wherever tokens are signed or checked.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopgrid/platform/internal/core/domain"
)

const DefaultTTL = 24 * time.Hour

var ErrMissingSecret = errors.New("token: signing secret is required")

type tokenClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a single shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(secret string, ttl time.Duration, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	return m, nil
}

// TTL reports the lifetime given to issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs claims, stamping iat with the current second and exp with
// iat+TTL. The returned claims are exactly what the token carries.
func (m *Manager) Issue(claims domain.Claims) (string, domain.Claims, error) {
	if claims.Subject == "" {
		return "", domain.Claims{}, fmt.Errorf("issue token: %w: empty subject", domain.ErrInvalidInput)
	}
	iat := m.now().UTC().Truncate(time.Second)
	exp := iat.Add(m.ttl).Truncate(time.Second)

	roles := make([]string, len(claims.Roles))
	for i, r := range claims.Roles {
		roles[i] = string(r)
	}

	tc := tokenClaims{
		Email: claims.Email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(m.secret)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("sign token: %w", err)
	}

	out := domain.Claims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Roles:     append(make([]domain.Role, 0, len(claims.Roles)), claims.Roles...),
		IssuedAt:  iat,
		ExpiresAt: exp,
	}
	return signed, out, nil
}

// Verify checks signature, algorithm and expiry. A token is rejected from
// the instant now reaches exp. Every failure wraps domain.ErrInvalidToken.
func (m *Manager) Verify(raw string) (domain.Claims, error) {
	var tc tokenClaims
	tkn, err := m.parser.ParseWithClaims(raw, &tc, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid || tc.Subject == "" {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	roles := make([]domain.Role, 0, len(tc.Roles))
	for _, r := range tc.Roles {
		role := domain.Role(r)
		if !role.Valid() {
			return domain.Claims{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, r)
		}
		roles = append(roles, role)
	}

	claims := domain.Claims{
		Subject:   tc.Subject,
		Email:     tc.Email,
		Roles:     roles,
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time.UTC()
	}
	return claims, nil
}

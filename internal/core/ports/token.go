package ports

import "github.com/shopgrid/platform/internal/core/domain"

// TokenIssuer signs identity claims.
type TokenIssuer interface {
	// Issue stamps iat/exp on claims and returns the signed token together
	// with the claims exactly as embedded.
	Issue(claims domain.Claims) (string, domain.Claims, error)
}

// TokenVerifier checks a token and recovers its claims.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}

// TokenManager both issues and verifies; the auth service needs both.
type TokenManager interface {
	TokenIssuer
	TokenVerifier
}

package domain

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")
var ErrUnauthorized = errors.New("unauthorized")
var ErrForbidden = errors.New("access forbidden")

// Claims is the authenticated identity embedded in a signed token.
type Claims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Roles     []Role    `json:"roles"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// HasAnyRole reports whether the claims carry at least one of roles.
func (c Claims) HasAnyRole(roles ...Role) bool {
	return HasAnyRole(c.Roles, roles...)
}

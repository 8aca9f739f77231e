package domain

import (
	"errors"
	"time"
)

// Role is a permission tag. An account may hold several.
type Role string

const (
	RoleUser       Role = "USER"
	RoleShopKeeper Role = "SHOP_KEEPER"
	RoleSubAdmin   Role = "SUB_ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleShopKeeper, RoleSubAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// HasAnyRole reports whether roles contains at least one of want.
func HasAnyRole(roles []Role, want ...Role) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}

// Credential is the stored account entity used for login. It is owned by
// the auth service; the password hash never leaves the process.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Claims builds the identity claims for c. Timestamps are left for the issuer.
func (c *Credential) Claims() Claims {
	roles := make([]Role, len(c.Roles))
	copy(roles, c.Roles)
	return Claims{Subject: c.ID, Email: c.Email, Roles: roles}
}

package handler

import (
	"github.com/shopgrid/platform/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type validateRequest struct {
	Token string `json:"token" validate:"required"`
}

type authResponse struct {
	User  *domain.Credential `json:"user"`
	Token string             `json:"token"`
}

type profileResponse struct {
	User *domain.Credential `json:"user"`
}

// claimsResponse mirrors the token payload, timestamps in unix seconds.
type claimsResponse struct {
	Sub   string        `json:"sub"`
	Email string        `json:"email"`
	Roles []domain.Role `json:"roles"`
	Iat   int64         `json:"iat"`
	Exp   int64         `json:"exp"`
}

func toClaimsResponse(c *domain.Claims) *claimsResponse {
	if c == nil {
		return nil
	}
	return &claimsResponse{
		Sub:   c.Subject,
		Email: c.Email,
		Roles: c.Roles,
		Iat:   c.IssuedAt.Unix(),
		Exp:   c.ExpiresAt.Unix(),
	}
}

// --- Users ---

type createUserRequest struct {
	Email     string   `json:"email"     validate:"required,email"`
	Username  string   `json:"username"  validate:"required,min=3,max=50"`
	Password  string   `json:"password"  validate:"required,min=6,max=72"`
	Roles     []string `json:"roles"     validate:"omitempty,dive,oneof=USER SHOP_KEEPER SUB_ADMIN SUPER_ADMIN"`
	FirstName string   `json:"firstName" validate:"omitempty,max=100"`
	LastName  string   `json:"lastName"  validate:"omitempty,max=100"`
	Phone     string   `json:"phone"     validate:"omitempty,max=30"`
	Address   string   `json:"address"   validate:"omitempty,max=255"`
	City      string   `json:"city"      validate:"omitempty,max=100"`
	Country   string   `json:"country"   validate:"omitempty,max=100"`
	Avatar    string   `json:"avatar"    validate:"omitempty,url"`
}

// --- Shops ---

type createShopRequest struct {
	Name         string         `json:"name"         validate:"required,max=120"`
	Description  string         `json:"description"  validate:"omitempty,max=2000"`
	IsActive     *bool          `json:"isActive"`
	Products     []string       `json:"products"`
	Location     string         `json:"location"     validate:"required,max=255"`
	ContactPhone string         `json:"contactPhone" validate:"required,max=30"`
	ContactEmail string         `json:"contactEmail" validate:"required,email"`
	Metadata     map[string]any `json:"metadata"`
}

type updateShopRequest struct {
	Name         *string        `json:"name"         validate:"omitempty,max=120"`
	Description  *string        `json:"description"  validate:"omitempty,max=2000"`
	IsActive     *bool          `json:"isActive"`
	Products     []string       `json:"products"`
	Location     *string        `json:"location"     validate:"omitempty,max=255"`
	ContactPhone *string        `json:"contactPhone" validate:"omitempty,max=30"`
	ContactEmail *string        `json:"contactEmail" validate:"omitempty,email"`
	Metadata     map[string]any `json:"metadata"`
}

type shopPage = domain.PageResult[*domain.Shop]

type userPage = domain.PageResult[*domain.Profile]

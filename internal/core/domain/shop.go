package domain

import (
	"errors"
	"time"
)

var ErrShopNotFound = errors.New("shop not found")

// DefaultShopRoles are the roles allowed to operate a newly created shop.
var DefaultShopRoles = []Role{RoleShopKeeper, RoleSubAdmin, RoleSuperAdmin}

// Shop is the shop aggregate stored by the shop service. OwnerID is a weak
// reference to a credential; it is taken from verified claims at creation
// and never checked against the credential store again.
type Shop struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	OwnerID      string         `json:"ownerId"`
	OwnerEmail   string         `json:"ownerEmail"`
	AllowedRoles []Role         `json:"allowedRoles"`
	IsActive     bool           `json:"isActive"`
	Products     []string       `json:"products"`
	Location     string         `json:"location"`
	ContactPhone string         `json:"contactPhone"`
	ContactEmail string         `json:"contactEmail"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// CanManage reports whether the caller may modify or delete the shop.
func (s *Shop) CanManage(c Claims) bool {
	return s.OwnerID == c.Subject || c.HasAnyRole(RoleSubAdmin, RoleSuperAdmin)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopgrid/platform/internal/core/domain"
)

func TestRBAC(t *testing.T) {
	admins := []domain.Role{domain.RoleSubAdmin, domain.RoleSuperAdmin}

	tests := []struct {
		name       string
		claims     *domain.Claims
		wantCode   int
		wantCalled bool
	}{
		{"holds one allowed role", &domain.Claims{Subject: "u1", Roles: []domain.Role{domain.RoleUser, domain.RoleSuperAdmin}}, http.StatusOK, true},
		{"holds none", &domain.Claims{Subject: "u1", Roles: []domain.Role{domain.RoleUser, domain.RoleShopKeeper}}, http.StatusForbidden, false},
		{"no roles at all", &domain.Claims{Subject: "u1"}, http.StatusForbidden, false},
		{"not authenticated", nil, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.claims != nil {
				SetClaims(c, *tt.claims)
			}

			called := false
			err := RBAC(admins...)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if called != tt.wantCalled {
				t.Fatalf("next called = %v, want %v", called, tt.wantCalled)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

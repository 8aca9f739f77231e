package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
	"github.com/shopgrid/platform/internal/infrastructure/http/handlers"
	"github.com/shopgrid/platform/internal/infrastructure/token"
)

type nopProfileService struct{}

func (nopProfileService) HandleUserCreated(context.Context, domain.UserCreated) error { return nil }

func (nopProfileService) List(_ context.Context, p domain.Page) (*domain.PageResult[*domain.Profile], error) {
	res := domain.NewPageResult[*domain.Profile](nil, 0, p.Normalize())
	return &res, nil
}

func (nopProfileService) Get(context.Context, string) (*domain.Profile, error) {
	return nil, domain.ErrUserNotFound
}

func (nopProfileService) Create(_ context.Context, in ports.CreateProfileInput) (*domain.Profile, error) {
	return &domain.Profile{ID: "p1", Email: in.Email, Username: in.Username}, nil
}

type nopShopService struct{}

func (nopShopService) Create(_ context.Context, caller domain.Claims, in ports.CreateShopInput) (*domain.Shop, error) {
	return &domain.Shop{ID: "s1", Name: in.Name, OwnerID: caller.Subject}, nil
}

func (nopShopService) List(_ context.Context, p domain.Page) (*domain.PageResult[*domain.Shop], error) {
	res := domain.NewPageResult[*domain.Shop](nil, 0, p.Normalize())
	return &res, nil
}

func (nopShopService) Get(context.Context, string) (*domain.Shop, error) {
	return nil, domain.ErrShopNotFound
}

func (s nopShopService) ListByOwner(ctx context.Context, _ domain.Claims, p domain.Page) (*domain.PageResult[*domain.Shop], error) {
	return s.List(ctx, p)
}

func (s nopShopService) Search(ctx context.Context, _ string, p domain.Page) (*domain.PageResult[*domain.Shop], error) {
	return s.List(ctx, p)
}

func (nopShopService) Update(context.Context, domain.Claims, string, ports.ShopPatch) (*domain.Shop, error) {
	return nil, domain.ErrForbidden
}

func (nopShopService) Delete(context.Context, domain.Claims, string) error { return nil }

func testDeps(t *testing.T) (Deps, *token.Manager) {
	t.Helper()
	tm, err := token.NewManager("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return Deps{Log: zerolog.Nop(), Verifier: tm, Health: handlers.NewHealthHandler("test")}, tm
}

func bearer(t *testing.T, tm *token.Manager, roles ...domain.Role) string {
	t.Helper()
	tok, _, err := tm.Issue(domain.Claims{Subject: "u1", Email: "u1@x.io", Roles: roles})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + tok
}

func serve(e *echo.Echo, method, target, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUserRouter_Gates(t *testing.T) {
	d, tm := testDeps(t)
	e := NewUserRouter(d, nopProfileService{})
	createBody := `{"email":"n@x.io","username":"newbie","password":"secret1"}`

	tests := []struct {
		name   string
		method string
		target string
		auth   string
		body   string
		want   int
	}{
		{"list without token", http.MethodGet, "/users", "", "", http.StatusUnauthorized},
		{"list with garbage token", http.MethodGet, "/users", "Bearer nope", "", http.StatusUnauthorized},
		{"list with token", http.MethodGet, "/users", bearer(t, tm, domain.RoleUser), "", http.StatusOK},
		{"get missing", http.MethodGet, "/users/zzz", bearer(t, tm, domain.RoleUser), "", http.StatusNotFound},
		{"create as user", http.MethodPost, "/users", bearer(t, tm, domain.RoleUser), createBody, http.StatusForbidden},
		{"create as admin", http.MethodPost, "/users", bearer(t, tm, domain.RoleSubAdmin), createBody, http.StatusCreated},
		{"health is public", http.MethodGet, "/health", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.target, tt.auth, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestShopRouter_Gates(t *testing.T) {
	d, tm := testDeps(t)
	e := NewShopRouter(d, nopShopService{})
	keeper := bearer(t, tm, domain.RoleShopKeeper)

	tests := []struct {
		name   string
		method string
		target string
		auth   string
		body   string
		want   int
	}{
		{"public list", http.MethodGet, "/shops", "", "", http.StatusOK},
		{"public search", http.MethodGet, "/shops/search?q=bread", "", "", http.StatusOK},
		{"public get", http.MethodGet, "/shops/abc", "", "", http.StatusNotFound},
		{"my shops needs token", http.MethodGet, "/shops/owner/my-shops", "", "", http.StatusUnauthorized},
		{"my shops with token", http.MethodGet, "/shops/owner/my-shops", keeper, "", http.StatusOK},
		{"create needs token", http.MethodPost, "/shops", "", `{"name":"Corner"}`, http.StatusUnauthorized},
		{"create with token", http.MethodPost, "/shops", keeper, `{"name":"Corner","location":"12 Main St","contactPhone":"+1-555-0100","contactEmail":"shop@x.io"}`, http.StatusCreated},
		{"update forbidden", http.MethodPatch, "/shops/abc", keeper, `{"name":"New"}`, http.StatusForbidden},
		{"delete with token", http.MethodDelete, "/shops/abc", keeper, "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.target, tt.auth, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopgrid/platform/internal/api/middleware"
	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
)

type stubShopService struct {
	createFn func(ctx context.Context, caller domain.Claims, in ports.CreateShopInput) (*domain.Shop, error)
	listFn   func(ctx context.Context, page domain.Page) (*domain.PageResult[*domain.Shop], error)
	updateFn func(ctx context.Context, caller domain.Claims, id string, patch ports.ShopPatch) (*domain.Shop, error)
	deleteFn func(ctx context.Context, caller domain.Claims, id string) error
}

func (s *stubShopService) Create(ctx context.Context, caller domain.Claims, in ports.CreateShopInput) (*domain.Shop, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubShopService) List(ctx context.Context, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
	return s.listFn(ctx, page)
}

func (s *stubShopService) Get(context.Context, string) (*domain.Shop, error) {
	return nil, domain.ErrShopNotFound
}

func (s *stubShopService) ListByOwner(ctx context.Context, _ domain.Claims, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
	return s.listFn(ctx, page)
}

func (s *stubShopService) Search(ctx context.Context, _ string, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
	return s.listFn(ctx, page)
}

func (s *stubShopService) Update(ctx context.Context, caller domain.Claims, id string, patch ports.ShopPatch) (*domain.Shop, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubShopService) Delete(ctx context.Context, caller domain.Claims, id string) error {
	return s.deleteFn(ctx, caller, id)
}

const shopContact = `"location":"12 Main St","contactPhone":"+1-555-0100","contactEmail":"shop@x.io"`

func TestShopHandler_Create(t *testing.T) {
	e := newEcho()
	h := NewShopHandler(&stubShopService{
		createFn: func(_ context.Context, caller domain.Claims, in ports.CreateShopInput) (*domain.Shop, error) {
			return &domain.Shop{ID: "s1", Name: in.Name, OwnerID: caller.Subject}, nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/shops", `{"name":"Corner"}`), httptest.NewRecorder())
	expectHTTPError(t, h.Create(c), http.StatusUnauthorized)

	c = e.NewContext(jsonRequest(http.MethodPost, "/shops", `{"name":""}`), httptest.NewRecorder())
	middleware.SetClaims(c, domain.Claims{Subject: "u1"})
	expectHTTPError(t, h.Create(c), http.StatusUnprocessableEntity)

	rec := httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/shops", `{"name":"Corner",`+shopContact+`}`), rec)
	middleware.SetClaims(c, domain.Claims{Subject: "u1"})
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestShopHandler_Create_ActiveFlagAndContactFields(t *testing.T) {
	e := newEcho()
	var got ports.CreateShopInput
	h := NewShopHandler(&stubShopService{
		createFn: func(_ context.Context, caller domain.Claims, in ports.CreateShopInput) (*domain.Shop, error) {
			got = in
			return &domain.Shop{ID: "s1", Name: in.Name, OwnerID: caller.Subject}, nil
		},
	})
	create := func(body string) (*httptest.ResponseRecorder, error) {
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/shops", body), rec)
		middleware.SetClaims(c, domain.Claims{Subject: "u1"})
		return rec, h.Create(c)
	}

	if _, err := create(`{"name":"Corner","isActive":false,` + shopContact + `}`); err != nil {
		t.Fatalf("create inactive: %v", err)
	}
	if got.IsActive == nil || *got.IsActive {
		t.Fatalf("isActive=false not passed through: %v", got.IsActive)
	}
	if got.Location != "12 Main St" || got.ContactPhone != "+1-555-0100" || got.ContactEmail != "shop@x.io" {
		t.Fatalf("contact fields not passed through: %+v", got)
	}

	got = ports.CreateShopInput{}
	if _, err := create(`{"name":"Corner",` + shopContact + `}`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.IsActive != nil {
		t.Fatalf("omitted isActive should stay unset, got %v", *got.IsActive)
	}

	missing := map[string]string{
		"location":     `{"name":"Corner","contactPhone":"+1-555-0100","contactEmail":"shop@x.io"}`,
		"contactPhone": `{"name":"Corner","location":"12 Main St","contactEmail":"shop@x.io"}`,
		"contactEmail": `{"name":"Corner","location":"12 Main St","contactPhone":"+1-555-0100"}`,
	}
	for field, body := range missing {
		t.Run("missing "+field, func(t *testing.T) {
			_, err := create(body)
			expectHTTPError(t, err, http.StatusUnprocessableEntity)
		})
	}
}

func TestShopHandler_List_Paging(t *testing.T) {
	e := newEcho()
	var seen domain.Page
	h := NewShopHandler(&stubShopService{
		listFn: func(_ context.Context, page domain.Page) (*domain.PageResult[*domain.Shop], error) {
			seen = page
			res := domain.NewPageResult[*domain.Shop](nil, 0, page.Normalize())
			return &res, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/shops?page=3&limit=20", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if seen.Page != 3 || seen.Limit != 20 {
		t.Fatalf("unexpected page: %+v", seen)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/shops?page=abc", nil), httptest.NewRecorder())
	expectHTTPError(t, h.List(c), http.StatusBadRequest)
}

func TestShopHandler_UpdateDelete(t *testing.T) {
	e := newEcho()
	h := NewShopHandler(&stubShopService{
		updateFn: func(_ context.Context, caller domain.Claims, id string, patch ports.ShopPatch) (*domain.Shop, error) {
			if caller.Subject != "owner" {
				return nil, domain.ErrForbidden
			}
			return &domain.Shop{ID: id, Name: *patch.Name}, nil
		},
		deleteFn: func(_ context.Context, caller domain.Claims, id string) error {
			if caller.Subject != "owner" {
				return domain.ErrForbidden
			}
			return nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPatch, "/shops/s1", `{"name":"New"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("s1")
	middleware.SetClaims(c, domain.Claims{Subject: "intruder"})
	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/shops/s1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("s1")
	middleware.SetClaims(c, domain.Claims{Subject: "owner"})
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

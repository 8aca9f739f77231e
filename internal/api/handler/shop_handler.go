package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopgrid/platform/internal/api/metrics"
	"github.com/shopgrid/platform/internal/api/middleware"
	"github.com/shopgrid/platform/internal/core/ports"
)

// ShopHandler handles HTTP requests for shop operations.
type ShopHandler struct {
	service ports.ShopService
}

func NewShopHandler(service ports.ShopService) *ShopHandler {
	return &ShopHandler{service: service}
}

// Create handles POST /shops. The owner is the authenticated caller.
//
// @Summary      Create a shop
// @Tags         shops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createShopRequest  true  "Shop details"
// @Success      201   {object}  domain.Shop
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /shops [post]
func (h *ShopHandler) Create(c echo.Context) error {
	claims, err := middleware.MustClaims(c)
	if err != nil {
		return err
	}
	var req createShopRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	shop, err := h.service.Create(c.Request().Context(), claims, ports.CreateShopInput{
		Name:         req.Name,
		Description:  req.Description,
		IsActive:     req.IsActive,
		Products:     req.Products,
		Location:     req.Location,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return err
	}
	metrics.ShopsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, shop)
}

// List handles GET /shops. Only active shops are listed.
//
// @Summary      List active shops
// @Tags         shops
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  shopPage
// @Router       /shops [get]
func (h *ShopHandler) List(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	res, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Search handles GET /shops/search?q=.
//
// @Summary      Full-text search over active shops
// @Tags         shops
// @Produce      json
// @Param        q      query     string  true   "Search terms"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Page size (default 10, max 100)"
// @Success      200    {object}  shopPage
// @Failure      400    {object}  errorResponse
// @Router       /shops/search [get]
func (h *ShopHandler) Search(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	res, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Get handles GET /shops/:id.
//
// @Summary      Get a shop
// @Tags         shops
// @Produce      json
// @Param        id   path      string  true  "Shop id"
// @Success      200  {object}  domain.Shop
// @Failure      404  {object}  errorResponse
// @Router       /shops/{id} [get]
func (h *ShopHandler) Get(c echo.Context) error {
	shop, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shop)
}

// MyShops handles GET /shops/owner/my-shops.
//
// @Summary      List the caller's shops
// @Tags         shops
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  shopPage
// @Failure      401    {object}  errorResponse
// @Router       /shops/owner/my-shops [get]
func (h *ShopHandler) MyShops(c echo.Context) error {
	claims, err := middleware.MustClaims(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	res, err := h.service.ListByOwner(c.Request().Context(), claims, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Update handles PATCH /shops/:id.
//
// @Summary      Update a shop
// @Tags         shops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Shop id"
// @Param        body  body      updateShopRequest  true  "Fields to change"
// @Success      200   {object}  domain.Shop
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /shops/{id} [patch]
func (h *ShopHandler) Update(c echo.Context) error {
	claims, err := middleware.MustClaims(c)
	if err != nil {
		return err
	}
	var req updateShopRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	shop, err := h.service.Update(c.Request().Context(), claims, c.Param("id"), ports.ShopPatch{
		Name:         req.Name,
		Description:  req.Description,
		IsActive:     req.IsActive,
		Products:     req.Products,
		Location:     req.Location,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shop)
}

// Delete handles DELETE /shops/:id.
//
// @Summary      Delete a shop
// @Tags         shops
// @Security     BearerAuth
// @Param        id   path  string  true  "Shop id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /shops/{id} [delete]
func (h *ShopHandler) Delete(c echo.Context) error {
	claims, err := middleware.MustClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

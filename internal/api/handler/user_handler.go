package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
)

// UserHandler serves the user service's profile endpoints.
type UserHandler struct {
	service ports.ProfileService
}

func NewUserHandler(service ports.ProfileService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List user profiles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  userPage
// @Failure      401    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
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

// Get handles GET /users/:id.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /users. Admin only.
//
// @Summary      Create a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Profile details"
// @Success      201   {object}  domain.Profile
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	roles := make([]domain.Role, len(req.Roles))
	for i, r := range req.Roles {
		roles[i] = domain.Role(r)
	}
	p, err := h.service.Create(c.Request().Context(), ports.CreateProfileInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Roles:     roles,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

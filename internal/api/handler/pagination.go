package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shopgrid/platform/internal/core/domain"
)

// parsePage reads ?page= and ?limit=. Absent values fall back to the
// defaults; out-of-range values are clamped by the service.
func parsePage(c echo.Context) (domain.Page, error) {
	var p domain.Page
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
		}
		p.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		p.Limit = n
	}
	return p, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lakeview/hotel-booking/internal/api/middleware"
	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// caller returns the logged-in identity resolved by the Auth middleware.
func caller(c echo.Context) (domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if !id.Authenticated() {
		return id, domain.ErrUnauthorized
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the struct
// validator when one is registered on the Echo instance.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/lakeview/hotel-booking/internal/core/policy"
)

// Authorize checks the policy table for op before the handler runs. A
// denial is returned as an error wrapping domain.ErrUnauthorized; the HTTP
// error handler turns it into 401, 403 or a redirect to the login page.
func Authorize(p *policy.Policy, op policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := p.Authorize(IdentityFrom(c), op); err != nil {
				return err
			}
			return next(c)
		}
	}
}

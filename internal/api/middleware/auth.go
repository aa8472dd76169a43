package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

// IdentityKey is the echo.Context key holding the request's domain.Identity.
const IdentityKey = "identity"

// Auth resolves the caller's identity from an optional bearer JWT. Requests
// without an Authorization header proceed as anonymous; a malformed or
// invalid token is rejected with an error wrapping domain.ErrUnauthorized.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set(IdentityKey, domain.Anonymous())
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return fmt.Errorf("invalid authorization header: %w", domain.ErrUnauthorized)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
			}

			id, ok := identityFromClaims(claims)
			if !ok {
				return fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
			}

			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

func identityFromClaims(claims jwt.MapClaims) (domain.Identity, bool) {
	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	id := domain.Identity{UserID: sub, Username: username, Role: domain.Role(role)}
	if !id.Role.Valid() || !id.Authenticated() {
		return domain.Identity{}, false
	}
	return id, true
}

// IdentityFrom returns the identity stored by Auth, or the anonymous
// identity when Auth did not run.
func IdentityFrom(c echo.Context) domain.Identity {
	if id, ok := c.Get(IdentityKey).(domain.Identity); ok {
		return id
	}
	return domain.Anonymous()
}

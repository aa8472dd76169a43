package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/lakeview/hotel-booking/internal/core/domain"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "user-1",
		"username": "alice",
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *domain.Identity, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.Identity
	handler := Auth("secret")(func(c echo.Context) error {
		id := IdentityFrom(c)
		seen = &id
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	return rec, seen, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims("admin"))

	rec, id, err := runAuth(t, "Bearer "+token)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if id == nil {
		t.Fatalf("next not called")
	}
	if id.UserID != "user-1" || id.Username != "alice" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthMiddleware_MissingHeaderIsAnonymous(t *testing.T) {
	rec, id, err := runAuth(t, "")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if id == nil || id.Role != domain.RoleAnonymous || id.Authenticated() {
		t.Fatalf("expected anonymous identity, got %+v", id)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := validClaims("user")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noSubject := validClaims("user")
	delete(noSubject, "sub")

	cases := map[string]string{
		"bad scheme":      "Token abc",
		"garbage token":   "Bearer not-a-token",
		"wrong secret":    "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("user")),
		"wrong algorithm": "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte("secret"), validClaims("user")),
		"expired":         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), expired),
		"unknown role":    "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims("root")),
		"anonymous role":  "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims("anonymous")),
		"missing subject": "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), noSubject),
	}

	for name, header := range cases {
		_, id, err := runAuth(t, header)
		if id != nil {
			t.Errorf("%s: should not reach next", name)
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestIdentityFrom_DefaultsToAnonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if id := IdentityFrom(c); id.Role != domain.RoleAnonymous {
		t.Fatalf("expected anonymous, got %+v", id)
	}
}

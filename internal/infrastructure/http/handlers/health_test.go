package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestLiveness(t *testing.T) {
	rec, body := serve(t, NewHealthHandler().Liveness)
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", rec.Code, body.Status)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	h := NewHealthDependenciesHandler(Dependency{Name: "store", Ping: ok}, Dependency{Name: "redis", Ping: ok})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", rec.Code, body.Status)
	}
	if body.Dependencies["store"].Status != "ok" || body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected dependencies: %+v", body.Dependencies)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	h := NewHealthDependenciesHandler(
		Dependency{Name: "store", Ping: func(context.Context) error { return nil }},
		Dependency{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
	)

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected 503 degraded, got %d %q", rec.Code, body.Status)
	}
	redis := body.Dependencies["redis"]
	if redis.Status != "unhealthy" || redis.Error != "connection refused" {
		t.Fatalf("unexpected redis status: %+v", redis)
	}
}

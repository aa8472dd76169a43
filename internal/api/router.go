package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/lakeview/hotel-booking/docs"
	"github.com/lakeview/hotel-booking/internal/api/handler"
	"github.com/lakeview/hotel-booking/internal/api/middleware"
	"github.com/lakeview/hotel-booking/internal/core/policy"
	"github.com/lakeview/hotel-booking/internal/core/ports"
	"github.com/lakeview/hotel-booking/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires into handlers.
// Policy defaults to policy.Default(). Health lists the backends pinged by
// /health/ready.
type Deps struct {
	Auth      ports.AuthService
	Inventory ports.InventoryService
	Bookings  ports.BookingService
	Policy    *policy.Policy
	JWTSecret string
	Health    []handlers.Dependency
	Logger    zerolog.Logger

	// RateLimitRPS <= 0 disables per-IP rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// process-wide default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	p := d.Policy
	if p == nil {
		p = policy.Default()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "hotelbook",
		Registerer: registerer,
		Skipper:    skipOps,
	}))
	if d.RateLimitRPS > 0 {
		e.Use(rateLimiter(d.RateLimitRPS, d.RateLimitBurst))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	hotelHandler := handler.NewHotelHandler(d.Inventory)
	bookingHandler := handler.NewBookingHandler(d.Bookings)

	auth := middleware.Auth(d.JWTSecret)
	guard := func(op policy.Operation) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{auth, middleware.Authorize(p, op)}
	}

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, middleware.Authorize(p, policy.OpRegister))
	e.POST("/auth/login", authHandler.Login, middleware.Authorize(p, policy.OpLogin))

	// --- Guest routes ---
	e.GET("/hotels", hotelHandler.List, guard(policy.OpDashboard)...)
	e.GET("/hotels/:id", hotelHandler.Detail, guard(policy.OpHotelDetail)...)
	e.POST("/rooms/:id/book", bookingHandler.Book, guard(policy.OpBook)...)
	e.GET("/bookings", bookingHandler.Mine, guard(policy.OpMyBookings)...)

	// --- Admin routes ---
	e.GET("/admin/hotels", hotelHandler.List, guard(policy.OpAdminDashboard)...)
	e.POST("/admin/hotels", hotelHandler.Create, guard(policy.OpAddHotel)...)
	e.DELETE("/admin/hotels/:id", hotelHandler.Delete, guard(policy.OpDeleteHotel)...)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Health...)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// skipOps keeps probes, scrapes and docs out of request metrics and limits.
func skipOps(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/health") ||
		path == "/metrics" ||
		strings.HasPrefix(path, "/swagger")
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      skipOps,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			default:
				ev = log.Info()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	if burst <= 0 {
		burst = int(rps) + 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Skipper: skipOps,
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

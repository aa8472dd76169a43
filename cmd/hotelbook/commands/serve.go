package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lakeview/hotel-booking/internal/api"
	"github.com/lakeview/hotel-booking/internal/core/policy"
	"github.com/lakeview/hotel-booking/internal/core/ports"
	"github.com/lakeview/hotel-booking/internal/core/service"
	redisstore "github.com/lakeview/hotel-booking/internal/infrastructure/db/redis"
	"github.com/lakeview/hotel-booking/internal/infrastructure/http/handlers"
	"github.com/lakeview/hotel-booking/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Connect to the configured store (and Redis when REDIS_ENABLED=true),
prepare the schema, make sure the default admin exists and serve the API
until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	if err := b.prepare(ctx, false); err != nil {
		return fmt.Errorf("prepare store: %w", err)
	}

	health := []handlers.Dependency{{Name: cfg.StoreDriver, Ping: b.ping}}
	authOpts := []service.AuthOption{
		service.WithBcryptCost(cfg.BcryptCost),
		service.WithAuthLogger(log),
	}
	var cache ports.HotelCatalogCache

	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisConfig(cfg))
		if err != nil {
			return err
		}
		defer rdb.Close()

		cache = redisstore.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
		authOpts = append(authOpts, service.WithLoginThrottle(
			redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)))
		health = append(health, handlers.Dependency{Name: "redis", Ping: redisstore.PingFunc(rdb)})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis enabled: catalog cache and login throttle active")
	}

	auth := service.NewAuthService(b.users, cfg.JWTSecret, cfg.TokenTTL, authOpts...)
	if err := seedAdmin(ctx, auth, cfg); err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:           auth,
		Inventory:      service.NewInventoryService(b.hotels, cache, log),
		Bookings:       service.NewBookingService(b.bookings, log),
		Policy:         policy.Default(),
		JWTSecret:      cfg.JWTSecret,
		Health:         health,
		Logger:         log,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	})

	return listen(ctx, e, ":"+cfg.Port, log)
}

type server interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// listen serves until ctx is cancelled, then drains in-flight requests.
func listen(ctx context.Context, srv server, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, auth *service.AuthService, cfg *config.Config) error {
	if _, _, err := auth.EnsureAdmin(ctx, adminSeed(cfg)); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func adminSeed(cfg *config.Config) ports.AdminSeed {
	return ports.AdminSeed{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}
}

func redisConfig(cfg *config.Config) redisstore.Config {
	return redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// devJWTSecret signs tokens only when ENV=development and JWT_SECRET is unset.
	devJWTSecret = "development-only-secret"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	// StoreDriver selects the persistence backend: mongo, postgres or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo     MongoConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Login     LoginConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=hotel_booking"`
}

type PostgresConfig struct {
	DSN      string `env:"POSTGRES_DSN"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS, default=10"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,     default=false"`
	Addr     string        `env:"REDIS_ADDR,        default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,          default=0"`
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL, default=1m"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=20"`
	Burst int     `env:"RATE_LIMIT_BURST, default=40"`
}

// AdminConfig seeds the default administrator. An empty password makes the
// seeder generate one and log it once.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadContext(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadContext reads and validates configuration from the process environment.
func LoadContext(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Validate checks rules that span more than one variable.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
	}

	switch c.StoreDriver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB are required for the mongo driver"))
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of mongo, postgres, memory", c.StoreDriver))
	}

	if c.Login.MaxAttempts <= 0 || c.Login.Window <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS and LOGIN_WINDOW must be positive"))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must not be negative"))
	}
	if strings.TrimSpace(c.Admin.Username) == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME must not be empty"))
	}

	return errors.Join(errs...)
}

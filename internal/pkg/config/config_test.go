package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadMap(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return load(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "hotel_booking", cfg.Mongo.Database)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Login.Window)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{
		"ENV":                "production",
		"JWT_SECRET":         "s3cret",
		"STORE_DRIVER":       "Postgres",
		"POSTGRES_DSN":       "postgres://u:p@db:5432/hotels",
		"POSTGRES_MAX_CONNS": "25",
		"REDIS_ENABLED":      "true",
		"REDIS_PASSWORD":     "r3dis",
		"CATALOG_CACHE_TTL":  "30s",
		"LOGIN_WINDOW":       "5m",
		"RATE_LIMIT_RPS":     "0",
		"TOKEN_TTL":          "2h",
	})
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.EqualValues(t, 25, cfg.Postgres.MaxConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Login.Window)
	assert.Zero(t, cfg.RateLimit.RPS)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"secret required in production", map[string]string{"ENV": "production"}, "JWT_SECRET"},
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}, "POSTGRES_DSN"},
		{"bcrypt cost too low", map[string]string{"BCRYPT_COST": "2"}, "BCRYPT_COST"},
		{"negative rate", map[string]string{"RATE_LIMIT_RPS": "-1"}, "RATE_LIMIT_RPS"},
		{"zero attempts", map[string]string{"LOGIN_MAX_ATTEMPTS": "0"}, "LOGIN_MAX_ATTEMPTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadMap(t, tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedValue(t *testing.T) {
	_, err := loadMap(t, map[string]string{"TOKEN_TTL": "forever"})
	assert.Error(t, err)
}

func TestLoad_PanicsOnInvalidEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	assert.Panics(t, func() { Load() })
}

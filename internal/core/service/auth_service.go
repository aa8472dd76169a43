package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lakeview/hotel-booking/internal/core/domain"
	"github.com/lakeview/hotel-booking/internal/core/ports"
)

const (
	maxUsernameLen = 64
	minPasswordLen = 6
	// bcrypt ignores everything past 72 bytes; longer passwords are rejected.
	maxPasswordLen = 72

	adminSeedAge = 30

	landingAdmin = "/admin/hotels"
	landingUser  = "/hotels"
)

var validate = validator.New()

// AuthService implements registration, login and the default admin seed.
type AuthService struct {
	repo      ports.UserRepository
	throttle  ports.LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	cost      int
	log       zerolog.Logger
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithBcryptCost overrides bcrypt.DefaultCost. Out-of-range values are ignored.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// WithAuthLogger sets the logger; the default discards everything.
func WithAuthLogger(log zerolog.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, opts ...AuthOption) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	s := &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		cost:      bcrypt.DefaultCost,
		log:       zerolog.Nop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the input, hashes the password and stores the user.
// Uniqueness of the username is left to the store.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if err := validateRegistration(username, email, in.Password, in.Age); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Age:          in.Age,
		CreatedAt:    s.now(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			s.log.Debug().Str("username", username).Msg("registration rejected: duplicate username")
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, continuing")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		// Spend the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
		}
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	landing := landingUser
	if user.IsAdmin {
		landing = landingAdmin
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role())).Msg("user logged in")

	return &ports.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  user.Identity(),
		User:      user,
		Landing:   landing,
	}, nil
}

// EnsureAdmin creates the default administrator unless a user with that
// username already exists. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, seed ports.AdminSeed) (*domain.User, bool, error) {
	username := strings.TrimSpace(seed.Username)
	if username == "" {
		return nil, false, domain.NewValidationError("username", "is required")
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		if !existing.IsAdmin {
			s.log.Warn().Str("username", username).Msg("admin seed username belongs to a non-admin user")
		}
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	password := seed.Password
	generated := password == ""
	if generated {
		password, err = randomPassword()
		if err != nil {
			return nil, false, fmt.Errorf("ensure admin: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, false, fmt.Errorf("ensure admin: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(seed.Email),
		PasswordHash: string(hash),
		Age:          adminSeedAge,
		IsAdmin:      true,
		CreatedAt:    s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			// Another instance seeded it first.
			existing, findErr := s.repo.FindByUsername(ctx, username)
			if findErr != nil {
				return nil, false, fmt.Errorf("ensure admin: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	if generated {
		s.log.Warn().
			Str("username", username).
			Str("password", password).
			Msg("default admin user created with a generated password; change it")
	} else {
		s.log.Info().Str("username", username).Msg("default admin user created")
	}

	return created, true, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role()),
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}

func validateRegistration(username, email, password string, age int) error {
	switch {
	case username == "":
		return domain.NewValidationError("username", "is required")
	case len(username) > maxUsernameLen:
		return domain.NewValidationError("username", fmt.Sprintf("must be at most %d characters", maxUsernameLen))
	case len(password) < minPasswordLen:
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	case len(password) > maxPasswordLen:
		return domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordLen))
	case age < domain.MinimumAge:
		return domain.NewValidationError("age", fmt.Sprintf("must be at least %d", domain.MinimumAge))
	}
	if err := validate.Var(email, "omitempty,email"); err != nil {
		return domain.NewValidationError("email", "must be a valid email")
	}
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

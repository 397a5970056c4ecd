// Package main runs the auth service with in-memory storage. Useful for
// local frontend development and demos; all state is lost on restart.
// For production use cmd/authd with PostgreSQL.
package main

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"

	"github.com/danohq/portfolio-auth/pkg/account"
	"github.com/danohq/portfolio-auth/pkg/authapi"
	"github.com/danohq/portfolio-auth/pkg/config"
	"github.com/danohq/portfolio-auth/pkg/lockout"
	"github.com/danohq/portfolio-auth/pkg/password"
	"github.com/danohq/portfolio-auth/pkg/ratelimit"
	"github.com/danohq/portfolio-auth/pkg/token"
)

// seedConfig optionally pre-creates the admin so the demo skips the
// setup flow. Leave unset to exercise setup itself.
type seedConfig struct {
	Username string `env:"AUTH_SEED_USERNAME" env-default:""`
	Email    string `env:"AUTH_SEED_EMAIL" env-default:"admin@example.com"`
	Password string `env:"AUTH_SEED_PASSWORD" env-default:""`
}

func seedAdmin(repo *account.InMemoryRepository, hashers password.HasherFactory, seed seedConfig) {
	if seed.Username == "" || seed.Password == "" {
		return
	}

	hasher := hashers.GetCurrentHasher()
	digest, err := hasher.Hash(seed.Password)
	if err != nil {
		slog.Error("Failed to hash seed password", "error", err)
		os.Exit(-1)
	}

	repo.SeedAccount(account.Account{
		ID:              uuid.New(),
		Username:        account.NormalizeUsername(seed.Username),
		Email:           account.NormalizeEmail(seed.Email),
		PasswordHash:    digest,
		PasswordVersion: hasher.HashVersion(),
		Role:            account.RoleAdmin,
	})
	slog.Info("Seeded admin account", "username", seed.Username)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory auth service (no database required)")

	cfg := config.Config{}
	cleanenv.ReadEnv(&cfg)
	seed := seedConfig{}
	cleanenv.ReadEnv(&seed)

	tokenExpiry, err := cfg.JWT.ParseTokenExpiry()
	if err != nil {
		slog.Error("Invalid TOKEN_EXPIRY", "error", err)
		os.Exit(-1)
	}
	lockoutDuration, err := cfg.Lockout.ParseLockoutDuration()
	if err != nil {
		slog.Error("Invalid LOCKOUT_DURATION", "error", err)
		os.Exit(-1)
	}
	loginWindow, err := cfg.RateLimit.ParseLoginWindow()
	if err != nil {
		slog.Error("Invalid RATE_LIMIT_LOGIN_WINDOW", "error", err)
		os.Exit(-1)
	}

	repo := account.NewInMemoryRepository()
	hashers := password.NewDefaultHasherFactory()
	seedAdmin(repo, hashers, seed)

	tracker := lockout.NewTracker(repo, cfg.Lockout.MaxFailedAttempts, lockoutDuration)
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, tokenExpiry)

	loginLimiter := ratelimit.PerWindow(cfg.RateLimit.LoginAttempts, loginWindow)
	defer loginLimiter.Close()

	service := authapi.NewService(
		repo,
		password.NewDefaultPolicyChecker(nil, nil),
		hashers,
		tracker,
		tokens,
		loginLimiter,
	)
	handle := authapi.NewHandle(service, true)
	ja := jwtauth.New("HS256", tokens.Secret(), nil)

	server := app.NewApp(app.WithPort(int(cfg.Server.Port)))
	app.RegisterHealthzRoutes(server.R)
	server.R.Route("/api/auth", func(r chi.Router) {
		handle.RegisterRoutes(r, ja)
	})

	slog.Info("Auth service starting", "port", cfg.Server.Port)
	server.Run()
}

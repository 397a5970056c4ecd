// Package main runs the portfolio auth service backed by PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	"github.com/danohq/portfolio-auth/pkg/account"
	"github.com/danohq/portfolio-auth/pkg/authapi"
	"github.com/danohq/portfolio-auth/pkg/config"
	"github.com/danohq/portfolio-auth/pkg/lockout"
	"github.com/danohq/portfolio-auth/pkg/password"
	"github.com/danohq/portfolio-auth/pkg/ratelimit"
	"github.com/danohq/portfolio-auth/pkg/token"
)

// loadEnvFile loads a .env file if one exists next to the binary or in
// the working directory. Variables already set in the environment win.
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Error("Failed to get executable path", "error", err)
		return
	}

	envFile := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to get current working directory", "error", err)
			return
		}
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			slog.Error("Failed to load .env file", "path", envFile, "error", err)
			return
		}
		slog.Info("Loaded environment from file", "path", envFile)
	}
}

func mustParseDuration(name string, parse func() (time.Duration, error)) time.Duration {
	d, err := parse()
	if err != nil {
		slog.Error("Invalid duration in configuration", "name", name, "error", err)
		os.Exit(-1)
	}
	return d
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	cfg := config.Config{}
	cleanenv.ReadEnv(&cfg)

	tokenExpiry := mustParseDuration("TOKEN_EXPIRY", cfg.JWT.ParseTokenExpiry)
	lockoutDuration := mustParseDuration("LOCKOUT_DURATION", cfg.Lockout.ParseLockoutDuration)
	loginWindow := mustParseDuration("RATE_LIMIT_LOGIN_WINDOW", cfg.RateLimit.ParseLoginWindow)
	perIPWindow := mustParseDuration("RATE_LIMIT_PER_IP_WINDOW", cfg.RateLimit.ParsePerIPWindow)
	bucketTTL := mustParseDuration("RATE_LIMIT_BUCKET_TTL", cfg.RateLimit.ParseBucketTTL)

	pool, err := pgxpool.New(context.Background(), cfg.Database.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool",
			"db", cfg.Database.Database, "host", cfg.Database.Host,
			"port", cfg.Database.Port, "user", cfg.Database.User)
		os.Exit(-1)
	}
	defer pool.Close()

	repo := account.NewPostgresRepository(pool)
	tracker := lockout.NewTracker(repo, cfg.Lockout.MaxFailedAttempts, lockoutDuration)
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, tokenExpiry)

	loginLimiter := ratelimit.PerWindow(cfg.RateLimit.LoginAttempts, loginWindow)
	defer loginLimiter.Close()

	service := authapi.NewService(
		repo,
		password.NewDefaultPolicyChecker(nil, nil),
		password.NewDefaultHasherFactory(),
		tracker,
		tokens,
		loginLimiter,
	)
	handle := authapi.NewHandle(service, cfg.Server.DevMode)
	ja := jwtauth.New("HS256", tokens.Secret(), nil)

	server := app.NewApp(app.WithPort(int(cfg.Server.Port)))
	app.RegisterHealthzRoutes(server.R)

	// Generous per-IP guard over the whole auth surface; the login
	// endpoint additionally enforces its own tight window inside the
	// service.
	generalLimiter := ratelimit.NewLimiter(
		cfg.RateLimit.PerIPCapacity,
		float64(cfg.RateLimit.PerIPCapacity)/perIPWindow.Seconds(),
		bucketTTL,
	)
	defer generalLimiter.Close()
	server.R.Use(ratelimit.Middleware(generalLimiter))

	server.R.Route("/api/auth", func(r chi.Router) {
		handle.RegisterRoutes(r, ja)
	})

	slog.Info("Auth service starting",
		"port", cfg.Server.Port,
		"devMode", cfg.Server.DevMode,
		"maxFailedAttempts", cfg.Lockout.MaxFailedAttempts,
		"lockoutDuration", lockoutDuration,
		"tokenExpiry", tokenExpiry)
	server.Run()
}

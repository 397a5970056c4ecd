// Package config holds the environment-driven configuration for the
// auth service. Structs are cleanenv-tagged; durations accept both ISO
// 8601 ("PT15M") and Go ("15m") forms.
package config

import (
	"fmt"
	"time"

	"github.com/sosodev/duration"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Lockout   LockoutConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    uint16 `env:"PORT" env-default:"4000"`
	DevMode bool   `env:"DEV_MODE" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `env:"AUTH_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"AUTH_PG_PORT" env-default:"5432"`
	Database string `env:"AUTH_PG_DATABASE" env-default:"portfolio"`
	User     string `env:"AUTH_PG_USER" env-default:"portfolio"`
	Password string `env:"AUTH_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"AUTH_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// JWTConfig holds session token settings. The secret is loaded once at
// startup and handed to the token service; nothing else reads it.
type JWTConfig struct {
	Secret      string `env:"JWT_SECRET" env-default:"dev-secret-change-in-production"`
	Issuer      string `env:"JWT_ISSUER" env-default:"portfolio-auth"`
	Audience    string `env:"JWT_AUDIENCE" env-default:"portfolio"`
	TokenExpiry string `env:"TOKEN_EXPIRY" env-default:"24h"`
}

// ParseTokenExpiry parses the session token TTL
func (j JWTConfig) ParseTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.TokenExpiry)
}

// LockoutConfig holds the account lockout thresholds.
type LockoutConfig struct {
	MaxFailedAttempts int    `env:"LOCKOUT_MAX_FAILED_ATTEMPTS" env-default:"5"`
	LockoutDuration   string `env:"LOCKOUT_DURATION" env-default:"15m"`
}

// ParseLockoutDuration parses the lock window length
func (l LockoutConfig) ParseLockoutDuration() (time.Duration, error) {
	return parseDurationISO8601(l.LockoutDuration)
}

// RateLimitConfig holds the per-source throttles. Login gets its own
// tight window; the general limit guards the rest of the auth surface.
type RateLimitConfig struct {
	LoginAttempts int    `env:"RATE_LIMIT_LOGIN_ATTEMPTS" env-default:"5"`
	LoginWindow   string `env:"RATE_LIMIT_LOGIN_WINDOW" env-default:"15m"`
	PerIPCapacity int    `env:"RATE_LIMIT_PER_IP_CAPACITY" env-default:"100"`
	PerIPRefill   string `env:"RATE_LIMIT_PER_IP_WINDOW" env-default:"1m"`
	BucketTTL     string `env:"RATE_LIMIT_BUCKET_TTL" env-default:"1h"`
}

// ParseLoginWindow parses the login attempt window
func (r RateLimitConfig) ParseLoginWindow() (time.Duration, error) {
	return parseDurationISO8601(r.LoginWindow)
}

// ParsePerIPWindow parses the general per-IP window
func (r RateLimitConfig) ParsePerIPWindow() (time.Duration, error) {
	return parseDurationISO8601(r.PerIPRefill)
}

// ParseBucketTTL parses how long idle rate-limit buckets are kept
func (r RateLimitConfig) ParseBucketTTL() (time.Duration, error) {
	return parseDurationISO8601(r.BucketTTL)
}

// parseDurationISO8601 tries ISO 8601 first, then the Go duration form
func parseDurationISO8601(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}
	return time.ParseDuration(s)
}

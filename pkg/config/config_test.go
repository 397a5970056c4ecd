package config

import (
	"testing"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cleanenv.ReadEnv(&cfg))

	assert.Equal(t, uint16(4000), cfg.Server.Port)
	assert.Equal(t, 5, cfg.Lockout.MaxFailedAttempts)

	ttl, err := cfg.JWT.ParseTokenExpiry()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	window, err := cfg.RateLimit.ParseLoginWindow()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, window)
}

func TestParseDuration_BothForms(t *testing.T) {
	lockout := LockoutConfig{LockoutDuration: "PT15M"}
	d, err := lockout.ParseLockoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)

	lockout.LockoutDuration = "30m"
	d, err = lockout.ParseLockoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, d)

	lockout.LockoutDuration = "bogus"
	_, err = lockout.ParseLockoutDuration()
	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: 5432, Database: "portfolio",
		User: "portfolio", Password: "pwd", Schema: "auth",
	}
	assert.Equal(t,
		"postgres://portfolio:pwd@db:5432/portfolio?sslmode=disable&search_path=auth,public",
		db.ToDatabaseURL())
}

// Package token issues and verifies the signed session tokens handed to
// the dashboard client. Tokens are self-contained: verification needs
// only the signing key, never a storage round-trip, and the server
// holds no per-session state.
package token

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/danohq/portfolio-auth/pkg/account"
)

// DefaultTTL is the session token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is returned by Verify for any token that fails
// verification. The underlying cause is logged, never surfaced: expired,
// malformed and mis-signed tokens are indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the session claims carried by a token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a process-wide key.
type Service struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewService creates a token service. The key is loaded once at startup
// and reached only through signingKey, so a rotation scheme can swap
// the lookup without touching call sites.
func NewService(secret, issuer, audience string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// Issue creates a signed token for the account, embedding subject id,
// username and role with the configured TTL.
func (s *Service) Issue(acct account.Account) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: acct.Username,
		Role:     acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ID:        uuid.New().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signingKey())
	if err != nil {
		slog.Error("Failed to sign session token", "err", err)
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify parses and validates a token string, failing closed: whatever
// the cause, an unverifiable token yields ErrInvalidToken.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey(), nil
	})
	if err != nil {
		slog.Debug("Token verification failed", "err", err)
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		slog.Debug("Token verification failed", "err", "token invalid")
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Secret exposes the raw signing key for wiring shared verifiers (the
// jwtauth middleware verifies with the same key the service signs with).
func (s *Service) Secret() []byte {
	return s.signingKey()
}

func (s *Service) signingKey() []byte {
	return s.secret
}

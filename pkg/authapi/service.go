package authapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danohq/portfolio-auth/pkg/account"
	"github.com/danohq/portfolio-auth/pkg/lockout"
	"github.com/danohq/portfolio-auth/pkg/password"
	"github.com/danohq/portfolio-auth/pkg/ratelimit"
	"github.com/danohq/portfolio-auth/pkg/token"
)

// Service orchestrates the auth flows: it composes the policy engine,
// hashers, lockout tracker, token service and the login rate limiter
// behind the HTTP surface.
type Service struct {
	repo         account.Repository
	policy       password.PolicyChecker
	hashers      password.HasherFactory
	tracker      *lockout.Tracker
	tokens       *token.Service
	loginLimiter *ratelimit.Limiter
}

// NewService creates the auth service. loginLimiter may be nil to
// disable per-source throttling (tests, internal tooling).
func NewService(
	repo account.Repository,
	policy password.PolicyChecker,
	hashers password.HasherFactory,
	tracker *lockout.Tracker,
	tokens *token.Service,
	loginLimiter *ratelimit.Limiter,
) *Service {
	return &Service{
		repo:         repo,
		policy:       policy,
		hashers:      hashers,
		tracker:      tracker,
		tokens:       tokens,
		loginLimiter: loginLimiter,
	}
}

// SetupParams are the inputs for the one-time admin setup.
type SetupParams struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthResult is a successful setup or login outcome.
type AuthResult struct {
	Account account.Account
	Token   string
}

// StrengthResult combines live scoring with hard validation for the
// password feedback endpoint.
type StrengthResult struct {
	Score  int      `json:"strength_score"`
	Label  string   `json:"strength_label"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// SetupRequired reports whether initial setup is still pending, i.e.
// no account exists yet.
func (s *Service) SetupRequired(ctx context.Context) (bool, error) {
	hasAny, err := s.repo.HasAnyAccounts(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing accounts: %w", err)
	}
	return !hasAny, nil
}

// Setup provisions the initial admin account. It runs exactly once:
// creating the first account moves the system out of setup mode for
// good.
func (s *Service) Setup(ctx context.Context, params SetupParams) (AuthResult, error) {
	hasAny, err := s.repo.HasAnyAccounts(ctx)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to check for existing accounts: %w", err)
	}
	if hasAny {
		return AuthResult{}, account.ErrSetupComplete
	}

	if params.Username == "" || params.Email == "" || params.Password == "" || params.ConfirmPassword == "" {
		return AuthResult{}, ErrMissingFields
	}

	if params.Password != params.ConfirmPassword {
		return AuthResult{}, ErrPasswordMismatch
	}

	username := account.NormalizeUsername(params.Username)
	if violations := account.ValidateUsername(username); len(violations) > 0 {
		return AuthResult{}, &ValidationError{Code: CodeInvalidUsername, Message: "Invalid username", Details: violations}
	}

	email := account.NormalizeEmail(params.Email)
	if violations := account.ValidateEmail(email); len(violations) > 0 {
		return AuthResult{}, &ValidationError{Code: CodeInvalidEmail, Message: "Invalid email", Details: violations}
	}

	if result := s.policy.Validate(params.Password); !result.Valid {
		return AuthResult{}, &ValidationError{Code: CodeInvalidPassword, Message: "Password does not meet requirements", Details: result.Errors}
	}

	hasher := s.hashers.GetCurrentHasher()
	digest, err := hasher.Hash(params.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// CreateFirst re-checks existence atomically, so a concurrent setup
	// race still creates at most one account.
	acct, err := s.repo.CreateFirst(ctx, account.CreateParams{
		Username:        username,
		Email:           email,
		PasswordHash:    digest,
		PasswordVersion: hasher.HashVersion(),
		Role:            account.RoleAdmin,
	})
	if err != nil {
		return AuthResult{}, err
	}

	tokenStr, _, err := s.tokens.Issue(acct)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("Admin account created", "username", acct.Username)
	return AuthResult{Account: acct, Token: tokenStr}, nil
}

// Login authenticates the admin. source identifies the caller's address
// for rate limiting; checks run in a fixed order so a throttled or
// locked caller learns nothing about credential validity.
func (s *Service) Login(ctx context.Context, username, candidate, source string) (AuthResult, error) {
	if username == "" || candidate == "" {
		return AuthResult{}, ErrMissingCredentials
	}

	if s.loginLimiter != nil && source != "" && !s.loginLimiter.Admit(source) {
		slog.Warn("Login rate limit exceeded", "source", source)
		return AuthResult{}, ErrRateLimited
	}

	acct, err := s.repo.GetByUsername(ctx, account.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			// Same response as a wrong password: no username probing.
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("failed to look up account: %w", err)
	}

	status, err := s.tracker.Status(ctx, acct.Username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to check lockout status: %w", err)
	}
	if status.Locked {
		return AuthResult{}, &AccountLockedError{LockedUntil: status.LockedUntil, FailedAttempts: status.FailedAttempts}
	}

	hasher, err := s.hashers.GetHasher(acct.PasswordVersion)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to resolve password hasher: %w", err)
	}

	match, err := hasher.Verify(candidate, acct.PasswordHash)
	if err != nil {
		slog.Error("Failed to verify credential", "username", acct.Username, "err", err)
		match = false
	}
	if !match {
		if _, err := s.tracker.RecordFailure(ctx, acct.Username); err != nil {
			return AuthResult{}, fmt.Errorf("failed to record login failure: %w", err)
		}
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := s.tracker.RecordSuccess(ctx, acct.Username); err != nil {
		return AuthResult{}, fmt.Errorf("failed to reset login failures: %w", err)
	}

	tokenStr, _, err := s.tokens.Issue(acct)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("Login successful", "username", acct.Username)
	return AuthResult{Account: acct, Token: tokenStr}, nil
}

// VerifyToken validates a session token and returns its claims.
func (s *Service) VerifyToken(tokenStr string) (*token.Claims, error) {
	return s.tokens.Verify(tokenStr)
}

// PasswordStrength scores a candidate for live UI feedback. Pure and
// callable before any account exists.
func (s *Service) PasswordStrength(candidate string) StrengthResult {
	score := s.policy.Strength(candidate)
	result := s.policy.Validate(candidate)

	violations := result.Errors
	if violations == nil {
		violations = []string{}
	}

	return StrengthResult{
		Score:  score,
		Label:  password.StrengthLabel(score),
		Valid:  result.Valid,
		Errors: violations,
	}
}

// LockoutStatus reports the lockout state for a username. Unknown
// usernames read as unlocked with zero attempts, indistinguishable from
// a known account with a clean record.
func (s *Service) LockoutStatus(ctx context.Context, username string) (lockout.Status, error) {
	return s.tracker.Status(ctx, account.NormalizeUsername(username))
}

package authapi

import (
	"time"

	"github.com/danohq/portfolio-auth/pkg/account"
)

// User is the account shape returned to the client.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// SetupStatusResponse answers GET /setup-status.
type SetupStatusResponse struct {
	SetupRequired bool   `json:"setup_required"`
	Message       string `json:"message"`
}

// AuthResponse answers a successful setup or login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// VerifyResponse answers GET /verify.
type VerifyResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error envelope for every non-2xx answer.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// LockedResponse is the 423 envelope; it additionally tells the client
// when the lock ends.
type LockedResponse struct {
	Error          string     `json:"error"`
	Code           string     `json:"code"`
	LockedUntil    *time.Time `json:"locked_until"`
	FailedAttempts int32      `json:"failed_attempts"`
}

func userFromAccount(acct account.Account) User {
	return User{
		ID:       acct.ID.String(),
		Username: acct.Username,
		Email:    acct.Email,
		Role:     acct.Role,
	}
}

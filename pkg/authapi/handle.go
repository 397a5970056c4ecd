package authapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/danohq/portfolio-auth/pkg/account"
	"github.com/danohq/portfolio-auth/pkg/ratelimit"
)

// Handle serves the auth HTTP surface. It is the only layer that turns
// service errors into HTTP statuses; everything below returns
// structured failure values.
type Handle struct {
	service *Service
	devMode bool
}

// NewHandle creates the auth handler. devMode exposes internal error
// detail in 500 bodies; leave it off outside local development.
func NewHandle(service *Service, devMode bool) Handle {
	return Handle{service: service, devMode: devMode}
}

type setupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordStrengthRequest struct {
	Password string `json:"password"`
}

type lockoutStatusRequest struct {
	Username string `json:"username"`
}

// GetSetupStatus reports whether initial setup is still pending
// (GET /setup-status)
func (h Handle) GetSetupStatus(w http.ResponseWriter, r *http.Request) {
	setupRequired, err := h.service.SetupRequired(r.Context())
	if err != nil {
		h.internalError(w, r, err, CodeCheckFailed, "Failed to check setup status")
		return
	}

	message := "Setup already completed"
	if setupRequired {
		message = "Initial setup required"
	}
	render.JSON(w, r, SetupStatusResponse{SetupRequired: setupRequired, Message: message})
}

// PostSetup provisions the initial admin account (POST /setup)
func (h Handle) PostSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, CodeMissingFields, "Unable to parse request body", nil)
		return
	}

	result, err := h.service.Setup(r.Context(), SetupParams{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.setupError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, AuthResponse{
		Message: "Admin account created successfully",
		Token:   result.Token,
		User:    userFromAccount(result.Account),
	})
}

// PostLogin authenticates the admin (POST /login)
func (h Handle) PostLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, CodeMissingCredentials, "Unable to parse request body", nil)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password, ratelimit.ClientIP(r))
	if err != nil {
		h.loginError(w, r, err)
		return
	}

	render.JSON(w, r, AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    userFromAccount(result.Account),
	})
}

// GetVerify confirms the bearer token and echoes its claims
// (GET /verify). The token is self-contained, so no storage is touched.
func (h Handle) GetVerify(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		h.respondError(w, r, http.StatusUnauthorized, CodeUnauthenticated, "Invalid or expired token", nil)
		return
	}

	render.JSON(w, r, VerifyResponse{
		Message: "Token is valid",
		User:    claims,
	})
}

// PostPasswordStrength scores a candidate password for live feedback
// (POST /password-strength)
func (h Handle) PostPasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req passwordStrengthRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Password == "" {
		h.respondError(w, r, http.StatusBadRequest, CodeMissingPassword, "Password is required", nil)
		return
	}

	render.JSON(w, r, h.service.PasswordStrength(req.Password))
}

// PostLockoutStatus reports the lockout state for a username
// (POST /lockout-status)
func (h Handle) PostLockoutStatus(w http.ResponseWriter, r *http.Request) {
	var req lockoutStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Username == "" {
		h.respondError(w, r, http.StatusBadRequest, CodeMissingUsername, "Username is required", nil)
		return
	}

	status, err := h.service.LockoutStatus(r.Context(), req.Username)
	if err != nil {
		h.internalError(w, r, err, CodeCheckFailed, "Failed to check lockout status")
		return
	}

	render.JSON(w, r, status)
}

// PostLogout confirms a logout (POST /logout). Tokens are not revocable
// server-side; the client discards its copy.
func (h Handle) PostLogout(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, MessageResponse{Message: "Logout successful"})
}

func (h Handle) setupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrSetupComplete):
		h.respondError(w, r, http.StatusConflict, CodeSetupAlreadyComplete,
			"Setup has already been completed. Admin account exists.", nil)
	case errors.Is(err, ErrMissingFields):
		h.respondError(w, r, http.StatusBadRequest, CodeMissingFields, "All fields are required", nil)
	case errors.Is(err, ErrPasswordMismatch):
		h.respondError(w, r, http.StatusBadRequest, CodePasswordMismatch, "Passwords do not match", nil)
	default:
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			h.respondError(w, r, http.StatusBadRequest, vErr.Code, vErr.Message, vErr.Details)
			return
		}
		h.internalError(w, r, err, CodeSetupFailed, "Failed to create admin account")
	}
}

func (h Handle) loginError(w http.ResponseWriter, r *http.Request, err error) {
	var lockedErr *AccountLockedError
	switch {
	case errors.Is(err, ErrMissingCredentials):
		h.respondError(w, r, http.StatusBadRequest, CodeMissingCredentials, "Username and password are required", nil)
	case errors.Is(err, ErrRateLimited):
		w.Header().Set("Retry-After", "60")
		h.respondError(w, r, http.StatusTooManyRequests, CodeRateLimited,
			"Too many login attempts, please try again later", nil)
	case errors.Is(err, ErrInvalidCredentials):
		h.respondError(w, r, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials", nil)
	case errors.As(err, &lockedErr):
		render.Status(r, http.StatusLocked)
		render.JSON(w, r, LockedResponse{
			Error:          "Account is locked due to multiple failed login attempts",
			Code:           CodeAccountLocked,
			LockedUntil:    lockedErr.LockedUntil,
			FailedAttempts: lockedErr.FailedAttempts,
		})
	default:
		h.internalError(w, r, err, CodeLoginFailed, "Login failed")
	}
}

func (h Handle) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message, Code: code, Details: details})
}

// internalError answers 500 with the detail suppressed unless the
// service runs in dev mode.
func (h Handle) internalError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	slog.Error(message, "err", err, "path", r.URL.Path)
	if h.devMode {
		message = message + ": " + err.Error()
	}
	h.respondError(w, r, http.StatusInternalServerError, code, message, nil)
}

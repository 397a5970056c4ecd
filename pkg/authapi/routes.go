package authapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// RegisterRoutes mounts the auth HTTP surface on the router. The
// /verify route is protected by the shared JWT verifier; everything
// else is public by design (setup is guarded by its one-shot semantics,
// login by the rate limiter and lockout tracker).
func (h Handle) RegisterRoutes(r chi.Router, ja *jwtauth.JWTAuth) {
	r.Get("/setup-status", h.GetSetupStatus)
	r.Post("/setup", h.PostSetup)
	r.Post("/login", h.PostLogin)
	r.Post("/password-strength", h.PostPasswordStrength)
	r.Post("/lockout-status", h.PostLockoutStatus)
	r.Post("/logout", h.PostLogout)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(ja))
		r.Use(Authenticator(ja))
		r.Get("/verify", h.GetVerify)
	})
}

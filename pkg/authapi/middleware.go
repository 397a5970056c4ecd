package authapi

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

// Authenticator rejects requests whose bearer token failed
// verification, using the auth error envelope instead of jwtauth's
// plain-text 401. Must run after jwtauth.Verifier.
func Authenticator(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, _, err := jwtauth.FromContext(r.Context())
			if err != nil || tok == nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, ErrorResponse{
					Error: "Invalid or expired token",
					Code:  CodeUnauthenticated,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// claimsFromContext extracts the session user from verified JWT claims.
func claimsFromContext(ctx context.Context) (User, bool) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return User{}, false
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || username == "" {
		return User{}, false
	}

	return User{ID: sub, Username: username, Role: role}, true
}

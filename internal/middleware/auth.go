package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/services"
)

type contextKey string

const sessionKey contextKey = "session"

// Authenticator resolves a bearer token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// AuthMiddleware rejects requests without a valid bearer session and stores
// the session in the request context.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				services.SendErrorResponse(w, "Invalid authorization header format", http.StatusUnauthorized, nil)
				return
			}

			session, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				if !errors.Is(err, services.ErrInvalidSession) {
					log.Printf("[AUTH] Session check failed: %v", err)
					services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
					return
				}
				services.SendErrorResponse(w, "Invalid or expired session", http.StatusUnauthorized, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the session stored by AuthMiddleware.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*models.Session)
	return session, ok && session != nil
}

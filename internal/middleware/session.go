package middleware

import (
	"context"
	"net/http"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Cookie names of the session token pair.
const (
	AccessTokenCookie  = "access_token"
	SessionTokenCookie = "session_token"
)

type contextKey int

const (
	userKey contextKey = iota
	requestUserKey
)

// Authenticator resolves a session token pair to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionToken, accessToken string) (*model.User, error)
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	if slot, ok := ctx.Value(requestUserKey).(*uuid.UUID); ok && user != nil {
		*slot = user.ID
	}
	return context.WithValue(ctx, userKey, user)
}

// User returns the authenticated user stored by Session, if any.
func User(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// UserID returns the id of the authenticated user, or uuid.Nil.
func UserID(ctx context.Context) uuid.UUID {
	if user, ok := User(ctx); ok {
		return user.ID
	}
	return uuid.Nil
}

// Session requires a valid access/session cookie pair.
func Session(auth Authenticator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), cookieValue(r, SessionTokenCookie), cookieValue(r, AccessTokenCookie))
			if err != nil {
				if de, ok := model.AsDomainError(err); ok {
					status := http.StatusUnauthorized
					if de.Kind == model.KindForbidden {
						status = http.StatusForbidden
					}
					logger.Debug().Str("path", r.URL.Path).Int("status", status).Msg("session rejected")
					writeError(w, status, de.Message)
					return
				}
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to authenticate session")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

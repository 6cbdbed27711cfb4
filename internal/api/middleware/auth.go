package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/keepsakehq/keepsake/internal/api/apierr"
	"github.com/keepsakehq/keepsake/internal/services/session"
)

// Session cookie names. Guest and admin sessions live in separate cookies so
// an admin login does not clobber an existing guest session.
const (
	GuestCookieName = "auth_session"
	AdminCookieName = "admin_session"
)

type contextKey string

const identityContextKey contextKey = "identity"

// SiteGate creates middleware that admits any valid session, guest or admin.
// Everything behind the knowledge challenge uses this.
func SiteGate(sessions *session.Service) func(http.Handler) http.Handler {
	return gate(sessions, func(session.Identity) bool { return true })
}

// AdminGate creates middleware that admits only valid admin sessions
func AdminGate(sessions *session.Service) func(http.Handler) http.Handler {
	return gate(sessions, func(id session.Identity) bool {
		_, ok := id.(session.Admin)
		return ok
	})
}

// gate classifies every token the request carries and admits the first valid
// identity the predicate accepts. An expired token gets a distinct error so
// clients know to re-authenticate rather than retry.
func gate(sessions *session.Service, accept func(session.Identity) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawExpired := false
			for _, token := range candidateTokens(r) {
				c := sessions.Classify(token)
				switch c.Status {
				case session.Valid:
					if accept(c.Identity) {
						ctx := context.WithValue(r.Context(), identityContextKey, c.Identity)
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
				case session.Expired:
					if accept(c.Identity) {
						sawExpired = true
					}
				}
			}

			if sawExpired {
				apierr.WriteError(w, apierr.NewSessionExpiredError())
				return
			}
			apierr.WriteError(w, apierr.NewUnauthorizedError())
		})
	}
}

// candidateTokens collects every token the request carries, most specific
// first: Authorization header, then the admin cookie, then the guest cookie
func candidateTokens(r *http.Request) []string {
	var tokens []string

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokens = append(tokens, strings.TrimPrefix(authHeader, "Bearer "))
	}

	for _, name := range []string{AdminCookieName, GuestCookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			tokens = append(tokens, cookie.Value)
		}
	}

	return tokens
}

// CandidateTokens exposes token extraction for handlers that classify without
// gating, like the session status endpoint
func CandidateTokens(r *http.Request) []string {
	return candidateTokens(r)
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) session.Identity {
	id, _ := ctx.Value(identityContextKey).(session.Identity)
	return id
}

// MustGetAdmin returns the authenticated admin or panics
func MustGetAdmin(ctx context.Context) session.Admin {
	admin, ok := GetIdentity(ctx).(session.Admin)
	if !ok {
		panic("no admin in context - admin gate not applied?")
	}
	return admin
}

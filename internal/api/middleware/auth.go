package middleware

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/promptdeck/promptdeck/internal/api/response"
	"github.com/promptdeck/promptdeck/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

// IdentityResolver resolves a bearer credential to a concrete user.
type IdentityResolver interface {
	ResolveSessionToken(ctx context.Context, token string) (*domain.User, error)
	ResolveAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// AuthMiddleware carries the two independent resolution paths of the access
// gate. Session routes never accept an API key and tool-call routes never
// accept a session token.
type AuthMiddleware struct {
	identity IdentityResolver
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(identity IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{identity: identity}
}

// Session authenticates via a bearer session token (path A).
func (m *AuthMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerCredential(r)
		if err != nil {
			response.FromError(w, err)
			return
		}

		user, err := m.identity.ResolveSessionToken(r.Context(), token)
		if err != nil {
			response.FromError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// APIKey authenticates via a bearer API key (path B).
func (m *AuthMiddleware) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey, err := bearerCredential(r)
		if err != nil {
			response.FromError(w, err)
			return
		}

		user, err := m.identity.ResolveAPIKey(r.Context(), apiKey)
		if err != nil {
			response.FromError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireServiceKey demands the static X-API-Key header on top of whatever
// other authentication the route carries.
func RequireServiceKey(serviceKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(serviceKey)) != 1 {
				response.Forbidden(w, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerCredential extracts the credential from the Authorization header.
func bearerCredential(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header: %w", domain.ErrUnauthenticated)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("invalid authorization header format: %w", domain.ErrUnauthenticated)
	}

	return parts[1], nil
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user from the request context.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// Package auth resolves the acting user for each request. The gateway in
// front of this service authenticates the Telegram client and forwards the
// verified identity in a header; this package validates that the identity
// maps to a registered user and threads it through the request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/repository"
)

// HeaderUserID carries the gateway-verified user identity.
const HeaderUserID = "X-User-ID"

const ErrMsgUserRequired = "user identity required"

// Authenticator resolves a forwarded credential to a user ID.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (string, error)
}

// UserStoreAuthenticator accepts the forwarded identity when it names a
// registered user.
type UserStoreAuthenticator struct {
	users repository.User
}

func NewUserStoreAuthenticator(users repository.User) *UserStoreAuthenticator {
	return &UserStoreAuthenticator{users: users}
}

func (a *UserStoreAuthenticator) Authenticate(ctx context.Context, credential string) (string, error) {
	userID := strings.TrimSpace(credential)
	if userID == "" {
		return "", domain.ErrUserNotFound
	}
	if _, err := a.users.GetByID(ctx, userID); err != nil {
		return "", err
	}
	return userID, nil
}

// StaticAuthenticator maps fixed credentials to user IDs. Used in tests and
// local development.
type StaticAuthenticator map[string]string

func (a StaticAuthenticator) Authenticate(_ context.Context, credential string) (string, error) {
	userID, ok := a[credential]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return userID, nil
}

type contextKey string

const userIDKey contextKey = "auth_user_id"

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user ID from the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// Middleware reads the forwarded user identity, resolves it through the
// authenticator and stores it in the request context. Requests without a
// valid identity are rejected; paths in skipPaths pass through untouched.
func Middleware(authn Authenticator, skipPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range skipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			credential := r.Header.Get(HeaderUserID)
			userID, err := authn.Authenticate(r.Context(), credential)
			if err != nil {
				log := logger.FromContext(r.Context())
				if domain.IsNotFound(err) {
					log.Warn("Unknown user identity", "path", r.URL.Path)
					http.Error(w, ErrMsgUserRequired, http.StatusUnauthorized)
					return
				}
				log.Error("Failed to resolve user identity", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// ResolveUser adapts the context identity for the realtime handler.
func ResolveUser(r *http.Request) (string, bool) {
	return UserIDFromContext(r.Context())
}

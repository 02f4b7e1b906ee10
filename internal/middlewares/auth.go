package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/etechnosoft/authgate/internal/logger"
	"github.com/etechnosoft/authgate/internal/models"
)

// TokenExtractor extracts a bearer token from an incoming request.
type TokenExtractor interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Authenticator resolves a token string to its owning user.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*models.UserDB, error)
}

// ErrorResponse is the JSON error body written by the auth middlewares.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthMiddleware returns a middleware that verifies the bearer token and
// stores the authenticated user in the request context. Verification is
// two-phase: the token subject selects the user, whose own secret key
// must then validate the signature.
func AuthMiddleware(extractor TokenExtractor, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := extractor.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeCredentialsError(w)
				return
			}

			user, err := auth.Authenticate(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeCredentialsError(w)
				return
			}

			ctx = SetUserToContext(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActiveUserMiddleware rejects requests from users whose account has
// not been activated. Must run after AuthMiddleware.
func ActiveUserMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				writeCredentialsError(w)
				return
			}
			if !user.Activated {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Inactive user"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeCredentialsError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(ErrorResponse{Error: "Could not validate credentials"})
}

// userContextKey is an unexported type for keys in context
type userContextKey struct{}

var userKey = userContextKey{}

// SetUserToContext stores the authenticated user in the context
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context.
// Returns nil if not present.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}

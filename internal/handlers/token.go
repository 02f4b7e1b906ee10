package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/etechnosoft/authgate/internal/logger"
	"github.com/etechnosoft/authgate/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenResponse represents a successful login response
// swagger:model TokenResponse
type TokenResponse struct {
	// JWT access token
	AccessToken string `json:"access_token"`

	// Token type, always "bearer"
	// default: bearer
	TokenType string `json:"token_type"`
}

// NewTokenHandler returns an HTTP handler for the OAuth2 password-grant
// login form. Credentials arrive as form fields, as in the classic
// tokenUrl flow.
// @Summary Login for access token
// @Description Authenticates a user using their username and password, and returns an access token signed with the user's own secret key.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} handlers.TokenResponse "Access token returned"
// @Failure 400 {object} handlers.ErrorResponse "Missing credentials"
// @Failure 401 {object} handlers.ErrorResponse "Incorrect username or password"
// @Router /token [post]
func NewTokenHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		token, err := svc.Login(r.Context(), username, password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials),
				errors.Is(err, services.ErrUserDoesNotExist):
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Incorrect username or password",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}

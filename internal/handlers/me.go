package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/etechnosoft/authgate/internal/middlewares"
)

// UserResponse represents the current user's details
// swagger:model UserResponse
type UserResponse struct {
	// Username
	// default: john_doe
	Username string `json:"username"`

	// Email
	// default: john@example.com
	Email string `json:"email"`

	// Whether the account is activated
	// default: true
	Activated bool `json:"activated"`
}

// NewMeHandler returns an HTTP handler for the current user's details.
// @Summary Get current user
// @Description Returns the authenticated, active user's details.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UserResponse "Current user details"
// @Failure 401 {object} handlers.ErrorResponse "Could not validate credentials"
// @Router /users/me/ [get]
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Could not validate credentials",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UserResponse{
			Username:  user.Username,
			Email:     user.Email,
			Activated: user.Activated,
		})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/etechnosoft/authgate/internal/logger"
	"github.com/etechnosoft/authgate/internal/middlewares"
	"github.com/etechnosoft/authgate/internal/models"
)

// Refresher defines the interface that the token refresh service must implement.
type Refresher interface {
	Refresh(ctx context.Context, user *models.UserDB) (string, error)
}

// NewRetrieveTokenHandler returns an HTTP handler that issues a fresh
// access token for an already authorized, active user.
// @Summary Retrieve a new access token
// @Description Issues a fresh short-lived access token for the authenticated user.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.GeneralResponse "Token retrieved"
// @Failure 401 {object} handlers.ErrorResponse "Could not validate credentials"
// @Router /retrieve-access-token [get]
func NewRetrieveTokenHandler(svc Refresher) http.HandlerFunc {
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

		token, err := svc.Refresh(r.Context(), user)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(GeneralResponse{
			IsSuccessful: true,
			Message:      "Token retrieved successfully",
			Data:         []string{token},
		})
	}
}

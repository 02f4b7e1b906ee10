package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/etechnosoft/authgate/internal/logger"
	"github.com/etechnosoft/authgate/internal/services"
)

// Activator defines the interface that the activation service must implement.
type Activator interface {
	Activate(ctx context.Context, tokenString string) error
}

// NewActivationHandler returns an HTTP handler for account activation.
// The activation token travels as a query parameter, not in the
// Authorization header.
// @Summary Activate a user account
// @Description Validates the activation token against the owning user's secret key and marks the account as activated.
// @Tags auth
// @Produce json
// @Param token query string true "Activation token"
// @Success 200 {object} handlers.GeneralResponse "Account activated"
// @Failure 400 {object} handlers.ErrorResponse "Missing token"
// @Failure 401 {object} handlers.ErrorResponse "Could not validate credentials"
// @Router /account-activation [post]
func NewActivationHandler(svc Activator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Missing activation token",
			})
			return
		}

		if err := svc.Activate(r.Context(), token); err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidToken):
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Could not validate credentials",
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
		json.NewEncoder(w).Encode(GeneralResponse{
			IsSuccessful: true,
			Message:      "Account activated successfully",
			Data:         []string{},
		})
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/etechnosoft/authgate/internal/middlewares"
	"github.com/etechnosoft/authgate/internal/models"
)

func TestMeHandler(t *testing.T) {
	tests := []struct {
		name         string
		ctxUser      *models.UserDB
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name: "success",
			ctxUser: &models.UserDB{
				Username:  "john",
				Email:     "john@example.com",
				Activated: true,
			},
			expectedCode: 200,
			expectedBody: map[string]any{
				"username":  "john",
				"email":     "john@example.com",
				"activated": true,
			},
		},
		{
			name:         "no user in context",
			ctxUser:      nil,
			expectedCode: 401,
			expectedBody: map[string]any{"error": "Could not validate credentials"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewMeHandler()

			req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
			if tt.ctxUser != nil {
				req = req.WithContext(middlewares.SetUserToContext(req.Context(), tt.ctxUser))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}

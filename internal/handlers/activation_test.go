package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/etechnosoft/authgate/internal/services"
)

func TestActivationHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		target       string
		mockSetup    func(m *MockActivator)
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name:   "success",
			target: "/account-activation?token=valid-token",
			mockSetup: func(m *MockActivator) {
				m.EXPECT().
					Activate(gomock.Any(), "valid-token").
					Return(nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{
				"isSuccessful": true,
				"message":      "Account activated successfully",
				"data":         []any{},
			},
		},
		{
			name:   "invalid token",
			target: "/account-activation?token=bad-token",
			mockSetup: func(m *MockActivator) {
				m.EXPECT().
					Activate(gomock.Any(), "bad-token").
					Return(services.ErrInvalidToken)
			},
			expectedCode: 401,
			expectedBody: map[string]any{"error": "Could not validate credentials"},
		},
		{
			name:         "missing token",
			target:       "/account-activation",
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Missing activation token"},
		},
		{
			name:   "internal server error",
			target: "/account-activation?token=valid-token",
			mockSetup: func(m *MockActivator) {
				m.EXPECT().
					Activate(gomock.Any(), "valid-token").
					Return(errors.New("database failure"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{"error": "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockActivator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewActivationHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
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

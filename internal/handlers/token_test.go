package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/etechnosoft/authgate/internal/services"
)

func TestTokenHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name          string
		username      string
		password      string
		mockSetup     func(m *MockLoginer)
		expectedCode  int
		expectedBody  map[string]any
		wantWWWHeader bool
	}{
		{
			name:     "success",
			username: "john",
			password: "secret",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john", "secret").
					Return("JWT_TOKEN", nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{
				"access_token": "JWT_TOKEN",
				"token_type":   "bearer",
			},
		},
		{
			name:     "wrong password",
			username: "john",
			password: "wrong",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john", "wrong").
					Return("", services.ErrInvalidCredentials)
			},
			expectedCode:  401,
			expectedBody:  map[string]any{"error": "Incorrect username or password"},
			wantWWWHeader: true,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "secret",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "ghost", "secret").
					Return("", services.ErrUserDoesNotExist)
			},
			expectedCode:  401,
			expectedBody:  map[string]any{"error": "Incorrect username or password"},
			wantWWWHeader: true,
		},
		{
			name:         "missing credentials",
			username:     "",
			password:     "",
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Invalid request body"},
		},
		{
			name:     "internal server error",
			username: "john",
			password: "secret",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john", "secret").
					Return("", errors.New("database failure"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{"error": "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewTokenHandler(mockSvc)

			form := url.Values{}
			if tt.username != "" {
				form.Set("username", tt.username)
			}
			if tt.password != "" {
				form.Set("password", tt.password)
			}

			req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)

			if tt.wantWWWHeader {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

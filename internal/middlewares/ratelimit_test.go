package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/didip/tollbooth/v6"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	// 1 request per second, no burst
	lmt := tollbooth.NewLimiter(1, nil)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RateLimitMiddleware(lmt)(nextHandler)

	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	// First request passes
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Immediate second request from the same address is throttled
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRateLimitMiddleware_AllowsDistinctClients(t *testing.T) {
	lmt := tollbooth.NewLimiter(1, nil)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RateLimitMiddleware(lmt)(nextHandler)

	first := httptest.NewRequest(http.MethodPost, "/token", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	second := httptest.NewRequest(http.MethodPost, "/token", nil)
	second.RemoteAddr = "10.0.0.2:1234"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, second)
	assert.Equal(t, http.StatusOK, rr.Code)
}

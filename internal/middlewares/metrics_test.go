package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/etechnosoft/authgate/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	handler := MetricsMiddleware(m)(nextHandler)

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// The scrape output must contain the observed request
	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(scrape.Body)

	assert.True(t, strings.Contains(string(body), "authgate_http_requests_total"))
	assert.True(t, strings.Contains(string(body), `method="POST"`))
	assert.True(t, strings.Contains(string(body), `status="2xx"`))
}

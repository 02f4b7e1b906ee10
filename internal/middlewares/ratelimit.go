package middlewares

import (
	"net/http"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"

	"github.com/etechnosoft/authgate/internal/logger"
)

// RateLimitMiddleware returns a middleware that throttles requests with
// the given tollbooth limiter. Used on the credential endpoints.
func RateLimitMiddleware(lmt *limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpError := tollbooth.LimitByRequest(lmt, w, r); httpError != nil {
				logger.Log.Warnw("request rate limited",
					"method", r.Method,
					"uri", r.RequestURI,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("Content-Type", lmt.GetMessageContentType())
				w.WriteHeader(httpError.StatusCode)
				w.Write([]byte(httpError.Message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

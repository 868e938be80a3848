package middleware

import (
	"net/http"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/response"

	"github.com/go-chi/httprate"
)

const defaultPublicRateLimit = 5

// PublicRateLimit limits unauthenticated traffic per client IP, requestsPerMinute at a time.
func PublicRateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultPublicRateLimit
	}
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Too many requests, please try again later")
		}),
	)
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gio213/rent-and-go/pkg/utils"

	"go.uber.org/zap"
)

// CronSecret guards scheduler-invoked endpoints with the x-cron-secret
// header. An empty configured secret leaves the endpoint open, matching
// the hosted cron setup this replaces.
func CronSecret(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				got := r.Header.Get("x-cron-secret")
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					logger.Warn("Cron secret mismatch", zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Invalid cron secret")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

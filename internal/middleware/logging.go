package middleware

import (
	"net/http"
	"time"

	"apodgallery/internal/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one info entry per request.
func RequestLogger(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("%s %s %d %s [%s]", r.Method, r.URL.Path, status, time.Since(start).Round(time.Millisecond), GetRequestID(r.Context()))
		})
	}
}

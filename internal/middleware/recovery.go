package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"apodgallery/internal/dto"
	"apodgallery/internal/logger"
)

// Recovery turns a panic into a 500 response and logs the stack trace.
func Recovery(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("PANIC [Request ID: %s]: %v\n%s", GetRequestID(r.Context()), err, debug.Stack())

					// Nothing can be sent once the handler has started writing.
					if w.Header().Get("Content-Type") == "" {
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusInternalServerError)
						json.NewEncoder(w).Encode(dto.ErrorData{Error: "internal server error"})
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

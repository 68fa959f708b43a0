package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

// AuthCookie is set by the login handler once the admin password is accepted.
const AuthCookie = "authenticated"

// RequireAdmin only lets requests carrying the auth cookie through. An empty
// password disables the check.
func RequireAdmin(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if password == "" {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(AuthCookie)
			if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(Token(password))) != 1 {
				// API clients get a 401, browsers the login page.
				if r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
					r.Header.Get("Content-Type") == "application/json" ||
					r.Method != http.MethodGet {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Token is the cookie value proving knowledge of password.
func Token(password string) string {
	sum := sha256.Sum256([]byte("apod-admin:" + password))
	return hex.EncodeToString(sum[:])
}

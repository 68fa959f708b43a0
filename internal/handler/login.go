package handler

import (
	"crypto/subtle"
	"net/http"

	"apodgallery/internal/config"
	"apodgallery/internal/logger"
	"apodgallery/internal/middleware"
)

// LoginHandler handles POST /auth/login by validating the admin password and issuing an auth cookie.
func LoginHandler(config *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		password := r.FormValue("password")
		if config.AdminPassword == "" ||
			subtle.ConstantTimeCompare([]byte(password), []byte(config.AdminPassword)) != 1 {
			logger.Warning("Rejected admin login from %s", r.RemoteAddr)
			http.Error(w, "Invalid password", http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.AuthCookie,
			Value:    middleware.Token(config.AdminPassword),
			Path:     "/",
			MaxAge:   2592000, // 30 days
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/logs/info", http.StatusSeeOther)
	}
}

// LogoutHandler drops the auth cookie.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

package route

import (
	"net/http"

	"apodgallery/internal/config"
	"apodgallery/internal/handler"
	"apodgallery/internal/logger"
	"apodgallery/internal/middleware"
	"apodgallery/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// SetupRoutes registers static pages and assets, the gallery API, the viewer
// WebSocket and the diagnostics endpoints.
func SetupRoutes(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(manager.GetMetrics().Middleware)

	// Static files
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Viewer session
	router.Get("/ws", handler.ViewerWebsocketHandler(manager, cfg, logger))

	// Server-rendered gallery
	router.Get("/gallery", handler.GalleryPageHandler(manager, cfg, logger))

	// API endpoints
	router.Route("/api", func(r chi.Router) {
		// cors treats an empty list as "*", so same-origin only means no cors at all.
		if len(cfg.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: cfg.AllowedOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders: []string{"X-Request-ID"},
				MaxAge:         300,
			}))
		}
		r.Get("/gallery", handler.GetGalleryHandler(manager, logger))
		r.Get("/fact", handler.GetFactHandler(manager, logger))
		r.Get("/range/default", handler.GetDefaultRangeHandler(manager, cfg, logger))
	})

	router.Get("/healthz", handler.HealthHandler(manager, logger))
	router.Handle("/metrics", manager.GetMetrics().Handler())

	// Log endpoints
	router.Route("/logs", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(cfg.AdminPassword))
		r.Get("/{level}", handler.ShowLogsHandler(logger))
		r.Post("/{level}/clear", handler.ClearLogsHandler(logger))
	})

	// Auth endpoints
	router.Post("/auth/login", handler.LoginHandler(cfg, logger))
	router.Post("/auth/logout", handler.LogoutHandler)

	// Automatic HTML handler mapping, for example /login -> <static>/login.html
	router.Get("/*", handler.StaticPageHandler(cfg.StaticDirectory))

	return router
}

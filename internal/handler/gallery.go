package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"apodgallery/internal/config"
	"apodgallery/internal/dto"
	"apodgallery/internal/logger"
	"apodgallery/internal/service"
	"apodgallery/internal/service/gallery"
	"apodgallery/internal/view"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GetGalleryHandler returns the gallery items for ?start=&end= as JSON.
// Missing bounds default to the trailing window ending today.
func GetGalleryHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, ok := parseRange(w, r, manager)
		if !ok {
			return
		}

		items, err := manager.GetOrchestrator().RunRange(r.Context(), start, end)
		if err != nil {
			logger.Error("Error building gallery for %s..%s: %v", start, end, err)
			writeError(w, http.StatusInternalServerError, "Error displaying images. Please try again later.", nil)
			return
		}

		writeJSON(w, http.StatusOK, dto.GalleryData{
			Start: start,
			End:   end,
			Count: len(items),
			Items: items,
		}, logger)
	}
}

// GalleryPageHandler renders the gallery for ?start=&end= as a complete HTML page.
func GalleryPageHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, ok := parseRange(w, r, manager)
		if !ok {
			return
		}

		page, err := view.NewPage(cfg.ModalStylesheet)
		if err != nil {
			logger.Error("Error building page: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		outcome := manager.NewRenderer(page, nil).Render(r.Context(), start, end)

		status := http.StatusOK
		if outcome.State == gallery.StateFailed {
			status = http.StatusInternalServerError
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if _, err := w.Write([]byte(page.HTML())); err != nil {
			logger.Error("Error writing gallery page: %v", err)
		}
	}
}

// GetFactHandler returns one random fact.
func GetFactHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.FactData{Fact: manager.GetFacts().Random()}, logger)
	}
}

// GetDefaultRangeHandler returns the default date window used by the page's date inputs.
func GetDefaultRangeHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end := manager.DefaultRange()
		writeJSON(w, http.StatusOK, dto.RangeData{
			Start:        start,
			End:          end,
			ArchiveStart: config.ArchiveStart,
			MaxDays:      cfg.MaxRangeDays,
		}, logger)
	}
}

// HealthHandler reports liveness.
func HealthHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"sessions": manager.GetHub().GetClientCount(),
		}, logger)
	}
}

// parseRange reads and validates ?start=&end=, writing a 400 response when they are unusable.
func parseRange(w http.ResponseWriter, r *http.Request, manager *service.Manager) (string, string, bool) {
	q := dto.GalleryQuery{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	if err := validate.Struct(q); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		writeError(w, http.StatusBadRequest, "dates must use the YYYY-MM-DD format", fields)
		return "", "", false
	}

	defStart, defEnd := manager.DefaultRange()
	if q.Start == "" {
		q.Start = defStart
	}
	if q.End == "" {
		q.End = defEnd
	}

	if err := manager.ValidateRange(q.Start, q.End); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return "", "", false
	}
	return q.Start, q.End, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, fields []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorData{Error: message, Fields: fields})
}

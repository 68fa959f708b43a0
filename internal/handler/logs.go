package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"apodgallery/internal/logger"

	"github.com/go-chi/chi/v5"
)

var logFiles = map[string]string{
	"info":    logger.InfoFile,
	"warning": logger.WarningFile,
	"error":   logger.ErrorFile,
}

// ShowLogsHandler serves the log file of the {level} URL parameter as
// uncached text/plain.
func ShowLogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level := chi.URLParam(r, "level")
		filename, ok := logFiles[level]
		if !ok || logger.Dir() == "" {
			http.NotFound(w, r)
			return
		}

		f, err := os.Open(filepath.Join(logger.Dir(), filename))
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "No "+level+" log has been written yet", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Could not read "+filename, http.StatusInternalServerError)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		var modified time.Time
		if info, err := f.Stat(); err == nil {
			modified = info.ModTime()
		}
		http.ServeContent(w, r, filename, modified, f)
	}
}

// ClearLogsHandler truncates the log file of the {level} URL parameter.
func ClearLogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, ok := logFiles[chi.URLParam(r, "level")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := logger.CleanLogs(filename); err != nil {
			http.Error(w, "Could not clear "+filename, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// StaticPageHandler serves /path as <dir>/path.html if the file exists; otherwise 404.
func StaticPageHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(dir, filepath.Clean("/"+path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

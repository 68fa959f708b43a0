package service

import (
	"time"

	"apodgallery/internal/config"
	"apodgallery/internal/facts"
	"apodgallery/internal/logger"
	"apodgallery/internal/metrics"
	"apodgallery/internal/service/apod"
	"apodgallery/internal/service/gallery"
	"apodgallery/internal/service/hub"
)

// Manager holds the services shared by every request and viewer session.
type Manager struct {
	config       *config.Config
	fetcher      apod.Fetcher
	orchestrator *gallery.Orchestrator
	facts        *facts.Provider
	hub          *hub.Hub
	metrics      *metrics.Collector
	logger       *logger.Logger
	now          func() time.Time
}

func NewManager(cfg *config.Config, fetcher apod.Fetcher, facts *facts.Provider, hub *hub.Hub,
	metrics *metrics.Collector, logger *logger.Logger) *Manager {
	return &Manager{
		config:       cfg,
		fetcher:      fetcher,
		orchestrator: gallery.NewOrchestrator(fetcher),
		facts:        facts,
		hub:          hub,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// SetClock replaces the clock used for default ranges and validation.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// NewRenderer creates a renderer writing to surface; progress may be nil.
func (m *Manager) NewRenderer(surface gallery.Surface, progress gallery.ProgressFunc) *gallery.Renderer {
	return gallery.NewRenderer(gallery.RendererOptions{
		Orchestrator: m.orchestrator,
		Surface:      surface,
		Facts:        m.facts,
		Progress:     progress,
		Logger:       m.logger,
		Metrics:      m.metrics,
	})
}

// DefaultRange returns the configured trailing window ending today.
func (m *Manager) DefaultRange() (string, string) {
	return gallery.DefaultRange(m.now(), m.config.DefaultRange)
}

// ValidateRange checks a range against the archive bounds and the configured maximum length.
func (m *Manager) ValidateRange(start, end string) error {
	return gallery.ValidateRange(start, end, m.now(), m.config.MaxRangeDays)
}

func (m *Manager) GetOrchestrator() *gallery.Orchestrator {
	return m.orchestrator
}

func (m *Manager) GetFacts() *facts.Provider {
	return m.facts
}

func (m *Manager) GetHub() *hub.Hub {
	return m.hub
}

func (m *Manager) GetMetrics() *metrics.Collector {
	return m.metrics
}

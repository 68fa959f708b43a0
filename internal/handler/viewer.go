package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"apodgallery/internal/config"
	"apodgallery/internal/dom"
	"apodgallery/internal/dto"
	"apodgallery/internal/logger"
	"apodgallery/internal/service"
	"apodgallery/internal/service/gallery"
	"apodgallery/internal/view"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	readLimit    = 4096
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// newUpgrader accepts same-host pages, clients that send no Origin and the
// configured origins; "*" allows any origin.
func newUpgrader(allowed []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
				return true
			}
			for _, a := range allowed {
				if a == "*" || strings.EqualFold(a, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ViewerWebsocketHandler serves one viewer session per connection. The
// session owns the viewer's page document; the browser mirrors it from the
// patches the session pushes.
func ViewerWebsocketHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	upgrader := newUpgrader(cfg.AllowedOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warning("WebSocket upgrade error: %v", err)
			return
		}

		session, err := NewSession(connection, manager, cfg, logger)
		if err != nil {
			logger.Error("Error creating viewer session: %v", err)
			connection.Close()
			return
		}

		manager.GetHub().Register(session)
		defer manager.GetHub().Unregister(session)

		session.Serve()
	}
}

// Session is one connected viewer.
type Session struct {
	id       string
	conn     *websocket.Conn
	manager  *service.Manager
	logger   *logger.Logger
	page     *view.Page
	renderer *gallery.Renderer

	ctx    context.Context
	cancel context.CancelFunc
	runs   sync.WaitGroup

	// mu guards page; writeMu serialises connection writes.
	mu      sync.Mutex
	writeMu sync.Mutex
	closed  bool
}

// NewSession prepares a session with a fresh page for conn.
func NewSession(conn *websocket.Conn, manager *service.Manager, cfg *config.Config, logger *logger.Logger) (*Session, error) {
	page, err := view.NewPage(cfg.ModalStylesheet)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:      id,
		conn:    conn,
		manager: manager,
		logger:  logger.With("session", id),
		page:    page,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.renderer = manager.NewRenderer(&sessionSurface{s: s}, s.progress)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Send writes v as a JSON text message.
func (s *Session) Send(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

// Close stops any run in flight and closes the connection.
func (s *Session) Close() error {
	s.cancel()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// Serve reads viewer messages until the connection ends.
func (s *Session) Serve() {
	defer func() {
		s.cancel()
		s.runs.Wait()
	}()

	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	go s.ping()

	s.pushPatch()

	for {
		var msg dto.ViewerMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info("Viewer disconnected normally")
			} else {
				s.logger.Warning("Viewer disconnected: %v", err)
			}
			return
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg dto.ViewerMessage) {
	switch msg.Type {
	case dto.MessageFetch:
		s.fetch(msg.Start, msg.End)
	case dto.MessageEvent:
		s.dispatch(msg.Event, msg.Target, msg.Key)
	case dto.MessageSync:
		s.pushPatch()
	default:
		s.logger.Warning("Unknown viewer message type %q", msg.Type)
	}
}

// fetch takes over the gallery on the read loop and fetches in the
// background, so a newer fetch always supersedes an older one.
func (s *Session) fetch(start, end string) {
	if err := s.manager.ValidateRange(start, end); err != nil && !errors.Is(err, gallery.ErrInvalidDate) {
		s.send(dto.NoticeMessage{Type: "notice", Message: err.Error()})
		return
	}

	run := s.renderer.Begin(s.ctx, start, end)
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		outcome := run.Wait()
		s.logger.Info("Gallery run %s..%s finished: %s (%d items)", start, end, outcome.State, outcome.Items)
	}()
}

func (s *Session) dispatch(event, target, key string) {
	if event != dom.Click && event != dom.KeyDown {
		return
	}

	s.mu.Lock()
	node := s.page.Doc.ByNID(target)
	if node == nil {
		s.mu.Unlock()
		return
	}
	s.page.Doc.Dispatch(&dom.Event{Type: event, Key: key, Target: node})
	patch := s.page.Snapshot()
	s.mu.Unlock()

	s.send(patch)
}

func (s *Session) progress(index, total int, item view.Item) {
	s.send(dto.ProgressMessage{Type: "progress", Index: index + 1, Total: total, Date: item.Date})
}

func (s *Session) pushPatch() {
	s.mu.Lock()
	patch := s.page.Snapshot()
	s.mu.Unlock()
	s.send(patch)
}

func (s *Session) send(v interface{}) {
	if err := s.Send(v); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.logger.Warning("Error sending to viewer: %v", err)
	}
}

func (s *Session) ping() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// sessionSurface applies renderer writes to the session page and pushes the result.
type sessionSurface struct {
	s *Session
}

func (ss *sessionSurface) apply(fn func(p *view.Page)) {
	ss.s.mu.Lock()
	fn(ss.s.page)
	patch := ss.s.page.Snapshot()
	ss.s.mu.Unlock()
	ss.s.send(patch)
}

func (ss *sessionSurface) ClearGallery() {
	ss.apply(func(p *view.Page) { p.ClearGallery() })
}

func (ss *sessionSurface) ShowLoading(header, text string) {
	ss.apply(func(p *view.Page) { p.ShowLoading(header, text) })
}

func (ss *sessionSurface) ClearLoading() {
	ss.apply(func(p *view.Page) { p.ClearLoading() })
}

func (ss *sessionSurface) ShowError(message string) {
	ss.apply(func(p *view.Page) { p.ShowError(message) })
}

func (ss *sessionSurface) AppendItems(items []view.Item) {
	ss.apply(func(p *view.Page) { p.AppendItems(items) })
}

// Package hub tracks the open viewer sessions.
package hub

import (
	"sync"

	"apodgallery/internal/logger"
	"apodgallery/internal/metrics"
)

// Client is one connected viewer.
type Client interface {
	ID() string
	Send(v interface{}) error
	Close() error
}

type Hub struct {
	clients    map[string]Client
	broadcast  chan interface{}
	register   chan Client
	unregister chan Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *logger.Logger
	metrics    *metrics.Collector
}

func New(logger *logger.Logger, metrics *metrics.Collector) *Hub {
	return &Hub{
		clients:    make(map[string]Client),
		broadcast:  make(chan interface{}),
		register:   make(chan Client),
		unregister: make(chan Client),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    metrics,
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.ID()] = client
			count := len(h.clients)
			h.mutex.Unlock()
			h.metrics.SessionOpened()
			h.logger.Info("Viewer %s connected. Total: %d", client.ID(), count)

		case client := <-h.unregister:
			h.mutex.Lock()
			_, ok := h.clients[client.ID()]
			if ok {
				delete(h.clients, client.ID())
			}
			count := len(h.clients)
			h.mutex.Unlock()
			if ok {
				h.metrics.SessionClosed()
				client.Close()
				h.logger.Info("Viewer %s disconnected. Total: %d", client.ID(), count)
			}

		case message := <-h.broadcast:
			h.mutex.RLock()
			clients := make([]Client, 0, len(h.clients))
			for _, c := range h.clients {
				clients = append(clients, c)
			}
			h.mutex.RUnlock()
			for _, c := range clients {
				if err := c.Send(message); err != nil {
					h.logger.Error("Error sending message to viewer %s: %v", c.ID(), err)
				}
			}

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Register adds a client. It is a no-op once the hub has stopped.
func (h *Hub) Register(client Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes and closes a client.
func (h *Hub) Unregister(client Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends v to every registered client.
func (h *Hub) Broadcast(v interface{}) {
	select {
	case h.broadcast <- v:
	case <-h.done:
	}
}

// GetClientCount returns the number of registered clients.
func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[string]Client)
	h.mutex.Unlock()

	for _, c := range clients {
		h.metrics.SessionClosed()
		c.Close()
	}
	h.logger.Info("Closed %d viewer sessions", len(clients))
}

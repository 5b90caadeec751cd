// Package live pushes league change notifications to connected visitor
// pages over websockets, so standings and top-scorer views refresh without
// polling.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/kacemyassine/league-tracker/services"
)

// Message is the envelope sent to every subscriber.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const MessageTypeLeagueUpdated = "LEAGUE_UPDATED"

// Hub fans broadcast messages out to all connected clients. There is a
// single topic: the league.
type Hub struct {
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	clients    map[*Client]bool
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the client set. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.logger.Debug("websocket client registered", slog.Int("clients", len(h.clients)))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.logger.Debug("websocket client unregistered", slog.Int("clients", len(h.clients)))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				// A slow client loses messages rather than stalling the hub.
				if !client.trySend(message) {
					h.logger.Debug("dropping message for slow websocket client")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// LeagueUpdated implements services.LeagueNotifier: every engine mutation
// lands here and is fanned out to subscribers.
func (h *Hub) LeagueUpdated(update services.LeagueUpdate) {
	h.send(Message{Type: MessageTypeLeagueUpdated, Payload: update})
}

func (h *Hub) send(msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode websocket message", slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		// Broadcast backlog full; the next update supersedes this one anyway.
	}
}

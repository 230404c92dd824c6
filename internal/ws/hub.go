package ws

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/game"
)

// outbound is one encoded frame waiting in a client's send buffer.
type outbound struct {
	messageType int
	data        []byte
}

// Client represents a connected WebSocket client watching one match
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	matchID    string
	format     Format
	canControl bool
	send       chan outbound
}

// Hub maintains the set of active clients, grouped into per-match rooms.
// It implements game.Broadcaster.
type Hub struct {
	manager    *game.MatchManager
	config     *config.Config
	rooms      map[string]map[*Client]bool // matchID -> clients
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(mm *game.MatchManager, cfg *config.Config) *Hub {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Hub{
		manager:    mm,
		config:     cfg,
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled. Once it returns the
// hub accepts no new clients.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for matchID, room := range h.rooms {
				for client := range room {
					close(client.send)
				}
				delete(h.rooms, matchID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.matchID]; !exists {
				h.rooms[client.matchID] = make(map[*Client]bool)
			}
			h.rooms[client.matchID][client] = true
			size := len(h.rooms[client.matchID])
			h.mu.Unlock()

			log.Printf("[WS] Client connected to match %s (format=%s control=%v room_size=%d)", client.matchID, client.format, client.canControl, size)

			if m, err := h.manager.GetMatch(client.matchID); err == nil {
				snap := m.Snapshot()
				client.deliver(game.MatchEvent{Type: game.EventTypeSnapshot, MatchID: client.matchID, Snapshot: &snap})
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.matchID]; exists && room[client] {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, client.matchID)
				}
				close(client.send)
				log.Printf("[WS] Client disconnected from match %s", client.matchID)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToMatch sends an event to every client of a match, encoding it
// once per wire format. A match_closed event also ends the room.
func (h *Hub) BroadcastToMatch(matchID string, ev game.MatchEvent) {
	h.mu.RLock()
	room, exists := h.rooms[matchID]
	if !exists {
		h.mu.RUnlock()
		return
	}

	encoded := make(map[Format][]byte, 2)
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
		data, ok := encoded[client.format]
		if !ok {
			var err error
			data, err = client.format.Encode(ev)
			if err != nil {
				log.Printf("[WS] Error encoding %s for match %s: %v", ev.Type, matchID, err)
				continue
			}
			encoded[client.format] = data
		}
		select {
		case client.send <- outbound{messageType: client.format.MessageType(), data: data}:
		default:
			// Client's buffer is full
			log.Printf("[WS] Client send buffer full in match %s, dropping %s", matchID, ev.Type)
		}
	}
	h.mu.RUnlock()

	if ev.Type == game.EventTypeMatchClosed {
		go func() {
			for _, c := range clients {
				h.leave(c)
			}
		}()
	}
}

// join hands a client to Run. It reports false once the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave hands a client to Run for removal. After Run has stopped every
// send channel is already closed, so there is nothing left to do.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Stopped reports whether Run has returned.
func (h *Hub) Stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// RoomSize returns the number of clients watching a match.
func (h *Hub) RoomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// deliver queues one event for this client only. Clients already removed
// from their room are skipped since their send channel is closed.
func (c *Client) deliver(ev game.MatchEvent) {
	data, err := c.format.Encode(ev)
	if err != nil {
		log.Printf("[WS] Error encoding %s: %v", ev.Type, err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.rooms[c.matchID][c] {
		return
	}
	select {
	case c.send <- outbound{messageType: c.format.MessageType(), data: data}:
	default:
		log.Printf("[WS] Client send buffer full in match %s, dropping %s", c.matchID, ev.Type)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.deliver(game.MatchEvent{Type: game.EventTypeError, MatchID: c.matchID, Message: message})
}

package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/reklub/kumitsu-app/metrics"
)

// Message types pushed to tournament rooms.
const (
	MessageBracketGenerated  = "BRACKET_GENERATED"
	MessageMatchUpdated      = "MATCH_UPDATED"
	MessageSlotFilled        = "SLOT_FILLED"
	MessageCategoryCompleted = "CATEGORY_COMPLETED"
	MessageTournamentStarted = "TOURNAMENT_STARTED"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	RoomID  string `json:"room_id,omitempty"`
}

type Client struct {
	ID       string
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string
	IsClosed bool
	Mu       sync.Mutex
}

// Hub fans messages out to websocket clients grouped in rooms, one room per
// tournament. Rooms are created on first join and dropped when empty.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "live_hub")),
	}
}

// RoomName is the room every client of a tournament joins.
func RoomName(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}

// Run processes registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			size := len(h.rooms[client.Room])
			h.mu.Unlock()
			metrics.LiveClients.Inc()
			h.logger.Debug("client registered",
				slog.String("client_id", client.ID),
				slog.String("room", client.Room),
				slog.Int("clients", size),
			)

		case client := <-h.Unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.Room]; ok {
				if _, ok := room[client]; ok {
					client.close()
					delete(room, client)
					metrics.LiveClients.Dec()
					h.logger.Debug("client unregistered", slog.String("client_id", client.ID), slog.String("room", client.Room))
					if len(room) == 0 {
						delete(h.rooms, client.Room)
						h.logger.Debug("room closed", slog.String("room", client.Room))
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name, room := range h.rooms {
		for client := range room {
			client.close()
		}
		metrics.LiveClients.Sub(float64(len(room)))
		delete(h.rooms, name)
	}
}

// RoomSize returns the number of clients currently in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends the JSON encoding of message to every client in the
// room. Slow clients whose buffer is full miss the message.
func (h *Hub) BroadcastToRoom(roomID string, message any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("client send buffer full, message dropped", slog.String("room", roomID))
		}
		client.Mu.Unlock()
	}
}

// Publish broadcasts a typed message to the room of a tournament.
func (h *Hub) Publish(tournamentID int, messageType string, payload any) {
	room := RoomName(tournamentID)
	h.BroadcastToRoom(room, Message{Type: messageType, Payload: payload, RoomID: room})
}

// ServeClient registers an upgraded connection in a room and starts its pumps.
func (h *Hub) ServeClient(conn *websocket.Conn, room string) *Client {
	client := &Client{
		ID:   uuid.NewString(),
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, sendBufferSize),
		Room: room,
	}
	select {
	case h.Register <- client:
	case <-h.done:
		conn.Close()
		return client
	}

	go client.WritePump()
	go client.ReadPump()
	return client
}

func (c *Client) close() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if !c.IsClosed {
		close(c.Send)
		c.IsClosed = true
	}
}

// ReadPump discards incoming messages and keeps the read deadline fresh.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket closed unexpectedly", slog.String("room", c.Room), slog.Any("error", err))
			}
			return
		}
	}
}

// WritePump writes queued messages one frame each and pings the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Debug("websocket write failed", slog.String("room", c.Room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

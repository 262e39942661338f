package brackets

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types pushed to websocket clients.
const (
	MessageSnapshotChanged = "SNAPSHOT_CHANGED"
	MessageBracketUpdated  = "BRACKET_UPDATED"
	MessageResultRecorded  = "RESULT_RECORDED"
)

// LeagueRoom is the room every public page joins.
const LeagueRoom = "league"

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string
	IsClosed bool
	Mu       sync.Mutex
}

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	done       chan struct{}
	mu         sync.RWMutex
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
		logger:     logger.With("component", "hub"),
	}
}

// Run serves register and unregister requests until stop is closed.
// It must be called at most once.
func (h *Hub) Run(stop <-chan struct{}) {
	defer close(h.done)
	for {
		select {
		case <-stop:
			h.closeAll()
			return
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Debug("client registered", "room", client.Room, "clients", len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

// Join registers client. It returns false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters client. After the hub has stopped it returns at once:
// Run has already closed every client.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) removeLocked(client *Client) {
	room, ok := h.rooms[client.Room]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	client.Mu.Lock()
	if !client.IsClosed {
		close(client.Send)
		client.IsClosed = true
	}
	client.Mu.Unlock()
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.Room)
	}
	h.logger.Debug("client unregistered", "room", client.Room, "clients", len(room))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for client := range room {
			h.removeLocked(client)
		}
	}
}

// ClientCount returns the number of clients in roomID.
func (h *Hub) ClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends message to every client in roomID. Clients whose
// send buffer is full miss the message; the next one carries a full view.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal broadcast", "room", roomID, "error", err)
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
			h.logger.Warn("client send buffer full, message dropped", "room", roomID)
		}
		client.Mu.Unlock()
	}
}

// Publish wraps payload in a WebSocketMessage and sends it to the league room.
func (h *Hub) Publish(msgType string, payload interface{}) {
	h.BroadcastToRoom(LeagueRoom, WebSocketMessage{Type: msgType, Payload: payload, RoomID: LeagueRoom})
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		// Clients only listen; anything they send is discarded.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket closed unexpectedly", "room", c.Room, "error", err)
			}
			return
		}
	}
}

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
			// One frame per message: each is a standalone JSON document.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Debug("websocket write failed", "room", c.Room, "error", err)
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

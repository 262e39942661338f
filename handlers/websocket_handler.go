package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/services"
	"github.com/gorilla/websocket"
)

// WebSocketHandler attaches public pages to the league room. Each client
// gets the current live view right away and every later one as it is
// published.
type WebSocketHandler struct {
	hub      *brackets.Hub
	league   services.LeagueService
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" or an
// empty list allows any origin.
func NewWebSocketHandler(hub *brackets.Hub, league services.LeagueService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:    hub,
		league: league,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.With("handler", "websocket"),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// ServeWs godoc
// @Summary Поток обновлений лиги
// @Tags realtime
// @Description WebSocket: SNAPSHOT_CHANGED с таблицей, сеткой и сводкой после каждого изменения.
// @Router /ws [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	view, err := h.league.LiveView(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	initial, err := json.Marshal(brackets.WebSocketMessage{
		Type:    brackets.MessageSnapshotChanged,
		Payload: view,
		RoomID:  brackets.LeagueRoom,
	})
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже отправил клиенту HTTP-ошибку
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.LeagueRoom,
	}
	client.Send <- initial
	if !h.hub.Join(client) {
		// Сервер останавливается
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client connected", "remote", r.RemoteAddr)
}

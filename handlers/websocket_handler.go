package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/haneul-lab/league-system/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs обрабатывает WebSocket-подключения для конкретного этапа.
// Клиент подключается к /ws/stages/{stageID} и получает события
// MATCH_UPDATED / STANDINGS_UPDATED / BRACKET_UPDATED этого этапа.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	stageIDStr := chi.URLParam(r, "stageID")
	if stageIDStr == "" {
		http.Error(w, "Missing stageID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту.
		log.Printf("Failed to upgrade connection for stage %s: %v", stageIDStr, err)
		return
	}

	roomID := "stage_" + stageIDStr

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

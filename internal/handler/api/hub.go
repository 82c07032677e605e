package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"CardSight/internal/domain/models"
	applogger "CardSight/pkg/logger"
)

const (
	writeWait     = 10 * time.Second
	clientSendBuf = 16
	statusType    = "status"
	resultType    = "result"
)

type wsEnvelope struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans result bundles out to connected websocket viewers. A slow
// client loses messages rather than stalling the pipeline.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]bool
	upgrader websocket.Upgrader
	logger   *applogger.Logger
}

func NewHub(l *applogger.Logger) *Hub {
	return &Hub{
		clients: make(map[*wsClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: l,
	}
}

// Broadcast sends a result bundle to every connected client.
func (h *Hub) Broadcast(b *models.ResultBundle) {
	h.send(&wsEnvelope{Type: resultType, SessionID: b.SessionID, Data: b})
}

// BroadcastStatus sends a status message to every connected client.
func (h *Hub) BroadcastStatus(sessionID, message string) {
	h.send(&wsEnvelope{Type: statusType, SessionID: sessionID, Message: message})
}

func (h *Hub) send(env *wsEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("marshal ws envelope", applogger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// drop for slow clients
		}
	}
}

// HandleWS upgrades the request and serves the client until it
// disconnects.
func (h *Hub) HandleWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &wsClient{conn: conn, send: make(chan []byte, clientSendBuf)}

	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("viewer connected", applogger.Int("viewers", n))

	go h.writeLoop(client)
	h.readLoop(client)
	return nil
}

// Clients reports the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writeLoop(client *wsClient) {
	for payload := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readLoop drains client messages so pings and close frames are
// processed; viewers never send application data.
func (h *Hub) readLoop(client *wsClient) {
	defer h.drop(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(client *wsClient) {
	h.mu.Lock()
	if h.clients[client] {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	client.conn.Close()
}

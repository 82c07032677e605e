package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"CardSight/internal/domain/models"
	applogger "CardSight/pkg/logger"
)

func hubLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	e := echo.New()
	e.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env wsEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return env
}

func TestHubBroadcastsBundle(t *testing.T) {
	hub := NewHub(hubLogger(t))
	conn := dialHub(t, hub)

	// the client registers before HandleWS returns, but give the
	// server a beat to finish the handshake
	waitForClients(t, hub, 1)
	hub.Broadcast(&models.ResultBundle{SessionID: "s1", FrameIndex: 7})

	env := readEnvelope(t, conn)
	if env.Type != "result" || env.SessionID != "s1" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHubBroadcastsStatus(t *testing.T) {
	hub := NewHub(hubLogger(t))
	conn := dialHub(t, hub)

	waitForClients(t, hub, 1)
	hub.BroadcastStatus("s1", "frame source failed")

	env := readEnvelope(t, conn)
	if env.Type != "status" || env.Message != "frame source failed" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	hub := NewHub(hubLogger(t))
	conn := dialHub(t, hub)

	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)

	// must not panic with no clients
	hub.BroadcastStatus("s1", "still running")
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Clients() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("clients = %d, want %d", hub.Clients(), want)
}

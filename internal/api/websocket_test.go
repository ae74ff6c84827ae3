package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/smarthouse/internal/home"
	"github.com/nerrad567/smarthouse/internal/infrastructure/config"
	"github.com/nerrad567/smarthouse/internal/infrastructure/logging"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_BroadcastToSubscribed(t *testing.T) {
	hub := testHub(t)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{home.EntityDevice: {}},
	}
	hub.Register(client)

	hub.BroadcastEvent(home.DeviceEvent(home.ActionUpdated, 1, 2, 3, &home.Device{ID: 3, Room: 2, State: true}))

	select {
	case msg := <-client.send:
		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if wsMsg.Type != wsTypeEvent {
			t.Errorf("type = %q, want %q", wsMsg.Type, wsTypeEvent)
		}
		if wsMsg.EventType != "device.updated" {
			t.Errorf("event_type = %q, want %q", wsMsg.EventType, "device.updated")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for broadcast message")
	}
}

func TestHub_NoMessageForUnsubscribed(t *testing.T) {
	hub := testHub(t)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{home.EntityHouse: {}},
	}
	hub.Register(client)

	hub.BroadcastEvent(home.DeviceEvent(home.ActionDeleted, 1, 1, 1, nil))

	select {
	case <-client.send:
		t.Error("unsubscribed client should not receive message")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := testHub(t)

	if hub.ClientCount() != 0 {
		t.Errorf("initial client count = %d, want 0", hub.ClientCount())
	}

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	hub.Register(client)
	if hub.ClientCount() != 1 {
		t.Errorf("after register count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	if hub.ClientCount() != 0 {
		t.Errorf("after unregister count = %d, want 0", hub.ClientCount())
	}

	// A second unregister must not close the channel twice.
	hub.Unregister(client)
}

func TestHub_TrySendAfterClose(t *testing.T) {
	hub := testHub(t)
	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: map[string]struct{}{home.EntityHouse: {}},
	}
	hub.Register(client)
	hub.Unregister(client)

	// Must not panic on the closed channel.
	client.trySend([]byte("{}"))
}

func TestNewHub_DefaultsKeepalive(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, logging.Discard())
	if hub.cfg.PingInterval != 30 || hub.cfg.PongTimeout != 10 || hub.cfg.MaxMessageSize != 8192 {
		t.Errorf("cfg = %+v, want ping 30 pong 10 max 8192", hub.cfg)
	}
}

// dialWS connects a WebSocket client to the server's event stream.
func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() }) //nolint:errcheck // Test cleanup
	return conn
}

// readWS reads the next message with a deadline.
func readWS(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	//nolint:errcheck // Test deadline
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	return msg
}

func TestWebSocket_EventStream(t *testing.T) {
	srv := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	conn := dialWS(t, ts)

	if err := conn.WriteJSON(WSMessage{
		Type:    wsTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{home.EntityHouse}},
	}); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}
	if resp := readWS(t, conn); resp.Type != wsTypeResponse || resp.ID != "sub-1" {
		t.Fatalf("subscribe response = %+v", resp)
	}

	resp, err := http.Post(ts.URL+"/house", "application/json", strings.NewReader(`{"name":"la casa"}`))
	if err != nil {
		t.Fatalf("POST /house: %v", err)
	}
	resp.Body.Close()

	msg := readWS(t, conn)
	if msg.Type != wsTypeEvent || msg.EventType != "house.created" {
		t.Fatalf("event = %+v, want house.created", msg)
	}
	payload, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload = %T, want object", msg.Payload)
	}
	if payload["entity"] != home.EntityHouse || payload["id"] != float64(1) {
		t.Errorf("payload = %v, want entity house id 1", payload)
	}
}

func TestWebSocket_PingAndUnknownType(t *testing.T) {
	srv := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	conn := dialWS(t, ts)

	if err := conn.WriteJSON(WSMessage{Type: wsTypePing, ID: "p"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msg := readWS(t, conn); msg.Type != wsTypePong || msg.ID != "p" {
		t.Errorf("ping reply = %+v, want pong", msg)
	}

	if err := conn.WriteJSON(WSMessage{Type: "bogus", ID: "b"}); err != nil {
		t.Fatalf("write bogus: %v", err)
	}
	if msg := readWS(t, conn); msg.Type != wsTypeError || msg.ID != "b" {
		t.Errorf("bogus reply = %+v, want error", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if msg := readWS(t, conn); msg.Type != wsTypeError {
		t.Errorf("garbage reply = %+v, want error", msg)
	}
}

func TestWebSocket_Unsubscribe(t *testing.T) {
	srv := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	conn := dialWS(t, ts)

	for _, msgType := range []string{wsTypeSubscribe, wsTypeUnsubscribe} {
		if err := conn.WriteJSON(WSMessage{
			Type:    msgType,
			ID:      msgType,
			Payload: WSSubscribePayload{Channels: []string{home.EntityHouse}},
		}); err != nil {
			t.Fatalf("write %s: %v", msgType, err)
		}
		if resp := readWS(t, conn); resp.Type != wsTypeResponse || resp.ID != msgType {
			t.Fatalf("%s response = %+v", msgType, resp)
		}
	}

	resp, err := http.Post(ts.URL+"/house", "application/json", strings.NewReader(`{"name":"la casa"}`))
	if err != nil {
		t.Fatalf("POST /house: %v", err)
	}
	resp.Body.Close()

	// The next frame must be the ping reply, not the house.created event.
	if err := conn.WriteJSON(WSMessage{Type: wsTypePing, ID: "after"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msg := readWS(t, conn); msg.Type != wsTypePong || msg.ID != "after" {
		t.Errorf("message after unsubscribe = %+v, want pong", msg)
	}
}

package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

func testState() *engine.MissionState {
	return &engine.MissionState{
		ScenarioName: "Test",
		Southwest:    engine.Point{X: 0, Y: 0},
		Northeast:    engine.Point{X: 5, Y: 5},
		Rovers: []engine.Rover{
			{Name: "R1", Position: engine.Point{X: 1, Y: 2}, Direction: engine.North},
		},
		Message: "R1 moved to (1,2)",
	}
}

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		id:        sessionID + "-client",
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

// waitForCount polls the running hub until sessionID has want clients
func waitForCount(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func startTestServer(t *testing.T, hub *Hub, initial *engine.MissionState) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"), initial)
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)

	hub.registerClient(client1)
	hub.registerClient(client2)
	if len(hub.sessions[sessionID]) != 2 {
		t.Fatalf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)
	if len(hub.sessions[sessionID]) != 1 || !hub.sessions[sessionID][client2] {
		t.Error("client2 should be the only registered client")
	}
	if _, ok := <-client1.send; ok {
		t.Error("Unregistered client's send channel should be closed")
	}

	// Unregistering twice is a no-op
	hub.unregisterClient(client1)

	hub.unregisterClient(client2)
	if _, exists := hub.sessions[sessionID]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "broadcast-test")
	other := newTestClient(hub, "other-session")
	hub.registerClient(client)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{SessionID: "broadcast-test", MissionState: testState(), Event: EventStateUpdate})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %q", EventStateUpdate, message.Event)
		}
		if message.MissionState.Rovers[0].Direction != engine.North {
			t.Errorf("Expected direction N, got %s", message.MissionState.Rovers[0].Direction)
		}
	default:
		t.Fatal("No message queued for client")
	}

	select {
	case <-other.send:
		t.Error("Client in another session should not receive the message")
	default:
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{id: "slow", hub: hub, sessionID: "slow", send: make(chan []byte, 1)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "one"})
	hub.broadcastMessage(&Message{SessionID: "slow", Event: "two"})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Client with a full send buffer should be dropped")
	}
}

func TestBroadcastQueuesWithoutRun(t *testing.T) {
	hub := NewHub()

	// Enqueue must not block while Run is not started
	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" || message.Event != "custom-event" || message.Data != "test-data" {
			t.Errorf("Unexpected message: %+v", message)
		}
	default:
		t.Fatal("Expected a queued broadcast")
	}
}

func TestBroadcastToSessionClonesState(t *testing.T) {
	hub := NewHub()
	state := testState()

	hub.BroadcastToSession("clone-test", state)
	state.Rovers[0].Position = engine.Point{X: 4, Y: 4}

	message := <-hub.broadcast
	if message.MissionState.Rovers[0].Position != (engine.Point{X: 1, Y: 2}) {
		t.Error("Queued state should not observe later mutations")
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := startTestServer(t, hub, nil)
	conn := dial(t, server, "ws-test")

	waitForCount(t, hub, "ws-test", 1)

	conn.Close()
	waitForCount(t, hub, "ws-test", 0)
}

func TestWebSocketSnapshotAndUpdates(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := startTestServer(t, hub, testState())
	conn := dial(t, server, "msg-test")

	snapshot := readMessage(t, conn)
	if snapshot.Event != EventSnapshot {
		t.Fatalf("Expected snapshot first, got %q", snapshot.Event)
	}
	if snapshot.MissionState == nil || snapshot.MissionState.ScenarioName != "Test" {
		t.Fatal("Snapshot should carry the mission state")
	}

	waitForCount(t, hub, "msg-test", 1)

	update := testState()
	update.Rovers[0].Position = engine.Point{X: 1, Y: 3}
	hub.BroadcastToSession("msg-test", update)

	message := readMessage(t, conn)
	if message.Event != EventStateUpdate {
		t.Errorf("Expected %q, got %q", EventStateUpdate, message.Event)
	}
	if message.MissionState.Rovers[0].Position != (engine.Point{X: 1, Y: 3}) {
		t.Errorf("Expected rover at (1,3), got %v", message.MissionState.Rovers[0].Position)
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	finished := make(chan struct{})
	go func() {
		hub.Run()
		close(finished)
	}()

	server := startTestServer(t, hub, nil)
	conn := dial(t, server, "stop-test")
	waitForCount(t, hub, "stop-test", 1)

	hub.Stop()
	hub.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed after Stop")
	}
	if hub.ClientCount("stop-test") != 0 {
		t.Error("ClientCount after Stop should be 0")
	}
}

package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dhakabakes/api/internal/auth"
	"github.com/dhakabakes/api/internal/enum"
)

const testSecret = "ws-test-secret"

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}

	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return event
}

func TestBroadcast_ReachesSubscribedTopic(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(ServeCarouselWS(hub))
	defer server.Close()

	conn := dial(t, server, "/ws/carousel")
	defer conn.Close()

	// Give the hub time to register the client
	time.Sleep(50 * time.Millisecond)

	payload, _ := json.Marshal(map[string]int{"index": 2})
	hub.Broadcast(TopicCarousel, Event{Type: "carousel_advanced", Payload: payload})

	event := readEvent(t, conn)
	if event.Type != "carousel_advanced" {
		t.Errorf("expected type carousel_advanced, got %s", event.Type)
	}
}

func TestBroadcast_DoesNotCrossTopics(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(ServeCarouselWS(hub))
	defer server.Close()

	conn := dial(t, server, "/ws/carousel")
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	// Broadcast to a topic the client is not subscribed to
	payload, _ := json.Marshal(map[string]string{"order_id": "ORDER-1"})
	hub.Broadcast(TopicOrders, Event{Type: "new_order", Payload: payload})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected read timeout, got a message from another topic")
	}
}

func TestOrdersWS_RequiresToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(ServeOrdersWS(hub, testSecret))
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/orders")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestOrdersWS_RejectsInvalidToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(ServeOrdersWS(hub, testSecret))
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/orders?token=not-a-jwt")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestOrdersWS_AcceptsAdminToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(ServeOrdersWS(hub, testSecret))
	defer server.Close()

	token, err := auth.GenerateToken(testSecret, uuid.New(), enum.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	conn := dial(t, server, "/ws/orders?token="+token)
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	payload, _ := json.Marshal(map[string]string{"order_id": "ORDER-42"})
	hub.Broadcast(TopicOrders, Event{Type: "new_order", Payload: payload})

	event := readEvent(t, conn)
	if event.Type != "new_order" {
		t.Errorf("expected type new_order, got %s", event.Type)
	}
}

package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsPair dials the test server and hands back both ends of the socket.
func wsPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(5 * time.Second):
		t.Fatal("server connection never arrived")
	}
	t.Cleanup(func() { server.Close() })

	return server, client
}

func TestPublish_DeliversToSubscriber(t *testing.T) {
	hub := NewHub()
	serverConn, clientConn := wsPair(t)

	sub := hub.Subscribe(7, serverConn)
	defer hub.Unsubscribe(sub)

	if got := hub.SubscriberCount(7); got != 1 {
		t.Fatalf("subscriber count = %d, want 1", got)
	}

	hub.Publish(7, map[string]any{"type": "position_update", "order_id": 7})

	clientConn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := clientConn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if msg["type"] != "position_update" {
		t.Fatalf("unexpected payload: %v", msg)
	}
}

func TestPublish_ScopedToOrder(t *testing.T) {
	hub := NewHub()
	serverA, clientA := wsPair(t)
	serverB, clientB := wsPair(t)

	hub.Subscribe(1, serverA)
	hub.Subscribe(2, serverB)

	hub.Publish(1, map[string]any{"order_id": 1})

	clientA.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := clientA.ReadMessage(); err != nil {
		t.Fatalf("order 1 subscriber should receive: %v", err)
	}

	clientB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := clientB.ReadMessage(); err == nil {
		t.Fatal("order 2 subscriber should not receive order 1 traffic")
	}
}

func TestPublish_NoSubscribersIsNoop(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.Publish(99, map[string]any{"order_id": 99})
}

func TestPublish_DropsBrokenSubscriber(t *testing.T) {
	hub := NewHub()
	serverBad, clientBad := wsPair(t)
	serverOK, clientOK := wsPair(t)

	hub.Subscribe(5, serverBad)
	hub.Subscribe(5, serverOK)

	// Kill one transport underneath the hub.
	serverBad.Close()
	clientBad.Close()

	hub.Publish(5, map[string]any{"seq": 1})

	// The healthy subscriber still gets the message.
	clientOK.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := clientOK.ReadMessage(); err != nil {
		t.Fatalf("healthy subscriber lost delivery: %v", err)
	}

	if got := hub.SubscriberCount(5); got != 1 {
		t.Fatalf("broken subscriber not dropped, count = %d", got)
	}
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	hub := NewHub()
	serverConn, _ := wsPair(t)

	sub := hub.Subscribe(3, serverConn)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub) // second removal is a no-op
	hub.Unsubscribe(nil)

	if got := hub.SubscriberCount(3); got != 0 {
		t.Fatalf("subscriber count = %d, want 0", got)
	}
}

func TestSubscriberCount_MultiplePerOrder(t *testing.T) {
	hub := NewHub()
	serverA, _ := wsPair(t)
	serverB, _ := wsPair(t)

	subA := hub.Subscribe(4, serverA)
	hub.Subscribe(4, serverB)

	if got := hub.SubscriberCount(4); got != 2 {
		t.Fatalf("subscriber count = %d, want 2", got)
	}

	hub.Unsubscribe(subA)
	if got := hub.SubscriberCount(4); got != 1 {
		t.Fatalf("subscriber count after unsubscribe = %d, want 1", got)
	}
}

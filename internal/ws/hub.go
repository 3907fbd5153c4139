package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Subscription ties one live connection to one order. It exists only for
// the connection's lifetime and is never persisted.
type Subscription struct {
	OrderID int64

	conn *websocket.Conn
	mu   sync.Mutex // serializes writes (publish vs keep-alive ping)
}

func (s *Subscription) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// Ping sends a keep-alive control frame.
func (s *Subscription) Ping() error {
	return s.write(websocket.PingMessage, nil)
}

// Hub is the per-order broadcast registry. It is injected into both the
// WebSocket handler and the publish paths; there is no process-global
// state. Safe for concurrent use.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int64]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[int64]map[*Subscription]struct{})}
}

func (h *Hub) Subscribe(orderID int64, conn *websocket.Conn) *Subscription {
	sub := &Subscription{OrderID: orderID, conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[orderID] == nil {
		h.subscribers[orderID] = make(map[*Subscription]struct{})
	}
	h.subscribers[orderID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes a subscription. Idempotent; unknown or already
// removed handles are a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[sub.OrderID]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, sub.OrderID)
	}
}

// Publish delivers payload to every subscriber of orderID registered at
// call time. Best-effort and isolated per subscriber: a failed send is
// logged, the connection is dropped from the registry and closed, and
// delivery to the others continues. No buffering, no replay. Publishing
// with zero subscribers is a no-op.
func (h *Hub) Publish(orderID int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("broadcast marshal failed",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subscribers[orderID]))
	for sub := range h.subscribers[orderID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.write(websocket.TextMessage, data); err != nil {
			slog.Warn("dropping broken subscriber",
				slog.Int64("order_id", orderID),
				slog.String("error", err.Error()),
			)
			h.Unsubscribe(sub)
			sub.conn.Close()
		}
	}
}

// SubscriberCount reports the live subscriptions for an order.
func (h *Hub) SubscriberCount(orderID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[orderID])
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CachedPosition is the latest known position for an order, kept hot so
// GET /tracking/latest doesn't hit postgres on every poll.
type CachedPosition struct {
	OrderID      int64     `json:"order_id"`
	DroneID      int64     `json:"drone_id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Altitude     float64   `json:"altitude"`
	Speed        float64   `json:"speed"`
	BatteryLevel *float64  `json:"battery_level"`
	Status       *string   `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

type PositionCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewPositionCache(client *goredis.Client, ttlSeconds int) *PositionCache {
	return &PositionCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *PositionCache) Set(ctx context.Context, pos CachedPosition) error {
	bytes, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	return c.client.Set(ctx, positionKey(pos.OrderID), bytes, c.ttl).Err()
}

func (c *PositionCache) Get(ctx context.Context, orderID int64) (*CachedPosition, error) {
	bytes, err := c.client.Get(ctx, positionKey(orderID)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}

	var pos CachedPosition
	if err := json.Unmarshal(bytes, &pos); err != nil {
		return nil, fmt.Errorf("unmarshal position: %w", err)
	}
	return &pos, nil
}

func positionKey(orderID int64) string {
	return fmt.Sprintf("tracking:latest:%d", orderID)
}

package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"drone-tracking/internal/client"
)

// TokenCache keeps recently verified identities so every request doesn't
// round-trip to the user service. TTL is short; revocation lag is bounded
// by it.
type TokenCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewTokenCache(client *goredis.Client, ttlSeconds int) *TokenCache {
	return &TokenCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *TokenCache) Get(ctx context.Context, token string) (*client.Identity, error) {
	bytes, err := c.client.Get(ctx, tokenKey(token)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached identity: %w", err)
	}

	var identity client.Identity
	if err := json.Unmarshal(bytes, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal cached identity: %w", err)
	}
	return &identity, nil
}

func (c *TokenCache) Set(ctx context.Context, token string, identity *client.Identity) error {
	bytes, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return c.client.Set(ctx, tokenKey(token), bytes, c.ttl).Err()
}

// Raw tokens never go into redis keys.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:token:" + hex.EncodeToString(sum[:])
}

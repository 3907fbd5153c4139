package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domainerrors "drone-tracking/internal/errors"
)

// Identity is what the user service reports for a verified token.
type Identity struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// AuthClient talks to the external user service. Token verification is
// delegated there; this service never mints tokens.
type AuthClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Verify resolves a bearer token to an identity. An unreachable user
// service is surfaced as UNAVAILABLE, never treated as a valid login.
func (c *AuthClient) Verify(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/verify-token", nil)
	if err != nil {
		return nil, domainerrors.NewInternal("build verify request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewUnavailable("user service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.NewUnauthorized(fmt.Sprintf("token rejected by user service (status %d)", resp.StatusCode))
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, domainerrors.NewUnavailable("user service", err)
	}
	return &identity, nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domainerrors "drone-tracking/internal/errors"
)

// Order is the slice of the order service's order payload this service
// needs: the assigned drone and the two route endpoints.
type Order struct {
	ID            int64    `json:"id"`
	DroneID       *int64   `json:"drone_id"`
	RestaurantLat float64  `json:"restaurant_lat"`
	RestaurantLng float64  `json:"restaurant_lng"`
	DeliveryLat   float64  `json:"delivery_lat"`
	DeliveryLng   float64  `json:"delivery_lng"`
	BatteryLevel  *float64 `json:"battery_level"`
}

// DroneInfo is the order service's registry view of a drone.
type DroneInfo struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	BatteryLevel float64  `json:"battery_level"`
	CurrentLat   *float64 `json:"current_lat"`
	CurrentLng   *float64 `json:"current_lng"`
}

// OrderClient talks to the external order service, which owns orders and
// the drone registry.
type OrderClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *OrderClient) GetOrder(ctx context.Context, orderID int64, authorization string) (*Order, error) {
	url := fmt.Sprintf("%s/orders/%d", c.BaseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domainerrors.NewInternal("build order request", err)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewUnavailable("order service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domainerrors.OrderNotFound(orderID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.NewUnavailable("order service", fmt.Errorf("status %d", resp.StatusCode))
	}

	var o Order
	if err := json.NewDecoder(resp.Body).Decode(&o); err != nil {
		return nil, domainerrors.NewUnavailable("order service", err)
	}
	return &o, nil
}

func (c *OrderClient) ListDrones(ctx context.Context) ([]DroneInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/drones", nil)
	if err != nil {
		return nil, domainerrors.NewInternal("build drones request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewUnavailable("order service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.NewUnavailable("order service", fmt.Errorf("status %d", resp.StatusCode))
	}

	var drones []DroneInfo
	if err := json.NewDecoder(resp.Body).Decode(&drones); err != nil {
		return nil, domainerrors.NewUnavailable("order service", err)
	}
	return drones, nil
}

// GetDrone looks up one drone in the order service's registry. Returns
// nil without error when the drone is unknown there.
func (c *OrderClient) GetDrone(ctx context.Context, droneID int64) (*DroneInfo, error) {
	drones, err := c.ListDrones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range drones {
		if drones[i].ID == droneID {
			return &drones[i], nil
		}
	}
	return nil, nil
}

// UpdateDroneStatus pushes a status change back to the order service's
// drone registry.
func (c *OrderClient) UpdateDroneStatus(ctx context.Context, droneID int64, status string) error {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return domainerrors.NewInternal("marshal drone status", err)
	}

	url := fmt.Sprintf("%s/drones/%d", c.BaseURL, droneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return domainerrors.NewInternal("build drone status request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domainerrors.NewUnavailable("order service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return domainerrors.NewUnavailable("order service", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

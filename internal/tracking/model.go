package tracking

import (
	"time"

	"drone-tracking/internal/geo"
)

// PositionSample is one observed or simulated telemetry record. Rows are
// append-only; the latest per order_id is the current position.
type PositionSample struct {
	ID           int64     `db:"id" json:"id"`
	OrderID      int64     `db:"order_id" json:"order_id"`
	DroneID      int64     `db:"drone_id" json:"drone_id"`
	Latitude     float64   `db:"latitude" json:"latitude"`
	Longitude    float64   `db:"longitude" json:"longitude"`
	Altitude     float64   `db:"altitude" json:"altitude"`
	Speed        float64   `db:"speed" json:"speed"`
	BatteryLevel *float64  `db:"battery_level" json:"battery_level"`
	Status       *string   `db:"status" json:"status"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
}

func (s *PositionSample) Point() geo.Point {
	return geo.NewPoint(s.Latitude, s.Longitude)
}

// Waypoint is one planned stop along a route. Sequence numbers are
// contiguous from 0 and unique per order.
type Waypoint struct {
	ID            int64     `db:"id" json:"-"`
	OrderID       int64     `db:"order_id" json:"-"`
	DroneID       int64     `db:"drone_id" json:"-"`
	Sequence      int       `db:"waypoint_sequence" json:"waypoint_sequence"`
	Latitude      float64   `db:"latitude" json:"latitude"`
	Longitude     float64   `db:"longitude" json:"longitude"`
	EstimatedTime int       `db:"estimated_time" json:"estimated_time"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
}

func (w Waypoint) Point() geo.Point {
	return geo.NewPoint(w.Latitude, w.Longitude)
}

// PositionEvent is the payload pushed to WebSocket subscribers. Waypoint
// and TotalWaypoints are set only by the simulator.
type PositionEvent struct {
	Type           string   `json:"type"`
	OrderID        int64    `json:"order_id"`
	DroneID        int64    `json:"drone_id"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Altitude       float64  `json:"altitude"`
	Speed          float64  `json:"speed"`
	BatteryLevel   *float64 `json:"battery_level"`
	Status         *string  `json:"status"`
	Waypoint       int      `json:"waypoint,omitempty"`
	TotalWaypoints int      `json:"total_waypoints,omitempty"`
	Timestamp      string   `json:"timestamp"`
}

const EventTypePositionUpdate = "position_update"

// Lifecycle status tags carried on samples. Free text in the store;
// these are the values this service emits.
const (
	StatusTakingOff = "taking_off"
	StatusInFlight  = "in_flight"
	StatusLanding   = "landing"
)

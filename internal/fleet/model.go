package fleet

import "time"

// Status is the detailed drone lifecycle state tracked by this service.
// The order service keeps its own coarse view; changes here are pushed
// back to it best-effort.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusCharging          Status = "charging"
	StatusAssigned          Status = "assigned"
	StatusGoingToRestaurant Status = "going_to_restaurant"
	StatusPickingUp         Status = "picking_up"
	StatusInDelivery        Status = "in_delivery"
	StatusReturning         Status = "returning"
	StatusMaintenance       Status = "maintenance"
	StatusError             Status = "error"
)

var validStatuses = map[Status]bool{
	StatusIdle:              true,
	StatusCharging:          true,
	StatusAssigned:          true,
	StatusGoingToRestaurant: true,
	StatusPickingUp:         true,
	StatusInDelivery:        true,
	StatusReturning:         true,
	StatusMaintenance:       true,
	StatusError:             true,
}

func (s Status) Valid() bool {
	return validStatuses[s]
}

// StatusRecord is one entry in a drone's status history.
type StatusRecord struct {
	ID             int64     `db:"id" json:"id"`
	DroneID        int64     `db:"drone_id" json:"drone_id"`
	Status         string    `db:"status" json:"status"`
	PreviousStatus *string   `db:"previous_status" json:"previous_status"`
	Latitude       *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude      *float64  `db:"longitude" json:"longitude,omitempty"`
	BatteryLevel   *float64  `db:"battery_level" json:"battery_level"`
	Reason         *string   `db:"reason" json:"reason"`
	ChangedBy      *int64    `db:"changed_by" json:"changed_by,omitempty"`
	ChangedAt      time.Time `db:"changed_at" json:"changed_at"`
}

// SummaryLocation is a drone's last known position in the summary view.
type SummaryLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SummaryPerformance is the performance subset shown on the dashboard.
type SummaryPerformance struct {
	TotalDeliveries int     `json:"total_deliveries"`
	SuccessRate     float64 `json:"success_rate"`
}

// DroneSummary is one row of the fleet-wide dashboard.
type DroneSummary struct {
	DroneID         int64               `json:"drone_id"`
	DroneName       string              `json:"drone_name"`
	CurrentStatus   string              `json:"current_status"`
	BatteryLevel    float64             `json:"battery_level"`
	CurrentLocation *SummaryLocation    `json:"current_location"`
	LastUpdate      *time.Time          `json:"last_update"`
	Performance     *SummaryPerformance `json:"performance"`
	ActiveAlerts    int                 `json:"active_alerts"`
}

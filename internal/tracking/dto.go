package tracking

// UpdatePositionRequest is the body of POST /tracking/update/:order_id.
// Altitude and speed fall back to cruise defaults when omitted.
type UpdatePositionRequest struct {
	Latitude     float64  `json:"latitude" binding:"required"`
	Longitude    float64  `json:"longitude" binding:"required"`
	Altitude     *float64 `json:"altitude"`
	Speed        *float64 `json:"speed"`
	BatteryLevel *float64 `json:"battery_level"`
	Status       *string  `json:"status"`
}

const (
	defaultAltitude = 50.0
	defaultSpeed    = 30.0
)

func (r UpdatePositionRequest) toUpdate() PositionUpdate {
	upd := PositionUpdate{
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Altitude:     defaultAltitude,
		Speed:        defaultSpeed,
		BatteryLevel: r.BatteryLevel,
		Status:       r.Status,
	}
	if r.Altitude != nil {
		upd.Altitude = *r.Altitude
	}
	if r.Speed != nil {
		upd.Speed = *r.Speed
	}
	return upd
}

type StartTrackingResponse struct {
	Message        string `json:"message"`
	OrderID        int64  `json:"order_id"`
	DroneID        int64  `json:"drone_id"`
	TotalWaypoints int    `json:"total_waypoints"`
}

type UpdatePositionResponse struct {
	Message    string `json:"message"`
	TrackingID int64  `json:"tracking_id"`
}

package performance

import "time"

// Stats are cumulative per-drone flight statistics. Success and failure
// counts are stored raw; success_rate is derived from them on every
// write, never reverse-derived from the percentage.
type Stats struct {
	ID                     int64     `db:"id" json:"-"`
	DroneID                int64     `db:"drone_id" json:"drone_id"`
	TotalDeliveries        int       `db:"total_deliveries" json:"total_deliveries"`
	TotalDistanceKM        float64   `db:"total_distance_km" json:"total_distance_km"`
	TotalFlightTimeMinutes int       `db:"total_flight_time_minutes" json:"total_flight_time_minutes"`
	AverageSpeed           float64   `db:"average_speed" json:"average_speed"`
	SuccessfulDeliveries   int       `db:"successful_deliveries" json:"successful_deliveries"`
	FailedDeliveries       int       `db:"failed_deliveries" json:"failed_deliveries"`
	SuccessRate            float64   `db:"success_rate" json:"success_rate"`
	LastUpdated            time.Time `db:"last_updated" json:"last_updated"`
}

// FlightResult is one completed flight to fold into the stats.
type FlightResult struct {
	DeliveriesCompleted int
	DistanceKM          float64
	FlightTimeMinutes   int
	Success             bool
}

// Apply folds a flight into the cumulative stats.
func (s *Stats) Apply(r FlightResult) {
	s.TotalDeliveries += r.DeliveriesCompleted
	s.TotalDistanceKM += r.DistanceKM
	s.TotalFlightTimeMinutes += r.FlightTimeMinutes

	if s.TotalFlightTimeMinutes > 0 {
		s.AverageSpeed = s.TotalDistanceKM / float64(s.TotalFlightTimeMinutes) * 60
	}

	if r.DeliveriesCompleted > 0 {
		if r.Success {
			s.SuccessfulDeliveries += r.DeliveriesCompleted
		} else {
			s.FailedDeliveries += r.DeliveriesCompleted
		}
		counted := s.SuccessfulDeliveries + s.FailedDeliveries
		if counted > 0 {
			s.SuccessRate = float64(s.SuccessfulDeliveries) / float64(counted) * 100
		}
	}
}

func newStats(droneID int64) *Stats {
	return &Stats{
		DroneID:     droneID,
		SuccessRate: 100,
	}
}

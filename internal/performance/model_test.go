package performance

import (
	"math"
	"testing"
)

func TestApply_SuccessfulFlight(t *testing.T) {
	s := newStats(7)
	s.Apply(FlightResult{
		DeliveriesCompleted: 2,
		DistanceKM:          12.5,
		FlightTimeMinutes:   30,
		Success:             true,
	})

	if s.TotalDeliveries != 2 {
		t.Errorf("total deliveries = %d, want 2", s.TotalDeliveries)
	}
	if s.TotalDistanceKM != 12.5 {
		t.Errorf("total distance = %f, want 12.5", s.TotalDistanceKM)
	}
	if s.SuccessfulDeliveries != 2 || s.FailedDeliveries != 0 {
		t.Errorf("counters = %d/%d, want 2/0", s.SuccessfulDeliveries, s.FailedDeliveries)
	}
	if s.SuccessRate != 100 {
		t.Errorf("success rate = %f, want 100", s.SuccessRate)
	}
	// 12.5 km in 30 min is 25 km/h.
	if math.Abs(s.AverageSpeed-25) > 1e-9 {
		t.Errorf("average speed = %f, want 25", s.AverageSpeed)
	}
}

func TestApply_RateFromRawCounters(t *testing.T) {
	s := newStats(7)
	s.Apply(FlightResult{DeliveriesCompleted: 3, DistanceKM: 9, FlightTimeMinutes: 20, Success: true})
	s.Apply(FlightResult{DeliveriesCompleted: 1, DistanceKM: 4, FlightTimeMinutes: 10, Success: false})

	if s.SuccessfulDeliveries != 3 || s.FailedDeliveries != 1 {
		t.Fatalf("counters = %d/%d, want 3/1", s.SuccessfulDeliveries, s.FailedDeliveries)
	}
	if s.SuccessRate != 75 {
		t.Errorf("success rate = %f, want 75", s.SuccessRate)
	}
	if s.TotalDeliveries != 4 {
		t.Errorf("total deliveries = %d, want 4", s.TotalDeliveries)
	}
}

func TestApply_AverageSpeedAccumulates(t *testing.T) {
	s := newStats(7)
	s.Apply(FlightResult{DeliveriesCompleted: 1, DistanceKM: 10, FlightTimeMinutes: 60, Success: true})
	s.Apply(FlightResult{DeliveriesCompleted: 1, DistanceKM: 30, FlightTimeMinutes: 60, Success: true})

	// 40 km over 120 min is 20 km/h.
	if math.Abs(s.AverageSpeed-20) > 1e-9 {
		t.Errorf("average speed = %f, want 20", s.AverageSpeed)
	}
}

func TestApply_ZeroFlightTimeKeepsSpeed(t *testing.T) {
	s := newStats(7)
	s.Apply(FlightResult{DeliveriesCompleted: 1, DistanceKM: 5, FlightTimeMinutes: 0, Success: true})

	if s.AverageSpeed != 0 {
		t.Errorf("average speed = %f, want 0 with no flight time", s.AverageSpeed)
	}
}

func TestApply_StatsOnlyUpdate(t *testing.T) {
	// A distance/time top-up with no deliveries must not touch the rate.
	s := newStats(7)
	s.Apply(FlightResult{DeliveriesCompleted: 2, DistanceKM: 10, FlightTimeMinutes: 30, Success: true})
	before := s.SuccessRate

	s.Apply(FlightResult{DistanceKM: 3, FlightTimeMinutes: 10, Success: false})

	if s.SuccessRate != before {
		t.Errorf("success rate changed to %f on delivery-less update", s.SuccessRate)
	}
	if s.FailedDeliveries != 0 {
		t.Errorf("failed counter moved to %d on delivery-less update", s.FailedDeliveries)
	}
}

func TestNewStats_DefaultRate(t *testing.T) {
	s := newStats(9)
	if s.SuccessRate != 100 {
		t.Errorf("fresh stats rate = %f, want 100", s.SuccessRate)
	}
	if s.DroneID != 9 {
		t.Errorf("drone id = %d, want 9", s.DroneID)
	}
}

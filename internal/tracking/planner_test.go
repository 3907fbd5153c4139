package tracking

import (
	"math"
	"testing"

	"drone-tracking/internal/geo"
)

var (
	planStart = geo.NewPoint(10.762622, 106.660172)
	planEnd   = geo.NewPoint(10.775845, 106.701758)
)

func TestPlanWaypoints_Count(t *testing.T) {
	wps, err := PlanWaypoints(planStart, planEnd, 15, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wps) != 16 {
		t.Fatalf("expected 16 waypoints, got %d", len(wps))
	}
}

func TestPlanWaypoints_Endpoints(t *testing.T) {
	wps, err := PlanWaypoints(planStart, planEnd, 15, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := wps[0]
	if first.Latitude != planStart.Lat || first.Longitude != planStart.Lng {
		t.Fatalf("first waypoint is not the start: %+v", first)
	}

	last := wps[len(wps)-1]
	if math.Abs(last.Latitude-planEnd.Lat) > 1e-12 || math.Abs(last.Longitude-planEnd.Lng) > 1e-12 {
		t.Fatalf("last waypoint is not the end: %+v", last)
	}
}

func TestPlanWaypoints_ContiguousSequences(t *testing.T) {
	wps, err := PlanWaypoints(planStart, planEnd, 15, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, wp := range wps {
		if wp.Sequence != i {
			t.Fatalf("waypoint %d has sequence %d", i, wp.Sequence)
		}
	}
}

func TestPlanWaypoints_TimeEstimates(t *testing.T) {
	wps, err := PlanWaypoints(planStart, planEnd, 15, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, wp := range wps {
		want := int(float64(i) / 15 * 60)
		if wp.EstimatedTime != want {
			t.Errorf("waypoint %d: estimated time %d, want %d", i, wp.EstimatedTime, want)
		}
	}

	if wps[0].EstimatedTime != 0 {
		t.Errorf("first waypoint should estimate 0s, got %d", wps[0].EstimatedTime)
	}
	if wps[len(wps)-1].EstimatedTime != 60 {
		t.Errorf("last waypoint should estimate 60s, got %d", wps[len(wps)-1].EstimatedTime)
	}
}

func TestPlanWaypoints_MonotonicTimes(t *testing.T) {
	wps, err := PlanWaypoints(planStart, planEnd, 7, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(wps); i++ {
		if wps[i].EstimatedTime < wps[i-1].EstimatedTime {
			t.Fatalf("time estimates went backwards at %d: %d < %d",
				i, wps[i].EstimatedTime, wps[i-1].EstimatedTime)
		}
	}
}

func TestPlanWaypoints_RejectsZeroPoints(t *testing.T) {
	if _, err := PlanWaypoints(planStart, planEnd, 0, 60); err == nil {
		t.Fatal("expected error for num_points 0")
	}
	if _, err := PlanWaypoints(planStart, planEnd, -3, 60); err == nil {
		t.Fatal("expected error for negative num_points")
	}
}

func TestTotalDistance_StraightLine(t *testing.T) {
	wps, err := PlanWaypoints(planStart, planEnd, 15, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	direct := geo.Distance(planStart, planEnd)
	total := TotalDistance(wps)

	// Linear interpolation: the summed path should equal the direct
	// great-circle distance at this scale.
	if math.Abs(total-direct)/direct > 0.001 {
		t.Fatalf("path distance %f deviates from direct %f", total, direct)
	}
}

func TestTotalDistance_Degenerate(t *testing.T) {
	if d := TotalDistance(nil); d != 0 {
		t.Fatalf("expected 0 for empty route, got %f", d)
	}
	if d := TotalDistance([]Waypoint{{Latitude: 10, Longitude: 106}}); d != 0 {
		t.Fatalf("expected 0 for single waypoint, got %f", d)
	}
}

package tracking

import (
	domainerrors "drone-tracking/internal/errors"
	"drone-tracking/internal/geo"
)

// PlanWaypoints interpolates numPoints+1 waypoints linearly between start
// and end. Linear lat/lng is a deliberate simplification valid at city
// scale; the reported route distance still uses great-circle segments.
// Waypoint i's time estimate is floor(i/numPoints * tripSeconds).
func PlanWaypoints(start, end geo.Point, numPoints, tripSeconds int) ([]Waypoint, error) {
	if numPoints < 1 {
		return nil, domainerrors.NewValidation("num_points must be at least 1")
	}

	waypoints := make([]Waypoint, 0, numPoints+1)
	for i := 0; i <= numPoints; i++ {
		ratio := float64(i) / float64(numPoints)
		p := geo.Interpolate(start, end, ratio)
		waypoints = append(waypoints, Waypoint{
			Sequence:      i,
			Latitude:      p.Lat,
			Longitude:     p.Lng,
			EstimatedTime: int(ratio * float64(tripSeconds)),
		})
	}
	return waypoints, nil
}

// TotalDistance sums the great-circle distances between consecutive
// waypoints, in km. An approximation of the flown path, not the
// straight-line distance.
func TotalDistance(waypoints []Waypoint) float64 {
	var total float64
	for i := 0; i+1 < len(waypoints); i++ {
		total += geo.Distance(waypoints[i].Point(), waypoints[i+1].Point())
	}
	return total
}

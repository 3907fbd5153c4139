package geo

import "math"

const earthRadiusKM = 6371.0

// Point is an immutable WGS84 coordinate.
type Point struct {
	Lat float64 `json:"latitude" db:"latitude"`
	Lng float64 `json:"longitude" db:"longitude"`
}

func NewPoint(lat, lng float64) Point {
	return Point{Lat: lat, Lng: lng}
}

// Distance returns the haversine great-circle distance between a and b in km.
// Inputs are trusted; no range validation is performed.
func Distance(a, b Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	aLat := degreesToRadians(a.Lat)
	bLat := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(aLat)*math.Cos(bLat)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}

// Bearing returns the initial heading from a to b in degrees, [0, 360).
func Bearing(a, b Point) float64 {
	aLat := degreesToRadians(a.Lat)
	bLat := degreesToRadians(b.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(bLat)
	x := math.Cos(aLat)*math.Sin(bLat) - math.Sin(aLat)*math.Cos(bLat)*math.Cos(dLng)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Interpolate returns the point a fraction ratio of the way from a to b,
// linear in lat/lng. Valid at city scale; not a great-circle path.
func Interpolate(a, b Point, ratio float64) Point {
	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*ratio,
		Lng: a.Lng + (b.Lng-a.Lng)*ratio,
	}
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

package geo

import (
	"math"
	"testing"
)

func TestDistance_SamePoint(t *testing.T) {
	p := NewPoint(10.762622, 106.660172)
	if d := Distance(p, p); d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := NewPoint(10.762622, 106.660172)
	b := NewPoint(10.775845, 106.701758)

	ab := Distance(a, b)
	ba := Distance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestDistance_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.2 km everywhere on the sphere.
	a := NewPoint(10, 106)
	b := NewPoint(11, 106)

	d := Distance(a, b)
	if math.Abs(d-111.2)/111.2 > 0.01 {
		t.Fatalf("expected ~111.2 km, got %f", d)
	}
}

func TestDistance_KnownCityPair(t *testing.T) {
	// District 1 to Tan Son Nhat, roughly 7 km.
	a := NewPoint(10.7769, 106.7009)
	b := NewPoint(10.8188, 106.6520)

	d := Distance(a, b)
	if d < 6 || d > 8 {
		t.Fatalf("expected ~7 km, got %f", d)
	}
}

func TestBearing_DueNorth(t *testing.T) {
	a := NewPoint(10, 106)
	b := NewPoint(11, 106)

	brg := Bearing(a, b)
	if math.Abs(brg) > 0.001 {
		t.Fatalf("expected bearing ~0, got %f", brg)
	}
}

func TestBearing_DueEastAtEquator(t *testing.T) {
	a := NewPoint(0, 106)
	b := NewPoint(0, 107)

	brg := Bearing(a, b)
	if math.Abs(brg-90) > 0.001 {
		t.Fatalf("expected bearing ~90, got %f", brg)
	}
}

func TestBearing_AlwaysInRange(t *testing.T) {
	points := []Point{
		{10.76, 106.66},
		{10.77, 106.70},
		{-33.87, 151.21},
		{51.51, -0.13},
		{0, 0},
	}

	for _, a := range points {
		for _, b := range points {
			if a == b {
				continue
			}
			brg := Bearing(a, b)
			if brg < 0 || brg >= 360 {
				t.Errorf("bearing out of range for %v -> %v: %f", a, b, brg)
			}
		}
	}
}

func TestInterpolate_Endpoints(t *testing.T) {
	a := NewPoint(10.762622, 106.660172)
	b := NewPoint(10.775845, 106.701758)

	if got := Interpolate(a, b, 0); got != a {
		t.Fatalf("ratio 0 should return start, got %v", got)
	}
	got := Interpolate(a, b, 1)
	if math.Abs(got.Lat-b.Lat) > 1e-12 || math.Abs(got.Lng-b.Lng) > 1e-12 {
		t.Fatalf("ratio 1 should return end, got %v", got)
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	a := NewPoint(10, 100)
	b := NewPoint(12, 108)

	mid := Interpolate(a, b, 0.5)
	if mid.Lat != 11 || mid.Lng != 104 {
		t.Fatalf("unexpected midpoint: %v", mid)
	}
}

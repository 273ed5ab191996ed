package geo_test

import (
	"testing"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/geo"
)

func ptr(v float64) *float64 { return &v }

func TestDistance_Known(t *testing.T) {
	tests := []struct {
		name string
		a, b geo.Point
		want int
	}{
		{name: "same point", a: geo.Point{Lat: 14.60, Lon: 120.98}, b: geo.Point{Lat: 14.60, Lon: 120.98}, want: 0},
		{name: "0.01 degree north", a: geo.Point{Lat: 14.5995, Lon: 120.9842}, b: geo.Point{Lat: 14.6095, Lon: 120.9842}, want: 1112},
		{name: "0.1 degree north", a: geo.Point{Lat: 14.60, Lon: 120.98}, b: geo.Point{Lat: 14.70, Lon: 120.98}, want: 11119},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := geo.Distance(&tc.a, &tc.b)
			if !ok {
				t.Fatal("Distance() ok = false, want true")
			}
			if got != tc.want {
				t.Errorf("Distance() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDistance_Properties(t *testing.T) {
	points := []geo.Point{
		{Lat: 14.5995, Lon: 120.9842},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: 40.7128, Lon: -74.0060},
	}

	for i := range points {
		if d, _ := geo.Distance(&points[i], &points[i]); d != 0 {
			t.Errorf("Distance(p, p) = %d for %+v", d, points[i])
		}

		for j := range points {
			ab, _ := geo.Distance(&points[i], &points[j])
			ba, _ := geo.Distance(&points[j], &points[i])
			if ab != ba {
				t.Errorf("Distance not symmetric for %d,%d: %d != %d", i, j, ab, ba)
			}
		}
	}
}

func TestDistance_Unknown(t *testing.T) {
	p := &geo.Point{Lat: 14.6, Lon: 120.98}

	if _, ok := geo.Distance(nil, p); ok {
		t.Error("Distance(nil, p) ok = true")
	}
	if _, ok := geo.Distance(p, nil); ok {
		t.Error("Distance(p, nil) ok = true")
	}
}

func TestPointFrom(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon *float64
		wantNil  bool
	}{
		{name: "both set", lat: ptr(14.6), lon: ptr(120.98)},
		{name: "nil lat", lon: ptr(120.98), wantNil: true},
		{name: "nil lon", lat: ptr(14.6), wantNil: true},
		{name: "zero lat", lat: ptr(0), lon: ptr(120.98), wantNil: true},
		{name: "zero lon", lat: ptr(14.6), lon: ptr(0), wantNil: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := geo.PointFrom(tc.lat, tc.lon)
			if (got == nil) != tc.wantNil {
				t.Errorf("PointFrom() = %v, wantNil %v", got, tc.wantNil)
			}
		})
	}
}

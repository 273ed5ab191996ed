// Package geo computes great-circle distances between coordinates.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// PointFrom builds a Point from optional coordinates. It returns nil when
// either value is missing or zero; a zero coordinate means "not reported".
func PointFrom(lat, lon *float64) *Point {
	if lat == nil || lon == nil || *lat == 0 || *lon == 0 {
		return nil
	}

	return &Point{Lat: *lat, Lon: *lon}
}

// Distance returns the haversine distance between a and b rounded to whole
// meters. ok is false when either point is unknown.
func Distance(a, b *Point) (meters int, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}

	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return int(math.Round(EarthRadiusMeters * c)), true
}

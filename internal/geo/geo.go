// Package geo provides the flat-plane distance math used by the
// convenience scoring. Coordinates are plain floating-point degrees;
// no geodesic correction is applied.
package geo

import "math"

// Point is a latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the Euclidean distance between two points on the
// flat plane.
func Distance(a, b Point) float64 {
	return math.Hypot(a.Latitude-b.Latitude, a.Longitude-b.Longitude)
}

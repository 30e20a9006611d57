package geo

import (
	"fmt"
	"math"
)

// Point is a coordinate pair. In the plane X and Y are Cartesian
// coordinates; on the sphere X is the longitude and Y the latitude, both in
// radians.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Lon returns the longitude of a spherical point.
func (p Point) Lon() float64 { return p.X }

// Lat returns the latitude of a spherical point.
func (p Point) Lat() float64 { return p.Y }

// String formats the point with six decimals.
func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.X, p.Y)
}

// InBox reports whether p lies in the closed box [0,maxX]×[0,maxY].
func (p Point) InBox(maxX, maxY float64) bool {
	return p.X >= 0 && p.X <= maxX && p.Y >= 0 && p.Y <= maxY
}

// WrapLon maps a longitude into (-π, π].
func WrapLon(lon float64) float64 {
	if lon > -math.Pi && lon <= math.Pi {
		return lon
	}
	lon = math.Mod(lon+math.Pi, 2*math.Pi)
	if lon <= 0 {
		lon += 2 * math.Pi
	}
	return lon - math.Pi
}

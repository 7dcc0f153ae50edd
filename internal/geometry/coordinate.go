package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// WGS84 coordinate domain bounds.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// minRingPoints is the smallest ring that can close a polygon
// (three distinct vertices plus the repeated closing vertex).
const minRingPoints = 4

// ValidCoordinate reports whether a coordinate can be written to PostGIS
// without triggering a transform error: at least two ordinates, both finite,
// longitude and latitude inside the WGS84 domain.
func ValidCoordinate(c geom.Coord) bool {
	if len(c) < 2 {
		return false
	}
	lon, lat := c[0], c[1]
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	if lon < MinLongitude || lon > MaxLongitude || lat < MinLatitude || lat > MaxLatitude {
		return false
	}
	return true
}

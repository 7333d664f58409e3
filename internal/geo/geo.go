// internal/geo/geo.go

// Package geo provides the coarse spatial bucketing used by the trending
// engine. Coordinates are rounded to one decimal place to form geo-cell
// keys, so nearby events and nearby queries land on shared storage keys.
package geo

import (
	"math"
	"strconv"
)

const (
	// EarthRadiusKm is the mean Earth radius used for great-circle distances
	EarthRadiusKm = 6371.0

	// KmPerDegreeLat approximates the north-south span of one degree of latitude
	KmPerDegreeLat = 111.0

	// CellSizeDegrees is the grid step between geo-cells (~11 km of latitude)
	CellSizeDegrees = 0.1
)

// CellOf maps a coordinate pair to its geo-cell key. Both coordinates are
// rounded half away from zero at one decimal place and joined as
// "<lat>_<lon>". Two coordinates share a cell iff their rounded values match.
func CellOf(lat, lon float64) string {
	return formatCoord(lat) + "_" + formatCoord(lon)
}

// formatCoord rounds to one decimal place. math.Round rounds halves away
// from zero on the magnitude, so -74.25 becomes -74.3, matching the rounding
// of the stored scores. Negative zero is normalized so -0.04 yields "0.0".
func formatCoord(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		// Strips the sign bit off negative zero, so -0.04 formats as "0.0".
		r = math.Abs(r)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// HaversineDistanceKm returns the great-circle distance between two points
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// LatDeltaForRadius converts a radius in km to a latitude span in degrees
func LatDeltaForRadius(radiusKm float64) float64 {
	return radiusKm / KmPerDegreeLat
}

// LonDeltaForRadius converts a radius in km to a longitude span in degrees
// at the given latitude. The span grows as cos(lat) shrinks toward the
// poles; it is clamped to 180 degrees so the cell scan stays bounded.
func LonDeltaForRadius(lat, radiusKm float64) float64 {
	delta := radiusKm / (KmPerDegreeLat * math.Cos(radians(lat)))
	if math.IsNaN(delta) || math.Abs(delta) > 180 {
		return 180
	}
	return math.Abs(delta)
}

// CellsWithinRadius returns the set of geo-cells whose grid point lies
// within radiusKm of (lat, lon). The cell of the exact query point is
// always included, guarding rounding edge cases at the radius boundary.
// Iteration order of the result is unspecified.
func CellsWithinRadius(lat, lon, radiusKm float64) map[string]struct{} {
	cells := make(map[string]struct{})

	latDelta := LatDeltaForRadius(radiusKm)
	lonDelta := LonDeltaForRadius(lat, radiusKm)

	for currLat := lat - latDelta; currLat <= lat+latDelta; currLat += CellSizeDegrees {
		for currLon := lon - lonDelta; currLon <= lon+lonDelta; currLon += CellSizeDegrees {
			if HaversineDistanceKm(lat, lon, currLat, currLon) <= radiusKm {
				cells[CellOf(currLat, currLon)] = struct{}{}
			}
		}
	}

	cells[CellOf(lat, lon)] = struct{}{}
	return cells
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

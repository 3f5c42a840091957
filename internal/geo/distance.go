package geo

import (
	"math"

	"food-rescue-matching/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

const kmPerDegree = EarthRadiusKm * math.Pi / 180

// DistanceKm returns the haversine distance between a and b.
// Invalid points are reported as infinitely far apart.
func DistanceKm(a, b domain.Location) float64 {
	if !a.Valid() || !b.Valid() {
		return math.Inf(1)
	}
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

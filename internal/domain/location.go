package domain

import "math"

// Location is a WGS84 point in degrees.
type Location struct {
	Lat float64
	Lon float64
}

// NoLocation is used for records that carry no coordinates.
var NoLocation = Location{Lat: math.NaN(), Lon: math.NaN()}

// Valid reports whether both coordinates are finite and inside their ranges.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || math.IsNaN(l.Lon) || math.IsInf(l.Lon, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

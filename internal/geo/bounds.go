package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"

	"food-rescue-matching/internal/domain"
)

// IndexPrecision is the geohash length stored for indexed entities.
const IndexPrecision = 9

// Range is an inclusive lexicographic interval over geohash strings.
type Range struct {
	Start string
	End   string
}

// rangeEnd sorts after every geohash that starts with the prefix.
const rangeEnd = "~"

// FullRange matches every geohash.
var FullRange = Range{Start: "", End: rangeEnd}

// Encode returns the index geohash for l.
func Encode(l domain.Location) string {
	return geohash.EncodeWithPrecision(l.Lat, l.Lon, IndexPrecision)
}

// QueryBounds returns disjoint geohash prefix ranges that together cover the circle of
// radiusKm around center. Ranges may contain points outside the circle.
func QueryBounds(center domain.Location, radiusKm float64) []Range {
	p := precisionFor(center, radiusKm)
	if p == 0 {
		return []Range{FullRange}
	}

	hash := geohash.EncodeWithPrecision(center.Lat, center.Lon, p)
	box := geohash.BoundingBox(hash)
	cellLat := box.MaxLat - box.MinLat
	cellLon := box.MaxLng - box.MinLng
	midLat := (box.MinLat + box.MaxLat) / 2
	midLon := (box.MinLng + box.MaxLng) / 2

	seen := make(map[string]struct{}, 9)
	out := make([]Range, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			lat := midLat + float64(dy)*cellLat
			if lat > 90 || lat < -90 {
				continue
			}
			lon := wrapLon(midLon + float64(dx)*cellLon)
			cell := geohash.EncodeWithPrecision(lat, lon, p)
			if _, ok := seen[cell]; ok {
				continue
			}
			seen[cell] = struct{}{}
			out = append(out, Range{Start: cell, End: cell + rangeEnd})
		}
	}
	return out
}

// precisionFor picks the longest geohash whose cells are at least radiusKm wide and tall
// across the whole circle, so the centre cell plus its eight neighbours cover it.
// Zero means no precision works and the caller must scan everything.
func precisionFor(center domain.Location, radiusKm float64) uint {
	reach := math.Abs(center.Lat) + radiusKm/kmPerDegree
	if reach >= 90 {
		return 0
	}
	cosLat := math.Cos(toRad(reach))
	for p := uint(IndexPrecision); p >= 1; p-- {
		bits := 5 * p
		latBits := bits / 2
		lonBits := bits - latBits
		heightKm := 180 / math.Exp2(float64(latBits)) * kmPerDegree
		widthKm := 360 / math.Exp2(float64(lonBits)) * kmPerDegree * cosLat
		if heightKm >= radiusKm && widthKm >= radiusKm {
			return p
		}
	}
	return 0
}

func wrapLon(lon float64) float64 {
	for lon >= 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

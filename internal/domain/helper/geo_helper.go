package helper

import (
	"math"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/paulmach/orb"

	"DateSpark-App/internal/domain/model"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerDegree   = 111320.0
)

// HaversineDistanceMeters computes the great-circle distance between two
// points in meters.
func HaversineDistanceMeters(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// GeohashBound is one [start, end] string range over the geohash-ordered venue
// index. The union of bounds over-approximates a search circle; callers must
// post-filter by true distance.
type GeohashBound struct {
	Start string
	End   string
}

// geohashCellMinDimension holds the smaller side (meters) of a geohash cell at
// each precision, 1 through 8.
var geohashCellMinDimension = [...]float64{4992600, 624100, 156000, 19500, 4890, 610, 153, 19}

// GeohashPrecisionForRadius picks the finest precision whose cell still spans
// the radius, so a 3x3 cell neighborhood around the center covers the circle.
func GeohashPrecisionForRadius(radiusMeters float64) int {
	precision := 1
	for i, dim := range geohashCellMinDimension {
		if dim >= radiusMeters {
			precision = i + 1
		} else {
			break
		}
	}
	return precision
}

// GeohashCoverageBounds decomposes a search circle into geohash range bounds:
// the center cell plus its eight neighbors, each expressed as a string range
// over the index. Duplicate cells (possible near the poles) are collapsed.
func GeohashCoverageBounds(center model.LatLng, radiusMeters float64) []GeohashBound {
	precision := GeohashPrecisionForRadius(radiusMeters)
	centerHash := geohash.EncodeWithPrecision(center.Lat, center.Lng, precision)

	top := geohash.CalculateAdjacent(centerHash, "top")
	bottom := geohash.CalculateAdjacent(centerHash, "bottom")
	cells := []string{
		centerHash,
		top,
		bottom,
		geohash.CalculateAdjacent(centerHash, "left"),
		geohash.CalculateAdjacent(centerHash, "right"),
		geohash.CalculateAdjacent(top, "left"),
		geohash.CalculateAdjacent(top, "right"),
		geohash.CalculateAdjacent(bottom, "left"),
		geohash.CalculateAdjacent(bottom, "right"),
	}

	seen := make(map[string]struct{}, len(cells))
	bounds := make([]GeohashBound, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		// "~" sorts after every base32 geohash character, closing the range
		// over all hashes prefixed by the cell.
		bounds = append(bounds, GeohashBound{Start: cell, End: cell + "~"})
	}
	return bounds
}

// SearchCircleBound returns the axis-aligned bounding box of a search circle,
// used by SQL stores as a coarse prefilter before exact distance checks.
func SearchCircleBound(center model.LatLng, radiusMeters float64) orb.Bound {
	latPad := radiusMeters / metersPerDegree
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngPad := radiusMeters / (metersPerDegree * cosLat)

	point := orb.Point{center.Lng, center.Lat}
	bound := orb.Bound{Min: point, Max: point}
	return bound.Pad(math.Max(latPad, lngPad))
}

// EncodeVenueGeohash derives the stored geohash for a venue position.
func EncodeVenueGeohash(location model.LatLng) string {
	return geohash.Encode(location.Lat, location.Lng)
}

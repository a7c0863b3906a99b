package geo

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371

// SentinelKm is assigned when a candidate's coordinates cannot be resolved.
// It is large enough to sort last under ascending-distance ordering.
const SentinelKm = 99999

// DistanceKm returns the great-circle distance in kilometers between two
// points given in degrees, using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// ParseCoord parses a coordinate that may use either "." or "," as the
// decimal separator. Crawled data is not trusted: a value that fails to
// parse, or parses to exactly zero, reports ok=false so the caller can fall
// back to the sentinel distance instead of treating it as a real location.
func ParseCoord(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f == 0 {
		return 0, false
	}
	return f, true
}

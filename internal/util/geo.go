package util

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance in meters between
// two coordinates given in degrees
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	// Convert coordinates from degrees to S2 points
	point1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lng1))
	point2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lng2))

	// Calculate angle between points
	angle := s1.Angle(s2.ChordAngleBetweenPoints(point1, point2).Angle())

	// Convert angle to distance on Earth's surface
	return angle.Radians() * earthRadiusMeters
}

// DestinationPoint calculates a destination point given a starting point,
// bearing and distance. lat, lng are in degrees, bearing in degrees
// (0=north, 90=east, etc), distance in meters. Returns [lat, lng] in degrees.
func DestinationPoint(lat, lng, bearing, distance float64) [2]float64 {
	// Convert to radians
	latRad := lat * math.Pi / 180
	lngRad := lng * math.Pi / 180
	bearingRad := bearing * math.Pi / 180

	distRatio := distance / earthRadiusMeters

	// Calculate new latitude
	newLatRad := math.Asin(
		math.Sin(latRad)*math.Cos(distRatio) +
			math.Cos(latRad)*math.Sin(distRatio)*math.Cos(bearingRad),
	)

	// Calculate new longitude
	newLngRad := lngRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(distRatio)*math.Cos(latRad),
		math.Cos(distRatio)-math.Sin(latRad)*math.Sin(newLatRad),
	)

	// Convert back to degrees
	newLat := newLatRad * 180 / math.Pi
	newLng := newLngRad * 180 / math.Pi

	return [2]float64{newLat, newLng}
}

// MetersToDegreesLat converts a north-south distance in meters to degrees
// of latitude
func MetersToDegreesLat(meters float64) float64 {
	metersPerDegree := earthRadiusMeters * math.Pi / 180.0
	return meters / metersPerDegree
}

// MetersToDegreesLng converts an east-west distance in meters to degrees of
// longitude at the given latitude. Longitude degrees shrink toward the
// poles; the cosine is floored so the conversion never divides by zero.
func MetersToDegreesLng(meters float64, latitude float64) float64 {
	latRad := latitude * math.Pi / 180.0

	cosLat := math.Abs(math.Cos(latRad))
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}

	metersPerDegree := earthRadiusMeters * math.Pi / 180.0 * cosLat
	return meters / metersPerDegree
}

// NormalizeBearing wraps a bearing in degrees into [0, 360)
func NormalizeBearing(bearing float64) float64 {
	normalized := math.Mod(bearing, 360.0)
	if normalized < 0 {
		normalized += 360.0
	}
	return normalized
}

package geo

import "math"

// CheckOutRadiusMeters is the geofence applied at manual check-out: the
// check-out position must be within this distance of the check-in position.
const CheckOutRadiusMeters = 500.0

const earthRadiusMeters = 6371000

// HaversineMeters returns the great-circle distance in meters between two
// coordinates on a spherical Earth. Good to well under a meter at geofence
// scale, which is all the 500 m check-out gate needs.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLng := (lng2 - lng1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// WithinRadius reports whether the two coordinates are at most radiusMeters
// apart. The boundary is inclusive: exactly radiusMeters counts as inside.
func WithinRadius(lat1, lng1, lat2, lng2, radiusMeters float64) bool {
	return HaversineMeters(lat1, lng1, lat2, lng2) <= radiusMeters
}

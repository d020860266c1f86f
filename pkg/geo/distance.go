// Package geo holds the coordinate math used for proximity filtering.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between two
// points given in degrees, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Round1 rounds a distance to one decimal place.
func Round1(km float64) float64 {
	return math.Round(km*10) / 10
}

// Box is a latitude/longitude rectangle. When WrapsLon is set the
// longitude bounds are meaningless and only latitude should be used.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	WrapsLon       bool
}

// BoundingBox returns a rectangle that contains every point within
// radiusKm of the centre. It over-approximates, so callers must still
// apply Distance to the candidates.
func BoundingBox(lat, lon, radiusKm float64) Box {
	d := radiusKm / EarthRadiusKm
	latDelta := toDeg(d)
	box := Box{
		MinLat: math.Max(lat-latDelta, -90),
		MaxLat: math.Min(lat+latDelta, 90),
	}

	cosLat := math.Cos(toRad(lat))
	if cosLat < 1e-6 || box.MinLat == -90 || box.MaxLat == 90 {
		box.WrapsLon = true
		return box
	}

	// The widest longitude of a spherical cap is reached poleward of the
	// centre, at asin(sin(d)/cos(lat)).
	s := math.Sin(d) / cosLat
	if s >= 1 || d >= math.Pi/2 {
		box.WrapsLon = true
		return box
	}

	lonDelta := toDeg(math.Asin(s))
	box.MinLon = lon - lonDelta
	box.MaxLon = lon + lonDelta
	if box.MinLon < -180 || box.MaxLon > 180 {
		box.WrapsLon = true
	}
	return box
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

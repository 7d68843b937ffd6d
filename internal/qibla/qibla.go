// Package qibla computes the direction and distance to the Kaaba.
package qibla

import (
	"math"

	"github.com/smokyabdulrahman/adhan/internal/astro"
)

// Kaaba coordinates in degrees.
const (
	KaabaLatitude  = 21.4225
	KaabaLongitude = 39.8262
)

const earthRadiusKm = 6371.0

// Bearing returns the great-circle initial bearing from the observer to the
// Kaaba in degrees clockwise from true north, in [0, 360). The result is
// meaningless for an observer standing at the Kaaba or at a pole.
func Bearing(latitude, longitude float64) float64 {
	dLon := KaabaLongitude - longitude
	y := astro.Sin(dLon)
	x := astro.Cos(latitude)*astro.Tan(KaabaLatitude) - astro.Sin(latitude)*astro.Cos(dLon)
	return astro.FixAngle(astro.Atan2(y, x))
}

// Distance returns the great-circle distance to the Kaaba in kilometres.
func Distance(latitude, longitude float64) float64 {
	dLat := astro.Deg2Rad(KaabaLatitude - latitude)
	dLon := astro.Deg2Rad(KaabaLongitude - longitude)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		astro.Cos(latitude)*astro.Cos(KaabaLatitude)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint names the 16-wind compass point nearest to bearing.
func CompassPoint(bearing float64) string {
	i := int(math.Round(astro.FixAngle(bearing)/22.5)) % len(compassPoints)
	return compassPoints[i]
}

// Direction is a bearing with its distance, ready for display.
type Direction struct {
	Bearing    float64 `json:"bearing"`
	Compass    string  `json:"compass"`
	DistanceKm float64 `json:"distance_km"`
}

// From returns the direction to the Kaaba from the observer.
func From(latitude, longitude float64) Direction {
	b := Bearing(latitude, longitude)
	return Direction{
		Bearing:    b,
		Compass:    CompassPoint(b),
		DistanceKm: Distance(latitude, longitude),
	}
}

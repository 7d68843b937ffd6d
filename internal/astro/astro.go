// Package astro holds the low-precision solar astronomy used by the prayer
// time solver: degree trigonometry, Julian Day numbers, and the sun's
// declination and equation of time for a calendar date.
//
// All angles are in degrees unless a name says otherwise.
package astro

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Sin returns the sine of an angle in degrees.
func Sin(deg float64) float64 { return math.Sin(Deg2Rad(deg)) }

// Cos returns the cosine of an angle in degrees.
func Cos(deg float64) float64 { return math.Cos(Deg2Rad(deg)) }

// Tan returns the tangent of an angle in degrees.
func Tan(deg float64) float64 { return math.Tan(Deg2Rad(deg)) }

// Asin returns the arcsine in degrees.
func Asin(x float64) float64 { return Rad2Deg(math.Asin(x)) }

// Acos returns the arccosine in degrees.
func Acos(x float64) float64 { return Rad2Deg(math.Acos(x)) }

// Atan returns the arctangent in degrees.
func Atan(x float64) float64 { return Rad2Deg(math.Atan(x)) }

// Atan2 returns the angle of (x, y) in degrees.
func Atan2(y, x float64) float64 { return Rad2Deg(math.Atan2(y, x)) }

// FixAngle reduces an angle to [0, 360).
func FixAngle(a float64) float64 {
	return fix(a, 360)
}

// FixHour reduces an hour value to [0, 24).
func FixHour(h float64) float64 {
	return fix(h, 24)
}

func fix(a, b float64) float64 {
	a = math.Mod(a, b)
	if a < 0 {
		a += b
	}
	return a
}

// NoonAltitude is the sun's altitude at local solar noon.
func NoonAltitude(latitude, declination float64) float64 {
	return 90 - math.Abs(latitude-declination)
}

// HourAngleCos solves the hour-angle equation for the sun reaching the
// given altitude. The result is the raw cosine: a magnitude above 1 means
// the sun never reaches that altitude on the day, and the caller decides
// whether to clamp or give up.
func HourAngleCos(altitude, latitude, declination float64) float64 {
	return (Sin(altitude) - Sin(latitude)*Sin(declination)) /
		(Cos(latitude) * Cos(declination))
}

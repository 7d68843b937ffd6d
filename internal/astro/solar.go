package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Day of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// SolarPosition is the part of the sun's position the prayer solver needs.
type SolarPosition struct {
	// Declination in degrees, positive north.
	Declination float64
	// EquationOfTime is apparent minus mean solar time, in minutes.
	EquationOfTime float64
}

// JulianDay converts a Gregorian calendar date to the Julian Day at 0h UT.
func JulianDay(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + b - 1524.5
}

// JulianDayOf returns the Julian Day at 0h UT of t's calendar date, taken in
// t's own location.
func JulianDayOf(t time.Time) float64 {
	return JulianDay(t.Year(), int(t.Month()), t.Day())
}

// SunPosition evaluates the low-precision solar series at Julian Day jd.
// It is good to roughly a minute of time between 1901 and 2099 and degrades
// quietly outside that range.
func SunPosition(jd float64) SolarPosition {
	d := jd - J2000

	g := FixAngle(357.529 + 0.98560028*d) // mean anomaly
	q := FixAngle(280.459 + 0.98564736*d) // mean longitude
	// true longitude: mean longitude plus the equation of centre
	l := FixAngle(q + 1.915*Sin(g) + 0.020*Sin(2*g))

	e := 23.439 - 0.00000036*d // obliquity of the ecliptic

	dec := Asin(Sin(e) * Sin(l))
	ra := FixHour(Atan2(Cos(e)*Sin(l), Cos(l)) / 15)

	eqt := q/15 - ra
	switch {
	case eqt > 12:
		eqt -= 24
	case eqt < -12:
		eqt += 24
	}

	return SolarPosition{
		Declination:    dec,
		EquationOfTime: eqt * 60,
	}
}

// SolarPositionFor returns the sun's position around local solar noon of
// date's calendar day at the given longitude.
func SolarPositionFor(date time.Time, longitude float64) SolarPosition {
	return SunPosition(JulianDayOf(date) + 0.5 - longitude/360)
}

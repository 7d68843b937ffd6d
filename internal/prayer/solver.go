package prayer

import (
	"math"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/astro"
	"github.com/smokyabdulrahman/adhan/internal/method"
)

const (
	// horizonAltitude is the sun's centre at apparent sunrise and sunset:
	// refraction plus the solar semi-diameter.
	horizonAltitude = -0.833
	// clampLimit is the shallowest depression at which an unreachable angle
	// is pinned to the nearest boundary instead of reported as missing. The
	// boundary is inclusive: a target of exactly -18° clamps.
	clampLimit = -18.0
)

// Compute solves the six prayer times for date's calendar day in loc.
// Times the sun cannot produce are returned with Status Missing; nothing
// panics for any latitude or season.
func Compute(date time.Time, c Coordinates, p method.Parameters, loc *time.Location) TimeSet {
	if loc == nil {
		loc = time.UTC
	}
	day := dayStart(date, loc)
	sp := astro.SolarPositionFor(day, c.Longitude)
	noon := solarNoon(day, c.Longitude, sp.EquationOfTime)

	s := solver{lat: c.Latitude, dec: sp.Declination, noon: noon}
	horizon := horizonAltitude - 0.0347*math.Sqrt(math.Max(c.Elevation, 0))

	set := TimeSet{
		Date:    day,
		Fajr:    s.morning(-p.FajrAngle),
		Sunrise: s.morning(horizon),
		Dhuhr:   Time{Instant: roundSecond(noon), Status: Computed},
		Asr:     s.evening(asrAltitude(p.Madhab.ShadowRatio(), c.Latitude, sp.Declination)),
		Maghrib: s.evening(horizon),
	}

	if p.UsesIshaInterval() {
		set.Isha = set.Maghrib.shift(p.IshaInterval)
	} else {
		set.Isha = s.evening(-p.IshaAngle)
	}

	return applyAdjustments(set, p.MethodAdjustments.Add(p.ManualAdjustments))
}

// solarNoon returns the instant the sun transits the meridian on day.
// The instant is pulled back onto day's local calendar date when the zone
// and longitude disagree by more than twelve hours.
func solarNoon(day time.Time, longitude, eot float64) time.Time {
	hours := 12 - longitude/15 - eot/60
	utc := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	noon := utc.Add(hoursToDuration(hours))

	local := noon.In(day.Location())
	switch {
	case dateBefore(local, day):
		noon = noon.Add(24 * time.Hour)
	case dateBefore(day, local):
		noon = noon.Add(-24 * time.Hour)
	}
	return noon.In(day.Location())
}

func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

type solver struct {
	lat, dec float64
	noon     time.Time
}

// hourAngle returns the hour angle in degrees for the sun reaching altitude,
// and the status of the solution.
func (s solver) hourAngle(altitude float64) (float64, Status) {
	c := astro.HourAngleCos(altitude, s.lat, s.dec)
	if math.IsNaN(c) {
		return 0, Missing
	}
	if c > 1 || c < -1 {
		// Only targets at or below clampLimit clamp.
		if altitude > clampLimit {
			return 0, Missing
		}
		return astro.Acos(math.Copysign(1, c)), Clamped
	}
	return astro.Acos(c), Computed
}

// morning events sit before noon by the hour angle.
func (s solver) morning(altitude float64) Time {
	return s.at(altitude, -1)
}

// evening events sit after noon by the hour angle.
func (s solver) evening(altitude float64) Time {
	return s.at(altitude, 1)
}

func (s solver) at(altitude, sign float64) Time {
	h, status := s.hourAngle(altitude)
	if status == Missing {
		return missing()
	}
	t := s.noon.Add(hoursToDuration(sign * h / 15))
	return Time{Instant: roundSecond(t), Status: status}
}

// asrAltitude is the altitude at which an object's shadow equals its noon
// shadow plus ratio times its height.
func asrAltitude(ratio, latitude, declination float64) float64 {
	zenith := math.Abs(latitude - declination)
	return astro.Atan(1 / (ratio + astro.Tan(zenith)))
}

func applyAdjustments(set TimeSet, adj method.Adjustments) TimeSet {
	set.Fajr = set.Fajr.shift(adj.Fajr)
	set.Sunrise = set.Sunrise.shift(adj.Sunrise)
	set.Dhuhr = set.Dhuhr.shift(adj.Dhuhr)
	set.Asr = set.Asr.shift(adj.Asr)
	set.Maghrib = set.Maghrib.shift(adj.Maghrib)
	set.Isha = set.Isha.shift(adj.Isha)
	return set
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func roundSecond(t time.Time) time.Time {
	return t.Round(time.Second)
}

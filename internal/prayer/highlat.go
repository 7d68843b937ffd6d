package prayer

import (
	"time"

	"github.com/smokyabdulrahman/adhan/internal/method"
)

// ApplyHighLatitude replaces a Fajr or Isha that is not Computed with a
// portion of the night, measured from Maghrib to the next Sunrise. The
// portion comes from p.HighLatitudeRule. Isha intervals are left alone.
// Without a valid Sunrise and Maghrib the set is returned unchanged.
func ApplyHighLatitude(set TimeSet, p method.Parameters) TimeSet {
	if !set.Sunrise.Valid() || !set.Maghrib.Valid() {
		return set
	}
	night := set.Sunrise.Instant.Add(24 * time.Hour).Sub(set.Maghrib.Instant)
	if night <= 0 {
		return set
	}

	if set.Fajr.Status != Computed {
		portion := p.HighLatitudeRule.NightPortion(p.FajrAngle)
		set.Fajr = Time{
			Instant: roundSecond(set.Sunrise.Instant.Add(-scale(night, portion))),
			Status:  HighLatitude,
		}
	}
	if set.Isha.Status != Computed && !p.UsesIshaInterval() {
		portion := p.HighLatitudeRule.NightPortion(p.IshaAngle)
		set.Isha = Time{
			Instant: roundSecond(set.Maghrib.Instant.Add(scale(night, portion))),
			Status:  HighLatitude,
		}
	}
	return set
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}

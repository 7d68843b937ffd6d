// Package hijri converts Gregorian dates to the tabular Islamic calendar and
// reports the moon's age and phase.
//
// The tabular calendar follows a fixed 30-year cycle of leap years and can
// differ by a day from sighting-based calendars. Callers that follow local
// announcements apply a day offset.
package hijri

import (
	"fmt"
	"math"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/astro"
)

// epoch is the Julian Day of 1 Muharram 1 AH (civil reckoning), minus one.
const epoch = 1948439.5

// Date is a day in the Islamic calendar.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

var monthNames = [...]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhul Qadah", "Dhul Hijjah",
}

// MonthName returns the English transliteration of the month.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return monthNames[d.Month-1]
}

func (d Date) String() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, d.MonthName(), d.Year)
}

// IsRamadan reports whether the date falls in Ramadan.
func (d Date) IsRamadan() bool { return d.Month == 9 }

// FromTime converts t's calendar date, taken in t's location, shifted by
// offsetDays.
func FromTime(t time.Time, offsetDays int) Date {
	t = t.AddDate(0, 0, offsetDays)
	return FromJulianDay(astro.JulianDayOf(t))
}

// FromJulianDay converts a Julian Day to the tabular Islamic calendar.
func FromJulianDay(jd float64) Date {
	jd = math.Floor(jd) + 0.5
	year := int(math.Floor((30*(jd-epoch) + 10646) / 10631))
	month := int(math.Min(12, math.Ceil((jd-(29+toJulianDay(year, 1, 1)))/29.5)+1))
	day := int(jd-toJulianDay(year, month, 1)) + 1
	return Date{Year: year, Month: month, Day: day}
}

// JulianDay returns the Julian Day at 0h UT of the date.
func (d Date) JulianDay() float64 {
	return toJulianDay(d.Year, d.Month, d.Day)
}

// Gregorian returns midnight of the date in loc.
func (d Date) Gregorian(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	// J2000 is noon on 2000-01-01; count whole days from its midnight.
	days := int(math.Round(d.JulianDay() - (astro.J2000 - 0.5)))
	return time.Date(2000, time.January, 1+days, 0, 0, 0, 0, loc)
}

func toJulianDay(year, month, day int) float64 {
	return float64(day) +
		math.Ceil(29.5*float64(month-1)) +
		float64((year-1)*354) +
		math.Floor(float64(3+11*year)/30) +
		epoch - 1
}

// SynodicMonth is the mean length of a lunation in days.
const SynodicMonth = 29.530588853

// referenceNewMoon is the Julian Day of the new moon of 2000-01-06.
const referenceNewMoon = 2451550.1

// MoonAge returns the days since the last mean new moon at t.
func MoonAge(t time.Time) float64 {
	jd := julianDayAt(t)
	return math.Mod(math.Mod(jd-referenceNewMoon, SynodicMonth)+SynodicMonth, SynodicMonth)
}

var phaseNames = [...]string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

// Phase names the moon phase at t.
func Phase(t time.Time) string {
	i := int(math.Floor(MoonAge(t)/SynodicMonth*8+0.5)) % len(phaseNames)
	return phaseNames[i]
}

// Illumination is the approximate lit fraction of the disc, 0 to 1.
func Illumination(t time.Time) float64 {
	return (1 - math.Cos(2*math.Pi*MoonAge(t)/SynodicMonth)) / 2
}

// julianDayAt is the Julian Day of an instant, including the time of day.
func julianDayAt(t time.Time) float64 {
	u := t.UTC()
	frac := (float64(u.Hour()) + float64(u.Minute())/60 + float64(u.Second())/3600) / 24
	return astro.JulianDay(u.Year(), int(u.Month()), u.Day()) + frac
}

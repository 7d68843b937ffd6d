package prayer

import (
	"errors"
	"fmt"
	"time"
)

// Coordinates locate the observer. Elevation is in metres above sea level.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation,omitempty"`
}

// ErrInvalidCoordinates is wrapped by Coordinates.Validate.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Validate checks latitude, longitude and elevation ranges.
func (c Coordinates) Validate() error {
	switch {
	case c.Latitude < -90 || c.Latitude > 90:
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidCoordinates, c.Latitude)
	case c.Longitude < -180 || c.Longitude > 180:
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidCoordinates, c.Longitude)
	case c.Elevation < 0:
		return fmt.Errorf("%w: elevation %v must not be negative", ErrInvalidCoordinates, c.Elevation)
	}
	return nil
}

// Status says how much a time can be trusted.
type Status int

const (
	// Computed times come straight from the astronomy.
	Computed Status = iota
	// Clamped times were solved for an angle the sun never reaches today;
	// the hour angle was pinned to its nearest boundary.
	Clamped
	// HighLatitude times were replaced by a fraction of the night.
	HighLatitude
	// Estimated times are fixed fallbacks used when an input was missing.
	Estimated
	// Missing means there is no valid time today.
	Missing
)

var statusNames = [...]string{"computed", "clamped", "high-latitude", "estimated", "missing"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText makes statuses readable in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Time is one solved instant and its status. Instant is zero when Missing.
type Time struct {
	Instant time.Time `json:"instant"`
	Status  Status    `json:"status"`
}

// Valid reports whether the time has an instant.
func (t Time) Valid() bool {
	return t.Status != Missing && !t.Instant.IsZero()
}

func (t Time) shift(minutes int) Time {
	if !t.Valid() || minutes == 0 {
		return t
	}
	t.Instant = t.Instant.Add(time.Duration(minutes) * time.Minute)
	return t
}

func missing() Time {
	return Time{Status: Missing}
}

// TimeSet holds the six daily times for one calendar date.
type TimeSet struct {
	Date    time.Time `json:"date"`
	Fajr    Time      `json:"fajr"`
	Sunrise Time      `json:"sunrise"`
	Dhuhr   Time      `json:"dhuhr"`
	Asr     Time      `json:"asr"`
	Maghrib Time      `json:"maghrib"`
	Isha    Time      `json:"isha"`
}

// Get returns the time for one of the six prayer events.
func (s TimeSet) Get(name EventName) (Time, bool) {
	switch name {
	case Fajr:
		return s.Fajr, true
	case Sunrise:
		return s.Sunrise, true
	case Dhuhr:
		return s.Dhuhr, true
	case Asr:
		return s.Asr, true
	case Maghrib:
		return s.Maghrib, true
	case Isha:
		return s.Isha, true
	}
	return Time{}, false
}

func (s *TimeSet) set(name EventName, t Time) {
	switch name {
	case Fajr:
		s.Fajr = t
	case Sunrise:
		s.Sunrise = t
	case Dhuhr:
		s.Dhuhr = t
	case Asr:
		s.Asr = t
	case Maghrib:
		s.Maghrib = t
	case Isha:
		s.Isha = t
	}
}

// ErrUnsolvableAngle marks a prayer whose hour angle has no solution.
var ErrUnsolvableAngle = errors.New("sun never reaches the required angle")

// UnsolvableError names the prayer that could not be solved.
type UnsolvableError struct {
	Event EventName
}

func (e *UnsolvableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Event, ErrUnsolvableAngle)
}

func (e *UnsolvableError) Unwrap() error { return ErrUnsolvableAngle }

// Err joins an UnsolvableError for every Missing time, or returns nil.
func (s TimeSet) Err() error {
	var errs []error
	for _, name := range PrayerEvents {
		if t, _ := s.Get(name); t.Status == Missing {
			errs = append(errs, &UnsolvableError{Event: name})
		}
	}
	return errors.Join(errs...)
}

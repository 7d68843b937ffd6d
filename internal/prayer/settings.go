package prayer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/dst"
	"github.com/smokyabdulrahman/adhan/internal/method"
)

// SettingsStore is the read side of the user's persisted settings. Values
// are strings; an empty value means "not set".
type SettingsStore interface {
	Get(key string) (string, error)
}

// Settings are the user choices that shape the calculation.
type Settings struct {
	Coordinates          Coordinates
	Location             *time.Location
	Method               string
	Madhab               method.Madhab
	HighLatitudeRule     method.HighLatitudeRule
	HighLatitudeFallback bool
	DSTMode              dst.Mode
	Manual               method.Adjustments
}

// SettingsFromStore reads every calculation key from store. Unparsable
// values are collected into the returned error and left at their defaults,
// so the Settings are always usable.
func SettingsFromStore(store SettingsStore) (Settings, error) {
	s := Settings{Location: time.Local, DSTMode: dst.Automatic}
	var errs []error

	get := func(key string) string {
		v, err := store.Get(key)
		if err != nil {
			errs = append(errs, err)
			return ""
		}
		return strings.TrimSpace(v)
	}
	float := func(key string) float64 {
		v := get(key)
		if v == "" {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return 0
		}
		return f
	}

	s.Coordinates = Coordinates{
		Latitude:  float("latitude"),
		Longitude: float("longitude"),
		Elevation: float("elevation"),
	}
	if err := s.Coordinates.Validate(); err != nil {
		errs = append(errs, err)
		s.Coordinates = Coordinates{}
	}

	if tz := get("timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid timezone %q: %w", tz, err))
		} else {
			s.Location = loc
		}
	}

	s.Method = get("method")

	if v := get("madhab"); v != "" {
		m, err := method.ParseMadhab(v)
		if err != nil {
			errs = append(errs, err)
		}
		s.Madhab = m
	}
	if v := get("high_latitude_rule"); v != "" {
		r, err := method.ParseHighLatitudeRule(v)
		if err != nil {
			errs = append(errs, err)
		}
		s.HighLatitudeRule = r
	}
	if v := get("high_latitude_fallback"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid high_latitude_fallback %q: %w", v, err))
		}
		s.HighLatitudeFallback = b
	}
	if v := get("dst_mode"); v != "" {
		m, err := dst.ParseMode(v)
		if err != nil {
			errs = append(errs, err)
		}
		s.DSTMode = m
	}
	if v := get("adjustments"); v != "" {
		a, err := method.ParseAdjustments(v)
		if err != nil {
			errs = append(errs, err)
		}
		s.Manual = a
	}

	return s, errors.Join(errs...)
}

// Parameters builds the calculation parameters in force at t. An unknown
// method name falls back to the default method and the lookup error is
// returned as a warning alongside usable parameters. The daylight-saving
// correction for t is folded into every manual adjustment.
func (s Settings) Parameters(t time.Time) (method.Parameters, error) {
	name := s.Method
	if name == "" {
		name = string(method.Default)
	}
	p, err := method.LookupOrDefault(name)
	p.Madhab = s.Madhab
	p.HighLatitudeRule = s.HighLatitudeRule
	p.ManualAdjustments = s.Manual.Add(method.Uniform(dst.Correction(s.DSTMode, s.Location, t)))
	return p, err
}

// Engine returns an Engine for the settings in force at t.
func (s Settings) Engine(t time.Time) (Engine, error) {
	p, err := s.Parameters(t)
	return Engine{
		Coordinates:          s.Coordinates,
		Params:               p,
		Location:             s.Location,
		HighLatitudeFallback: s.HighLatitudeFallback,
	}, err
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/adhan/internal/cache"
	"github.com/smokyabdulrahman/adhan/internal/config"
	"github.com/smokyabdulrahman/adhan/internal/geo"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// locator is replaced in tests.
var locator = func() geo.Locator { return geo.NewIPAPI() }

// session is everything a command needs to compute times.
type session struct {
	cfg      *config.Config
	settings prayer.Settings
	engine   prayer.Engine
	// date is the day being shown; noon in the settings' zone when --date
	// is given.
	date time.Time
	// fallback marks a location substituted by the Kaaba.
	fallback bool
	place    string
}

// openCache returns the configured cache, or nil with a warning.
func openCache(cfg *config.Config) *cache.Cache {
	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		return nil
	}
	return c
}

// resolveLocation fills in the location when none is configured.
// Priority: CLI flags > config > cached geolocation > IP auto-detect > Kaaba.
func resolveLocation(ctx context.Context, cfg *config.Config) (place string, fallback bool) {
	if cfg.HasLocation() {
		return fmt.Sprintf("%.4f, %.4f", *cfg.Latitude, *cfg.Longitude), false
	}

	var l geo.Locator = locator()
	if c := openCache(cfg); c != nil {
		l = geo.Cached{Locator: l, Store: c}
	}
	loc, fallback := geo.LocateWithFallback(ctx, l, geo.DefaultTimeout)

	cfg.SetLocation(loc.Latitude, loc.Longitude)
	if cfg.Timezone == "" && loc.Timezone != "" {
		if err := cfg.Set("timezone", loc.Timezone); err != nil {
			log.Warn().Err(err).Msg("ignoring detected timezone")
		}
	}
	if loc.City != "" {
		return loc.City + ", " + loc.Country, fallback
	}
	return fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude), fallback
}

// newSession resolves location and settings for the running command.
// Invalid settings are logged and replaced by defaults.
func newSession(ctx context.Context) (*session, error) {
	cfg := effectiveConfig()
	place, fallback := resolveLocation(ctx, cfg)
	if fallback {
		log.Warn().Msg("location unknown; showing times for Makkah. Set one with 'adhan config set latitude/longitude'")
	}

	settings, err := prayer.SettingsFromStore(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("invalid settings replaced by defaults")
	}

	date, err := parseDate(FlagDate, settings.Location)
	if err != nil {
		return nil, err
	}

	engine, err := settings.Engine(date)
	if err != nil {
		log.Warn().Err(err).Str("method", settings.Method).Msg("unknown method, using the default")
	}

	return &session{
		cfg:      cfg,
		settings: settings,
		engine:   engine,
		date:     date,
		fallback: fallback,
		place:    place,
	}, nil
}

// parseDate reads --date; the empty string means the current time.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if s == "" {
		return now().In(loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", s)
	}
	return d.Add(12 * time.Hour), nil
}

// isToday reports whether t falls on the current date in t's zone.
func isToday(t time.Time) bool {
	n := now().In(t.Location())
	return n.Format("2006-01-02") == t.Format("2006-01-02")
}

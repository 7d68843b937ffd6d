// Package config provides persistent configuration for the adhan CLI.
//
// Configuration is stored at ~/.config/adhan/config.json (XDG-compliant);
// a path ending in .toml is read and written as TOML. The merge priority is:
// CLI flags > ADHAN_* environment > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/adhan/internal/dst"
	"github.com/smokyabdulrahman/adhan/internal/method"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

const (
	configDirName  = "adhan"
	configFileName = "config.json"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude", "elevation", "timezone",
	"method", "madhab", "high_latitude_rule", "high_latitude_fallback",
	"dst_mode", "adjustments", "hijri_offset",
	"time_format", "events",
	"cache_dir", "history_dsn", "audio_catalog",
	"mqtt_broker", "mqtt_topic", "redis_addr", "redis_channel",
	"listen_addr", "log_level",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	// Pointers so the equator and the prime meridian can be configured.
	Latitude  *float64 `json:"latitude,omitempty" toml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" toml:"longitude,omitempty"`
	Elevation float64  `json:"elevation,omitempty" toml:"elevation,omitempty"`
	Timezone  string   `json:"timezone,omitempty" toml:"timezone,omitempty"`

	Method               string `json:"method,omitempty" toml:"method,omitempty"`
	Madhab               string `json:"madhab,omitempty" toml:"madhab,omitempty"`
	HighLatitudeRule     string `json:"high_latitude_rule,omitempty" toml:"high_latitude_rule,omitempty"`
	HighLatitudeFallback bool   `json:"high_latitude_fallback,omitempty" toml:"high_latitude_fallback,omitempty"`
	DSTMode              string `json:"dst_mode,omitempty" toml:"dst_mode,omitempty"`
	Adjustments          string `json:"adjustments,omitempty" toml:"adjustments,omitempty"` // "fajr=2,isha=-1"
	HijriOffset          int    `json:"hijri_offset,omitempty" toml:"hijri_offset,omitempty"`

	TimeFormat string `json:"time_format,omitempty" toml:"time_format,omitempty"` // "12h" or "24h"
	Events     string `json:"events,omitempty" toml:"events,omitempty"`           // comma-separated list

	CacheDir     string `json:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	HistoryDSN   string `json:"history_dsn,omitempty" toml:"history_dsn,omitempty"`
	AudioCatalog string `json:"audio_catalog,omitempty" toml:"audio_catalog,omitempty"`
	MQTTBroker   string `json:"mqtt_broker,omitempty" toml:"mqtt_broker,omitempty"`
	MQTTTopic    string `json:"mqtt_topic,omitempty" toml:"mqtt_topic,omitempty"`
	RedisAddr    string `json:"redis_addr,omitempty" toml:"redis_addr,omitempty"`
	RedisChannel string `json:"redis_channel,omitempty" toml:"redis_channel,omitempty"`
	ListenAddr   string `json:"listen_addr,omitempty" toml:"listen_addr,omitempty"`
	LogLevel     string `json:"log_level,omitempty" toml:"log_level,omitempty"`
}

// Config is the store prayer settings are read from.
var _ prayer.SettingsStore = (*Config)(nil)

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:     string(method.Default),
		Madhab:     method.Shafi.String(),
		DSTMode:    string(dst.Automatic),
		TimeFormat: "24h",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = []byte(sb.String())
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = append(data, '\n')
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// HasLocation reports whether both coordinates are configured.
func (c *Config) HasLocation() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// SetLocation stores detected or flag-supplied coordinates.
func (c *Config) SetLocation(lat, lon float64) {
	c.Latitude, c.Longitude = &lat, &lon
}

func parseCoordinate(key, value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q: must be between %g and %g", key, value, -limit, limit)
	}
	return v, nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "latitude":
		v, err := parseCoordinate(key, value, 90)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		v, err := parseCoordinate(key, value, 180)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "elevation":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid elevation %q: must be a non-negative number of metres", value)
		}
		c.Elevation = v
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "method":
		p, err := method.Lookup(value)
		if err != nil {
			return fmt.Errorf("%w; valid methods: %s", err, strings.Join(method.Names(), ", "))
		}
		c.Method = string(p.Method)
	case "madhab":
		m, err := method.ParseMadhab(value)
		if err != nil {
			return err
		}
		c.Madhab = m.String()
	case "high_latitude_rule":
		r, err := method.ParseHighLatitudeRule(value)
		if err != nil {
			return err
		}
		c.HighLatitudeRule = r.String()
	case "high_latitude_fallback":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid high_latitude_fallback %q: must be true or false", value)
		}
		c.HighLatitudeFallback = v
	case "dst_mode":
		m, err := dst.ParseMode(value)
		if err != nil {
			return err
		}
		c.DSTMode = string(m)
	case "adjustments":
		a, err := method.ParseAdjustments(value)
		if err != nil {
			return err
		}
		c.Adjustments = a.String()
	case "hijri_offset":
		v, err := strconv.Atoi(value)
		if err != nil || v < -2 || v > 2 {
			return fmt.Errorf("invalid hijri_offset %q: must be an integer between -2 and 2", value)
		}
		c.HijriOffset = v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "events":
		if _, err := prayer.ParseEventList(value); err != nil {
			return fmt.Errorf("invalid events list: %w", err)
		}
		c.Events = value
	case "log_level":
		if _, err := zerolog.ParseLevel(strings.ToLower(value)); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", value, err)
		}
		c.LogLevel = strings.ToLower(value)
	case "cache_dir":
		c.CacheDir = value
	case "history_dsn":
		c.HistoryDSN = value
	case "audio_catalog":
		c.AudioCatalog = value
	case "mqtt_broker":
		c.MQTTBroker = value
	case "mqtt_topic":
		c.MQTTTopic = value
	case "redis_addr":
		c.RedisAddr = value
	case "redis_channel":
		c.RedisChannel = value
	case "listen_addr":
		c.ListenAddr = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return nil
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// Get returns the string value of a config key. Unset keys are "".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return formatFloat(c.Latitude), nil
	case "longitude":
		return formatFloat(c.Longitude), nil
	case "elevation":
		if c.Elevation == 0 {
			return "", nil
		}
		return formatFloat(&c.Elevation), nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		return c.Method, nil
	case "madhab":
		return c.Madhab, nil
	case "high_latitude_rule":
		return c.HighLatitudeRule, nil
	case "high_latitude_fallback":
		if !c.HighLatitudeFallback {
			return "", nil
		}
		return "true", nil
	case "dst_mode":
		return c.DSTMode, nil
	case "adjustments":
		return c.Adjustments, nil
	case "hijri_offset":
		if c.HijriOffset == 0 {
			return "", nil
		}
		return strconv.Itoa(c.HijriOffset), nil
	case "time_format":
		return c.TimeFormat, nil
	case "events":
		return c.Events, nil
	case "log_level":
		return c.LogLevel, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "history_dsn":
		return c.HistoryDSN, nil
	case "audio_catalog":
		return c.AudioCatalog, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "mqtt_topic":
		return c.MQTTTopic, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "redis_channel":
		return c.RedisChannel, nil
	case "listen_addr":
		return c.ListenAddr, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Merge copies every set key of other over c.
func (c *Config) Merge(other *Config) {
	for _, key := range ValidKeys {
		v, _ := other.Get(key)
		if v != "" {
			_ = c.Set(key, v)
		}
	}
}

// EventList returns the configured events, or prayer.DefaultEvents.
func (c *Config) EventList() []prayer.EventName {
	names, err := prayer.ParseEventList(c.Events)
	if err != nil || len(names) == 0 {
		return prayer.DefaultEvents
	}
	return names
}

// TimeLayout returns the Go layout for the configured time format.
func (c *Config) TimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

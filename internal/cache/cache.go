// Package cache keeps remote prayer timings and the detected location on
// disk so repeated runs do not hit the network.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/api"
	"github.com/smokyabdulrahman/adhan/internal/geo"
)

const (
	timingsFile = "timings_%s.json"
	geoFile     = "geolocation.json"

	// TTL bounds the age of any entry.
	TTL = 24 * time.Hour
)

// Cache is a directory of JSON files.
type Cache struct {
	dir string
	now func() time.Time
}

// Key identifies one remote timings request.
type Key struct {
	Date      time.Time
	Latitude  float64
	Longitude float64
	MethodID  int
	School    int
}

func (k Key) day() string { return k.Date.Format("2006-01-02") }

func (k Key) hash() string {
	raw := fmt.Sprintf("%s|%.4f|%.4f|%d|%d", k.day(), k.Latitude, k.Longitude, k.MethodID, k.School)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}

type timingsEntry struct {
	Date     string    `json:"date"`
	CachedAt time.Time `json:"cached_at"`
	Data     api.Data  `json:"data"`
}

type geoEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir is $XDG_CACHE_HOME/adhan, or ~/.cache/adhan.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "adhan"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "adhan"), nil
}

// New creates a Cache rooted at dir, or DefaultDir when dir is empty.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// LoadTimings returns the cached day for k, or nil when it is absent,
// unreadable, for another day or older than TTL.
func (c *Cache) LoadTimings(k Key) *api.Data {
	var entry timingsEntry
	if !c.read(fmt.Sprintf(timingsFile, k.hash()), &entry) {
		return nil
	}
	if entry.Date != k.day() || c.now().Sub(entry.CachedAt) > TTL {
		return nil
	}
	return &entry.Data
}

// SaveTimings stores one day of remote timings under k.
func (c *Cache) SaveTimings(k Key, data api.Data) error {
	return c.write(fmt.Sprintf(timingsFile, k.hash()), timingsEntry{
		Date:     k.day(),
		CachedAt: c.now(),
		Data:     data,
	})
}

// LoadGeo returns the cached location, or nil when absent or stale.
func (c *Cache) LoadGeo() *geo.Location {
	var entry geoEntry
	if !c.read(geoFile, &entry) {
		return nil
	}
	if c.now().Sub(entry.CachedAt) > TTL {
		return nil
	}
	return &entry.Location
}

// SaveGeo stores a detected location.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	return c.write(geoFile, geoEntry{Location: *loc, CachedAt: c.now()})
}

var _ geo.Store = (*Cache)(nil)

func (c *Cache) read(name string, v any) bool {
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (c *Cache) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

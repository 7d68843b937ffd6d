package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/api"
	"github.com/smokyabdulrahman/adhan/internal/geo"
)

func newCache(t *testing.T, now time.Time) *Cache {
	t.Helper()
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	c.now = func() time.Time { return now }
	return c
}

func meccaKey(day int) Key {
	return Key{
		Date:      time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		Latitude:  21.4225,
		Longitude: 39.8262,
		MethodID:  4,
	}
}

func TestNew_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := New(dir); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("cache dir not created: %v", err)
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/xdg/cache", "adhan") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

func TestTimings_RoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 21, 8, 0, 0, 0, time.UTC)
	c := newCache(t, now)
	data := api.Data{Timings: api.Timings{Fajr: "04:18", Isha: "20:36"}}

	if c.LoadTimings(meccaKey(21)) != nil {
		t.Fatal("empty cache should miss")
	}
	if err := c.SaveTimings(meccaKey(21), data); err != nil {
		t.Fatalf("SaveTimings() error: %v", err)
	}
	got := c.LoadTimings(meccaKey(21))
	if got == nil || got.Timings.Fajr != "04:18" {
		t.Fatalf("LoadTimings() = %+v", got)
	}
}

func TestTimings_KeyedByParameters(t *testing.T) {
	c := newCache(t, time.Date(2024, 6, 21, 8, 0, 0, 0, time.UTC))
	if err := c.SaveTimings(meccaKey(21), api.Data{}); err != nil {
		t.Fatal(err)
	}

	other := []Key{meccaKey(22)}
	k := meccaKey(21)
	k.School = 1
	other = append(other, k)
	k = meccaKey(21)
	k.MethodID = 3
	other = append(other, k)
	k = meccaKey(21)
	k.Latitude = 24.47
	other = append(other, k)

	for _, k := range other {
		if c.LoadTimings(k) != nil {
			t.Errorf("LoadTimings(%+v) should miss", k)
		}
	}
}

func TestTimings_Expired(t *testing.T) {
	saved := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	c := newCache(t, saved)
	if err := c.SaveTimings(meccaKey(21), api.Data{}); err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return saved.Add(TTL + time.Minute) }
	if c.LoadTimings(meccaKey(21)) != nil {
		t.Error("entry older than TTL should miss")
	}
}

func TestTimings_CorruptFile(t *testing.T) {
	c := newCache(t, time.Now())
	path := filepath.Join(c.Dir(), "timings_"+meccaKey(21).hash()+".json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if c.LoadTimings(meccaKey(21)) != nil {
		t.Error("corrupt entry should miss")
	}
}

func TestGeo(t *testing.T) {
	saved := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	c := newCache(t, saved)
	if c.LoadGeo() != nil {
		t.Fatal("empty cache should miss")
	}
	if err := c.SaveGeo(&geo.Kaaba); err != nil {
		t.Fatal(err)
	}
	if got := c.LoadGeo(); got == nil || *got != geo.Kaaba {
		t.Errorf("LoadGeo() = %+v", got)
	}
	c.now = func() time.Time { return saved.Add(25 * time.Hour) }
	if c.LoadGeo() != nil {
		t.Error("stale location should miss")
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/qibla"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var ast = time.FixedZone("AST", 3*3600)

func newTestServer(opts Options) *Server {
	if opts.Settings.Location == nil {
		opts.Settings = prayer.Settings{
			Coordinates: prayer.Coordinates{Latitude: 21.4225, Longitude: 39.8262},
			Location:    ast,
			Method:      "UmmAlQura",
		}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2024, 6, 21, 13, 0, 0, 0, ast) }
	}
	return New(opts)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("body %q is not JSON: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestTimes(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/api/times?date=2024-06-21")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decodeBody[TimesResponse](t, w)

	if resp.Date != "2024-06-21" || resp.Method != "UmmAlQura" {
		t.Errorf("date/method = %s/%s", resp.Date, resp.Method)
	}
	if len(resp.Events) != len(prayer.CanonicalOrder) {
		t.Fatalf("got %d events, want %d", len(resp.Events), len(prayer.CanonicalOrder))
	}
	var prev time.Time
	for i, ev := range resp.Events {
		if ev.Name != prayer.CanonicalOrder[i] {
			t.Errorf("event %d = %s, want %s", i, ev.Name, prayer.CanonicalOrder[i])
		}
		if ev.Time == nil {
			t.Fatalf("%s has no time in Mecca", ev.Name)
		}
		if !ev.Time.After(prev) {
			t.Errorf("%s at %v is not after %v", ev.Name, ev.Time, prev)
		}
		prev = *ev.Time
	}
	if dhuhr := resp.Events[5]; !strings.HasPrefix(dhuhr.Clock, "12:2") {
		t.Errorf("dhuhr clock = %s, want 12:2x", dhuhr.Clock)
	}
	if resp.Hijri == "" {
		t.Error("hijri date missing")
	}
}

func TestTimes_Overrides(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/api/times?date=2024-06-21&lat=51.5074&lon=-0.1278&tz=UTC&method=MuslimWorldLeague&madhab=hanafi")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decodeBody[TimesResponse](t, w)
	if resp.Latitude != 51.5074 || resp.Timezone != "UTC" || resp.Madhab != "Hanafi" || resp.Method != "MuslimWorldLeague" {
		t.Errorf("overrides not applied: %+v", resp)
	}
}

func TestTimes_HighLatitudeWarns(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/api/times?date=2024-06-21&lat=69.6492&lon=18.9553&tz=UTC&method=MuslimWorldLeague")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[TimesResponse](t, w)
	if len(resp.Warnings) == 0 {
		t.Error("expected warnings for the midnight sun")
	}
	for _, ev := range resp.Events {
		if ev.Name == prayer.Sunrise && (ev.Time != nil || ev.Status != prayer.Missing) {
			t.Errorf("sunrise = %+v, want missing", ev)
		}
	}
}

func TestTimes_BadRequests(t *testing.T) {
	tests := []string{
		"/api/times?date=21-06-2024",
		"/api/times?lat=north",
		"/api/times?lat=95",
		"/api/times?method=Martian",
		"/api/times?madhab=maliki",
		"/api/times?tz=Mars/Olympus",
	}
	s := newTestServer(Options{})
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			if w := get(t, s, target); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestNext(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/api/next")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[NextResponse](t, w)
	if resp.Event.Name != prayer.Asr {
		t.Errorf("next at 13:00 = %s, want asr", resp.Event.Name)
	}
	if resp.RemainingSeconds <= 0 || resp.Remaining == "" {
		t.Errorf("remaining = %d %q", resp.RemainingSeconds, resp.Remaining)
	}
}

func TestNext_UnknownConfiguredMethodWarns(t *testing.T) {
	w := get(t, newTestServer(Options{Settings: prayer.Settings{
		Coordinates: prayer.Coordinates{Latitude: 21.4225, Longitude: 39.8262},
		Location:    ast,
		Method:      "Martian",
	}}), "/api/next")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[NextResponse](t, w)
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "Martian") {
		t.Errorf("warnings = %v, want the unknown method reported", resp.Warnings)
	}
	if resp.Event.Name != prayer.Asr {
		t.Errorf("next = %s, want asr from the default method", resp.Event.Name)
	}

	ok := decodeBody[NextResponse](t, get(t, newTestServer(Options{}), "/api/next"))
	if len(ok.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", ok.Warnings)
	}
}

func TestQibla(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/api/qibla?lat=40.7128&lon=-74.0060")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[qibla.Direction](t, w)
	if resp.Bearing < 57.5 || resp.Bearing > 59.5 || resp.Compass != "ENE" {
		t.Errorf("qibla = %+v, want ~58.5 ENE", resp)
	}
}

func TestMethods(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/api/methods")
	resp := decodeBody[[]MethodJSON](t, w)
	found := false
	for _, m := range resp {
		if m.Name == "UmmAlQura" {
			found = true
			if m.IshaInterval != 90 || m.Isha != "90min" {
				t.Errorf("UmmAlQura isha = %d %q", m.IshaInterval, m.Isha)
			}
		}
	}
	if !found {
		t.Error("UmmAlQura not listed")
	}
}

func TestHijri(t *testing.T) {
	w := get(t, newTestServer(Options{}), "/api/hijri?date=2024-03-11")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[HijriResponse](t, w)
	if resp.Hijri.Year != 1445 || resp.Hijri.Month != 9 || resp.Hijri.Day != 1 || !resp.Ramadan {
		t.Errorf("hijri = %+v", resp)
	}
	if resp.MoonPhase == "" {
		t.Error("moon phase missing")
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(Options{RequestsPerSecond: 0.001, Burst: 2})
	codes := []int{}
	for range 3 {
		codes = append(codes, get(t, s, "/api/methods").Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want 200 200 429", codes)
	}
	if w := get(t, s, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("healthz is rate limited: %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(Options{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/methods", nil)
	req.Header.Set("Origin", "http://example.com")
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

func TestSetSettings(t *testing.T) {
	s := newTestServer(Options{})
	s.SetSettings(prayer.Settings{
		Coordinates: prayer.Coordinates{Latitude: -6.2088, Longitude: 106.8456},
		Location:    time.FixedZone("WIB", 7*3600),
		Method:      "Karachi",
	})
	resp := decodeBody[TimesResponse](t, get(t, s, "/api/times?date=2024-06-21"))
	if resp.Method != "Karachi" || resp.Latitude != -6.2088 {
		t.Errorf("settings not replaced: %+v", resp)
	}
}

package geo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func serveJSON(t *testing.T, v any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestIPAPI_Success(t *testing.T) {
	server := serveJSON(t, ipAPIResponse{
		Status:   "success",
		Lat:      51.5074,
		Lon:      -0.1278,
		City:     "London",
		Country:  "United Kingdom",
		Timezone: "Europe/London",
	})

	loc, err := (&IPAPI{URL: server.URL}).Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	want := Location{51.5074, -0.1278, "London", "United Kingdom", "Europe/London"}
	if loc != want {
		t.Errorf("Locate() = %+v, want %+v", loc, want)
	}
}

func TestIPAPI_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "fail status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ipAPIResponse{Status: "fail", Message: "reserved range"})
			},
			want: "reserved range",
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			want: "status 429",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
			want: "decode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := (&IPAPI{URL: server.URL}).Locate(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLocateWithFallback(t *testing.T) {
	london := Location{Latitude: 51.5, Longitude: -0.12, Timezone: "Europe/London"}

	tests := []struct {
		name         string
		locator      Locator
		want         Location
		wantFallback bool
	}{
		{"success", LocatorFunc(func(context.Context) (Location, error) { return london, nil }), london, false},
		{"error", LocatorFunc(func(context.Context) (Location, error) { return Location{}, errors.New("offline") }), Kaaba, true},
		{"nil locator", nil, Kaaba, true},
		{
			name: "timeout",
			locator: LocatorFunc(func(ctx context.Context) (Location, error) {
				<-ctx.Done()
				return Location{}, ctx.Err()
			}),
			want:         Kaaba,
			wantFallback: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := LocateWithFallback(context.Background(), tt.locator, 20*time.Millisecond)
			if got != tt.want || fallback != tt.wantFallback {
				t.Errorf("LocateWithFallback() = %+v, %v; want %+v, %v", got, fallback, tt.want, tt.wantFallback)
			}
		})
	}
}

type memStore struct {
	loc   *Location
	saves int
}

func (m *memStore) LoadGeo() *Location { return m.loc }

func (m *memStore) SaveGeo(loc *Location) error {
	m.saves++
	c := *loc
	m.loc = &c
	return nil
}

func TestCached(t *testing.T) {
	calls := 0
	inner := LocatorFunc(func(context.Context) (Location, error) {
		calls++
		return Location{Latitude: 1, Longitude: 2}, nil
	})
	store := &memStore{}
	c := Cached{Locator: inner, Store: store}

	for i := 0; i < 3; i++ {
		loc, err := c.Locate(context.Background())
		if err != nil {
			t.Fatalf("Locate() error: %v", err)
		}
		if loc.Latitude != 1 {
			t.Errorf("Latitude = %v", loc.Latitude)
		}
	}
	if calls != 1 || store.saves != 1 {
		t.Errorf("calls = %d, saves = %d; want 1, 1", calls, store.saves)
	}
}

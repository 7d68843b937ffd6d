package qibla

import (
	"math"
	"testing"
)

func TestBearing_KnownCities(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     float64
	}{
		{"new york", 40.7128, -74.0060, 58.5},
		{"jakarta", -6.2088, 106.8456, 295.2},
		{"london", 51.5074, -0.1278, 119.0},
		{"sydney", -33.8688, 151.2093, 277.5},
		{"cairo", 30.0444, 31.2357, 136.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.lat, tt.lon)
			if math.Abs(got-tt.want) > 1 {
				t.Errorf("Bearing(%v, %v) = %.2f, want %.1f ± 1", tt.lat, tt.lon, got, tt.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("Bearing out of range: %v", got)
			}
		})
	}
}

func TestBearing_DueNorthAndSouth(t *testing.T) {
	// Directly south of the Kaaba on its meridian the qibla is due north.
	if got := Bearing(0, KaabaLongitude); math.Abs(got) > 1e-9 && math.Abs(got-360) > 1e-9 {
		t.Errorf("Bearing on the meridian south = %v, want 0", got)
	}
	if got := Bearing(60, KaabaLongitude); math.Abs(got-180) > 1e-9 {
		t.Errorf("Bearing on the meridian north = %v, want 180", got)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     float64
		tol      float64
	}{
		{"at the kaaba", KaabaLatitude, KaabaLongitude, 0, 0.001},
		{"new york", 40.7128, -74.0060, 10300, 100},
		{"jakarta", -6.2088, 106.8456, 7920, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.lat, tt.lon); math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance = %.1f km, want %.0f ± %.0f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{11, "N"},
		{12, "NNE"},
		{58.5, "ENE"},
		{90, "E"},
		{180, "S"},
		{295.2, "WNW"},
		{349, "N"},
		{-10, "N"},
	}
	for _, tt := range tests {
		if got := CompassPoint(tt.bearing); got != tt.want {
			t.Errorf("CompassPoint(%v) = %q, want %q", tt.bearing, got, tt.want)
		}
	}
}

func TestFrom(t *testing.T) {
	d := From(40.7128, -74.0060)
	if d.Compass != "ENE" {
		t.Errorf("Compass = %q, want ENE", d.Compass)
	}
	if d.DistanceKm < 10000 {
		t.Errorf("DistanceKm = %v", d.DistanceKm)
	}
}

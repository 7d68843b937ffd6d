package dst

import (
	"errors"
	"testing"
	"time"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("zone %s not available: %v", name, err)
	}
	return loc
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Automatic, false},
		{"auto", Automatic, false},
		{"Automatic", Automatic, false},
		{"always-on", AlwaysOn, false},
		{"ON", AlwaysOn, false},
		{"off", AlwaysOff, false},
		{"sometimes", Automatic, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownMode) {
				t.Errorf("error %v does not wrap ErrUnknownMode", err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStandardOffset_FixedZone(t *testing.T) {
	loc := time.FixedZone("AST", 3*3600)
	if got := StandardOffset(loc, 2024); got != 3*3600 {
		t.Errorf("StandardOffset = %d, want %d", got, 3*3600)
	}
	if got := StandardOffset(nil, 2024); got != 0 {
		t.Errorf("StandardOffset(nil) = %d, want 0", got)
	}
}

func TestActiveMinutes_Hemispheres(t *testing.T) {
	london := mustZone(t, "Europe/London")
	sydney := mustZone(t, "Australia/Sydney")

	tests := []struct {
		name string
		loc  *time.Location
		at   time.Time
		want int
	}{
		{"london winter", london, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), 0},
		{"london summer", london, time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC), 60},
		{"sydney january", sydney, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), 60},
		{"sydney july", sydney, time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActiveMinutes(tt.loc, tt.at); got != tt.want {
				t.Errorf("ActiveMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCorrection(t *testing.T) {
	london := mustZone(t, "Europe/London")
	summer := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	winter := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		mode Mode
		at   time.Time
		want int
	}{
		{"automatic summer", Automatic, summer, 0},
		{"automatic winter", Automatic, winter, 0},
		{"forced on in winter", AlwaysOn, winter, 60},
		{"forced on in summer", AlwaysOn, summer, 0},
		{"forced off in summer", AlwaysOff, summer, -60},
		{"forced off in winter", AlwaysOff, winter, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Correction(tt.mode, london, tt.at); got != tt.want {
				t.Errorf("Correction = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMinutes(t *testing.T) {
	utc := time.UTC
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, utc)
	if got := Minutes(AlwaysOn, utc, now); got != 60 {
		t.Errorf("AlwaysOn = %d, want 60", got)
	}
	if got := Minutes(Automatic, utc, now); got != 0 {
		t.Errorf("Automatic in UTC = %d, want 0", got)
	}
}

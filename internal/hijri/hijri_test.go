package hijri

import (
	"math"
	"testing"
	"time"
)

func TestFromTime(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want Date
	}{
		{"first of ramadan 1445", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), Date{1445, 9, 1}},
		{"eid al-fitr 1445", time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), Date{1445, 10, 1}},
		{"new year 1445", time.Date(2023, 7, 19, 0, 0, 0, 0, time.UTC), Date{1445, 1, 1}},
		{"J2000 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), Date{1420, 9, 24}},
		{"ramadan 1446", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Date{1446, 9, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromTime(tt.date, 0); got != tt.want {
				t.Errorf("FromTime(%s) = %+v, want %+v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestFromTime_Offset(t *testing.T) {
	d := FromTime(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), -1)
	if d != (Date{1445, 8, 29}) {
		t.Errorf("offset -1 = %+v, want 29 Shaban 1445", d)
	}
}

func TestGregorianRoundTrip(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i += 7 {
		day := start.AddDate(0, 0, i)
		h := FromTime(day, 0)
		back := h.Gregorian(time.UTC)
		if !back.Equal(day) {
			t.Fatalf("round trip %s -> %v -> %s", day.Format("2006-01-02"), h, back.Format("2006-01-02"))
		}
	}
}

func TestDate_String(t *testing.T) {
	d := Date{1445, 9, 1}
	if got := d.String(); got != "1 Ramadan 1445 AH" {
		t.Errorf("String() = %q", got)
	}
	if !d.IsRamadan() {
		t.Error("IsRamadan() = false")
	}
	if (Date{Month: 13}).MonthName() != "" {
		t.Error("invalid month should have no name")
	}
}

func TestMoonPhase(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"reference new moon", time.Date(2000, 1, 6, 14, 24, 0, 0, time.UTC), "New Moon"},
		{"full moon a half month later", time.Date(2000, 1, 21, 6, 0, 0, 0, time.UTC), "Full Moon"},
		{"first quarter", time.Date(2000, 1, 13, 22, 0, 0, 0, time.UTC), "First Quarter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phase(tt.at); got != tt.want {
				t.Errorf("Phase = %q (age %.2f), want %q", got, MoonAge(tt.at), tt.want)
			}
		})
	}
}

func TestMoonAgeAndIllumination(t *testing.T) {
	newMoon := time.Date(2000, 1, 6, 14, 24, 0, 0, time.UTC)
	if age := MoonAge(newMoon); age > 0.01 && age < SynodicMonth-0.01 {
		t.Errorf("age at reference new moon = %v", age)
	}
	if ill := Illumination(newMoon); ill > 0.001 {
		t.Errorf("illumination at new moon = %v", ill)
	}
	full := newMoon.Add(time.Duration(SynodicMonth / 2 * float64(24*time.Hour)))
	if ill := Illumination(full); math.Abs(ill-1) > 0.001 {
		t.Errorf("illumination at full moon = %v", ill)
	}
}

package method

import (
	"errors"
	"testing"
)

func TestLookup_Table(t *testing.T) {
	tests := []struct {
		method   Method
		fajr     float64
		isha     float64
		interval int
		adj      Adjustments
	}{
		{MuslimWorldLeague, 18, 17, 0, Adjustments{0, -1, 0, 0, 0, 0}},
		{Egyptian, 19.5, 17.5, 0, Adjustments{0, -1, 1, 0, 1, 0}},
		{Karachi, 18, 18, 0, Adjustments{0, -1, 1, 0, 0, 0}},
		{UmmAlQura, 18.5, 0, 90, Adjustments{0, -1, 5, 0, 3, 0}},
		{Dubai, 18.2, 18.2, 0, Adjustments{0, 0, 3, 0, 3, 0}},
		{MoonsightingCommittee, 18, 18, 0, Adjustments{0, 0, 5, 0, 3, 0}},
		{NorthAmerica, 15, 15, 0, Adjustments{0, -2, 0, 0, 0, 0}},
		{Tehran, 17.7, 14, 0, Adjustments{0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			p, err := Lookup(string(tt.method))
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.method, err)
			}
			if p.Method != tt.method {
				t.Errorf("Method = %q, want %q", p.Method, tt.method)
			}
			if p.FajrAngle != tt.fajr {
				t.Errorf("FajrAngle = %v, want %v", p.FajrAngle, tt.fajr)
			}
			if p.IshaInterval != tt.interval {
				t.Errorf("IshaInterval = %v, want %v", p.IshaInterval, tt.interval)
			}
			if tt.interval == 0 && p.IshaAngle != tt.isha {
				t.Errorf("IshaAngle = %v, want %v", p.IshaAngle, tt.isha)
			}
			if p.MethodAdjustments != tt.adj {
				t.Errorf("MethodAdjustments = %+v, want %+v", p.MethodAdjustments, tt.adj)
			}
			if p.Madhab != Shafi {
				t.Errorf("Madhab = %v, want Shafi", p.Madhab)
			}
			if !p.ManualAdjustments.IsZero() {
				t.Errorf("ManualAdjustments = %+v, want zero", p.ManualAdjustments)
			}
		})
	}
}

func TestLookup_CaseAndAliases(t *testing.T) {
	tests := []struct {
		name string
		want Method
	}{
		{"muslimworldleague", MuslimWorldLeague},
		{"  Egyptian ", Egyptian},
		{"MWL", MuslimWorldLeague},
		{"ISNA", NorthAmerica},
		{"uaq", UmmAlQura},
		{"Egypt", Egyptian},
	}
	for _, tt := range tests {
		p, err := Lookup(tt.name)
		if err != nil {
			t.Errorf("Lookup(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if p.Method != tt.want {
			t.Errorf("Lookup(%q).Method = %q, want %q", tt.name, p.Method, tt.want)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("Atlantis")
	if err == nil {
		t.Fatal("expected error for unknown method, got nil")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("errors.Is(err, ErrConfiguration) = false for %v", err)
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error is not a *ConfigurationError: %T", err)
	}
	if cfgErr.Field != "method" || cfgErr.Value != "Atlantis" {
		t.Errorf("ConfigurationError = %+v", cfgErr)
	}
}

func TestLookupOrDefault(t *testing.T) {
	p, err := LookupOrDefault("Atlantis")
	if err == nil {
		t.Error("expected the lookup error to be returned as a warning")
	}
	if p.Method != MuslimWorldLeague {
		t.Errorf("fallback Method = %q, want %q", p.Method, MuslimWorldLeague)
	}

	p, err = LookupOrDefault("Karachi")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if p.Method != Karachi {
		t.Errorf("Method = %q, want Karachi", p.Method)
	}
}

func TestUsesIshaInterval(t *testing.T) {
	uaq, _ := Lookup("UmmAlQura")
	if !uaq.UsesIshaInterval() {
		t.Error("UmmAlQura should use an Isha interval")
	}
	mwl, _ := Lookup("MuslimWorldLeague")
	if mwl.UsesIshaInterval() {
		t.Error("MuslimWorldLeague should not use an Isha interval")
	}
}

func TestAdjustments(t *testing.T) {
	a := Adjustments{Fajr: 1, Isha: -2}
	got := a.Add(Uniform(60))
	want := Adjustments{61, 60, 60, 60, 60, 58}
	if got != want {
		t.Errorf("Add = %+v, want %+v", got, want)
	}
	if !(Adjustments{}).IsZero() {
		t.Error("zero Adjustments should report IsZero")
	}
}

func TestMadhab(t *testing.T) {
	if Shafi.ShadowRatio() != 1 {
		t.Errorf("Shafi ratio = %v, want 1", Shafi.ShadowRatio())
	}
	if Hanafi.ShadowRatio() != 2 {
		t.Errorf("Hanafi ratio = %v, want 2", Hanafi.ShadowRatio())
	}

	for _, s := range []string{"hanafi", "Hanafi", "1"} {
		m, err := ParseMadhab(s)
		if err != nil || m != Hanafi {
			t.Errorf("ParseMadhab(%q) = %v, %v; want Hanafi", s, m, err)
		}
	}
	if _, err := ParseMadhab("maliki"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ParseMadhab(maliki) error = %v, want configuration error", err)
	}
}

func TestHighLatitudeRule(t *testing.T) {
	r, err := ParseHighLatitudeRule("seventhofthenight")
	if err != nil || r != SeventhOfTheNight {
		t.Fatalf("ParseHighLatitudeRule = %v, %v", r, err)
	}
	if got := r.NightPortion(18); got != 1.0/7.0 {
		t.Errorf("SeventhOfTheNight portion = %v", got)
	}
	if got := TwilightAngle.NightPortion(18); got != 0.3 {
		t.Errorf("TwilightAngle portion = %v, want 0.3", got)
	}
	if got := MiddleOfTheNight.NightPortion(18); got != 0.5 {
		t.Errorf("MiddleOfTheNight portion = %v, want 0.5", got)
	}
	if _, err := ParseHighLatitudeRule("nope"); err == nil {
		t.Error("expected error for unknown rule")
	}
}

func TestAll(t *testing.T) {
	infos := All()
	if len(infos) != 10 {
		t.Fatalf("All() returned %d methods, want 10", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Method >= infos[i].Method {
			t.Errorf("All() not sorted at %d: %q >= %q", i, infos[i-1].Method, infos[i].Method)
		}
	}
	for _, info := range infos {
		if info.Method == UmmAlQura && info.IshaLabel() != "90min" {
			t.Errorf("UmmAlQura IshaLabel = %q", info.IshaLabel())
		}
		if info.Method == Egyptian && info.IshaLabel() != "17.5°" {
			t.Errorf("Egyptian IshaLabel = %q", info.IshaLabel())
		}
	}
	if UmmAlQura.AladhanID() != 4 {
		t.Errorf("UmmAlQura AladhanID = %d, want 4", UmmAlQura.AladhanID())
	}
}

func TestParseAdjustments(t *testing.T) {
	tests := []struct {
		in      string
		want    Adjustments
		wantErr bool
	}{
		{"", Adjustments{}, false},
		{"fajr=2,isha=-1", Adjustments{Fajr: 2, Isha: -1}, false},
		{" Dhuhr = 3 ", Adjustments{Dhuhr: 3}, false},
		{"fajr", Adjustments{}, true},
		{"fajr=x", Adjustments{}, true},
		{"witr=2", Adjustments{}, true},
	}
	for _, tt := range tests {
		got, err := ParseAdjustments(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAdjustments(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAdjustments(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	a := Adjustments{Fajr: 2, Isha: -1}
	if a.String() != "fajr=2,isha=-1" {
		t.Errorf("String() = %q", a.String())
	}
}

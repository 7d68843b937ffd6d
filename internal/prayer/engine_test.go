package prayer

import (
	"testing"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/dst"
	"github.com/smokyabdulrahman/adhan/internal/method"
)

func meccaEngine(t *testing.T) Engine {
	t.Helper()
	return Engine{
		Coordinates: mecca,
		Params:      mustParams(t, "UmmAlQura"),
		Location:    ast,
	}
}

func TestEngine_DayIsChronological(t *testing.T) {
	e := meccaEngine(t)
	for _, date := range []time.Time{
		time.Date(2024, 1, 15, 0, 0, 0, 0, ast),
		time.Date(2024, 6, 21, 0, 0, 0, 0, ast),
		time.Date(2024, 12, 31, 0, 0, 0, 0, ast),
	} {
		s := e.Day(date)
		events := s.Events()
		if len(events) != 9 {
			t.Fatalf("%s: got %d events, want 9", date.Format("2006-01-02"), len(events))
		}
		for i := 1; i < len(events); i++ {
			if !events[i-1].FireAt.Before(events[i].FireAt) {
				t.Errorf("%s: %s (%s) not before %s (%s)", date.Format("2006-01-02"),
					events[i-1].Name, events[i-1].FireAt.Format("15:04"),
					events[i].Name, events[i].FireAt.Format("15:04"))
			}
		}
		if got := s.Derived.Tahajjud.Instant.In(ast); got.Day() != date.Day() {
			t.Errorf("%s: Tahajjud %v is not on the schedule date", date.Format("2006-01-02"), got)
		}
	}
}

func TestEngine_DayTahajjudComesFromPreviousNight(t *testing.T) {
	e := meccaEngine(t)
	date := time.Date(2024, 4, 2, 0, 0, 0, 0, ast)

	prev := e.Times(date.AddDate(0, 0, -1))
	want := ComputeDerived(prev).Tahajjud
	if got := e.Day(date).Derived.Tahajjud; !got.Instant.Equal(want.Instant) {
		t.Errorf("Tahajjud = %v, want %v", got.Instant, want.Instant)
	}
}

func TestEngine_Next(t *testing.T) {
	e := meccaEngine(t)
	day := e.Day(time.Date(2024, 4, 2, 0, 0, 0, 0, ast))

	got, ok := e.Next(day.Prayers.Dhuhr.Instant.Add(time.Minute))
	if !ok || got.Name != Asr {
		t.Errorf("Next after Dhuhr = %+v, want asr", got)
	}

	late := day.Prayers.Isha.Instant.Add(time.Hour)
	got, ok = e.Next(late)
	if !ok || got.Name != Tahajjud || got.Wrapped {
		t.Fatalf("Next after Isha = %+v, want tomorrow's tahajjud", got)
	}
	tomorrow := e.Day(time.Date(2024, 4, 3, 0, 0, 0, 0, ast))
	if want := tomorrow.Derived.Tahajjud.Instant; !got.FireAt.Equal(want) {
		t.Errorf("FireAt = %v, want %v", got.FireAt, want)
	}
}

func TestEngine_NextOnShortNight(t *testing.T) {
	bst, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	settings := Settings{
		Coordinates: Coordinates{Latitude: 51.5, Longitude: -0.12},
		Location:    bst,
		Method:      "MuslimWorldLeague",
		DSTMode:     dst.Automatic,
		Manual:      method.Adjustments{Fajr: -30},
	}
	e, err := settings.Engine(time.Date(2024, 6, 21, 12, 0, 0, 0, bst))
	if err != nil {
		t.Fatal(err)
	}

	// The night of 21/22 June is so short that its Tahajjud falls before
	// midnight, on the evening of the 21st.
	tahajjud := e.Day(time.Date(2024, 6, 22, 0, 0, 0, 0, bst)).Derived.Tahajjud.Instant
	if tahajjud.In(bst).Day() != 21 {
		t.Fatalf("tahajjud %v, want the evening of the 21st", tahajjud)
	}

	got, ok := e.Next(time.Date(2024, 6, 21, 22, 0, 0, 0, bst))
	if !ok || got.Name != Tahajjud || !got.FireAt.Equal(tahajjud) {
		t.Errorf("Next at 22:00 = %+v, want tahajjud at %v", got, tahajjud)
	}

	now := tahajjud
	want := []EventName{Suhoor, Fajr, Sunrise}
	for _, name := range want {
		got, ok := e.Next(now)
		if !ok {
			t.Fatalf("Next(%v) found nothing", now)
		}
		if !got.FireAt.After(now) {
			t.Fatalf("Next(%v) = %s at %v, not after now", now, got.Name, got.FireAt)
		}
		if got.Name != name {
			t.Errorf("Next(%v) = %s, want %s", now, got.Name, name)
		}
		now = got.FireAt
	}
}

func TestEngine_NextOf(t *testing.T) {
	e := meccaEngine(t)
	day := e.Day(time.Date(2024, 4, 2, 0, 0, 0, 0, ast))

	got, ok := e.NextOf(day.Prayers.Dhuhr.Instant, []EventName{Fajr, Maghrib})
	if !ok || got.Name != Maghrib {
		t.Errorf("NextOf after dhuhr = %+v, want maghrib", got)
	}

	got, ok = e.NextOf(day.Prayers.Isha.Instant, []EventName{Fajr})
	tomorrow := e.Day(time.Date(2024, 4, 3, 0, 0, 0, 0, ast))
	if !ok || got.Name != Fajr || !got.FireAt.Equal(tomorrow.Prayers.Fajr.Instant) {
		t.Errorf("NextOf after isha = %+v, want tomorrow's fajr", got)
	}
}

func TestEngine_Days(t *testing.T) {
	e := meccaEngine(t)
	days := e.Days(time.Date(2024, 2, 27, 15, 0, 0, 0, ast), 4)
	if len(days) != 4 {
		t.Fatalf("got %d days, want 4", len(days))
	}
	wantDays := []int{27, 28, 29, 1}
	for i, d := range days {
		if d.Date.Day() != wantDays[i] {
			t.Errorf("day %d = %v, want the %d", i, d.Date, wantDays[i])
		}
	}
}

func TestEngine_HighLatitudeFallback(t *testing.T) {
	oslo := Coordinates{Latitude: 59.9139, Longitude: 10.7522}
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	p := mustParams(t, "MuslimWorldLeague")

	plain := Engine{Coordinates: oslo, Params: p, Location: time.UTC}.Times(date)
	if plain.Isha.Status != Missing {
		t.Fatalf("Isha without fallback = %v, want missing", plain.Isha.Status)
	}

	withFallback := Engine{Coordinates: oslo, Params: p, Location: time.UTC, HighLatitudeFallback: true}.Times(date)
	if withFallback.Isha.Status != HighLatitude || withFallback.Fajr.Status != HighLatitude {
		t.Errorf("statuses = fajr %v isha %v, want high-latitude", withFallback.Fajr.Status, withFallback.Isha.Status)
	}
	if err := withFallback.Err(); err != nil {
		t.Errorf("fallback set still unsolvable: %v", err)
	}
}

func TestEngine_NilLocation(t *testing.T) {
	e := Engine{Coordinates: london, Params: method.Parameters{FajrAngle: 18, IshaAngle: 17}}
	if got := e.Times(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).Date.Location(); got != time.UTC {
		t.Errorf("location = %v, want UTC", got)
	}
}

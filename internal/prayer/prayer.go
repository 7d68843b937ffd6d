// Package prayer computes the daily prayer times, the derived night and
// morning times, and picks the next event to announce.
package prayer

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/api"
)

// EventName identifies one of the nine daily events.
type EventName string

const (
	Tahajjud EventName = "tahajjud"
	Suhoor   EventName = "suhoor"
	Fajr     EventName = "fajr"
	Sunrise  EventName = "sunrise"
	Ishraq   EventName = "ishraq"
	Dhuhr    EventName = "dhuhr"
	Asr      EventName = "asr"
	Maghrib  EventName = "maghrib"
	Isha     EventName = "isha"
)

// CanonicalOrder is the order events are considered in within one day.
var CanonicalOrder = []EventName{
	Tahajjud, Suhoor, Fajr, Sunrise, Ishraq, Dhuhr, Asr, Maghrib, Isha,
}

// PrayerEvents are the six events produced by the solver, in order.
var PrayerEvents = []EventName{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// DerivedEvents are the three events derived from the solver's output.
var DerivedEvents = []EventName{Tahajjud, Suhoor, Ishraq}

// DefaultEvents are the events shown when the user has not chosen any.
var DefaultEvents = []EventName{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Title returns the display name, e.g. "Fajr".
func (n EventName) Title() string {
	if n == "" {
		return ""
	}
	return strings.ToUpper(string(n[:1])) + string(n[1:])
}

// Notifies reports whether the event triggers a notification. Sunrise is a
// marker only.
func (n EventName) Notifies() bool {
	return n != Sunrise
}

// ShortNames maps event names to compact abbreviations for status bars.
var ShortNames = map[EventName]string{
	Tahajjud: "T",
	Suhoor:   "Sh",
	Fajr:     "F",
	Sunrise:  "S",
	Ishraq:   "Ir",
	Dhuhr:    "D",
	Asr:      "A",
	Maghrib:  "M",
	Isha:     "I",
}

// ParseEventName matches an event name case-insensitively.
func ParseEventName(s string) (EventName, error) {
	n := EventName(strings.ToLower(strings.TrimSpace(s)))
	for _, e := range CanonicalOrder {
		if e == n {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown event name %q", s)
}

// ParseEventList parses a comma-separated list such as "fajr,isha".
func ParseEventList(s string) ([]EventName, error) {
	var out []EventName
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := ParseEventName(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Event is a named instant on the schedule.
type Event struct {
	Name   EventName `json:"name"`
	FireAt time.Time `json:"fire_at"`
	Status Status    `json:"status"`
	// Wrapped marks tomorrow's Tahajjud approximated as today's plus 24h.
	Wrapped bool `json:"wrapped,omitempty"`
}

// TimeRemaining returns the duration until the event fires.
func TimeRemaining(e Event, now time.Time) time.Duration {
	return e.FireAt.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FromTimings converts Al Adhan API timings for date into a TimeSet in loc.
// Every parsed field is Computed; unparsable fields are reported.
func FromTimings(timings api.Timings, date time.Time, loc *time.Location) (TimeSet, error) {
	if loc == nil {
		loc = time.UTC
	}
	raw := map[EventName]string{
		Fajr:    timings.Fajr,
		Sunrise: timings.Sunrise,
		Dhuhr:   timings.Dhuhr,
		Asr:     timings.Asr,
		Maghrib: timings.Maghrib,
		Isha:    timings.Isha,
	}

	set := TimeSet{Date: dayStart(date, loc)}
	for _, name := range PrayerEvents {
		t, err := parseTimeStr(raw[name], date, loc)
		if err != nil {
			return TimeSet{}, fmt.Errorf("failed to parse time for %s (%q): %w", name, raw[name], err)
		}
		set.set(name, Time{Instant: t, Status: Computed})
	}
	return set, nil
}

// parseTimeStr parses a time string like "15:02" or "15:02 (BST)" into a time.Time
// on the given date in the given location.
func parseTimeStr(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	// Strip timezone suffix like " (BST)" that the API sometimes appends.
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}

	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, loc), nil
}

// dayStart is local midnight of date's calendar day in loc.
func dayStart(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

type locationJSON struct {
	Place     string  `json:"place"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation,omitempty"`
	Timezone  string  `json:"timezone"`
	Fallback  bool    `json:"fallback,omitempty"`
}

func (s *session) locationJSON() locationJSON {
	return locationJSON{
		Place:     s.place,
		Latitude:  s.settings.Coordinates.Latitude,
		Longitude: s.settings.Coordinates.Longitude,
		Elevation: s.settings.Coordinates.Elevation,
		Timezone:  s.settings.Location.String(),
		Fallback:  s.fallback,
	}
}

type eventJSON struct {
	Name   prayer.EventName `json:"name"`
	Time   string           `json:"time"`
	FireAt *time.Time       `json:"fire_at,omitempty"`
	Status prayer.Status    `json:"status"`
}

func newEventJSON(name prayer.EventName, t prayer.Time, layout string) eventJSON {
	out := eventJSON{Name: name, Time: "--:--", Status: t.Status}
	if t.Valid() {
		fireAt := t.Instant
		out.Time = t.Instant.Format(layout)
		out.FireAt = &fireAt
	}
	return out
}

type nextJSON struct {
	Name      prayer.EventName `json:"name"`
	Time      string           `json:"time"`
	FireAt    time.Time        `json:"fire_at"`
	Remaining string           `json:"remaining"`
	Status    prayer.Status    `json:"status"`
	Wrapped   bool             `json:"wrapped,omitempty"`
}

func newNextJSON(e prayer.Event, at time.Time, layout string) *nextJSON {
	return &nextJSON{
		Name:      e.Name,
		Time:      e.FireAt.Format(layout),
		FireAt:    e.FireAt,
		Remaining: prayer.FormatRemaining(prayer.TimeRemaining(e, at)),
		Status:    e.Status,
		Wrapped:   e.Wrapped,
	}
}

// rowNames is the list of events shown for a day.
func rowNames(names []prayer.EventName, all bool) []prayer.EventName {
	if all || len(names) == 0 {
		return prayer.CanonicalOrder
	}
	return names
}

// clock renders a time for tables, prefixed with "~" when approximate and
// "--:--" when missing.
func clock(t prayer.Time, layout string) string {
	if !t.Valid() {
		return "--:--"
	}
	return prayer.Approx(t.Status) + t.Instant.Format(layout)
}

func titles(names []prayer.EventName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.Title()
	}
	return out
}

func joinErrors(err error) []string {
	if err == nil {
		return nil
	}
	return strings.Split(err.Error(), "\n")
}

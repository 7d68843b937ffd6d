package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/hijri"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/qibla"
)

var flagAll bool

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	day := s.engine.Day(s.date)
	at := now().In(s.settings.Location)
	next, hasNext := s.engine.Next(at)
	names := rowNames(s.cfg.EventList(), flagAll)
	layout := s.cfg.TimeLayout()
	h := hijri.FromTime(day.Date, s.cfg.HijriOffset)
	warnings := joinErrors(day.Prayers.Err())

	if FlagJSON {
		out := todayJSON{
			Location: s.locationJSON(),
			Date: dateJSON{
				Gregorian: day.Date.Format("2006-01-02"),
				Hijri:     h.String(),
			},
			Method:   string(s.engine.Params.Method),
			Madhab:   s.settings.Madhab.String(),
			Qibla:    qibla.From(s.settings.Coordinates.Latitude, s.settings.Coordinates.Longitude),
			Warnings: warnings,
		}
		for _, name := range names {
			t, _ := day.Get(name)
			out.Events = append(out.Events, newEventJSON(name, t, layout))
		}
		if hasNext && isToday(day.Date) {
			out.Next = newNextJSON(next, at, layout)
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place)
	fmt.Fprintf(w, "  %s · %s\n", s.settings.Location, s.engine.Params.Method.Description())
	fmt.Fprintf(w, "  %s\n", day.Date.Format("Monday 02 January 2006"))
	fmt.Fprintf(w, "  %s\n", h)
	fmt.Fprintln(w)

	printDay(w, day, names, next, hasNext && isToday(day.Date), at, layout)

	for _, msg := range warnings {
		fmt.Fprintf(w, "  %s\n", display.Warning("! "+msg))
	}
	fmt.Fprintln(w)
	return nil
}

// printDay renders one line per event. Past events are dimmed and the next
// one is highlighted with its countdown.
func printDay(w io.Writer, day prayer.Schedule, names []prayer.EventName, next prayer.Event, showNext bool, at time.Time, layout string) {
	width := 0
	for _, n := range names {
		if l := len(n.Title()); l > width {
			width = l
		}
	}

	for _, name := range names {
		t, _ := day.Get(name)
		line := fmt.Sprintf("  %-*s  %s", width, name.Title(), clock(t, layout))
		if t.Status != prayer.Computed {
			line += "  (" + t.Status.String() + ")"
		}

		switch {
		case !t.Valid():
			fmt.Fprintln(w, display.Warning(line))
		case showNext && next.Name == name && next.FireAt.Equal(t.Instant):
			suffix := fmt.Sprintf("  <- next in %s", prayer.FormatRemaining(prayer.TimeRemaining(next, at)))
			fmt.Fprintln(w, display.Accent(line+suffix))
		case showNext && t.Instant.Before(at):
			fmt.Fprintln(w, display.Dim(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location locationJSON    `json:"location"`
	Date     dateJSON        `json:"date"`
	Method   string          `json:"method"`
	Madhab   string          `json:"madhab"`
	Events   []eventJSON     `json:"events"`
	Next     *nextJSON       `json:"next,omitempty"`
	Qibla    qibla.Direction `json:"qibla"`
	Warnings []string        `json:"warnings,omitempty"`
}

type dateJSON struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/hijri"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	names := make([]string, len(prayer.CanonicalOrder))
	for i, n := range prayer.CanonicalOrder {
		names[i] = n.Title()
	}

	cmd := &cobra.Command{
		Use:   "query <event>",
		Short: "Query one event's time",
		Long:  "Query one event's time for today, or across multiple days with --days.\n\nValid events: " + strings.Join(names, ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, err := prayer.ParseEventName(args[0])
	if err != nil {
		return err
	}
	days, err := parseDays(flagQueryDays, 1)
	if err != nil {
		return fmt.Errorf("invalid --days: %w", err)
	}

	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	layout := s.cfg.TimeLayout()
	schedules := s.engine.Days(s.date, days)
	w := cmd.OutOrStdout()

	if days == 1 {
		day := schedules[0]
		t, _ := day.Get(name)
		if FlagJSON {
			return printJSON(w, queryJSONDay{
				Date:      day.Date.Format("2006-01-02"),
				Hijri:     hijri.FromTime(day.Date, s.cfg.HijriOffset).String(),
				eventJSON: newEventJSON(name, t, layout),
			})
		}
		fmt.Fprintf(w, "%s %s\n", name.Title(), clock(t, layout))
		return nil
	}

	if FlagJSON {
		out := queryJSON{Location: s.locationJSON(), Event: name}
		for _, day := range schedules {
			t, _ := day.Get(name)
			out.Days = append(out.Days, queryJSONDay{
				Date:      day.Date.Format("2006-01-02"),
				Hijri:     hijri.FromTime(day.Date, s.cfg.HijriOffset).String(),
				eventJSON: newEventJSON(name, t, layout),
			})
		}
		return printJSON(w, out)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("%s Times, %d Days", name.Title(), days)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place)
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Date", name.Title()})
	for i, day := range schedules {
		tbl.AddRow(dayRow(day, []prayer.EventName{name}, layout))
		if isToday(day.Date) {
			tbl.SetHighlightRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

type queryJSON struct {
	Location locationJSON     `json:"location"`
	Event    prayer.EventName `json:"event"`
	Days     []queryJSONDay   `json:"days"`
}

type queryJSONDay struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri"`
	eventJSON
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/hijri"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// parseDays reads a positive day count, or the words week and month.
func parseDays(s string, def int) (int, error) {
	switch s {
	case "":
		return def, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 366 {
		return 0, fmt.Errorf("invalid number of days: %q (must be 1-366, 'week' or 'month')", s)
	}
	return n, nil
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	days, err := parseDays(arg, defaultDays)
	if err != nil {
		return err
	}

	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	names := s.cfg.EventList()
	layout := s.cfg.TimeLayout()
	schedules := s.engine.Days(s.date, days)

	if FlagJSON {
		out := listJSON{Location: s.locationJSON()}
		for _, day := range schedules {
			d := listJSONDay{
				Date:     day.Date.Format("2006-01-02"),
				Hijri:    hijri.FromTime(day.Date, s.cfg.HijriOffset).String(),
				Warnings: joinErrors(day.Prayers.Err()),
			}
			for _, name := range names {
				t, _ := day.Get(name)
				d.Events = append(d.Events, newEventJSON(name, t, layout))
			}
			out.Days = append(out.Days, d)
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times, %d Days", days)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place)
	fmt.Fprintln(w)

	tbl := display.NewTable(append([]string{"Date"}, titles(names)...))
	for i, day := range schedules {
		tbl.AddRow(dayRow(day, names, layout))
		if isToday(day.Date) {
			tbl.SetHighlightRow(i)
		} else if day.Prayers.Err() != nil {
			tbl.SetWarnRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

func dayRow(day prayer.Schedule, names []prayer.EventName, layout string) []string {
	row := []string{day.Date.Format("Mon 02 Jan")}
	for _, name := range names {
		t, _ := day.Get(name)
		row = append(row, clock(t, layout))
	}
	return row
}

type listJSON struct {
	Location locationJSON  `json:"location"`
	Days     []listJSONDay `json:"days"`
}

type listJSONDay struct {
	Date     string      `json:"date"`
	Hijri    string      `json:"hijri"`
	Events   []eventJSON `json:"events"`
	Warnings []string    `json:"warnings,omitempty"`
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/history"
)

var flagLimit int

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently announced events",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show")
	return cmd
}

type historyJSON struct {
	Event       string `json:"event"`
	ScheduledAt string `json:"scheduled_at"`
	FiredAt     string `json:"fired_at"`
	Status      string `json:"status"`
	LateSeconds int64  `json:"late_seconds"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig()
	store, err := history.Open(cfg.HistoryDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), flagLimit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		out := make([]historyJSON, len(records))
		for i, r := range records {
			out[i] = historyJSON{
				Event:       string(r.Event),
				ScheduledAt: r.ScheduledAt.Format(time.RFC3339),
				FiredAt:     r.FiredAt.Format(time.RFC3339),
				Status:      r.Status.String(),
				LateSeconds: int64(r.Late().Seconds()),
			}
		}
		return printJSON(w, out)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No events recorded yet. Start the daemon with 'adhan run'.")
		return nil
	}

	layout := "2006-01-02 " + cfg.TimeLayout()
	tbl := display.NewTable([]string{"Fired", "Event", "Scheduled", "Status"})
	for i, r := range records {
		tbl.AddRow([]string{
			r.FiredAt.Local().Format(layout),
			r.Event.Title(),
			r.ScheduledAt.Local().Format(cfg.TimeLayout()),
			r.Status.String(),
		})
		if r.Late() > time.Minute {
			tbl.SetWarnRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	return nil
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next event with countdown",
		Long:  "Display the next upcoming event with a countdown, in a form suited to status bars.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	at := now().In(s.settings.Location)
	next, ok := nextOf(s.engine, at, s.cfg.EventList())
	if !ok {
		return fmt.Errorf("could not determine next event")
	}

	layout := s.cfg.TimeLayout()
	if FlagJSON {
		return printJSON(cmd.OutOrStdout(), newNextJSON(next, at, layout))
	}
	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(next, at, flagFormat, layout))
	return nil
}

// nextOf returns the first of names firing after at. With every event
// selected it follows the engine's rule, including the wrap to tomorrow's
// Tahajjud; a subset never wraps.
func nextOf(e prayer.Engine, at time.Time, names []prayer.EventName) (prayer.Event, bool) {
	if len(names) == 0 || len(names) == len(prayer.CanonicalOrder) {
		return e.Next(at)
	}
	return e.NextOf(at, names)
}

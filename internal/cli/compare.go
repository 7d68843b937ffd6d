package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/api"
	"github.com/smokyabdulrahman/adhan/internal/cache"
	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

var flagThreshold time.Duration

// newAPIClient is replaced in tests.
var newAPIClient = api.NewClient

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Check local times against the Al Adhan API",
		Long: `Fetch the same day from the Al Adhan API and compare it prayer by prayer.
Differences within the threshold resolve to the remote time. Larger ones keep
the cautious time (earlier for fajr, dhuhr, asr and maghrib, later for sunrise
and isha) and are flagged.`,
		Args: cobra.NoArgs,
		RunE: runCompare,
	}
	cmd.Flags().DurationVar(&flagThreshold, "threshold", prayer.DefaultCrossCheckThreshold, "Largest difference settled in favour of the remote time")
	return cmd
}

// fetchRemote returns the remote timings for the session's date, using the
// cache when it has them.
func fetchRemote(ctx context.Context, s *session) (api.Data, error) {
	c := s.settings.Coordinates
	q := api.Query{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Method:    s.engine.Params.Method,
		Madhab:    s.settings.Madhab,
	}
	key := cache.Key{
		Date:      s.date,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		MethodID:  q.Method.AladhanID(),
		School:    int(q.Madhab),
	}

	store := openCache(s.cfg)
	if store != nil {
		if d := store.LoadTimings(key); d != nil {
			log.Debug().Msg("remote timings from cache")
			return *d, nil
		}
	}

	resp, err := newAPIClient().FetchByCoordinates(ctx, s.date, q)
	if err != nil {
		return api.Data{}, err
	}
	if store != nil {
		if err := store.SaveTimings(key, resp.Data); err != nil {
			log.Warn().Err(err).Msg("caching remote timings")
		}
	}
	return resp.Data, nil
}

type compareRow struct {
	Event  prayer.EventName `json:"event"`
	Local  string           `json:"local"`
	Remote string           `json:"remote"`
	Diff   string           `json:"diff"`
	Kept   string           `json:"kept"`
	Flag   bool             `json:"flagged,omitempty"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	data, err := fetchRemote(cmd.Context(), s)
	if err != nil {
		return fmt.Errorf("fetching remote times: %w", err)
	}
	remote, err := prayer.FromTimings(data.Timings, s.date, s.settings.Location)
	if err != nil {
		return err
	}
	local := s.engine.Times(s.date)
	merged, diffs := prayer.CrossCheck(local, remote, flagThreshold)

	flagged := make(map[prayer.EventName]bool, len(diffs))
	for _, d := range diffs {
		flagged[d.Event] = true
		log.Warn().
			Str("event", string(d.Event)).
			Dur("diff", d.Diff).
			Time("kept", d.Kept).
			Msg("local and remote times disagree")
	}

	layout := s.cfg.TimeLayout()
	rows := make([]compareRow, 0, len(prayer.PrayerEvents))
	for _, name := range prayer.PrayerEvents {
		l, _ := local.Get(name)
		r, _ := remote.Get(name)
		k, _ := merged.Get(name)
		row := compareRow{
			Event:  name,
			Local:  clock(l, layout),
			Remote: clock(r, layout),
			Kept:   clock(k, layout),
			Flag:   flagged[name],
		}
		if l.Valid() && r.Valid() {
			row.Diff = signedMinutes(l.Instant.Sub(r.Instant))
		}
		rows = append(rows, row)
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(w, struct {
			Location locationJSON `json:"location"`
			Date     string       `json:"date"`
			Rows     []compareRow `json:"rows"`
		}{s.locationJSON(), s.date.Format("2006-01-02"), rows})
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Local vs Al Adhan"))
	fmt.Fprintf(w, "  %s · %s · %s\n", s.place, s.date.Format("02 Jan 2006"), s.engine.Params.Method)
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Event", "Local", "Remote", "Diff", "Kept"})
	for i, r := range rows {
		tbl.AddRow([]string{r.Event.Title(), r.Local, r.Remote, r.Diff, r.Kept})
		if r.Flag {
			tbl.SetWarnRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	if len(diffs) > 0 {
		fmt.Fprintf(w, "  %s\n\n", display.Warning(fmt.Sprintf("%d time(s) differ by more than %s", len(diffs), flagThreshold)))
	}
	return nil
}

// signedMinutes renders a duration as "+3m", "-1m" or "0m".
func signedMinutes(d time.Duration) string {
	m := int(d.Round(time.Minute).Minutes())
	if m > 0 {
		return fmt.Sprintf("+%dm", m)
	}
	return fmt.Sprintf("%dm", m)
}

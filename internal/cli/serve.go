package cli

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/server"
	"github.com/smokyabdulrahman/adhan/internal/tui"
)

var (
	flagListen string
	flagRPS    float64
	flagBurst  int
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: `Serve a JSON API:

  GET /api/times?date=&lat=&lon=&method=&madhab=&tz=
  GET /api/next
  GET /api/qibla?lat=&lon=
  GET /api/methods
  GET /api/hijri?date=
  GET /healthz`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default: listen_addr or "+server.DefaultAddr+")")
	cmd.Flags().Float64Var(&flagRPS, "rate", 10, "Requests per second allowed across the API, 0 for no limit")
	cmd.Flags().IntVar(&flagBurst, "burst", 20, "Request burst size")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	addr := flagListen
	if addr == "" {
		addr = s.cfg.ListenAddr
	}

	srv := server.New(server.Options{
		Settings:          s.settings,
		RequestsPerSecond: flagRPS,
		Burst:             flagBurst,
		HijriOffset:       s.cfg.HijriOffset,
	})
	return srv.Run(ctx, addr)
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of today's times with a countdown",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	m := tui.New(tui.Options{
		Engine:      s.engine,
		Events:      s.cfg.EventList(),
		TwelveHour:  s.cfg.TimeFormat == "12h",
		HijriOffset: s.cfg.HijriOffset,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

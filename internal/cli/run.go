package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/adhan/internal/audio"
	"github.com/smokyabdulrahman/adhan/internal/config"
	"github.com/smokyabdulrahman/adhan/internal/history"
	"github.com/smokyabdulrahman/adhan/internal/notify"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/schedule"
)

var (
	flagAudio     bool
	flagNoHistory bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Announce each event as it arrives",
		Long: `Run in the foreground, waiting for the next event and announcing it to every
configured sink: the log, MQTT (mqtt_broker), Redis (redis_addr), the speaker
(--audio) and the firing history. SIGHUP reloads the configuration.`,
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}
	cmd.Flags().BoolVar(&flagAudio, "audio", false, "Play the adhan through the audio catalogue's player")
	cmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not record fired events")
	return cmd
}

// sinks holds the notifiers built from config and whatever must be closed
// when the daemon exits.
type sinks struct {
	multi   notify.Multi
	closers []func()
}

func (s *sinks) add(sink notify.Sink, closer func()) {
	s.multi = append(s.multi, sink)
	if closer != nil {
		s.closers = append(s.closers, closer)
	}
}

func (s *sinks) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildSinks connects every configured sink. A sink that cannot be reached
// is logged and left out rather than stopping the daemon.
func buildSinks(ctx context.Context, cfg *config.Config, withAudio, withHistory bool) *sinks {
	s := &sinks{}
	s.add(notify.Log{}, nil)

	if cfg.MQTTBroker != "" {
		host, _ := os.Hostname()
		pub, err := notify.DialMQTT(cfg.MQTTBroker, "adhan-"+host)
		if err != nil {
			log.Error().Err(err).Str("broker", cfg.MQTTBroker).Msg("mqtt sink disabled")
		} else {
			s.add(notify.NewMQTT(pub, cfg.MQTTTopic), pub.Close)
		}
	}

	if cfg.RedisAddr != "" {
		rc, err := notify.DialRedis(ctx, cfg.RedisAddr, os.Getenv("ADHAN_REDIS_USERNAME"), os.Getenv("ADHAN_REDIS_PASSWORD"))
		if err != nil {
			log.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("redis sink disabled")
		} else {
			s.add(notify.NewRedis(rc, cfg.RedisChannel), func() { _ = rc.Close() })
		}
	}

	if withAudio {
		catalog, err := loadCatalog(cfg)
		if err != nil {
			log.Error().Err(err).Msg("audio sink disabled")
		} else {
			player := audio.NewPlayer(catalog)
			s.add(notify.Audio{Player: player}, player.Stop)
		}
	}

	if withHistory {
		store, err := history.Open(cfg.HistoryDSN)
		if err != nil {
			log.Error().Err(err).Msg("history sink disabled")
		} else {
			s.add(notify.History{Recorder: store}, func() { _ = store.Close() })
		}
	}
	return s
}

// loadCatalog reads the configured catalogue, or the default one next to
// the config file.
func loadCatalog(cfg *config.Config) (*audio.Catalog, error) {
	if cfg.AudioCatalog != "" {
		return audio.LoadCatalog(cfg.AudioCatalog)
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	c := audio.DefaultCatalog(filepath.Join(dir, "audio"))
	return c, c.Validate()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	out := buildSinks(ctx, s.cfg, flagAudio, !flagNoHistory)
	defer out.Close()

	sched := schedule.New(s.settings, out.multi)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()
	announcePending(cmd, sched, s.cfg.TimeLayout())

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping")
			return nil
		case <-hup:
			settings, err := reloadSettings(cmd)
			if err != nil {
				log.Error().Err(err).Msg("reload failed, keeping current settings")
				continue
			}
			sched.Reconfigure(settings)
			log.Info().Msg("configuration reloaded")
			announcePending(cmd, sched, s.cfg.TimeLayout())
		}
	}
}

func announcePending(cmd *cobra.Command, sched *schedule.Scheduler, layout string) {
	if e, ok := sched.Pending(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "waiting for %s at %s\n", e.Name.Title(), e.FireAt.Format(layout))
	}
}

// reloadSettings reads the configuration again, keeping the command line
// overrides and the location already resolved.
func reloadSettings(cmd *cobra.Command) (prayer.Settings, error) {
	cfg, err := config.LoadEffective(FlagConfig)
	if cfg == nil {
		return prayer.Settings{}, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return prayer.Settings{}, err
	}
	if !cfg.HasLocation() && loadedConfig != nil && loadedConfig.HasLocation() {
		cfg.SetLocation(*loadedConfig.Latitude, *loadedConfig.Longitude)
		if cfg.Timezone == "" {
			cfg.Timezone = loadedConfig.Timezone
		}
	}
	settings, err := prayer.SettingsFromStore(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("invalid settings replaced by defaults")
	}
	loadedConfig = cfg
	return settings, nil
}

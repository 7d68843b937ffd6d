package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/adhan/internal/config"
	"github.com/smokyabdulrahman/adhan/internal/display"
	"github.com/smokyabdulrahman/adhan/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagConfig     string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagElevation  float64
	FlagTimezone   string
	FlagMethod     string
	FlagMadhab     string
	FlagDate       string
	FlagJSON       bool
	FlagCacheDir   string
	FlagTimeFormat string
	FlagEvents     string
	FlagLogLevel   string
	FlagNoColor    bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// now is replaced in tests.
var now = time.Now

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = map[string]string{
	"latitude":    "latitude",
	"longitude":   "longitude",
	"elevation":   "elevation",
	"timezone":    "timezone",
	"method":      "method",
	"madhab":      "madhab",
	"time-format": "time_format",
	"events":      "events",
	"cache-dir":   "cache_dir",
	"log-level":   "log_level",
}

// NewRootCmd creates the root command for the adhan CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "adhan",
		Short:   "Islamic prayer times, computed locally",
		Long:    "Compute the daily prayer times, the night and morning times derived from them,\nthe Qibla bearing and the Hijri date, and announce each event as it arrives.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEffective(FlagConfig)
			if cfg == nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}
			if lerr := logging.Setup(cfg.LogLevel, logging.FormatAuto, cmd.ErrOrStderr()); lerr != nil {
				return lerr
			}
			if err != nil {
				log.Warn().Err(err).Msg("ignoring invalid environment settings")
			}
			if FlagNoColor || FlagJSON {
				display.SetEnabled(false)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagConfig, "config", "", "Config file (default: ~/.config/adhan/config.json)")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.Float64Var(&FlagElevation, "elevation", 0, "Override elevation in metres")
	pf.StringVar(&FlagTimezone, "timezone", "", "Override IANA timezone, e.g. Asia/Riyadh")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method (see 'adhan methods')")
	pf.StringVar(&FlagMadhab, "madhab", "", "Asr juristic method: shafi or hanafi")
	pf.StringVar(&FlagDate, "date", "", "Date to compute, YYYY-MM-DD (default: today)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/adhan/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagEvents, "events", "", "Comma-separated events to show, e.g. fajr,maghrib")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&FlagNoColor, "no-color", false, "Disable coloured output")
	rootCmd.Flags().BoolVar(&flagAll, "all", false, "Show all nine events")

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newQiblaCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("adhan %s\n", version)
}

// applyFlags copies explicitly set flags over cfg, validating each one the
// same way `config set` does.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if serr := cfg.Set(key, f.Value.String()); serr != nil {
			err = fmt.Errorf("--%s: %w", f.Name, serr)
		}
	})
	return err
}

// effectiveConfig returns the merged configuration:
// CLI flags > environment > config file > defaults.
func effectiveConfig() *config.Config {
	if loadedConfig == nil {
		return &config.Config{}
	}
	return loadedConfig
}

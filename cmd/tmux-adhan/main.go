// Command tmux-adhan prints the next prayer for a tmux status line. It reads
// the same configuration as adhan; flags override it for one invocation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/adhan/internal/config"
	"github.com/smokyabdulrahman/adhan/internal/geo"
	"github.com/smokyabdulrahman/adhan/internal/logging"
	"github.com/smokyabdulrahman/adhan/internal/method"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, time.Now()); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// overrides maps flags onto config keys.
var overrides = []string{"latitude", "longitude", "timezone", "method", "madhab", "time_format", "events"}

// run writes the status line to w. Warnings go to errw so they never end up
// in the status bar.
func run(args []string, w, errw io.Writer, now time.Time) error {
	fs := pflag.NewFlagSet("tmux-adhan", pflag.ContinueOnError)
	fs.SetOutput(w)

	values := make(map[string]*string, len(overrides))
	for _, key := range overrides {
		values[key] = fs.String(flagName(key), "", "Override "+key)
	}
	format := fs.String("format", prayer.FormatNameAndTime, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a Go template such as '{{.Name}} in {{.Remaining}}'")
	configPath := fs.String("config", "", "Config file (default: ~/.config/adhan/config.json)")
	showVersion := fs.Bool("version", false, "Print version and exit")
	listMethods := fs.Bool("list-methods", false, "Print supported calculation methods and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(w, "tmux-adhan %s\n", version)
		return nil
	}
	if *listMethods {
		for _, m := range method.All() {
			fmt.Fprintf(w, "  %-22s %s\n", m.Method, m.Description)
		}
		return nil
	}

	cfg, envErr := config.LoadEffective(*configPath)
	if cfg == nil {
		return envErr
	}
	for _, key := range overrides {
		if !fs.Changed(flagName(key)) {
			continue
		}
		if err := cfg.Set(key, *values[key]); err != nil {
			return fmt.Errorf("--%s: %w", flagName(key), err)
		}
	}
	if err := logging.Setup(cfg.LogLevel, logging.FormatAuto, errw); err != nil {
		return err
	}
	if envErr != nil {
		log.Warn().Err(envErr).Msg("ignoring invalid environment settings")
	}

	if !cfg.HasLocation() {
		loc, _ := geo.LocateWithFallback(context.Background(), geo.NewIPAPI(), geo.DefaultTimeout)
		cfg.SetLocation(loc.Latitude, loc.Longitude)
		if cfg.Timezone == "" {
			cfg.Timezone = loc.Timezone
		}
	}

	settings, err := prayer.SettingsFromStore(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("invalid settings replaced by defaults")
	}
	engine, err := settings.Engine(now)
	if err != nil {
		log.Warn().Err(err).Str("method", settings.Method).Msg("unknown method, using the default")
	}
	at := now.In(settings.Location)

	next, ok := engine.NextOf(at, cfg.EventList())
	if !ok {
		// Nothing computable: keep the status line stable.
		fmt.Fprint(w, "--:--")
		return nil
	}
	fmt.Fprint(w, prayer.FormatOutput(next, at, *format, cfg.TimeLayout()))
	return nil
}

func flagName(key string) string {
	if key == "time_format" {
		return "time-format"
	}
	return key
}

// Package audio picks the adhan recording for an event and plays it with an
// external player.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

var (
	// ErrUnknownQari is returned when a selection names a qari the catalogue
	// does not list.
	ErrUnknownQari = errors.New("unknown qari")
	// ErrNoAudio is returned when a qari has no files.
	ErrNoAudio = errors.New("no audio file")
	// ErrDisabled is returned for events the user has silenced.
	ErrDisabled = errors.New("audio disabled for event")
)

// DefaultQari is used when neither the event nor the catalogue chooses one.
const DefaultQari = "local"

// DefaultPlayer plays a file and exits without opening a window.
var DefaultPlayer = []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}

// Qari is one reciter's set of recordings.
type Qari struct {
	Files []string `yaml:"files"`
	// Fajr is the recording with the extra "prayer is better than sleep".
	Fajr string `yaml:"fajr,omitempty"`
}

// Selection overrides the catalogue default for one event.
type Selection struct {
	Qari     string `yaml:"qari,omitempty"`
	File     string `yaml:"file,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Catalog maps events to audio files under Dir/<qari>/<file>.
type Catalog struct {
	Dir     string               `yaml:"dir"`
	Player  []string             `yaml:"player,omitempty"`
	Default string               `yaml:"default,omitempty"`
	Qaris   map[string]Qari      `yaml:"qaris"`
	Events  map[string]Selection `yaml:"events,omitempty"`
}

// DefaultCatalog lists the recordings fetched by the download script.
// Tahajjud and suhoor are silent unless configured.
func DefaultCatalog(dir string) *Catalog {
	return &Catalog{
		Dir:     dir,
		Player:  DefaultPlayer,
		Default: DefaultQari,
		Qaris: map[string]Qari{
			"local":       {Files: []string{"adhan.mp3", "default-azan.mp3"}, Fajr: "default-azanfajr.mp3"},
			"abdul-basit": {Files: []string{"adhan_masr.mp3", "adhan_makkah.mp3"}, Fajr: "adhan_fajr_masr.mp3"},
			"al-hussary":  {Files: []string{"adhan_cairo.mp3"}, Fajr: "adhan_fajr.mp3"},
			"al-minshawi": {Files: []string{"adhan1.mp3", "adhan2.mp3", "adhan3.mp3"}},
			"madinah":     {Files: []string{"adhan_madinah1.mp3", "adhan_madinah2.mp3"}, Fajr: "adhan_fajr_madinah.mp3"},
			"makkah":      {Files: []string{"adhan_makkah1.mp3", "adhan_makkah2.mp3"}, Fajr: "adhan_fajr_makkah.mp3"},
		},
		Events: map[string]Selection{
			string(prayer.Tahajjud): {Disabled: true},
			string(prayer.Suhoor):   {Disabled: true},
		},
	}
}

// LoadCatalog reads a YAML catalogue. Missing fields take the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading audio catalogue: %w", err)
	}

	c := &Catalog{}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("parsing audio catalogue %s: %w", path, err)
	}
	if c.Dir == "" {
		c.Dir = filepath.Dir(path)
	}
	if len(c.Player) == 0 {
		c.Player = DefaultPlayer
	}
	if c.Default == "" {
		c.Default = DefaultQari
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("audio catalogue %s: %w", path, err)
	}
	return c, nil
}

// Save writes the catalogue as YAML.
func (c *Catalog) Save(path string) error {
	buf, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding audio catalogue: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalogue directory: %w", err)
	}
	return os.WriteFile(path, buf, 0o644)
}

// Validate checks that every selection names a known qari and event.
func (c *Catalog) Validate() error {
	var errs []error
	if _, ok := c.Qaris[c.Default]; !ok {
		errs = append(errs, fmt.Errorf("default: %w %q", ErrUnknownQari, c.Default))
	}
	for name, sel := range c.Events {
		if _, err := prayer.ParseEventName(name); err != nil {
			errs = append(errs, err)
			continue
		}
		if sel.Qari == "" {
			continue
		}
		if _, ok := c.Qaris[sel.Qari]; !ok {
			errs = append(errs, fmt.Errorf("%s: %w %q", name, ErrUnknownQari, sel.Qari))
		}
	}
	return errors.Join(errs...)
}

// QariNames returns the catalogue's qaris sorted by name.
func (c *Catalog) QariNames() []string {
	names := make([]string, 0, len(c.Qaris))
	for n := range c.Qaris {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the file to play for an event. Fajr uses the qari's fajr
// recording unless the event names a file.
func (c *Catalog) Resolve(name prayer.EventName) (string, error) {
	sel := c.Events[string(name)]
	if sel.Disabled {
		return "", fmt.Errorf("%s: %w", name, ErrDisabled)
	}

	qariName := sel.Qari
	if qariName == "" {
		qariName = c.Default
	}
	qari, ok := c.Qaris[qariName]
	if !ok {
		return "", fmt.Errorf("%s: %w %q", name, ErrUnknownQari, qariName)
	}

	file := sel.File
	switch {
	case file != "":
	case name == prayer.Fajr && qari.Fajr != "":
		file = qari.Fajr
	case len(qari.Files) > 0:
		file = qari.Files[0]
	default:
		return "", fmt.Errorf("%s: qari %q: %w", name, qariName, ErrNoAudio)
	}

	if filepath.IsAbs(file) {
		return file, nil
	}
	return filepath.Join(c.Dir, qariName, file), nil
}

// Package dst decides how many daylight-saving minutes apply to a wall clock.
//
// Prayer instants are absolute, so a correct zone database already moves the
// displayed times by an hour in summer. The modes exist for users whose
// configured zone disagrees with local practice: "always-on" and
// "always-off" force the displayed clock, and the difference to what the
// zone database applies is folded into the manual adjustments.
package dst

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode selects where the daylight-saving shift comes from.
type Mode string

const (
	Automatic Mode = "automatic"
	AlwaysOn  Mode = "always-on"
	AlwaysOff Mode = "always-off"
)

// ErrUnknownMode is wrapped by ParseMode.
var ErrUnknownMode = errors.New("unknown dst mode")

// ParseMode accepts the three mode names plus the short forms auto/on/off.
// An empty string selects Automatic.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "automatic", "auto":
		return Automatic, nil
	case "always-on", "on":
		return AlwaysOn, nil
	case "always-off", "off":
		return AlwaysOff, nil
	}
	return Automatic, fmt.Errorf("%w %q: must be automatic, always-on or always-off", ErrUnknownMode, s)
}

// StandardOffset returns the zone's non-DST offset east of UTC, in seconds,
// for the given year. It is the smaller of the January and July offsets,
// which holds in both hemispheres.
func StandardOffset(loc *time.Location, year int) int {
	if loc == nil {
		loc = time.UTC
	}
	_, jan := time.Date(year, time.January, 1, 12, 0, 0, 0, loc).Zone()
	_, jul := time.Date(year, time.July, 1, 12, 0, 0, 0, loc).Zone()
	return min(jan, jul)
}

// ActiveMinutes is the daylight-saving shift the zone database applies at t.
func ActiveMinutes(loc *time.Location, t time.Time) int {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	_, off := t.Zone()
	return (off - StandardOffset(loc, t.Year())) / 60
}

// Minutes is the daylight-saving shift the user wants on the clock at t.
func Minutes(mode Mode, loc *time.Location, t time.Time) int {
	switch mode {
	case AlwaysOn:
		return 60
	case AlwaysOff:
		return 0
	default:
		return ActiveMinutes(loc, t)
	}
}

// Correction is the additive adjustment that turns the zone database's
// clock into the clock the mode asks for. It is zero in Automatic mode.
func Correction(mode Mode, loc *time.Location, t time.Time) int {
	return Minutes(mode, loc, t) - ActiveMinutes(loc, t)
}

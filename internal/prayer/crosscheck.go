package prayer

import "time"

// DefaultCrossCheckThreshold is the largest local/remote disagreement that is
// settled in favour of the remote source.
const DefaultCrossCheckThreshold = 15 * time.Minute

// Discrepancy records a prayer whose local and remote times differ by more
// than the threshold.
type Discrepancy struct {
	Event  EventName     `json:"event"`
	Local  time.Time     `json:"local"`
	Remote time.Time     `json:"remote"`
	Diff   time.Duration `json:"diff"`
	Kept   time.Time     `json:"kept"`
}

// keepEarlier lists the prayers where the earlier of two disagreeing times
// is kept; the rest keep the later one.
var keepEarlier = map[EventName]bool{
	Fajr:    true,
	Dhuhr:   true,
	Asr:     true,
	Maghrib: true,
}

// CrossCheck combines a locally computed set with one from a remote source.
// Small differences resolve to the remote time. Larger ones keep the
// conservative time and are returned as discrepancies for the caller to
// report. A side that is missing a time defers to the other.
func CrossCheck(local, remote TimeSet, threshold time.Duration) (TimeSet, []Discrepancy) {
	out := local
	var diffs []Discrepancy

	for _, name := range PrayerEvents {
		l, _ := local.Get(name)
		r, _ := remote.Get(name)

		switch {
		case !r.Valid():
			continue
		case !l.Valid():
			out.set(name, r)
			continue
		}

		diff := l.Instant.Sub(r.Instant)
		if diff < 0 {
			diff = -diff
		}
		if diff <= threshold {
			out.set(name, r)
			continue
		}

		kept := l
		if keepEarlier[name] == r.Instant.Before(l.Instant) {
			kept = r
		}
		out.set(name, kept)
		diffs = append(diffs, Discrepancy{
			Event:  name,
			Local:  l.Instant,
			Remote: r.Instant,
			Diff:   diff,
			Kept:   kept.Instant,
		})
	}
	return out, diffs
}

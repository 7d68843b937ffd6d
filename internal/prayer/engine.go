package prayer

import (
	"time"

	"github.com/smokyabdulrahman/adhan/internal/method"
)

// Engine ties the solver, the derived times and next-event selection to
// one place and one set of parameters.
type Engine struct {
	Coordinates          Coordinates
	Params               method.Parameters
	Location             *time.Location
	HighLatitudeFallback bool
}

func (e Engine) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// Times returns the six prayer times for date.
func (e Engine) Times(date time.Time) TimeSet {
	set := Compute(date, e.Coordinates, e.Params, e.location())
	if e.HighLatitudeFallback {
		set = ApplyHighLatitude(set, e.Params)
	}
	return set
}

// Day returns the nine events of date. Its Tahajjud is the one derived from
// the previous night, so all nine fall in canonical order on the same date
// at ordinary latitudes.
func (e Engine) Day(date time.Time) Schedule {
	today := e.Times(date)
	return Merge(e.Times(today.Date.AddDate(0, 0, -1)), today)
}

// Next returns the event that follows now. It is the earliest event after
// now across yesterday, today and tomorrow, which covers short nights whose
// Tahajjud falls before midnight and prayers that spill past it. Only when
// none of those days has anything left does it fall back to NextEvent's
// wrapped Tahajjud.
func (e Engine) Next(now time.Time) (Event, bool) {
	if ev, ok := e.NextOf(now, nil); ok {
		return ev, true
	}
	return NextEvent(now, e.Day(now.In(e.location())))
}

// NextOf is Next restricted to names; nil selects all nine. It never
// wraps, so it reports false when no selected event is left in the
// three days around now.
func (e Engine) NextOf(now time.Time, names []EventName) (Event, bool) {
	start := dayStart(now, e.location())
	sets := make([]TimeSet, 4)
	for i := range sets {
		sets[i] = e.Times(start.AddDate(0, 0, i-2))
	}

	var (
		best  Event
		found bool
	)
	for i := 1; i < len(sets); i++ {
		for _, ev := range Merge(sets[i-1], sets[i]).Filter(names) {
			if !ev.FireAt.After(now) {
				continue
			}
			if !found || ev.FireAt.Before(best.FireAt) {
				best, found = ev, true
			}
		}
	}
	return best, found
}

// Days returns n consecutive schedules starting at from.
func (e Engine) Days(from time.Time, n int) []Schedule {
	start := dayStart(from, e.location())
	out := make([]Schedule, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, e.Day(start.AddDate(0, 0, i)))
	}
	return out
}

package prayer

import "time"

// Schedule is the nine events of one calendar date.
type Schedule struct {
	Date    time.Time  `json:"date"`
	Prayers TimeSet    `json:"prayers"`
	Derived DerivedSet `json:"derived"`
}

// Merge assembles the schedule of set.Date. Suhoor and Ishraq come from
// set; Tahajjud comes from prev, the day before, because the night that
// ends with set's Fajr begins at prev's Maghrib.
func Merge(prev, set TimeSet) Schedule {
	derived := ComputeDerived(set)
	derived.Tahajjud = ComputeDerived(prev).Tahajjud
	return Schedule{Date: set.Date, Prayers: set, Derived: derived}
}

// Get returns any of the nine times by name.
func (s Schedule) Get(name EventName) (Time, bool) {
	if t, ok := s.Prayers.Get(name); ok {
		return t, true
	}
	return s.Derived.Get(name)
}

// Events lists the schedule in canonical order, skipping missing times.
func (s Schedule) Events() []Event {
	out := make([]Event, 0, len(CanonicalOrder))
	for _, name := range CanonicalOrder {
		t, _ := s.Get(name)
		if !t.Valid() {
			continue
		}
		out = append(out, Event{Name: name, FireAt: t.Instant, Status: t.Status})
	}
	return out
}

// Filter keeps only the named events, preserving canonical order.
func (s Schedule) Filter(names []EventName) []Event {
	if len(names) == 0 {
		return s.Events()
	}
	want := make(map[EventName]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Event
	for _, e := range s.Events() {
		if want[e.Name] {
			out = append(out, e)
		}
	}
	return out
}

// NextEvent returns the first event in canonical order that fires strictly
// after now. When every event has passed it returns tomorrow's Tahajjud,
// approximated as today's plus 24 hours and marked Wrapped; the wrapped
// instant moves on by whole days until it is after now. The second result
// is false only if the schedule has no Tahajjud to wrap to.
func NextEvent(now time.Time, s Schedule) (Event, bool) {
	for _, e := range s.Events() {
		if e.FireAt.After(now) {
			return e, true
		}
	}
	t, _ := s.Get(Tahajjud)
	if !t.Valid() {
		return Event{}, false
	}
	fireAt := t.Instant.Add(24 * time.Hour)
	for !fireAt.After(now) {
		fireAt = fireAt.Add(24 * time.Hour)
	}
	return Event{
		Name:    Tahajjud,
		FireAt:  fireAt,
		Status:  t.Status,
		Wrapped: true,
	}, true
}

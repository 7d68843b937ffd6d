package prayer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	suhoorLead  = 10 * time.Minute
	ishraqDelay = 20 * time.Minute
)

// Fallback clock times used when a derived time cannot be computed.
var (
	fallbackTahajjud = clock{3, 0}
	fallbackSuhoor   = clock{4, 30}
	fallbackIshraq   = clock{7, 0}
)

type clock struct{ hour, min int }

func (c clock) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.min, 0, 0, day.Location())
}

// DerivedSet holds the three times derived from a TimeSet.
type DerivedSet struct {
	Tahajjud Time `json:"tahajjud"`
	Suhoor   Time `json:"suhoor"`
	Ishraq   Time `json:"ishraq"`
}

// Get returns the time for one of the three derived events.
func (d DerivedSet) Get(name EventName) (Time, bool) {
	switch name {
	case Tahajjud:
		return d.Tahajjud, true
	case Suhoor:
		return d.Suhoor, true
	case Ishraq:
		return d.Ishraq, true
	}
	return Time{}, false
}

// ErrMissingInput is matched by every MissingInputError.
var ErrMissingInput = errors.New("missing input time")

// MissingInputError names a derived time and the inputs it lacked.
type MissingInputError struct {
	Event  EventName
	Inputs []EventName
}

func (e *MissingInputError) Error() string {
	names := make([]string, len(e.Inputs))
	for i, n := range e.Inputs {
		names[i] = string(n)
	}
	return fmt.Sprintf("%s: %v: %s", e.Event, ErrMissingInput, strings.Join(names, ", "))
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// ComputeDerived derives Tahajjud, Suhoor end and Ishraq from set. Times
// whose inputs are missing fall back to fixed clock times on set.Date with
// Status Estimated.
func ComputeDerived(set TimeSet) DerivedSet {
	d, _ := derive(set)
	return d
}

// ComputeDerivedStrict is ComputeDerived for callers that want an error
// instead of an estimate. The returned set still carries the estimates.
func ComputeDerivedStrict(set TimeSet) (DerivedSet, error) {
	return derive(set)
}

func derive(set TimeSet) (DerivedSet, error) {
	var (
		d    DerivedSet
		errs []error
	)

	if t, ok := tahajjud(set); ok {
		d.Tahajjud = t
	} else {
		// The 03:00 estimate belongs to the night after set.Date.
		d.Tahajjud = Time{Instant: fallbackTahajjud.on(set.Date.AddDate(0, 0, 1)), Status: Estimated}
		errs = append(errs, &MissingInputError{Event: Tahajjud, Inputs: []EventName{Maghrib, Fajr}})
	}

	if set.Fajr.Valid() {
		d.Suhoor = Time{Instant: set.Fajr.Instant.Add(-suhoorLead), Status: Computed}
	} else {
		d.Suhoor = Time{Instant: fallbackSuhoor.on(set.Date), Status: Estimated}
		errs = append(errs, &MissingInputError{Event: Suhoor, Inputs: []EventName{Fajr}})
	}

	if set.Sunrise.Valid() {
		d.Ishraq = Time{Instant: set.Sunrise.Instant.Add(ishraqDelay), Status: Computed}
	} else {
		d.Ishraq = Time{Instant: fallbackIshraq.on(set.Date), Status: Estimated}
		errs = append(errs, &MissingInputError{Event: Ishraq, Inputs: []EventName{Sunrise}})
	}

	return d, errors.Join(errs...)
}

// tahajjud places the time two thirds of the way from Maghrib to the
// following Fajr. Fajr of the same date is moved a day forward when it does
// not come after Maghrib.
func tahajjud(set TimeSet) (Time, bool) {
	if !set.Maghrib.Valid() || !set.Fajr.Valid() {
		return Time{}, false
	}
	fajr := set.Fajr.Instant
	if !fajr.After(set.Maghrib.Instant) {
		fajr = fajr.Add(24 * time.Hour)
	}
	night := fajr.Sub(set.Maghrib.Instant)
	if night <= 0 || night >= 24*time.Hour {
		return Time{}, false
	}
	t := set.Maghrib.Instant.Add(night * 2 / 3)
	return Time{Instant: roundSecond(t), Status: Computed}, true
}

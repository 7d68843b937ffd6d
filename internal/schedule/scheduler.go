// Package schedule fires a notification at each prayer event. It keeps one
// timer for the next event and, when that timer fires, computes the next
// one from the new current time.
package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// Notifier is told about every event except sunrise.
type Notifier interface {
	Notify(ctx context.Context, e prayer.Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, e prayer.Event) error

func (f NotifierFunc) Notify(ctx context.Context, e prayer.Event) error { return f(ctx, e) }

// DefaultDedupeWindow is how close two firings of the same event must be
// for the second to be skipped.
const DefaultDedupeWindow = time.Hour

// retryDelay is used when no event could be scheduled at all.
const retryDelay = time.Hour

// ErrAlreadyRunning is returned by Start on a running scheduler.
var ErrAlreadyRunning = errors.New("scheduler already running")

// Scheduler owns at most one pending timer. All state is guarded by mu.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	notifier Notifier
	settings prayer.Settings
	window   time.Duration

	ctx       context.Context
	running   bool
	gen       uint64
	timer     Timer
	pending   *prayer.Event
	lastFired map[prayer.EventName]time.Time
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithDedupeWindow changes DefaultDedupeWindow.
func WithDedupeWindow(d time.Duration) Option {
	return func(s *Scheduler) { s.window = d }
}

// New returns a stopped scheduler.
func New(settings prayer.Settings, n Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:     SystemClock{},
		notifier:  n,
		settings:  settings,
		window:    DefaultDedupeWindow,
		lastFired: make(map[prayer.EventName]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the next event and keeps going until Stop is called or
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	s.ctx = ctx
	s.scheduleLocked()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Reconfigure swaps the settings and reschedules from the current time.
// The pending timer is cancelled under the same lock, so no event computed
// from the old settings can fire afterwards.
func (s *Scheduler) Reconfigure(settings prayer.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	if s.running {
		s.scheduleLocked()
	}
}

// Stop cancels the pending timer. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.cancelLocked()
}

// Pending returns the event the scheduler is waiting for.
func (s *Scheduler) Pending() (prayer.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return prayer.Event{}, false
	}
	return *s.pending, true
}

func (s *Scheduler) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
}

func (s *Scheduler) scheduleLocked() {
	s.cancelLocked()

	now := s.clock.Now()
	engine, err := s.settings.Engine(now)
	if err != nil {
		log.Warn().Err(err).Str("method", s.settings.Method).Msg("using default calculation method")
	}

	gen := s.gen
	ev, ok := s.next(engine, now)
	if !ok {
		log.Error().Time("now", now).Dur("retry", retryDelay).Msg("no event to schedule")
		s.timer = s.clock.AfterFunc(retryDelay, func() { s.retry(gen) })
		return
	}

	s.pending = &ev
	delay := ev.FireAt.Sub(now)
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(gen) })

	log.Debug().
		Str("event", string(ev.Name)).
		Time("fire_at", ev.FireAt).
		Str("status", ev.Status.String()).
		Bool("wrapped", ev.Wrapped).
		Dur("in", delay).
		Msg("scheduled")
}

// next picks the event after now, skipping any that would repeat an event
// already fired inside the dedupe window.
func (s *Scheduler) next(engine prayer.Engine, now time.Time) (prayer.Event, bool) {
	at := now
	for range len(prayer.CanonicalOrder) + 1 {
		ev, ok := engine.Next(at)
		if !ok {
			return prayer.Event{}, false
		}
		last, fired := s.lastFired[ev.Name]
		if !fired || absDuration(ev.FireAt.Sub(last)) >= s.window {
			return ev, true
		}
		log.Debug().Str("event", string(ev.Name)).Time("fire_at", ev.FireAt).Msg("skipping repeat")
		at = ev.FireAt
	}
	return prayer.Event{}, false
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if !s.running || gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	ev := *s.pending
	s.lastFired[ev.Name] = ev.FireAt
	ctx := s.ctx
	n := s.notifier
	s.scheduleLocked()
	s.mu.Unlock()

	if !ev.Name.Notifies() {
		log.Debug().Str("event", string(ev.Name)).Msg("marker event, not notifying")
		return
	}
	log.Info().Str("event", string(ev.Name)).Time("fire_at", ev.FireAt).Msg("event fired")
	if n == nil {
		return
	}
	if err := n.Notify(ctx, ev); err != nil {
		log.Error().Err(err).Str("event", string(ev.Name)).Msg("notify failed")
	}
}

func (s *Scheduler) retry(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && gen == s.gen {
		s.scheduleLocked()
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

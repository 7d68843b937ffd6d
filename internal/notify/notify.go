// Package notify delivers fired prayer events to the outside world: the
// log, an MQTT broker, Redis, the speaker and the firing history.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// Sink receives fired events. It matches schedule.Notifier.
type Sink interface {
	Notify(ctx context.Context, e prayer.Event) error
}

// Message is the JSON body published by the MQTT and Redis sinks.
type Message struct {
	Event   prayer.EventName `json:"event"`
	Title   string           `json:"title"`
	FireAt  time.Time        `json:"fire_at"`
	Status  prayer.Status    `json:"status"`
	Wrapped bool             `json:"wrapped,omitempty"`
}

// NewMessage builds the published form of an event.
func NewMessage(e prayer.Event) Message {
	return Message{
		Event:   e.Name,
		Title:   e.Name.Title(),
		FireAt:  e.FireAt,
		Status:  e.Status,
		Wrapped: e.Wrapped,
	}
}

func encode(e prayer.Event) ([]byte, error) {
	return json.Marshal(NewMessage(e))
}

// Log writes every event to the global logger.
type Log struct{}

func (Log) Notify(_ context.Context, e prayer.Event) error {
	log.Info().
		Str("event", string(e.Name)).
		Time("fire_at", e.FireAt).
		Str("status", e.Status.String()).
		Msgf("time for %s", e.Name.Title())
	return nil
}

// Multi fans an event out to several sinks. A failing sink is logged and
// does not stop the others; the joined errors are returned.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, e prayer.Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, e); err != nil {
			log.Warn().Err(err).Str("event", string(e.Name)).Msg("sink failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

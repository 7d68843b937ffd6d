package notify

import (
	"context"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// Player plays the adhan for an event.
type Player interface {
	Play(ctx context.Context, name prayer.EventName) error
}

// Audio plays the adhan for each event.
type Audio struct {
	Player Player
}

func (a Audio) Notify(ctx context.Context, e prayer.Event) error {
	return a.Player.Play(ctx, e.Name)
}

// Recorder stores fired events.
type Recorder interface {
	Record(ctx context.Context, e prayer.Event, firedAt time.Time) error
}

// History records each event with the time it actually fired.
type History struct {
	Recorder Recorder
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h History) Notify(ctx context.Context, e prayer.Event) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return h.Recorder.Record(ctx, e, now())
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

var fajrEvent = prayer.Event{
	Name:   prayer.Fajr,
	FireAt: time.Date(2024, 6, 21, 4, 12, 0, 0, time.FixedZone("AST", 3*3600)),
	Status: prayer.Computed,
}

type fakePublisher struct {
	topic   string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.topic, f.payload = topic, payload
	return f.err
}

type fakeKV struct {
	channel string
	store   map[string][]byte
	pubs    [][]byte
	pubErr  error
}

func (f *fakeKV) Publish(_ context.Context, channel string, payload []byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.channel = channel
	f.pubs = append(f.pubs, payload)
	return nil
}

func (f *fakeKV) Set(_ context.Context, key string, payload []byte) error {
	if f.store == nil {
		f.store = make(map[string][]byte)
	}
	f.store[key] = payload
	return nil
}

func decode(t *testing.T, b []byte) Message {
	t.Helper()
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("payload %q is not JSON: %v", b, err)
	}
	return m
}

func TestMQTT_Notify(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		wantTopic string
	}{
		{"default topic", "", "adhan/fajr"},
		{"custom topic", "home/mosque", "home/mosque/fajr"},
		{"trailing slash", "home/", "home/fajr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			if err := NewMQTT(pub, tt.topic).Notify(context.Background(), fajrEvent); err != nil {
				t.Fatalf("Notify() error: %v", err)
			}
			if pub.topic != tt.wantTopic {
				t.Errorf("topic = %q, want %q", pub.topic, tt.wantTopic)
			}
			m := decode(t, pub.payload)
			if m.Event != prayer.Fajr || m.Title != "Fajr" || !m.FireAt.Equal(fajrEvent.FireAt) {
				t.Errorf("message = %+v", m)
			}
		})
	}
}

func TestMQTT_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker gone")}
	if err := NewMQTT(pub, "").Notify(context.Background(), fajrEvent); err == nil {
		t.Error("expected error")
	}
}

func TestRedis_Notify(t *testing.T) {
	kv := &fakeKV{}
	if err := NewRedis(kv, "").Notify(context.Background(), fajrEvent); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if kv.channel != DefaultRedisChannel {
		t.Errorf("channel = %q, want %q", kv.channel, DefaultRedisChannel)
	}
	if len(kv.pubs) != 1 {
		t.Fatalf("published %d messages, want 1", len(kv.pubs))
	}
	if m := decode(t, kv.store[LastEventKey]); m.Event != prayer.Fajr {
		t.Errorf("stored event = %s, want fajr", m.Event)
	}
}

func TestRedis_PublishError(t *testing.T) {
	kv := &fakeKV{pubErr: errors.New("down")}
	if err := NewRedis(kv, "x").Notify(context.Background(), fajrEvent); err == nil {
		t.Error("expected error")
	}
}

type countSink struct {
	n   int
	err error
}

func (c *countSink) Notify(context.Context, prayer.Event) error {
	c.n++
	return c.err
}

func TestMulti_ContinuesPastFailures(t *testing.T) {
	failing := &countSink{err: errors.New("boom")}
	ok := &countSink{}
	m := Multi{failing, nil, ok, Log{}}

	err := m.Notify(context.Background(), fajrEvent)
	if err == nil {
		t.Error("expected joined error")
	}
	if failing.n != 1 || ok.n != 1 {
		t.Errorf("calls = %d/%d, want 1/1", failing.n, ok.n)
	}
}

type fakePlayer struct{ played []prayer.EventName }

func (p *fakePlayer) Play(_ context.Context, n prayer.EventName) error {
	p.played = append(p.played, n)
	return nil
}

type fakeRecorder struct {
	event   prayer.Event
	firedAt time.Time
}

func (r *fakeRecorder) Record(_ context.Context, e prayer.Event, firedAt time.Time) error {
	r.event, r.firedAt = e, firedAt
	return nil
}

func TestAudioAndHistory(t *testing.T) {
	p := &fakePlayer{}
	r := &fakeRecorder{}
	fired := fajrEvent.FireAt.Add(2 * time.Second)

	sink := Multi{Audio{Player: p}, History{Recorder: r, Now: func() time.Time { return fired }}}
	if err := sink.Notify(context.Background(), fajrEvent); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if len(p.played) != 1 || p.played[0] != prayer.Fajr {
		t.Errorf("played %v", p.played)
	}
	if r.event.Name != prayer.Fajr || !r.firedAt.Equal(fired) {
		t.Errorf("recorded %+v at %v", r.event, r.firedAt)
	}
}

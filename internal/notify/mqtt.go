package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// DefaultMQTTTopic is the topic prefix used when none is configured.
const DefaultMQTTTopic = "adhan"

const publishTimeout = 5 * time.Second

// Publisher is the part of an MQTT client the sink needs.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTT publishes each event to <topic>/<event>.
type MQTT struct {
	pub   Publisher
	topic string
}

// NewMQTT wraps an existing publisher.
func NewMQTT(pub Publisher, topic string) *MQTT {
	topic = strings.TrimRight(topic, "/")
	if topic == "" {
		topic = DefaultMQTTTopic
	}
	return &MQTT{pub: pub, topic: topic}
}

// Topic returns the topic an event is published to.
func (m *MQTT) Topic(name prayer.EventName) string {
	return m.topic + "/" + string(name)
}

func (m *MQTT) Notify(_ context.Context, e prayer.Event) error {
	payload, err := encode(e)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", e.Name, err)
	}
	if err := m.pub.Publish(m.Topic(e.Name), payload); err != nil {
		return fmt.Errorf("publishing %s: %w", e.Name, err)
	}
	return nil
}

// PahoPublisher publishes through a connected paho client.
type PahoPublisher struct {
	client mqtt.Client
}

// DialMQTT connects to broker (e.g. "tcp://localhost:1883").
func DialMQTT(broker, clientID string) (*PahoPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(publishTimeout)
	opts.OnConnect = func(mqtt.Client) {
		log.Debug().Str("broker", broker).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", broker).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("connecting to MQTT broker %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", broker, err)
	}
	return &PahoPublisher{client: client}, nil
}

func (p *PahoPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() {
	p.client.Disconnect(250)
}

package ingest

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const recordTimeout = 10 * time.Second

// Recorder persists one reading.
type Recorder interface {
	Record(ctx context.Context, r weather.Reading) error
}

// Subscriber inserts every message received on the topic into the row store.
type Subscriber struct {
	client mqtt.Client
	topic  string
	qos    byte
	rec    Recorder
	l      *logger.Logger
}

func NewSubscriber(client mqtt.Client, topic string, qos byte, rec Recorder, l *logger.Logger) *Subscriber {
	return &Subscriber{
		client: client,
		topic:  topic,
		qos:    qos,
		rec:    rec,
		l:      l,
	}
}

// Start subscribes to the topic. Messages are handled on the client's goroutines.
func (s *Subscriber) Start() error {
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		// Handle logs its own errors.
		_ = s.Handle(msg.Payload())
	}
	if err := wait(s.client.Subscribe(s.topic, s.qos, handler), tokenTimeout); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", s.topic, err)
	}

	s.l.Info("subscribed to sensor topic", map[string]any{"topic": s.topic})
	return nil
}

// Handle parses and records one message payload.
func (s *Subscriber) Handle(payload []byte) error {
	msgID := uuid.NewString()

	r, err := ParseMessage(payload)
	if err != nil {
		s.l.Error(err, map[string]any{"message_id": msgID, "payload": string(payload)})
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := s.rec.Record(ctx, r); err != nil {
		s.l.Error(err, map[string]any{"message_id": msgID, "reading_time": r.ReadingTime})
		return err
	}

	s.l.Debug("sensor reading stored", map[string]any{"message_id": msgID, "reading_time": r.ReadingTime})
	return nil
}

// Stop unsubscribes and disconnects the client.
func (s *Subscriber) Stop() {
	if err := wait(s.client.Unsubscribe(s.topic), tokenTimeout); err != nil {
		s.l.Warning("mqtt unsubscribe failed", map[string]any{"topic": s.topic, "error": err.Error()})
	}
	s.client.Disconnect(250)
}

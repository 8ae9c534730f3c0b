package ingest

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Publisher sends readings to the topic at a fixed pace.
type Publisher struct {
	client   mqtt.Client
	topic    string
	qos      byte
	interval time.Duration
	l        *logger.Logger
}

func NewPublisher(client mqtt.Client, topic string, qos byte, interval time.Duration, l *logger.Logger) *Publisher {
	return &Publisher{
		client:   client,
		topic:    topic,
		qos:      qos,
		interval: interval,
		l:        l,
	}
}

// Run publishes the readings in order, one per interval, and returns the number
// sent. It stops early when ctx is cancelled.
func (p *Publisher) Run(ctx context.Context, readings []weather.Reading) (int, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	sent := 0
	for i, r := range readings {
		if i > 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-ticker.C:
			}
		}

		payload, err := FormatMessage(r)
		if err != nil {
			return sent, fmt.Errorf("format reading %d: %w", i, err)
		}
		if err := wait(p.client.Publish(p.topic, p.qos, false, payload), tokenTimeout); err != nil {
			return sent, fmt.Errorf("mqtt publish: %w", err)
		}
		sent++

		p.l.Debug("published reading", map[string]any{"topic": p.topic, "reading_time": r.ReadingTime})
	}
	return sent, nil
}

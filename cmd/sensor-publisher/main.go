package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/ingest"
	"github.com/i474232898/weather-dashboard/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l := logger.New(cfg.AppName+"-publisher", cfg.LogLevel)
	defer func() { _ = l.Stop() }()

	readings := ingest.SampleReadings()
	if cfg.MQTT.PublishSource != "" {
		readings, err = ingest.LoadCSV(cfg.MQTT.PublishSource)
		if err != nil {
			l.Fatal("failed to read publish source", map[string]any{"path": cfg.MQTT.PublishSource, "error": err.Error()})
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := ingest.Connect(ingest.ClientConfig{Broker: cfg.MQTT.Broker, ClientID: cfg.MQTT.ClientID + "-pub"}, l)
	if err != nil {
		l.Fatal("failed to connect to broker", map[string]any{"error": err.Error()})
	}
	defer client.Disconnect(250)

	pub := ingest.NewPublisher(client, cfg.MQTT.Topic, byte(cfg.MQTT.QoS), cfg.MQTT.PublishInterval, l)
	sent, err := pub.Run(ctx, readings)
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Error(err, map[string]any{"sent": sent})
		return
	}
	l.Info("sensor publisher finished", map[string]any{"sent": sent, "total": len(readings)})
}


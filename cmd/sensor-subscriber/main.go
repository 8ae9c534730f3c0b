package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/ingest"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l := logger.New(cfg.AppName+"-subscriber", cfg.LogLevel)
	defer func() { _ = l.Stop() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rowStore, closeStore, err := store.New(ctx, store.Options{
		Driver: cfg.DB.Driver,
		DSN:    cfg.DB.DSN,
		Pool: store.PoolConfig{
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		},
		AutoMigrate: cfg.DB.AutoMigrate,
	})
	if err != nil {
		l.Fatal("failed to open row store", map[string]any{"driver": cfg.DB.Driver, "error": err.Error()})
	}
	defer func() { _ = closeStore() }()

	client, err := ingest.Connect(ingest.ClientConfig{Broker: cfg.MQTT.Broker, ClientID: cfg.MQTT.ClientID + "-sub"}, l)
	if err != nil {
		l.Fatal("failed to connect to broker", map[string]any{"error": err.Error()})
	}

	sub := ingest.NewSubscriber(client, cfg.MQTT.Topic, byte(cfg.MQTT.QoS), weather.NewService(rowStore, l), l)
	if err := sub.Start(); err != nil {
		l.Fatal("failed to subscribe", map[string]any{"error": err.Error()})
	}
	defer sub.Stop()

	<-ctx.Done()
	l.Info("sensor subscriber stopping")
}

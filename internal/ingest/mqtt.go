package ingest

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/logger"
)

const (
	connectTimeout = 10 * time.Second
	tokenTimeout   = 5 * time.Second
)

// ClientConfig describes the broker connection.
type ClientConfig struct {
	Broker   string
	ClientID string
}

// Connect opens an auto-reconnecting MQTT client. The client id gets a random
// suffix so several processes can share one configured prefix.
func Connect(cfg ClientConfig, l *logger.Logger) (mqtt.Client, error) {
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.NewString()[:8])

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		l.Info("mqtt connection established", map[string]any{"broker": cfg.Broker, "client_id": clientID})
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		l.Warning("mqtt connection lost", map[string]any{"broker": cfg.Broker, "error": err.Error()})
	})

	client := mqtt.NewClient(opts)
	if err := wait(client.Connect(), connectTimeout); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}
	return client, nil
}

func wait(tok mqtt.Token, timeout time.Duration) error {
	if !tok.WaitTimeout(timeout) {
		return errors.New("timed out")
	}
	return tok.Error()
}

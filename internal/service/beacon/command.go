package beacon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/thdelmas/Rooster/internal/config"
	"github.com/thdelmas/Rooster/internal/domain/sunrise"
	"github.com/thdelmas/Rooster/internal/logger"
)

// Options controls the beacon publisher.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Broker overrides the broker address from configuration.
	Broker string
	// Interval is the delay between published fixes.
	Interval time.Duration
	// Altitude, Latitude and Longitude are the coordinates to publish.
	Altitude  float64
	Latitude  float64
	Longitude float64
}

// DefaultInterval is the delay between published fixes unless overridden.
const DefaultInterval = 5 * time.Second

// disconnectQuiesce is the grace period given to the broker on disconnect.
const disconnectQuiesce = 250 * time.Millisecond

// fixPayload is the wire shape of a published fix. It must stay in step
// with what the position feed of the main binary decodes.
type fixPayload struct {
	Altitude   float64   `json:"altitude"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ObservedAt time.Time `json:"observed_at"`
}

// Run publishes the configured fix to the position topic until the context
// is canceled. It stands in for a phone's location provider during
// development and testing.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "rooster-beacon")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	broker := cfg.MQTTBroker
	if opts.Broker != "" {
		broker = opts.Broker
	}

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	fix := sunrise.Position{
		Altitude:  opts.Altitude,
		Latitude:  opts.Latitude,
		Longitude: opts.Longitude,
	}
	if err := fix.Validate(); err != nil {
		return err
	}

	clientID := fmt.Sprintf("rooster-beacon-%d", time.Now().UnixNano())
	mqttOpts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	if cfg.MQTTUsername != "" {
		mqttOpts.SetUsername(cfg.MQTTUsername)
		mqttOpts.SetPassword(cfg.MQTTPassword)
	}

	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect broker: %w", token.Error())
	}

	defer client.Disconnect(uint(disconnectQuiesce.Milliseconds()))

	logger.InfoKV(ctx, "Publishing fixes",
		"broker", broker, "topic", cfg.MQTTTopic, "interval", opts.Interval.String())

	publish := func() {
		payload, err := json.Marshal(fixPayload{
			Altitude:   fix.Altitude,
			Latitude:   fix.Latitude,
			Longitude:  fix.Longitude,
			ObservedAt: time.Now().UTC(),
		})
		if err != nil {
			logger.ErrorKV(ctx, "Failed to encode fix", "error", err)

			return
		}

		token := client.Publish(cfg.MQTTTopic, 0, false, payload)
		if token.Wait() && token.Error() != nil {
			logger.ErrorKV(ctx, "Publish failed", "error", token.Error())

			return
		}

		logger.InfoKV(ctx, "Fix published", "latitude", fix.Latitude, "longitude", fix.Longitude)
	}

	// Publish immediately, then on every tick.
	publish()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			publish()
		}
	}
}

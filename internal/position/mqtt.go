package position

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/thdelmas/Rooster/internal/domain/sunrise"
	"github.com/thdelmas/Rooster/internal/logger"
)

// connectRetryInterval is the delay between broker reconnect attempts.
const connectRetryInterval = 5 * time.Second

// disconnectQuiesce is the grace period given to the broker on disconnect.
const disconnectQuiesce = 250 * time.Millisecond

// MQTTConfig holds the broker parameters of the position feed.
type MQTTConfig struct {
	// Broker is the broker address, e.g. tcp://host:1883.
	Broker string
	// Topic carries the JSON-encoded fixes.
	Topic string
	// ClientID identifies this client to the broker.
	ClientID string
	// Username and Password are optional broker credentials.
	Username string
	Password string
}

// MQTTSource receives position fixes published to an MQTT topic,
// typically by a phone or a rooster-beacon process.
type MQTTSource struct {
	// cfg holds the broker connection parameters.
	cfg MQTTConfig
}

// fixPayload is the wire shape of a published fix.
type fixPayload struct {
	Altitude   float64   `json:"altitude"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ObservedAt time.Time `json:"observed_at"`
}

// NewMQTTSource creates a source reading fixes from the configured broker.
func NewMQTTSource(cfg MQTTConfig) *MQTTSource {
	if cfg.ClientID == "" {
		cfg.ClientID = fmt.Sprintf("rooster-%d", time.Now().UnixNano())
	}

	return &MQTTSource{
		cfg: cfg,
	}
}

// Subscribe connects to the broker and delivers every decoded fix.
// A broker that refuses the subscription maps to ErrPermissionDenied;
// transport problems after a successful subscribe are retried by the
// client and never surface as errors, matching a feed that simply stays
// silent. The connection is torn down when ctx is canceled.
func (s *MQTTSource) Subscribe(ctx context.Context, deliver func(sunrise.Position)) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.WarnKV(ctx, "Position feed connection lost", "error", err)
		})

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect position feed: %w", token.Error())
	}

	handler := func(_ mqtt.Client, message mqtt.Message) {
		fix, err := decodeFix(message.Payload())
		if err != nil {
			logger.WarnKV(ctx, "Dropping malformed fix", "topic", message.Topic(), "error", err)

			return
		}

		deliver(fix)
	}

	if token := client.Subscribe(s.cfg.Topic, 0, handler); token.Wait() && token.Error() != nil {
		client.Disconnect(uint(disconnectQuiesce.Milliseconds()))

		// A refused subscription is the feed's way of saying we may not
		// read positions.
		return fmt.Errorf("subscribe %s: %w: %w", s.cfg.Topic, ErrPermissionDenied, token.Error())
	}

	logger.InfoKV(ctx, "Subscribed to position feed", "broker", s.cfg.Broker, "topic", s.cfg.Topic)

	go func() {
		<-ctx.Done()
		client.Disconnect(uint(disconnectQuiesce.Milliseconds()))
	}()

	return nil
}

// decodeFix parses and validates a published fix.
func decodeFix(payload []byte) (sunrise.Position, error) {
	var decoded fixPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return sunrise.Position{}, fmt.Errorf("decode fix: %w", err)
	}

	fix := sunrise.Position{
		Altitude:   decoded.Altitude,
		Latitude:   decoded.Latitude,
		Longitude:  decoded.Longitude,
		ObservedAt: decoded.ObservedAt,
	}

	if fix.ObservedAt.IsZero() {
		fix.ObservedAt = time.Now()
	}

	if err := fix.Validate(); err != nil {
		return sunrise.Position{}, err
	}

	return fix, nil
}

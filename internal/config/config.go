package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// StaticFix describes a fixed geographic position used when no live
// position feed is available.
type StaticFix struct {
	// Altitude is the height above sea level in meters.
	Altitude float64 `yaml:"altitude"`
	// Latitude in degrees, -90 to +90.
	Latitude float64 `yaml:"latitude"`
	// Longitude in degrees, -180 to +180.
	Longitude float64 `yaml:"longitude"`
}

// Config holds the settings shared by the rooster binaries.
type Config struct {
	// WeatherAPIKey authenticates requests to the weather service.
	// It lives in the settings file, never in the binary.
	WeatherAPIKey string `yaml:"weather_api_key"`
	// WeatherBaseURL is the weather service endpoint.
	WeatherBaseURL string `yaml:"weather_base_url"`
	// WeatherUnits selects the unit system sent to the weather service.
	WeatherUnits string `yaml:"weather_units"`
	// MQTTBroker is the broker address of the position feed, e.g. tcp://host:1883.
	// When empty, StaticFix is used instead.
	MQTTBroker string `yaml:"mqtt_broker"`
	// MQTTTopic is the topic position fixes are published on.
	MQTTTopic string `yaml:"mqtt_topic"`
	// MQTTClientID identifies this client to the broker.
	MQTTClientID string `yaml:"mqtt_client_id"`
	// MQTTUsername and MQTTPassword are optional broker credentials.
	MQTTUsername string `yaml:"mqtt_username"`
	MQTTPassword string `yaml:"mqtt_password"`
	// StaticFix is the fallback position for hosts without a live feed.
	StaticFix *StaticFix `yaml:"static_fix,omitempty"`
	// StateFile is the path to the JSON file storing the armed flag.
	StateFile string `yaml:"state_file"`
	// RegistryFile is the path to the JSON file storing alarm registrations.
	RegistryFile string `yaml:"registry_file"`
	// WakeCommand is the command executed when the alarm fires.
	// When empty, a per-OS default sound command is used.
	WakeCommand []string `yaml:"wake_command,omitempty"`
	// Timeout is the duration for network operations.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "rooster-settings.yaml"

	// DefaultStateFilename is the default filename for the armed flag JSON.
	DefaultStateFilename = "rooster-state.json"

	// DefaultRegistryFilename is the default filename for alarm registrations JSON.
	DefaultRegistryFilename = "rooster-alarms.json"

	// DefaultWeatherBaseURL is the weather service endpoint used unless overridden.
	DefaultWeatherBaseURL = "https://api.openweathermap.org"

	// DefaultWeatherUnits is the unit system requested from the weather service.
	DefaultWeatherUnits = "metric"

	// DefaultMQTTTopic is the topic position fixes are expected on.
	DefaultMQTTTopic = "rooster/position"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 10 * time.Second

	// DefaultFilePermissions is the default file permission for config and state files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAPIKeyRequired is returned when the weather API key is missing.
	errAPIKeyRequired = errors.New("weather API key must be provided")
	// errPositionRequired is returned when neither a broker nor a static fix is configured.
	errPositionRequired = errors.New("either mqtt_broker or static_fix must be provided")
	// errLatitudeRange is returned when the static fix latitude is out of range.
	errLatitudeRange = errors.New("static fix latitude must be between -90 and 90")
	// errLongitudeRange is returned when the static fix longitude is out of range.
	errLongitudeRange = errors.New("static fix longitude must be between -180 and 180")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file carries the API key.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.WeatherAPIKey == "" {
		return errAPIKeyRequired
	}

	if cfg.MQTTBroker == "" && cfg.StaticFix == nil {
		return errPositionRequired
	}

	if fix := cfg.StaticFix; fix != nil {
		if fix.Latitude < -90 || fix.Latitude > 90 {
			return errLatitudeRange
		}

		if fix.Longitude < -180 || fix.Longitude > 180 {
			return errLongitudeRange
		}
	}

	if cfg.WeatherBaseURL == "" {
		cfg.WeatherBaseURL = DefaultWeatherBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.WeatherBaseURL); err != nil {
		return fmt.Errorf("invalid weather base URL: %w", err)
	}

	if cfg.WeatherUnits == "" {
		cfg.WeatherUnits = DefaultWeatherUnits
	}

	if cfg.MQTTTopic == "" {
		cfg.MQTTTopic = DefaultMQTTTopic
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.RegistryFile == "" {
		cfg.RegistryFile = DefaultRegistryFilename
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}

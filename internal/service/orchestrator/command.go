package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/thdelmas/Rooster/internal/config"
	"github.com/thdelmas/Rooster/internal/logger"
	"github.com/thdelmas/Rooster/internal/position"
	repository "github.com/thdelmas/Rooster/internal/repository/state"
	"github.com/thdelmas/Rooster/internal/scheduler"
	"github.com/thdelmas/Rooster/internal/service/wake"
	"github.com/thdelmas/Rooster/internal/ui"
	"github.com/thdelmas/Rooster/internal/weather"
)

// Options controls the rooster process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// StateFile overrides the armed flag path from configuration.
	StateFile string
	// RegistryFile overrides the alarm registry path from configuration.
	RegistryFile string
}

// Run wires the components from configuration and serves the toggle until
// the context is canceled or standard input is exhausted.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "rooster")

	// Load settings first, everything else hangs off them.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	stateFile := cfg.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	registryFile := cfg.RegistryFile
	if opts.RegistryFile != "" {
		registryFile = opts.RegistryFile
	}

	// The scheduler owns the wake-up registrations; restore whatever an
	// earlier run left armed.
	runner := wake.NewRunner(cfg.WakeCommand)
	sched := scheduler.NewFileScheduler(registryFile, runner.Fire)

	defer sched.Close()

	if err := sched.Restore(ctx); err != nil {
		return fmt.Errorf("restore registrations: %w", err)
	}

	// Identify who toggles the alarm for the audit trail.
	actor, err := DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	source, err := buildSource(cfg)
	if err != nil {
		return fmt.Errorf("build position source: %w", err)
	}

	console := ui.NewConsole(os.Stdout)

	svc := NewService(Deps{
		Source: source,
		Weather: weather.NewClient(cfg.WeatherAPIKey,
			weather.WithBaseURL(cfg.WeatherBaseURL),
			weather.WithUnits(cfg.WeatherUnits),
			weather.WithTimeout(cfg.Timeout)),
		Sched: sched,
		Repo:  repository.NewFileRepository(stateFile),
		Label: console,
		Text:  console,
		Actor: actor,
	})

	if err := svc.Start(ctx); err != nil {
		return err
	}

	console.Advise("Press Enter to toggle the alarm")

	// Blocks until EOF or cancellation; each input line is one press.
	ui.ReadToggles(ctx, os.Stdin, func() {
		if err := svc.Toggle(ctx); err != nil {
			if errors.Is(err, ErrNotReady) {
				logger.Info(ctx, "Toggle ignored, sunrise not known yet")

				return
			}

			logger.ErrorKV(ctx, "Toggle failed", "error", err)
		}
	})

	return nil
}

// buildSource picks the position feed: the MQTT broker when configured,
// the static fix otherwise.
func buildSource(cfg *config.Config) (position.Source, error) {
	if cfg.MQTTBroker != "" {
		return position.NewMQTTSource(position.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			Topic:    cfg.MQTTTopic,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		}), nil
	}

	fix := cfg.StaticFix

	return position.NewStaticSource(fix.Altitude, fix.Latitude, fix.Longitude)
}

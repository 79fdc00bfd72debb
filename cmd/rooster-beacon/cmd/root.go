package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thdelmas/Rooster/internal/config"
	"github.com/thdelmas/Rooster/internal/service/beacon"
	"github.com/thdelmas/Rooster/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// interval between published fixes.
	interval time.Duration
	// altitude, latitude and longitude of the published fix.
	altitude  float64
	latitude  float64
	longitude float64

	// rootCmd represents the base command publishing position fixes.
	rootCmd = &cobra.Command{
		Use:   "rooster-beacon [broker-address]",
		Short: "Publish position fixes for the sunrise alarm.",
		Long: `Publishes a fixed position to the MQTT topic the sunrise alarm
subscribes to, standing in for a phone's location provider.

The broker address can be provided as argument or loaded from the
configuration file. Fixes are published immediately and then on a fixed
interval until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use broker address argument if provided, otherwise rely on config.
			var broker string
			if len(args) > 0 {
				broker = args[0]
			}

			return beacon.Run(ctx, &beacon.Options{
				ConfigPath: cfgPath,
				Broker:     broker,
				Interval:   interval,
				Altitude:   altitude,
				Latitude:   latitude,
				Longitude:  longitude,
			})
		},
	}
)

// Execute runs the rooster-beacon CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", beacon.DefaultInterval, "delay between published fixes")
	rootCmd.Flags().Float64Var(&altitude, "altitude", 0, "altitude of the published fix in meters")
	rootCmd.Flags().Float64Var(&latitude, "latitude", 0, "latitude of the published fix in degrees")
	rootCmd.Flags().Float64Var(&longitude, "longitude", 0, "longitude of the published fix in degrees")
}

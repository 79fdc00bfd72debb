package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thdelmas/Rooster/internal/config"
	"github.com/thdelmas/Rooster/internal/service/orchestrator"
	"github.com/thdelmas/Rooster/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where the armed flag is persisted.
	stateFile string
	// registryFile path where alarm registrations are persisted.
	registryFile string

	// rootCmd represents the base command running the sunrise alarm.
	rootCmd = &cobra.Command{
		Use:   "rooster",
		Short: "Set a one-shot wake-up alarm for the next sunrise.",
		Long: `Runs the sunrise alarm: acquires the current position, asks the weather
service for the next sunrise at that location and offers a single toggle.

Press Enter to set or unset the alarm. The armed flag and the alarm
registration are persisted, so a wake-up set in one run survives a restart
and fires when its instant arrives.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return orchestrator.Run(ctx, &orchestrator.Options{
				ConfigPath:   configPath,
				StateFile:    stateFile,
				RegistryFile: registryFile,
			})
		},
	}
)

// Execute runs the rooster CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&stateFile, "state-file", "s", "", "path to persist the armed flag (defaults to config)")
	rootCmd.Flags().
		StringVarP(&registryFile, "registry-file", "r", "", "path to persist alarm registrations (defaults to config)")
}

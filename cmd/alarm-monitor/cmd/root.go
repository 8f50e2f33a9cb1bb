package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-panel/internal/config"
	"github.com/oshokin/alarm-panel/internal/service/monitor"
	"github.com/oshokin/alarm-panel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// eventsFile with events processed at startup.
	eventsFile string
	// allowMultiple disables the single instance check.
	allowMultiple bool

	// rootCmd represents the base command for running the monitor.
	rootCmd = &cobra.Command{
		Use:   "alarm-monitor [listen-address]",
		Short: "Track the alarm panel state from its event stream.",
		Long: `Starts the alarm monitor that keeps the panel arming state and zone states in memory.

Events are read as JSON records from the <topic_prefix>/events MQTT topic and every
change is published, retained, to <topic_prefix>/state and <topic_prefix>/zone/<id>.
An optional events file is processed at startup before going live.
The current state is served over gRPC on the configured listen address;
a listen address argument overrides it (e.g., :50551, 0.0.0.0:50551).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &monitor.Options{
				ConfigPath:             configPath,
				ListenAddress:          listenAddress,
				EventsFile:             eventsFile,
				AllowMultipleInstances: allowMultiple,
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&eventsFile, "events-file", "e", "", "YAML events processed at startup")
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "do not refuse to start when another monitor runs")
}

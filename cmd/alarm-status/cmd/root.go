package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-panel/internal/config"
	"github.com/oshokin/alarm-panel/internal/service/status"
	"github.com/oshokin/alarm-panel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// watch keeps polling.
	watch bool
	// interval between polls.
	interval time.Duration

	// rootCmd represents the base command for querying the monitor.
	rootCmd = &cobra.Command{
		Use:   "alarm-status [server-address]",
		Short: "Print the panel state served by the alarm monitor.",
		Long: `Queries the alarm monitor over gRPC and prints the arming state, arming mode
and zone states as JSON. The monitor address comes from the configuration file
unless given as argument. With --watch the state is printed again on every change.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return status.Run(ctx, &status.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Watch:         watch,
				PollInterval:  interval,
				Output:        cmd.OutOrStdout(),
			})
		},
	}
)

// Execute runs the alarm-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling and print every change")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", status.DefaultPollInterval, "poll interval in watch mode")
}

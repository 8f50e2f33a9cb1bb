package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-panel/internal/logger"
	"github.com/oshokin/alarm-panel/internal/service/replay"
	"github.com/oshokin/alarm-panel/internal/version"
)

var (
	// inferArmingState configures the replayed model.
	inferArmingState bool
	// outputFile receives the final snapshot.
	outputFile string
	// logLevel of the replay output.
	logLevel string
	// traceZones forces zone changes into the output.
	traceZones bool

	// rootCmd represents the base command for replaying events.
	rootCmd = &cobra.Command{
		Use:   "alarm-replay <events-file>",
		Short: "Replay recorded panel events through a fresh alarm model.",
		Long: `Reads a YAML file of event records (a list, or one record per document),
feeds them through a fresh alarm model and logs every arming state change.
Zone changes are logged at debug level, or always with --zones. The final snapshot can be written
to a JSON file with --output.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			_, err := replay.Run(cmd.Context(), &replay.Options{
				EventsFile:       args[0],
				InferArmingState: inferArmingState,
				OutputFile:       outputFile,
				TraceZones:       traceZones,
			})

			return err
		},
	}
)

// Execute runs the alarm-replay CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().BoolVarP(&inferArmingState, "infer-arming-state", "i", false,
		"keep armed states on arming reports without flags (panels before v5.8)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the final snapshot to this JSON file")
	rootCmd.Flags().BoolVarP(&traceZones, "zones", "z", false, "log every zone change regardless of --log-level")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
}

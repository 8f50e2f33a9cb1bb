package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-panel/internal/codec"
	"github.com/oshokin/alarm-panel/internal/config"
	"github.com/oshokin/alarm-panel/internal/domain/alarm"
	"github.com/oshokin/alarm-panel/internal/logger"
	"github.com/oshokin/alarm-panel/internal/service/common"
)

// Options controls the status query and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional monitor address override.
	ServerAddress string
	// Watch keeps polling and prints the state whenever it changes.
	Watch bool
	// PollInterval defines the interval between polls in watch mode.
	PollInterval time.Duration
	// Output receives the JSON state. Defaults to stdout.
	Output io.Writer
}

// DefaultPollInterval defines the polling interval in watch mode.
const DefaultPollInterval = 2 * time.Second

// Run prints the panel state, and keeps polling in watch mode until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-status")

	cfg, err := loadSettings(opts)
	if err != nil {
		return err
	}

	serverAddress := cfg.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial monitor: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	last, err := printState(ctx, client, output, nil)
	if err != nil || !opts.Watch {
		return err
	}

	logger.InfoKV(ctx, "Watching panel state", "server_address", serverAddress, "interval", opts.PollInterval.String())

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			current, err := printState(ctx, client, output, last)
			if err != nil {
				logger.ErrorKV(ctx, "Query state failed", "error", err)
				continue
			}

			last = current
		}
	}
}

// loadSettings reads the settings file. A missing file is tolerated when the
// address is given explicitly.
func loadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err == nil {
		return cfg, nil
	}

	if opts.ServerAddress != "" && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}

	return nil, fmt.Errorf("load configuration: %w", err)
}

// printState fetches the state and prints it unless it equals previous.
func printState(
	ctx context.Context,
	client *common.Client,
	output io.Writer,
	previous *alarm.Snapshot,
) (*alarm.Snapshot, error) {
	raw, err := client.GetPanelStateRaw(ctx)
	if err != nil {
		return previous, err
	}

	current, err := codec.FromStruct(raw)
	if err != nil {
		return previous, fmt.Errorf("decode panel state: %w", err)
	}

	if previous != nil && *previous == current {
		return previous, nil
	}

	if err = writeJSON(output, raw); err != nil {
		return previous, err
	}

	return &current, nil
}

// writeJSON writes the state as a single JSON line.
func writeJSON(output io.Writer, raw *structpb.Struct) error {
	data, err := protojson.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode panel state: %w", err)
	}

	if _, err = fmt.Fprintln(output, string(data)); err != nil {
		return fmt.Errorf("write panel state: %w", err)
	}

	return nil
}

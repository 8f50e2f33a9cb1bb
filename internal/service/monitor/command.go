package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/alarm-panel/internal/api/grpc/panel"
	"github.com/oshokin/alarm-panel/internal/config"
	"github.com/oshokin/alarm-panel/internal/domain/alarm"
	"github.com/oshokin/alarm-panel/internal/feed"
	"github.com/oshokin/alarm-panel/internal/logger"
	"github.com/oshokin/alarm-panel/internal/service/common"
	"github.com/oshokin/alarm-panel/internal/transport/mqtt"
	"github.com/oshokin/alarm-panel/internal/version"
)

// Options controls the alarm-monitor process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// EventsFile provides an optional startup events file override.
	EventsFile string
	// AllowMultipleInstances skips the check for other running monitors.
	AllowMultipleInstances bool
}

// Run starts the monitor and blocks until the context is canceled or the gRPC server stops.
func Run(ctx context.Context, opts *Options) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	configureLogging(settings)

	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-monitor")

	if !opts.AllowMultipleInstances {
		if err = common.EnsureSingleInstance(""); err != nil {
			return err
		}
	}

	if opts.ListenAddress != "" {
		settings.ListenAddress = opts.ListenAddress
	}

	if opts.EventsFile != "" {
		settings.EventsFile = opts.EventsFile
	}

	svc := newService(alarm.New(settings.InferArmingState))

	logger.InfoKV(ctx, "Alarm model created",
		"infer_arming_state", settings.InferArmingState,
		"version", version.Short(),
		"log_level", logger.Level().String(),
	)

	// Replay recorded events before going live.
	if settings.EventsFile != "" {
		if err = replayFile(ctx, svc, settings.EventsFile); err != nil {
			return err
		}
	}

	if !settings.MQTT.Enabled() {
		logger.Warn(ctx, "MQTT broker is not configured, the model only reflects startup events")
	} else {
		connector, err := openMQTT(ctx, svc, settings)
		if err != nil {
			return err
		}

		defer func() {
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settings.Timeout)
			defer cancel()

			if err := connector.Close(closeCtx); err != nil {
				logger.ErrorKV(ctx, "Failed to close MQTT connection", "error", err)
			}
		}()
	}

	return serve(ctx, svc, settings.ListenAddress)
}

// configureLogging applies the configured level, and the encoding when it is not the default.
func configureLogging(settings *config.Config) {
	if settings.LogEncoding == logger.EncodingJSON {
		logger.Setup(settings.LogLevel, settings.LogEncoding)

		return
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}
}

// replayFile feeds every event of the file into the service.
func replayFile(ctx context.Context, svc *service, path string) error {
	events, err := feed.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read startup events: %w", err)
	}

	for _, ev := range events {
		svc.Handle(ctx, ev)
	}

	logger.InfoKV(ctx, "Startup events processed", "file", path, "events", len(events))

	return nil
}

// openMQTT connects to the broker, wires it as the publisher and publishes the current model.
func openMQTT(ctx context.Context, svc *service, settings *config.Config) (*mqtt.Connector, error) {
	connector, err := mqtt.NewConnector(ctx, settings.MQTT, settings.Timeout, svc.Handle)
	if err != nil {
		return nil, fmt.Errorf("create mqtt connector: %w", err)
	}

	svc.setPublisher(connector)

	if err = connector.Open(ctx); err != nil {
		svc.setPublisher(nil)

		return nil, fmt.Errorf("open mqtt connection: %w", err)
	}

	logger.InfoKV(ctx, "Connected to MQTT broker", "broker", settings.MQTT.BrokerURL, "events_topic", connector.EventsTopic())

	svc.PublishSnapshot(ctx)

	return connector, nil
}

// serve runs the gRPC server until the context is done.
func serve(ctx context.Context, svc *service, listenAddress string) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	healthServer := health.NewServer()
	healthServer.SetServingStatus(panel.ServiceName, healthpb.HealthCheckResponse_SERVING)

	grpcServer := grpc.NewServer()
	panel.RegisterPanelServiceServer(grpcServer, panel.NewServer(svc))
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	logger.InfoKV(ctx, "Alarm monitor listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-panel/internal/logger"
)

// Config holds the settings of the alarm-panel binaries.
type Config struct {
	// InferArmingState keeps an armed state when the panel reports no arming flags.
	// Enable it for panels older than v5.8.
	InferArmingState bool `yaml:"infer_arming_state" env:"INFER_ARMING_STATE"`
	// ListenAddress is the gRPC address the monitor serves its state on.
	ListenAddress string `yaml:"listen_addr" env:"LISTEN_ADDR"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	// LogEncoding is either "console" or "json".
	LogEncoding string `yaml:"log_encoding" env:"LOG_ENCODING"`
	// EventsFile is an optional YAML file of events processed at startup.
	EventsFile string `yaml:"events_file,omitempty" env:"EVENTS_FILE"`
	// MQTT configures the broker events are read from and state is published to.
	MQTT MQTT `yaml:"mqtt" envPrefix:"MQTT_"`
}

// MQTT holds the broker settings. An empty BrokerURL disables MQTT.
type MQTT struct {
	// BrokerURL is the broker address, e.g. mqtt://127.0.0.1:1883.
	BrokerURL string `yaml:"broker_url" env:"BROKER_URL"`
	// ClientID is the MQTT client identifier. A random one is used when empty.
	ClientID string `yaml:"client_id,omitempty" env:"CLIENT_ID"`
	// TopicPrefix is prepended to every topic.
	TopicPrefix string `yaml:"topic_prefix" env:"TOPIC_PREFIX"`
	// QoS is the quality of service for subscriptions and publications.
	QoS byte `yaml:"qos" env:"QOS"`
	// KeepAlive is the keep-alive interval in seconds.
	KeepAlive uint16 `yaml:"keep_alive" env:"KEEP_ALIVE"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-panel-settings.yaml"

	// DefaultListenAddress is the default gRPC address of the monitor.
	DefaultListenAddress = "127.0.0.1:50551"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTopicPrefix is the default MQTT topic prefix.
	DefaultTopicPrefix = "alarm-panel"

	// DefaultKeepAlive is the default MQTT keep-alive in seconds.
	DefaultKeepAlive = 20

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600

	// EnvPrefix is the prefix of environment overrides.
	EnvPrefix = "ALARM_"

	// maxQoS is the highest MQTT quality of service level.
	maxQoS = 2
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errListenAddressRequired is returned when the listen address is missing.
	errListenAddressRequired = errors.New("listen address must be provided")
	// errInvalidQoS is returned for QoS values above 2.
	errInvalidQoS = errors.New("mqtt qos must be 0, 1 or 2")
	// errUnsupportedScheme is returned for broker URLs the client cannot dial.
	errUnsupportedScheme = errors.New("unsupported mqtt broker scheme")
	// errInvalidLogLevel is returned for level names zap does not know.
	errInvalidLogLevel = errors.New("unknown log level")
	// errInvalidLogEncoding is returned for encodings other than console and json.
	errInvalidLogEncoding = errors.New("log encoding must be console or json")
)

// brokerSchemes lists the broker URL schemes supported by the MQTT client.
//
//nolint:gochecknoglobals // Read-only lookup table.
var brokerSchemes = []string{"mqtt", "tcp", "mqtts", "ssl", "tls", "ws", "wss"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg) //nolint:errcheck // Defaults are always valid.

	return cfg
}

// Load reads configuration from the provided path, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv overrides settings with ALARM_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// Save writes settings to the provided path.
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

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the provided settings.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ListenAddress == "" {
		settings.ListenAddress = DefaultListenAddress
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, settings.LogLevel)
	}

	settings.LogEncoding = strings.ToLower(strings.TrimSpace(settings.LogEncoding))
	if settings.LogEncoding == "" {
		settings.LogEncoding = logger.EncodingConsole
	}

	if settings.LogEncoding != logger.EncodingConsole && settings.LogEncoding != logger.EncodingJSON {
		return fmt.Errorf("%w: %q", errInvalidLogEncoding, settings.LogEncoding)
	}

	if strings.TrimSpace(settings.ListenAddress) == "" {
		return errListenAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	return validateMQTT(&settings.MQTT)
}

// validateMQTT fills MQTT defaults and checks the broker URL when MQTT is enabled.
func validateMQTT(settings *MQTT) error {
	if settings.TopicPrefix == "" {
		settings.TopicPrefix = DefaultTopicPrefix
	}

	settings.TopicPrefix = strings.Trim(settings.TopicPrefix, "/")

	if settings.KeepAlive == 0 {
		settings.KeepAlive = DefaultKeepAlive
	}

	if settings.QoS > maxQoS {
		return errInvalidQoS
	}

	if settings.BrokerURL == "" {
		return nil
	}

	u, err := url.ParseRequestURI(settings.BrokerURL)
	if err != nil {
		return fmt.Errorf("invalid mqtt broker url: %w", err)
	}

	if !slices.Contains(brokerSchemes, strings.ToLower(u.Scheme)) {
		return fmt.Errorf("%w: %q", errUnsupportedScheme, u.Scheme)
	}

	return nil
}

// Enabled reports whether a broker is configured.
func (m *MQTT) Enabled() bool {
	return m.BrokerURL != ""
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Default values for the dashboard configuration.
const (
	DefaultHTTPPort     = 8080
	DefaultGRPCPort     = 50051
	DefaultPushInterval = 30 * time.Second
	DefaultDatasetPath  = "spacex_launch_dash.csv"
	DefaultSQLiteTable  = "launches"
	DefaultSliderMin    = 0
	DefaultSliderMax    = 10000
	DefaultSliderStep   = 1000
	DefaultServiceName  = "launchdash"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
)

// Config holds the dashboard configuration parsed from config.yaml, with
// LAUNCHDASH_* environment variables applied on top.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Slider    SliderConfig    `yaml:"slider"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	// HTTPPort serves the page, the REST API, /metrics and the WebSocket hub.
	HTTPPort int `yaml:"http_port" env:"LAUNCHDASH_HTTP_PORT"`

	// GRPCPort serves the dashboard RPC API. 0 disables the gRPC listener.
	GRPCPort int `yaml:"grpc_port" env:"LAUNCHDASH_GRPC_PORT"`

	// PushInterval is how often the WebSocket hub pings clients and re-sends
	// the dropdown options.
	PushInterval time.Duration `yaml:"push_interval" env:"LAUNCHDASH_PUSH_INTERVAL"`

	// UI toggles the HTML dashboard page at "/".
	UI bool `yaml:"ui" env:"LAUNCHDASH_UI"`
}

// DatasetConfig says where the launch records come from.
type DatasetConfig struct {
	// Path is the CSV file or SQLite database to load at startup.
	Path string `yaml:"path" env:"LAUNCHDASH_DATASET_PATH"`

	// Format is csv | sqlite. Empty means infer from the file extension.
	Format string `yaml:"format" env:"LAUNCHDASH_DATASET_FORMAT"`

	// Table is the SQLite table to read. Ignored for CSV.
	Table string `yaml:"table" env:"LAUNCHDASH_DATASET_TABLE"`

	// Watch reloads the dataset when the file changes. Off by default.
	Watch bool `yaml:"watch" env:"LAUNCHDASH_DATASET_WATCH"`
}

// SliderConfig is the fixed geometry of the payload range slider.
type SliderConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	// OTelEndpoint is the OTLP/HTTP traces URL. Empty disables tracing.
	OTelEndpoint string `yaml:"otel_endpoint" env:"LAUNCHDASH_OTEL_ENDPOINT"`

	// ServiceName is reported as service.name on every span.
	ServiceName string `yaml:"service_name" env:"LAUNCHDASH_SERVICE_NAME"`
}

// LogConfig controls the process-wide slog handler.
type LogConfig struct {
	// Level is debug | info | warn | error.
	Level string `yaml:"level" env:"LAUNCHDASH_LOG_LEVEL"`

	// Format is json | text.
	Format string `yaml:"format" env:"LAUNCHDASH_LOG_FORMAT"`
}

// Load reads and parses the config file at path, applies environment
// overrides and validates the result. Missing fields are filled with
// defaults first.
//
// When optional is true a missing file is not an error: defaults and
// environment variables are used on their own.
func Load(path string, optional bool) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("dashboard config: parse yaml: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("dashboard config: read %q: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("dashboard config: parse env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("dashboard config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:     DefaultHTTPPort,
			GRPCPort:     DefaultGRPCPort,
			PushInterval: DefaultPushInterval,
			UI:           true,
		},
		Dataset: DatasetConfig{
			Path:  DefaultDatasetPath,
			Table: DefaultSQLiteTable,
		},
		Slider: SliderConfig{
			Min:  DefaultSliderMin,
			Max:  DefaultSliderMax,
			Step: DefaultSliderStep,
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.GRPCPort < 0 || cfg.Server.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [0, 65535]", cfg.Server.GRPCPort)
	}
	if cfg.Server.GRPCPort != 0 && cfg.Server.GRPCPort == cfg.Server.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port must differ, both are %d", cfg.Server.HTTPPort)
	}
	if cfg.Server.PushInterval <= 0 {
		return fmt.Errorf("server.push_interval must be positive")
	}
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	switch cfg.Dataset.Format {
	case "csv", "sqlite", "":
	default:
		return fmt.Errorf("dataset.format %q unknown: want csv|sqlite", cfg.Dataset.Format)
	}
	if cfg.Slider.Min < 0 || cfg.Slider.Max <= cfg.Slider.Min {
		return fmt.Errorf("slider range [%v, %v] is invalid", cfg.Slider.Min, cfg.Slider.Max)
	}
	if cfg.Slider.Step < 0 {
		return fmt.Errorf("slider.step must not be negative")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q unknown: want json|text", cfg.Log.Format)
	}
	return nil
}

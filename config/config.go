package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"product-listing/telemetryfs"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config is read from an optional .env file, with environment variables taking precedence.
type Config struct {
	ServerAddr      string        `mapstructure:"SERVER_ADDR"`
	MetricsAddr     string        `mapstructure:"METRICS_ADDR"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	ServiceName       string  `mapstructure:"SERVICE_NAME"`
	ServiceNamespace  string  `mapstructure:"SERVICE_NAMESPACE"`
	CollectorEndpoint string  `mapstructure:"COLLECTOR_ENDPOINT"`
	Environment       string  `mapstructure:"DEPLOYMENT_ENVIRONMENT"`
	SamplingRatio     float64 `mapstructure:"SAMPLING_RATIO"`
	TracingEnabled    bool    `mapstructure:"TRACING_ENABLED"`

	RuntimeMetricsInterval time.Duration `mapstructure:"RUNTIME_METRICS_INTERVAL"`

	ProducerEnabled  bool          `mapstructure:"PRODUCER_ENABLED"`
	ProducerInterval time.Duration `mapstructure:"PRODUCER_INTERVAL"`
	ProducerTarget   string        `mapstructure:"PRODUCER_TARGET"`
}

var defaults = map[string]interface{}{
	"SERVER_ADDR":      ":8989",
	"METRICS_ADDR":     ":9191",
	"LOG_LEVEL":        "info",
	"SHUTDOWN_TIMEOUT": "10s",

	"SERVICE_NAME":           "product-listing",
	"SERVICE_NAMESPACE":      "catalog",
	"COLLECTOR_ENDPOINT":     "0.0.0.0:4317",
	"DEPLOYMENT_ENVIRONMENT": "production",
	"SAMPLING_RATIO":         1.0,
	"TRACING_ENABLED":        false,

	"RUNTIME_METRICS_INTERVAL": "1s",

	"PRODUCER_ENABLED":  false,
	"PRODUCER_INTERVAL": "2s",
	"PRODUCER_TARGET":   "http://0.0.0.0:8989/product",
}

// LoadConfig reads path/.env if present and overlays the process environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(filepath.Join(path, ".env"))
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return errors.New("SERVER_ADDR is required")
	}

	if c.MetricsAddr == "" {
		return errors.New("METRICS_ADDR is required")
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	if c.SamplingRatio < 0 || c.SamplingRatio > 1 {
		return fmt.Errorf("SAMPLING_RATIO must be within [0, 1], got %v", c.SamplingRatio)
	}

	for name, d := range map[string]time.Duration{
		"SHUTDOWN_TIMEOUT":         c.ShutdownTimeout,
		"RUNTIME_METRICS_INTERVAL": c.RuntimeMetricsInterval,
		"PRODUCER_INTERVAL":        c.ProducerInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	if c.ProducerEnabled && c.ProducerTarget == "" {
		return errors.New("PRODUCER_TARGET is required when the producer is enabled")
	}

	return nil
}

func (c *Config) Tracer() telemetryfs.TracerConfig {
	return telemetryfs.TracerConfig{
		Enabled:          c.TracingEnabled,
		ServiceName:      c.ServiceName,
		ServiceNamespace: c.ServiceNamespace,
		Endpoint:         c.CollectorEndpoint,
		Environment:      c.Environment,
		SamplingRatio:    c.SamplingRatio,
	}
}

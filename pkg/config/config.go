// Package config provides YAML-based configuration for seqfang.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/seqfang/pkg/observability"
	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
)

// Sentinel validation errors.
var (
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrInvalidMaxSize  = errors.New("invalid input max size")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config is the top-level configuration struct for seqfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Mining    prefixspan.Config `mapstructure:"mining"`
	Input     InputConfig       `mapstructure:"input"`
	Output    OutputConfig      `mapstructure:"output"`
	Logging   LoggingConfig     `mapstructure:"logging"`
	Telemetry TelemetryConfig   `mapstructure:"telemetry"`
}

// InputConfig bounds what the loader accepts.
type InputConfig struct {
	MaxSize string `mapstructure:"max_size"`
}

// OutputConfig selects where and how patterns are written.
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
	Plot   string `mapstructure:"plot"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Validate checks every section.
func (c *Config) Validate() error {
	err := c.Mining.Validate()
	if err != nil {
		return err
	}

	if !slices.Contains(report.Formats(), c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	_, err = c.MaxInputBytes()
	if err != nil {
		return err
	}

	_, err = observability.ParseLogLevel(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return nil
}

// MaxInputBytes parses Input.MaxSize ("1GB", "512 MiB"). Zero means unlimited.
func (c *Config) MaxInputBytes() (uint64, error) {
	if c.Input.MaxSize == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(c.Input.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxSize, c.Input.MaxSize, err)
	}

	return n, nil
}

// Observability builds the telemetry settings for the given mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	obs := observability.DefaultConfig()
	obs.Mode = mode
	obs.ServiceVersion = version
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.OTLPInsecure = c.Telemetry.OTLPInsecure
	obs.MetricsFile = c.Telemetry.MetricsFile
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.LogJSON = c.Logging.JSON

	level, err := observability.ParseLogLevel(c.Logging.Level)
	if err == nil {
		obs.LogLevel = level
	}

	return obs
}

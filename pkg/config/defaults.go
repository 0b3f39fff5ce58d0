package config

import (
	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
)

// Input defaults.
const (
	DefaultInputMaxSize = "1GB"
)

// Output defaults.
const (
	DefaultOutputPath   = ""
	DefaultOutputFormat = report.FormatText
	DefaultOutputPlot   = ""
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPHeaders  = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetryMetricsFile  = ""
	DefaultTelemetrySampleRatio  = 0.0
)

// Mining defaults mirror prefixspan.DefaultConfig.
const (
	DefaultMiningMaxPatternLength = prefixspan.DefaultMaxPatternLength
	DefaultMiningMinPatternLength = prefixspan.DefaultMinPatternLength
	DefaultMiningMinSupport       = prefixspan.DefaultMinSupport
)

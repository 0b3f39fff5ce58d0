package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// prometheusReader creates an OTel reader backed by a fresh Prometheus
// registry, so repeated calls never collide on collector registration.
func prometheusReader() (*prometheus.Registry, sdkmetric.Reader, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return registry, exporter, nil
}

// WriteMetricsFile gathers registry and writes it atomically to path in the
// Prometheus text exposition format, as read by the node exporter textfile
// collector.
func WriteMetricsFile(path string, registry prometheus.Gatherer) error {
	err := prometheus.WriteToTextfile(path, registry)
	if err != nil {
		return fmt.Errorf("write metrics file %s: %w", path, err)
	}

	return nil
}

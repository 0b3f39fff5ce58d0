package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRunsTotal      = "seqfang.runs.total"
	metricRunDuration    = "seqfang.run.duration.seconds"
	metricPatternsTotal  = "seqfang.patterns.total"
	metricFrequentItems  = "seqfang.frequent.items"
	metricRunErrorsTotal = "seqfang.run.errors.total"

	metricRequestsTotal    = "seqfang.requests.total"
	metricRequestDuration  = "seqfang.request.duration.seconds"
	metricInflightRequests = "seqfang.requests.inflight"

	attrAlgorithm = "algorithm"
	attrStatus    = "status"
	attrOp        = "op"

	// StatusOK marks a successful request.
	StatusOK = "ok"
	// StatusError marks a failed request.
	StatusError = "error"
)

// durationBucketBoundaries covers 1ms to 30min for mining runs.
var durationBucketBoundaries = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 1800}

// MiningMetrics holds the instruments describing mining runs.
type MiningMetrics struct {
	runsTotal     metric.Int64Counter
	runDuration   metric.Float64Histogram
	patternsTotal metric.Int64Counter
	frequentItems metric.Int64Gauge
	errorsTotal   metric.Int64Counter
}

// NewMiningMetrics creates the run instruments from the given meter.
func NewMiningMetrics(mt metric.Meter) (*MiningMetrics, error) {
	runsTotal, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Total number of mining runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	runDuration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Mining run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	patternsTotal, err := mt.Int64Counter(metricPatternsTotal,
		metric.WithDescription("Total number of emitted patterns"),
		metric.WithUnit("{pattern}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPatternsTotal, err)
	}

	frequentItems, err := mt.Int64Gauge(metricFrequentItems,
		metric.WithDescription("Frequent items found by the last run"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFrequentItems, err)
	}

	errorsTotal, err := mt.Int64Counter(metricRunErrorsTotal,
		metric.WithDescription("Total number of failed mining runs"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunErrorsTotal, err)
	}

	return &MiningMetrics{
		runsTotal:     runsTotal,
		runDuration:   runDuration,
		patternsTotal: patternsTotal,
		frequentItems: frequentItems,
		errorsTotal:   errorsTotal,
	}, nil
}

// RecordRun records one completed or failed run.
func (mm *MiningMetrics) RecordRun(
	ctx context.Context, algorithm string, patterns, frequentItems int, elapsed time.Duration, runErr error,
) {
	status := StatusOK
	if runErr != nil {
		status = StatusError
	}

	algo := metric.WithAttributes(attribute.String(attrAlgorithm, algorithm))

	mm.runsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrAlgorithm, algorithm),
		attribute.String(attrStatus, status),
	))
	mm.runDuration.Record(ctx, elapsed.Seconds(), algo)
	mm.patternsTotal.Add(ctx, int64(patterns), algo)
	mm.frequentItems.Record(ctx, int64(frequentItems), algo)

	if runErr != nil {
		mm.errorsTotal.Add(ctx, 1, algo)
	}
}

// REDMetrics holds the Rate, Error, Duration instruments for MCP tool calls.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates the request instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		inflightRequests: inflight,
	}, nil
}

// RecordRequest records one finished request.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

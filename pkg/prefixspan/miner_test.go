package prefixspan_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/seqfang/pkg/observability"
	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
)

var errSinkFull = errors.New("sink full")

type limitedReporter struct {
	accepted int
	limit    int
}

func (l *limitedReporter) Report(report.Pattern) error {
	if l.accepted >= l.limit {
		return errSinkFull
	}

	l.accepted++

	return nil
}

func (l *limitedReporter) Close() error { return nil }

func loadDB(t *testing.T, text string) *seqdb.Database {
	t.Helper()

	db, err := seqdb.Load(strings.NewReader(text))
	require.NoError(t, err)

	return db
}

func mineAll(t *testing.T, text string, cfg prefixspan.Config) ([]report.Pattern, prefixspan.Result) {
	t.Helper()

	collector := &report.Collector{}

	m, err := prefixspan.New(cfg, collector)
	require.NoError(t, err)

	res, err := m.Run(context.Background(), loadDB(t, text))
	require.NoError(t, err)

	return collector.Patterns(), res
}

func renderAll(patterns []report.Pattern) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, p.String())
	}

	return out
}

const singleItemDB = "1,-1,2,-1,3,-2\n1,-1,3,-2\n4,-2\n"

func TestRun_SingleItemDatabase(t *testing.T) {
	t.Parallel()

	patterns, res := mineAll(t, singleItemDB, prefixspan.DefaultConfig())

	assert.Equal(t, []report.Pattern{
		{Itemsets: [][]int{{1}}, Support: 2},
		{Itemsets: [][]int{{1}, {3}}, Support: 2},
		{Itemsets: [][]int{{3}}, Support: 2},
	}, patterns)

	assert.Equal(t, prefixspan.AlgorithmFlat, res.Algorithm)
	assert.Equal(t, 3, res.PatternCount)
	assert.Equal(t, 3, res.SequenceCount)
	assert.Equal(t, 2, res.MinSupportAbs)
	assert.Equal(t, 2, res.FrequentItems)
}

func TestRun_MultiItemDatabase(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 1

	patterns, res := mineAll(t, "1,2,-1,3,-2\n", cfg)

	assert.Equal(t, []string{
		"{1}", "{1 2}", "{1 2} {3}", "{1} {3}", "{2}", "{2} {3}", "{3}",
	}, renderAll(patterns))

	for _, p := range patterns {
		assert.Equal(t, 1, p.Support)
	}

	assert.Equal(t, prefixspan.AlgorithmItemset, res.Algorithm)
	assert.Equal(t, 7, res.PatternCount)
}

func TestRun_MinLengthGatesOutputOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer, err := report.NewWriter(&buf, report.FormatText)
	require.NoError(t, err)

	cfg := prefixspan.DefaultConfig()
	cfg.MinPatternLength = 2

	m, err := prefixspan.New(cfg, writer)
	require.NoError(t, err)

	res, err := m.Run(context.Background(), loadDB(t, singleItemDB))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	assert.Equal(t, 1, res.PatternCount)
	assert.Equal(t, "{1} {3}                        #SUP: 2\n", buf.String())
}

func TestRun_MaxLengthOne(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()
	cfg.MaxPatternLength = 1

	patterns, _ := mineAll(t, singleItemDB, cfg)

	assert.Equal(t, []string{"{1}", "{3}"}, renderAll(patterns))
}

func TestRun_MaxLengthBoundsItemCount(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 1
	cfg.MaxPatternLength = 2

	patterns, _ := mineAll(t, "1,2,-1,3,-1,4,-2\n", cfg)

	for _, p := range patterns {
		assert.LessOrEqual(t, p.Length(), 2, p.String())
	}

	assert.Contains(t, renderAll(patterns), "{1 2}")
	assert.Contains(t, renderAll(patterns), "{3} {4}")
}

func TestRun_NothingFrequent(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 1

	patterns, res := mineAll(t, "1,-2\n2,-2\n", cfg)

	assert.Empty(t, patterns)
	assert.Zero(t, res.PatternCount)
	assert.Zero(t, res.FrequentItems)
}

func TestRun_EmptyDatabase(t *testing.T) {
	t.Parallel()

	patterns, res := mineAll(t, "", prefixspan.DefaultConfig())

	assert.Empty(t, patterns)
	assert.Equal(t, 1, res.MinSupportAbs)
}

func TestRun_EmptyLinesCountTowardsSupport(t *testing.T) {
	t.Parallel()

	patterns, res := mineAll(t, "1,-2\n,,\n,\n", prefixspan.DefaultConfig())

	assert.Equal(t, 3, res.SequenceCount)
	assert.Equal(t, 2, res.MinSupportAbs)
	assert.Empty(t, patterns)
}

func TestRun_RepeatedItemsCountOncePerSequence(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 1

	patterns, _ := mineAll(t, "5,-1,5,-1,5,-2\n5,-2\n", cfg)

	require.NotEmpty(t, patterns)
	assert.Equal(t, report.Pattern{Itemsets: [][]int{{5}}, Support: 2}, patterns[0])
	assert.Len(t, patterns, 1)
}

func TestRun_NoDuplicatePatterns(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 0.25

	text := "1,2,-1,1,3,-1,2,-2\n1,-1,2,3,-1,1,2,-2\n2,3,-1,1,-1,2,-2\n1,2,3,-2\n"
	patterns, _ := mineAll(t, text, cfg)

	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		key := p.String()
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	text := "1,2,-1,3,-1,1,-2\n2,-1,3,1,-2\n1,-1,3,-2\n"
	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 0.3

	first, _ := mineAll(t, text, cfg)
	second, _ := mineAll(t, text, cfg)

	assert.Equal(t, first, second)
}

func TestRun_AntiMonotoneSupport(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 0.2

	text := "1,-1,2,-1,3,-2\n1,-1,3,-1,2,-2\n2,-1,3,-2\n1,-1,2,-2\n3,-1,1,-2\n"
	patterns, _ := mineAll(t, text, cfg)
	supports := make(map[string]int, len(patterns))

	for _, p := range patterns {
		supports[p.String()] = p.Support
	}

	for _, p := range patterns {
		if len(p.Itemsets) < 2 {
			continue
		}

		parent := report.Pattern{Itemsets: p.Itemsets[:len(p.Itemsets)-1]}
		parentSupport, ok := supports[parent.String()]
		require.True(t, ok, "parent of %s reported", p)
		assert.GreaterOrEqual(t, parentSupport, p.Support, p.String())
	}
}

func TestRun_ReporterErrorAborts(t *testing.T) {
	t.Parallel()

	sink := &limitedReporter{limit: 1}

	m, err := prefixspan.New(prefixspan.DefaultConfig(), sink)
	require.NoError(t, err)

	_, err = m.Run(context.Background(), loadDB(t, singleItemDB))
	require.ErrorIs(t, err, errSinkFull)
	assert.Equal(t, 1, sink.accepted)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := prefixspan.New(prefixspan.DefaultConfig(), nil)
	require.ErrorIs(t, err, report.ErrNoOutput)

	cfg := prefixspan.DefaultConfig()
	cfg.MinSupport = 2

	_, err = prefixspan.New(cfg, &report.Collector{})
	require.ErrorIs(t, err, prefixspan.ErrInvalidSupport)
}

func TestRun_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	mm, err := observability.NewMiningMetrics(mp.Meter("test"))
	require.NoError(t, err)

	m, err := prefixspan.New(prefixspan.DefaultConfig(), &report.Collector{},
		prefixspan.WithMetrics(mm),
		prefixspan.WithLogger(observability.DiscardLogger()),
	)
	require.NoError(t, err)

	_, err = m.Run(context.Background(), loadDB(t, singleItemDB))
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	var patterns int64

	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			if sum, ok := met.Data.(metricdata.Sum[int64]); ok && met.Name == "seqfang.patterns.total" {
				patterns = sum.DataPoints[0].Value
			}
		}
	}

	assert.Equal(t, int64(3), patterns)
}

func TestRun_RecordsSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	m, err := prefixspan.New(prefixspan.DefaultConfig(), &report.Collector{},
		prefixspan.WithTracer(tp.Tracer("test")),
	)
	require.NoError(t, err)

	_, err = m.Run(context.Background(), loadDB(t, singleItemDB))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "prefixspan.run", spans[0].Name())

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}

	assert.Equal(t, "flat", attrs["prefixspan.algorithm"])
	assert.Equal(t, "3", attrs["prefixspan.patterns"])
	assert.Equal(t, "3", attrs["prefixspan.sequences"])
}
